package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App, uploadHandler *UploadHandler, fileHandler *FileHandler) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	files := api.Group("/files")
	files.Post("/upload", uploadHandler.HandleUpload)
	files.Get("/", fileHandler.HandleList)
	files.Get("/:id", fileHandler.HandleGet)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Textract API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/files/upload",
				"GET /api/files",
				"GET /api/files/:id",
			},
		})
	})
}

// ErrorHandler renders unhandled errors as {"error", "code"}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
