package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/textract/internal/repositories"
)

type FileHandler struct {
	fileRepo repositories.FileRepository
}

func NewFileHandler(fileRepo repositories.FileRepository) *FileHandler {
	return &FileHandler{
		fileRepo: fileRepo,
	}
}

// HandleList handles GET /api/files
func (h *FileHandler) HandleList(c *fiber.Ctx) error {
	files, err := h.fileRepo.FindAll(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list files",
		})
	}

	return c.JSON(files)
}

// HandleGet handles GET /api/files/:id
func (h *FileHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid file ID format",
		})
	}

	file, err := h.fileRepo.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrFileNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "File not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load file",
		})
	}

	return c.JSON(file)
}
