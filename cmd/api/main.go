package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/textract/internal/config"
	"alfredoptarigan/textract/internal/handlers"
	"alfredoptarigan/textract/internal/repositories"
	"alfredoptarigan/textract/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	fileRepo := repositories.NewFileRepository(db)
	log.Println("✅ Repositories initialized successfully")

	extractionClient := services.NewExtractionClient(cfg.Extraction.URL, cfg.Extraction.Timeout)
	log.Printf("✅ Extraction client targeting %s (timeout %s)\n", cfg.Extraction.URL, cfg.Extraction.Timeout)

	processor := services.NewFileProcessor(
		fileRepo,
		extractionClient,
		services.NewDocumentInspector(),
	)
	log.Println("✅ Services initialized successfully")

	uploadHandler := handlers.NewUploadHandler(processor)
	fileHandler := handlers.NewFileHandler(fileRepo)
	log.Println("✅ Handlers initialized")

	// Upload handling blocks on extraction, so the write timeout must outlast it.
	app := fiber.New(fiber.Config{
		AppName:      "Textract API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Extraction.Timeout + 30*time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.SetupRoutes(app, uploadHandler, fileHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
