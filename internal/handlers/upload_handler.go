package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/textract/internal/services"
)

const uploadFormField = "file"

var (
	ErrMissingFile = errors.New("no file part in request")
	ErrEmptyFile   = errors.New("uploaded file is empty")
)

type UploadHandler struct {
	processor services.FileProcessor
}

func NewUploadHandler(processor services.FileProcessor) *UploadHandler {
	return &UploadHandler{
		processor: processor,
	}
}

// HandleUpload handles POST /api/files/upload. The response is 200 with the
// finalized record whether extraction completed or failed.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile(uploadFormField)
	if err != nil {
		log.Printf("⚠️  Rejected upload: %v\n", ErrMissingFile)
		return c.Status(fiber.StatusBadRequest).Send(nil)
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		if errors.Is(err, ErrEmptyFile) {
			log.Printf("⚠️  Rejected upload %q: %v\n", fileHeader.Filename, err)
			return c.Status(fiber.StatusBadRequest).Send(nil)
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	record, err := h.processor.ProcessFile(c.UserContext(), data, fileHeader.Filename)
	if err != nil {
		log.Printf("❌ Failed to process upload %q: %v\n", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to persist file record",
			"code":  fiber.StatusInternalServerError,
		})
	}

	return c.Status(fiber.StatusOK).JSON(record)
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	return data, nil
}
