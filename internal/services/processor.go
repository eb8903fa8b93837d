package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"alfredoptarigan/textract/internal/models"
	"alfredoptarigan/textract/internal/repositories"
)

type FileProcessor interface {
	ProcessFile(ctx context.Context, data []byte, fileName string) (*models.FileRecord, error)
}

type fileProcessor struct {
	fileRepo  repositories.FileRepository
	extractor ExtractionClient
	inspector DocumentInspector
	now       func() time.Time
}

func NewFileProcessor(
	fileRepo repositories.FileRepository,
	extractor ExtractionClient,
	inspector DocumentInspector,
) FileProcessor {
	return &fileProcessor{
		fileRepo:  fileRepo,
		extractor: extractor,
		inspector: inspector,
		now:       time.Now,
	}
}

// ProcessFile persists a PROCESSING record, runs extraction and persists the
// terminal state. Extraction failures end up in the record; only persistence
// failures are returned.
func (p *fileProcessor) ProcessFile(ctx context.Context, data []byte, fileName string) (*models.FileRecord, error) {
	record := models.NewProcessingRecord(fileName, p.now())
	if p.inspector != nil {
		info := p.inspector.Inspect(data, fileName)
		record.ContentType = info.ContentType
		record.FileSize = info.Size
		record.PageCount = info.PageCount
	} else {
		record.FileSize = int64(len(data))
	}

	if err := p.fileRepo.Create(ctx, record); err != nil {
		return nil, &PersistenceError{Op: "create file record", Err: err}
	}

	log.Printf("🔄 Processing file %s (%s, %d bytes)\n", record.ID, fileName, len(data))

	if err := p.applyExtraction(ctx, record, data, fileName); err != nil {
		return nil, err
	}

	if err := p.fileRepo.Save(ctx, record); err != nil {
		return nil, &PersistenceError{Op: "save file record", Err: err}
	}

	switch record.Status {
	case models.StatusCompleted:
		log.Printf("✅ File %s completed\n", record.ID)
	case models.StatusFailed:
		log.Printf("❌ File %s failed: %s\n", record.ID, *record.ErrorMessage)
	}

	return record, nil
}

func (p *fileProcessor) applyExtraction(ctx context.Context, record *models.FileRecord, data []byte, fileName string) error {
	result, err := p.extractor.Extract(ctx, data, fileName)
	if err != nil {
		return record.Fail(extractionMessage(err))
	}

	extracted, err := serializeExtractedData(result.ExtractedData)
	if err != nil {
		return record.Fail(extractionMessage(err))
	}

	return record.Complete(result.RawText, extracted)
}

func serializeExtractedData(data json.RawMessage) (*string, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, &ExtractionError{
			Message: fmt.Sprintf("failed to serialize extracted data: %v", err),
			Err:     err,
		}
	}

	s := buf.String()
	return &s, nil
}

func extractionMessage(err error) string {
	var extractionErr *ExtractionError
	if errors.As(err, &extractionErr) {
		return extractionErr.Message
	}
	return err.Error()
}
