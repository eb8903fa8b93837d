package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// ExtractionFormField is the multipart part carrying the document.
const ExtractionFormField = "file"

type ExtractionClient interface {
	Extract(ctx context.Context, data []byte, fileName string) (*ExtractionResult, error)
}

// ExtractionResult is the extraction service's reply. ExtractedData is nil
// when the service returned no structured data or a JSON null.
type ExtractionResult struct {
	RawText       string
	ExtractedData json.RawMessage
}

type extractionResponse struct {
	RawText       *string         `json:"raw_text"`
	ExtractedData json.RawMessage `json:"extracted_data"`
}

type extractionClient struct {
	url     string
	timeout time.Duration
}

func NewExtractionClient(url string, timeout time.Duration) ExtractionClient {
	return &extractionClient{
		url:     url,
		timeout: timeout,
	}
}

// Extract implements ExtractionClient. Every failure is an *ExtractionError.
func (e *extractionClient) Extract(ctx context.Context, data []byte, fileName string) (*ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, newExtractionError("request cancelled", err)
	}

	agent := fiber.Post(e.url)
	if timeout := e.effectiveTimeout(ctx); timeout > 0 {
		agent.Timeout(timeout)
	}
	agent.FileData(&fiber.FormFile{
		Fieldname: ExtractionFormField,
		Name:      fileName,
		Content:   data,
	}).MultipartForm(nil)

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, newExtractionError("invalid extraction service url", err)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, newExtractionError("extraction request failed", errs[0])
	}

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, &ExtractionError{
			Message: fmt.Sprintf("extraction service returned status %d: %s", code, snippet(body)),
		}
	}

	return parseExtractionResponse(body)
}

func (e *extractionClient) effectiveTimeout(ctx context.Context) time.Duration {
	timeout := e.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func parseExtractionResponse(body []byte) (*ExtractionResult, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ExtractionError{
			Message: fmt.Sprintf("extraction service returned a non-object body: %s", snippet(body)),
		}
	}

	var resp extractionResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, newExtractionError("failed to parse extraction response", err)
	}

	result := &ExtractionResult{}
	if resp.RawText != nil {
		result.RawText = *resp.RawText
	}
	if len(resp.ExtractedData) > 0 && !bytes.Equal(bytes.TrimSpace(resp.ExtractedData), []byte("null")) {
		result.ExtractedData = resp.ExtractedData
	}

	return result, nil
}

func newExtractionError(what string, err error) *ExtractionError {
	return &ExtractionError{
		Message: fmt.Sprintf("%s: %v", what, err),
		Err:     err,
	}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
