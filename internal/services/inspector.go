package services

import (
	"bytes"
	"fmt"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

type DocumentInspector interface {
	Inspect(data []byte, fileName string) *DocumentInfo
}

type DocumentInfo struct {
	ContentType string
	Size        int64
	// PageCount is set for readable PDF documents only.
	PageCount *int
}

type documentInspector struct{}

func NewDocumentInspector() DocumentInspector {
	return &documentInspector{}
}

// Inspect never fails; metadata it cannot determine is left empty.
func (d *documentInspector) Inspect(data []byte, fileName string) *DocumentInfo {
	info := &DocumentInfo{
		ContentType: detectContentType(data, fileName),
		Size:        int64(len(data)),
	}

	if info.ContentType != "application/pdf" {
		return info
	}

	pages, err := countPDFPages(data)
	if err != nil {
		log.Printf("⚠️  Could not read PDF %q: %v\n", fileName, err)
		return info
	}
	info.PageCount = &pages

	return info
}

func detectContentType(data []byte, fileName string) string {
	sniffed := http.DetectContentType(data)
	if idx := strings.Index(sniffed, ";"); idx != -1 {
		sniffed = sniffed[:idx]
	}
	if sniffed != "application/octet-stream" && sniffed != "text/plain" {
		return sniffed
	}

	byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if idx := strings.Index(byExt, ";"); idx != -1 {
		byExt = byExt[:idx]
	}
	if byExt != "" {
		return byExt
	}
	return sniffed
}

func countPDFPages(data []byte) (pages int, err error) {
	// The reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}

	return r.NumPage(), nil
}
