package models

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxRawTextLength bounds the rawText column. Longer text is truncated on a
// rune boundary before it is stored.
const MaxRawTextLength = 5000

// ErrorTextPrefix marks rawText values that carry a failure description.
const ErrorTextPrefix = "Error: "

var ErrInvalidTransition = errors.New("invalid status transition")

type FileStatus string

const (
	// StatusUploaded is never written by the synchronous upload flow.
	StatusUploaded   FileStatus = "UPLOADED"
	StatusProcessing FileStatus = "PROCESSING"
	StatusCompleted  FileStatus = "COMPLETED"
	StatusFailed     FileStatus = "FAILED"
)

func (s FileStatus) IsValid() bool {
	switch s {
	case StatusUploaded, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s FileStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransitionTo reports whether a record in status s may move to next.
func (s FileStatus) CanTransitionTo(next FileStatus) bool {
	switch s {
	case StatusUploaded:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	case StatusCompleted, StatusFailed:
		return false
	default:
		return false
	}
}

type FileRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	FileName      string     `gorm:"type:text" json:"fileName"`
	Status        FileStatus `gorm:"type:text;not null" json:"status"`
	RawText       string     `gorm:"type:varchar(5000)" json:"rawText"`
	ExtractedJSON *string    `gorm:"type:text" json:"extractedJson"`
	ErrorMessage  *string    `gorm:"type:text" json:"errorMessage,omitempty"`
	ContentType   string     `gorm:"type:text" json:"contentType"`
	FileSize      int64      `json:"fileSize"`
	PageCount     *int       `json:"pageCount,omitempty"`
	UploadedAt    time.Time  `gorm:"type:timestamp;not null;index" json:"uploadedAt"`
}

func (FileRecord) TableName() string {
	return "files"
}

// BeforeCreate assigns the identifier on first persistence.
func (f *FileRecord) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.UploadedAt.IsZero() {
		f.UploadedAt = time.Now()
	}
	return nil
}

// NewProcessingRecord builds the record as it is first persisted.
func NewProcessingRecord(fileName string, now time.Time) *FileRecord {
	return &FileRecord{
		FileName:   fileName,
		Status:     StatusProcessing,
		UploadedAt: now,
	}
}

func (f *FileRecord) transition(next FileStatus) error {
	if !f.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.Status, next)
	}
	f.Status = next
	return nil
}

// Complete finalizes a processing record with the extraction output.
// extractedJSON may be nil when the service returned no structured data.
func (f *FileRecord) Complete(rawText string, extractedJSON *string) error {
	if err := f.transition(StatusCompleted); err != nil {
		return err
	}
	f.RawText = TruncateText(rawText, MaxRawTextLength)
	f.ExtractedJSON = extractedJSON
	f.ErrorMessage = nil
	return nil
}

// Fail finalizes a processing record with a failure description. The message
// goes to ErrorMessage and, prefixed, to RawText for existing consumers.
func (f *FileRecord) Fail(message string) error {
	if err := f.transition(StatusFailed); err != nil {
		return err
	}
	f.RawText = TruncateText(ErrorTextPrefix+message, MaxRawTextLength)
	f.ErrorMessage = &message
	return nil
}

// TruncateText cuts s to at most limit runes.
func TruncateText(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
