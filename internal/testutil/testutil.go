// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/textract/internal/config"
	"alfredoptarigan/textract/internal/models"
)

// NewTestDB opens a migrated in-memory SQLite database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection would otherwise get its own empty database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	return db
}

// ExtractionRequest is what a fake extraction service received.
type ExtractionRequest struct {
	FieldNames []string
	FileName   string
	Content    []byte
}

// ExtractionServer is an httptest stand-in for the extraction service.
type ExtractionServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []ExtractionRequest
}

// NewExtractionServer answers every upload with status and body.
func NewExtractionServer(t *testing.T, status int, body string) *ExtractionServer {
	t.Helper()

	s := &ExtractionServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := ExtractionRequest{}
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			for name := range r.MultipartForm.File {
				req.FieldNames = append(req.FieldNames, name)
			}
			if file, header, err := r.FormFile("file"); err == nil {
				req.FileName = header.Filename
				req.Content, _ = io.ReadAll(file)
				file.Close()
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, req)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)

	return s
}

// NewJSONExtractionServer answers every upload with 200 and payload as JSON.
func NewJSONExtractionServer(t *testing.T, payload any) *ExtractionServer {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return NewExtractionServer(t, http.StatusOK, string(body))
}

func (s *ExtractionServer) Requests() []ExtractionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ExtractionRequest(nil), s.requests...)
}

// UnreachableURL returns the address of a server that has already stopped.
func UnreachableURL(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/process"
	srv.Close()
	return url
}

var ErrStoreDown = errors.New("store unavailable")

// FailingFileRepository fails Create or Save on demand.
type FailingFileRepository struct {
	FailCreate bool
	FailSave   bool

	mu      sync.Mutex
	created []*models.FileRecord
}

func (f *FailingFileRepository) Create(_ context.Context, file *models.FileRecord) error {
	if f.FailCreate {
		return ErrStoreDown
	}
	if err := file.BeforeCreate(nil); err != nil {
		return err
	}
	f.mu.Lock()
	f.created = append(f.created, file)
	f.mu.Unlock()
	return nil
}

func (f *FailingFileRepository) Save(_ context.Context, _ *models.FileRecord) error {
	if f.FailSave {
		return ErrStoreDown
	}
	return nil
}

func (f *FailingFileRepository) FindByID(_ context.Context, _ uuid.UUID) (*models.FileRecord, error) {
	return nil, ErrStoreDown
}

func (f *FailingFileRepository) FindAll(_ context.Context) ([]models.FileRecord, error) {
	return nil, ErrStoreDown
}

func (f *FailingFileRepository) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.created)), nil
}
