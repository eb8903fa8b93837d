package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "EXTRACTION_SERVICE_URL", "AI_SERVICE_URL", "EXTRACTION_TIMEOUT", "MAX_FILE_SIZE", "DB_DRIVER"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DefaultExtractionURL, cfg.Extraction.URL)
	assert.Equal(t, "http://localhost:8000/process", cfg.Extraction.URL)
	assert.Equal(t, 60*time.Second, cfg.Extraction.Timeout)
	assert.EqualValues(t, 10485760, cfg.Storage.MaxFileSize)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("EXTRACTION_SERVICE_URL", "http://ai:9000/process")
	t.Setenv("EXTRACTION_TIMEOUT", "5s")
	t.Setenv("MAX_FILE_SIZE", "1024")
	t.Setenv("DB_SSLMODE", "require")

	cfg := Load()

	assert.Equal(t, "http://ai:9000/process", cfg.Extraction.URL)
	assert.Equal(t, 5*time.Second, cfg.Extraction.Timeout)
	assert.EqualValues(t, 1024, cfg.Storage.MaxFileSize)
	assert.Contains(t, cfg.GetDatabaseDSN(), "sslmode=require")
}

func TestLoad_LegacyURLAndBadValues(t *testing.T) {
	t.Setenv("EXTRACTION_SERVICE_URL", "")
	t.Setenv("AI_SERVICE_URL", "http://legacy:8000/process")
	t.Setenv("EXTRACTION_TIMEOUT", "soon")
	t.Setenv("MAX_FILE_SIZE", "big")

	cfg := Load()

	assert.Equal(t, "http://legacy:8000/process", cfg.Extraction.URL)
	assert.Equal(t, 60*time.Second, cfg.Extraction.Timeout)
	assert.EqualValues(t, 10485760, cfg.Storage.MaxFileSize)
}

func TestInitDatabase_SQLite(t *testing.T) {
	cfg := &Config{
		Server:   ServerConfig{Env: "test"},
		Database: DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"},
	}

	db, err := InitDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	assert.True(t, db.Migrator().HasTable("files"))
	assertColumns(t, db, "id", "file_name", "status", "raw_text", "extracted_json", "uploaded_at")
}

func TestInitDatabase_UnknownDriver(t *testing.T) {
	_, err := InitDatabase(&Config{Database: DatabaseConfig{Driver: "oracle"}})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func assertColumns(t *testing.T, db *gorm.DB, columns ...string) {
	t.Helper()
	for _, column := range columns {
		assert.True(t, db.Migrator().HasColumn("files", column), "missing column %s", column)
	}
}
