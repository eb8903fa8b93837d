package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/textract/internal/models"
)

var ErrFileNotFound = errors.New("file record not found")

type FileRepository interface {
	Create(ctx context.Context, file *models.FileRecord) error
	Save(ctx context.Context, file *models.FileRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.FileRecord, error)
	FindAll(ctx context.Context) ([]models.FileRecord, error)
	Count(ctx context.Context) (int64, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

// Create implements FileRepository. The record's ID is assigned here.
func (r *fileRepository) Create(ctx context.Context, file *models.FileRecord) error {
	if file.ID != uuid.Nil {
		return fmt.Errorf("failed to create file record: id %s already assigned", file.ID)
	}
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("failed to create file record: %w", err)
	}
	return nil
}

// Save implements FileRepository. It rewrites every column of an existing
// record except uploaded_at.
func (r *fileRepository) Save(ctx context.Context, file *models.FileRecord) error {
	if file.ID == uuid.Nil {
		return fmt.Errorf("failed to save file record: missing id")
	}

	result := r.db.WithContext(ctx).
		Model(&models.FileRecord{}).
		Where("id = ?", file.ID).
		Select("*").
		Omit("id", "uploaded_at").
		Updates(file)

	if result.Error != nil {
		return fmt.Errorf("failed to save file record: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrFileNotFound
	}

	return nil
}

// FindByID implements FileRepository.
func (r *fileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.FileRecord, error) {
	var file models.FileRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file record: %w", err)
	}
	return &file, nil
}

// FindAll implements FileRepository. Records come back in upload order.
func (r *fileRepository) FindAll(ctx context.Context) ([]models.FileRecord, error) {
	files := []models.FileRecord{}
	if err := r.db.WithContext(ctx).Order("uploaded_at ASC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("failed to list file records: %w", err)
	}
	return files, nil
}

// Count implements FileRepository.
func (r *fileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FileRecord{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count file records: %w", err)
	}
	return count, nil
}
