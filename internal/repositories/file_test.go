package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/textract/internal/models"
	"alfredoptarigan/textract/internal/testutil"
)

func newRepo(t *testing.T) FileRepository {
	t.Helper()
	return NewFileRepository(testutil.NewTestDB(t))
}

func TestFileRepository_CreateAssignsID(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	record := models.NewProcessingRecord("report.pdf", time.Now())
	require.NoError(t, repo.Create(ctx, record))
	assert.NotEqual(t, uuid.Nil, record.ID)

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", found.FileName)
	assert.Equal(t, models.StatusProcessing, found.Status)
	assert.Nil(t, found.ExtractedJSON)
}

func TestFileRepository_CreateRejectsAssignedID(t *testing.T) {
	repo := newRepo(t)

	record := models.NewProcessingRecord("report.pdf", time.Now())
	record.ID = uuid.New()

	assert.Error(t, repo.Create(context.Background(), record))

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestFileRepository_SaveFinalizesRecord(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	uploadedAt := time.Now().Add(-time.Minute).UTC().Truncate(time.Second)
	record := models.NewProcessingRecord("report.pdf", uploadedAt)
	require.NoError(t, repo.Create(ctx, record))
	id := record.ID

	extracted := `{"amount":42}`
	require.NoError(t, record.Complete("Hello", &extracted))
	record.UploadedAt = time.Now()
	require.NoError(t, repo.Save(ctx, record))

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, models.StatusCompleted, found.Status)
	assert.Equal(t, "Hello", found.RawText)
	require.NotNil(t, found.ExtractedJSON)
	assert.Equal(t, extracted, *found.ExtractedJSON)
	assert.True(t, uploadedAt.Equal(found.UploadedAt), "uploaded_at must not change on save")
}

func TestFileRepository_SaveIsIdempotent(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	record := models.NewProcessingRecord("scan.png", time.Now())
	require.NoError(t, repo.Create(ctx, record))
	require.NoError(t, record.Fail("boom"))
	require.NoError(t, repo.Save(ctx, record))

	first, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, first))

	second, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFileRepository_SaveUnknownRecord(t *testing.T) {
	repo := newRepo(t)

	record := models.NewProcessingRecord("ghost.pdf", time.Now())
	record.ID = uuid.New()
	assert.ErrorIs(t, repo.Save(context.Background(), record), ErrFileNotFound)

	record.ID = uuid.Nil
	assert.Error(t, repo.Save(context.Background(), record))
}

func TestFileRepository_FindByIDNotFound(t *testing.T) {
	repo := newRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestFileRepository_FindAllInUploadOrder(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	base := time.Now().UTC()
	names := []string{"first.pdf", "second.pdf", "third.pdf"}
	// Insert out of order so the ordering comes from uploaded_at.
	for _, i := range []int{2, 0, 1} {
		record := models.NewProcessingRecord(names[i], base.Add(time.Duration(i)*time.Second))
		require.NoError(t, repo.Create(ctx, record))
	}

	files, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for i, f := range files {
		assert.Equal(t, names[i], f.FileName)
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestFileRepository_FindAllEmpty(t *testing.T) {
	files, err := newRepo(t).FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}
