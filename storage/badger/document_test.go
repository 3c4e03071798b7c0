package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/storage"
)

func newTestDocumentRepo(t *testing.T) storage.DocumentRepository {
	t.Helper()
	docRepo, logRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		docRepo.Close()
		logRepo.Close()
		backend.Close()
	})
	return docRepo
}

func TestDocumentRepository_AddAndGet(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	record := &core.DocumentRecord{
		Filename:   "policy.docx",
		FileType:   ".docx",
		FileSize:   2048,
		Status:     core.DocumentStatusPending,
	}

	added, err := repo.AddDocument(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, core.IDFromContent("policy.docx"), added.Id)
	assert.False(t, added.UploadedAt.IsZero())
	assert.False(t, added.UpdatedAt.IsZero())

	got, err := repo.GetDocument(ctx, added.Id)
	require.NoError(t, err)
	assert.Equal(t, "policy.docx", got.Filename)
	assert.Equal(t, core.DocumentStatusPending, got.Status)
}

func TestDocumentRepository_GetMissing(t *testing.T) {
	repo := newTestDocumentRepo(t)

	_, err := repo.GetDocument(context.Background(), core.ID(999))
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_FindByFilename(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	_, err := repo.AddDocument(ctx, &core.DocumentRecord{
		Filename: "handbook.txt",
		FileType: ".txt",
		Status:   core.DocumentStatusCompleted,
	})
	require.NoError(t, err)

	got, err := repo.FindDocumentByFilename(ctx, "handbook.txt")
	require.NoError(t, err)
	assert.Equal(t, "handbook.txt", got.Filename)

	_, err = repo.FindDocumentByFilename(ctx, "absent.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_StatusTransitions(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	record, err := repo.AddDocument(ctx, &core.DocumentRecord{
		Filename: "contract.docx",
		FileType: ".docx",
		Status:   core.DocumentStatusPending,
	})
	require.NoError(t, err)
	firstUpdate := record.UpdatedAt

	record.Status = core.DocumentStatusProcessing
	_, err = repo.UpdateDocument(ctx, record)
	require.NoError(t, err)

	record.Status = core.DocumentStatusCompleted
	record.ChunkCount = 8
	updated, err := repo.UpdateDocument(ctx, record)
	require.NoError(t, err)
	assert.True(t, !updated.UpdatedAt.Before(firstUpdate))

	got, err := repo.GetDocument(ctx, record.Id)
	require.NoError(t, err)
	assert.Equal(t, core.DocumentStatusCompleted, got.Status)
	assert.Equal(t, 8, got.ChunkCount)
}

func TestDocumentRepository_UpdateMissing(t *testing.T) {
	repo := newTestDocumentRepo(t)

	_, err := repo.UpdateDocument(context.Background(), &core.DocumentRecord{
		Id:       core.ID(12345),
		Filename: "ghost.txt",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_Delete(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	record, err := repo.AddDocument(ctx, &core.DocumentRecord{
		Filename: "old.txt",
		FileType: ".txt",
		Status:   core.DocumentStatusCompleted,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteDocuments(ctx, record.Id))

	_, err = repo.GetDocument(ctx, record.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Filename index must be gone too
	_, err = repo.FindDocumentByFilename(ctx, "old.txt")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting again reports not found
	err = repo.DeleteDocuments(ctx, record.Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_ListAndCount(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	for _, doc := range []struct {
		name   string
		status core.DocumentStatus
	}{
		{"b-policy.txt", core.DocumentStatusCompleted},
		{"a-handbook.docx", core.DocumentStatusCompleted},
		{"c-draft.md", core.DocumentStatusFailed},
	} {
		_, err := repo.AddDocument(ctx, &core.DocumentRecord{
			Filename: doc.name,
			Status:   doc.status,
		})
		require.NoError(t, err)
	}

	records, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Ordered by filename
	assert.Equal(t, "a-handbook.docx", records[0].Filename)
	assert.Equal(t, "b-policy.txt", records[1].Filename)
	assert.Equal(t, "c-draft.md", records[2].Filename)

	counts, err := repo.CountDocumentsByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[core.DocumentStatusCompleted])
	assert.Equal(t, 1, counts[core.DocumentStatusFailed])
}

func TestDocumentRepository_ReAddSameFilename(t *testing.T) {
	repo := newTestDocumentRepo(t)
	ctx := context.Background()

	first, err := repo.AddDocument(ctx, &core.DocumentRecord{
		Filename: "policy.txt",
		Status:   core.DocumentStatusCompleted,
		ChunkCount: 3,
	})
	require.NoError(t, err)

	second, err := repo.AddDocument(ctx, &core.DocumentRecord{
		Filename: "policy.txt",
		Status:   core.DocumentStatusCompleted,
		ChunkCount: 7,
	})
	require.NoError(t, err)

	// Content-based IDs make re-ingestion overwrite, not duplicate
	assert.Equal(t, first.Id, second.Id)

	records, err := repo.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 7, records[0].ChunkCount)
}
