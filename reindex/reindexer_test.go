package reindex

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/askit/chunk"
	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/index"
)

func newTestStore(t *testing.T) (*index.Store, string) {
	t.Helper()

	snapshotPath := filepath.Join(t.TempDir(), "index.json")
	store, err := index.New(snapshotPath)
	require.NoError(t, err)
	return store, snapshotPath
}

func TestNewReindexer_Validation(t *testing.T) {
	store, _ := newTestStore(t)
	chunker, err := chunk.New()
	require.NoError(t, err)

	t.Run("nil store", func(t *testing.T) {
		_, err := NewReindexer(nil, chunker, nil, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrIndexRequired)
	})

	t.Run("nil chunker", func(t *testing.T) {
		_, err := NewReindexer(store, nil, nil, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrChunkerRequired)
	})

	t.Run("invalid batch size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.BatchSize = 0
		_, err := NewReindexer(store, chunker, cfg, &bytes.Buffer{})
		assert.ErrorIs(t, err, ErrInvalidBatchSize)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		reindexer, err := NewReindexer(store, chunker, nil, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().BatchSize, reindexer.config.BatchSize)
	})
}

func TestReindexer_Run_EmptyIndex(t *testing.T) {
	store, _ := newTestStore(t)
	chunker, err := chunk.New()
	require.NoError(t, err)

	var buf bytes.Buffer
	reindexer, err := NewReindexer(store, chunker, nil, &buf)
	require.NoError(t, err)

	require.NoError(t, reindexer.Run(context.Background()))
	assert.Contains(t, buf.String(), "Index is empty")
}

func TestReindexer_Run_RebuildsDerivedFields(t *testing.T) {
	store, snapshotPath := newTestStore(t)
	chunker, err := chunk.New()
	require.NoError(t, err)

	doc := &core.Document{
		Text:          "Maternity benefits have a waiting period of 12 months. Dental coverage is limited to $500 per year.",
		StructureType: core.StructureGeneric,
	}
	chunks, err := chunker.Chunk(doc, "policy.txt")
	require.NoError(t, err)
	require.NoError(t, store.Add(chunks))

	// Simulate stale derived fields from an older rule set
	for _, c := range store.Chunks() {
		c.SemanticType = core.SemanticGeneral
		c.ContentCategories = nil
		c.HasCurrency = false
		c.Keywords = nil
		c.ChunkPosition = 0.5
	}

	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.BatchSize = 1
	reindexer, err := NewReindexer(store, chunker, cfg, &buf)
	require.NoError(t, err)
	require.NoError(t, reindexer.Run(context.Background()))

	rebuilt := store.Chunks()
	require.NotEmpty(t, rebuilt)
	for _, c := range rebuilt {
		assert.NotEmpty(t, c.Keywords, "keywords should be re-derived")
		// Position recorded at chunking time is preserved
		assert.Equal(t, 0.5, c.ChunkPosition)
	}
	assert.True(t, rebuilt[0].HasCurrency || rebuilt[len(rebuilt)-1].HasCurrency,
		"currency flag should be re-derived")

	assert.Contains(t, buf.String(), "Reindex complete")

	// Snapshot was rewritten with the rebuilt fields
	reloaded, err := index.New(snapshotPath)
	require.NoError(t, err)
	assert.Equal(t, len(rebuilt), reloaded.Statistics().TotalChunks)
	assert.NotEmpty(t, reloaded.Chunks()[0].Keywords)
}

func TestReindexer_Run_ContextCanceled(t *testing.T) {
	store, _ := newTestStore(t)
	chunker, err := chunk.New()
	require.NoError(t, err)

	doc := &core.Document{
		Text:          "Claims must be submitted within 30 days of treatment. Pre-existing conditions are excluded.",
		StructureType: core.StructureGeneric,
	}
	chunks, err := chunker.Chunk(doc, "claims.txt")
	require.NoError(t, err)
	require.NoError(t, store.Add(chunks))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reindexer, err := NewReindexer(store, chunker, nil, &bytes.Buffer{})
	require.NoError(t, err)

	err = reindexer.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
