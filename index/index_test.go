package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/askit/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, err)
	return store
}

func policyChunks() []*core.Chunk {
	return []*core.Chunk{
		{
			Text:              "Maternity benefits have a waiting period of 12 months.",
			Source:            "policy.txt",
			ChunkType:         core.ChunkTypeGeneric,
			ContentCategories: []string{"maternity", "waiting_periods"},
		},
		{
			Text:              "Dental coverage is limited to $500 per year.",
			Source:            "policy.txt",
			ChunkType:         core.ChunkTypeGeneric,
			ContentCategories: []string{"dental", "coverage_limits"},
			HasCurrency:       true,
		},
		{
			Text:            "Knee surgery requires pre-authorization from a specialist.",
			Source:          "procedures.txt",
			ChunkType:       core.ChunkTypeGeneric,
			HasMedicalTerms: true,
		},
	}
}

func TestStore_Add(t *testing.T) {
	store := newTestStore(t)

	t.Run("empty batch", func(t *testing.T) {
		assert.ErrorIs(t, store.Add(nil), ErrNoChunks)
		assert.False(t, store.IsTrained())
	})

	t.Run("assigns vector IDs and keywords", func(t *testing.T) {
		chunks := policyChunks()
		require.NoError(t, store.Add(chunks))

		for i, chunk := range chunks {
			assert.Equal(t, i, chunk.VectorID)
			assert.NotEmpty(t, chunk.Keywords)
		}
		assert.True(t, store.IsTrained())
	})

	t.Run("second batch continues numbering", func(t *testing.T) {
		extra := []*core.Chunk{{Text: "Premiums are due monthly.", Source: "billing.txt"}}
		require.NoError(t, store.Add(extra))
		assert.Equal(t, 3, extra[0].VectorID)
	})
}

func TestStore_Search(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Add(policyChunks()))

	t.Run("ranks by similarity", func(t *testing.T) {
		results := store.Search("waiting period for maternity benefits", 5, 0.1)
		require.NotEmpty(t, results)
		assert.Contains(t, results[0].Chunk.Text, "Maternity")
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("threshold drops weak matches", func(t *testing.T) {
		loose := store.Search("dental coverage", 5, 0.0)
		strict := store.Search("dental coverage", 5, 0.99)
		assert.GreaterOrEqual(t, len(loose), len(strict))
	})

	t.Run("topK truncation", func(t *testing.T) {
		results := store.Search("coverage period surgery dental maternity", 1, 0.0)
		assert.Len(t, results, 1)
	})

	t.Run("full phrase match outscores keyword-only match", func(t *testing.T) {
		results := store.Search("waiting period", 5, 0.0)
		require.NotEmpty(t, results)
		assert.Contains(t, results[0].Chunk.Text, "waiting period")
	})
}

func TestStore_Search_Empty(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.Search("anything", 5, 0.0))
}

func TestStore_SearchWithFilters(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Add(policyChunks()))

	t.Run("category filter", func(t *testing.T) {
		filters := Filters{"content_categories": []string{"waiting_periods"}}
		results := store.SearchWithFilters("waiting period maternity dental", filters, 5, 0.0)
		require.NotEmpty(t, results)
		for _, result := range results {
			assert.Contains(t, result.Chunk.ContentCategories, "waiting_periods")
		}
	})

	t.Run("bool filter", func(t *testing.T) {
		filters := Filters{"has_medical_terms": true}
		results := store.SearchWithFilters("knee surgery specialist", filters, 5, 0.0)
		require.NotEmpty(t, results)
		for _, result := range results {
			assert.True(t, result.Chunk.HasMedicalTerms)
		}
	})

	t.Run("unknown filter key is ignored", func(t *testing.T) {
		filters := Filters{"embedding_model": "none"}
		results := store.SearchWithFilters("dental coverage", filters, 5, 0.0)
		assert.NotEmpty(t, results)
	})

	t.Run("no filters falls back to plain search", func(t *testing.T) {
		plain := store.Search("dental coverage", 2, 0.0)
		filtered := store.SearchWithFilters("dental coverage", nil, 2, 0.0)
		assert.Equal(t, len(plain), len(filtered))
	})
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	snapshotPath := filepath.Join(t.TempDir(), "index.json")
	store, err := New(snapshotPath)
	require.NoError(t, err)

	require.NoError(t, store.Add(policyChunks()))
	require.NoError(t, store.Snapshot())

	reloaded, err := New(snapshotPath)
	require.NoError(t, err)
	assert.True(t, reloaded.IsTrained())
	assert.Equal(t, store.Statistics().TotalChunks, reloaded.Statistics().TotalChunks)

	// Keywords and categories survive the round trip
	chunks := reloaded.Chunks()
	require.Len(t, chunks, 3)
	assert.NotEmpty(t, chunks[0].Keywords)
	assert.Contains(t, chunks[1].ContentCategories, "dental")

	results := reloaded.Search("dental coverage", 3, 0.1)
	assert.NotEmpty(t, results)
}

func TestStore_CorruptSnapshotStartsEmpty(t *testing.T) {
	snapshotPath := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(snapshotPath, []byte("{not json"), 0644))

	store, err := New(snapshotPath)
	require.NoError(t, err, "corrupt snapshot must not fail construction")
	assert.False(t, store.IsTrained())
	assert.Equal(t, 0, store.Statistics().TotalChunks)
}

func TestStore_Clear(t *testing.T) {
	snapshotPath := filepath.Join(t.TempDir(), "index.json")
	store, err := New(snapshotPath)
	require.NoError(t, err)

	require.NoError(t, store.Add(policyChunks()))
	require.NoError(t, store.Snapshot())

	require.NoError(t, store.Clear())
	assert.False(t, store.IsTrained())
	assert.Empty(t, store.Chunks())
	assert.NoFileExists(t, snapshotPath)

	// Clearing an already-empty store is fine
	require.NoError(t, store.Clear())
}

func TestStore_Statistics(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Add(policyChunks()))

	stats := store.Statistics()
	assert.Equal(t, 3, stats.TotalChunks)
	assert.Equal(t, 2, stats.UniqueSources)
	assert.True(t, stats.IsTrained)
	assert.Equal(t, 1, stats.ContentCategories["waiting_periods"])
	assert.Equal(t, 1, stats.ContentCategories["dental"])
}

func TestStore_Refresh(t *testing.T) {
	store := newTestStore(t)
	chunks := policyChunks()
	require.NoError(t, store.Add(chunks))

	// Blow away the derived keyword sets
	for _, chunk := range store.Chunks() {
		chunk.Keywords = nil
	}

	called := 0
	require.NoError(t, store.Refresh(func(stored []*core.Chunk) error {
		called = len(stored)
		return nil
	}))
	assert.Equal(t, 3, called)

	for _, chunk := range store.Chunks() {
		assert.NotEmpty(t, chunk.Keywords, "refresh re-derives keywords")
	}
}

func TestStore_Refresh_Empty(t *testing.T) {
	store := newTestStore(t)
	called := false
	require.NoError(t, store.Refresh(func([]*core.Chunk) error {
		called = true
		return nil
	}))
	assert.False(t, called, "empty store skips the refresh callback")
}
