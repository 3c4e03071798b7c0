package search

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/index"
)

func newTestIndex(t *testing.T, chunks []*core.Chunk) *index.Store {
	t.Helper()

	store, err := index.New(filepath.Join(t.TempDir(), "index.json"))
	require.NoError(t, err)
	if len(chunks) > 0 {
		require.NoError(t, store.Add(chunks))
	}
	return store
}

func retrievalCorpus() []*core.Chunk {
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
		},
		{
			Text:            "Knee surgery requires pre-authorization from a specialist.",
			Source:          "procedures.txt",
			ChunkType:       core.ChunkTypeGeneric,
			HasMedicalTerms: true,
		},
		{
			Text:      "Claims must be submitted within 30 days of treatment.",
			Source:    "claims.txt",
			ChunkType: core.ChunkTypeGeneric,
		},
	}
}

func TestNewSearcher(t *testing.T) {
	t.Run("nil index", func(t *testing.T) {
		_, err := NewSearcher(nil)
		assert.ErrorIs(t, err, ErrIndexRequired)
	})

	t.Run("negative weights", func(t *testing.T) {
		store := newTestIndex(t, nil)
		_, err := NewSearcher(store, WithWeights(-0.1, 0.3))
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		store := newTestIndex(t, nil)
		searcher, err := NewSearcher(store)
		require.NoError(t, err)
		assert.Equal(t, DefaultSemanticWeight, searcher.semanticWeight)
		assert.Equal(t, DefaultKeywordWeight, searcher.keywordWeight)
	})
}

func TestSearcher_Retrieve(t *testing.T) {
	store := newTestIndex(t, retrievalCorpus())
	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	t.Run("ranked fusion", func(t *testing.T) {
		results := searcher.Retrieve("waiting period for maternity benefits", 3)
		require.NotEmpty(t, results)
		assert.Contains(t, results[0].Chunk.Text, "Maternity")
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("topK truncation", func(t *testing.T) {
		results := searcher.Retrieve("coverage period surgery claims", 2)
		assert.LessOrEqual(t, len(results), 2)
	})

	t.Run("no duplicate chunks after fusion", func(t *testing.T) {
		results := searcher.Retrieve("dental coverage limited", 4)
		seen := make(map[int]struct{})
		for _, result := range results {
			_, dup := seen[result.Chunk.VectorID]
			assert.False(t, dup, "chunk %d fused twice", result.Chunk.VectorID)
			seen[result.Chunk.VectorID] = struct{}{}
		}
	})
}

func TestSearcher_Retrieve_EmptyCorpus(t *testing.T) {
	store := newTestIndex(t, nil)
	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	assert.Empty(t, searcher.Retrieve("anything at all", 5))
}

func TestSearcher_Fuse_AccumulatesByVectorID(t *testing.T) {
	store := newTestIndex(t, retrievalCorpus())
	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	chunk := store.Chunks()[0]
	semantic := []*core.ScoredChunk{{Chunk: chunk, Score: 0.8}}
	keyword := []*core.ScoredChunk{{Chunk: chunk, Score: 0.5}}

	fused := searcher.fuse(semantic, keyword)
	require.Len(t, fused, 1)
	assert.InDelta(t, 0.8*DefaultSemanticWeight+0.5*DefaultKeywordWeight, fused[0].Score, 1e-9)
}

func TestSearcher_Fuse_SinglePassChunks(t *testing.T) {
	store := newTestIndex(t, retrievalCorpus())
	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	chunks := store.Chunks()
	semantic := []*core.ScoredChunk{{Chunk: chunks[0], Score: 1.0}}
	keyword := []*core.ScoredChunk{{Chunk: chunks[1], Score: 1.0}}

	fused := searcher.fuse(semantic, keyword)
	require.Len(t, fused, 2)

	// Semantic-only chunk carries the heavier weight and sorts first
	assert.Equal(t, chunks[0].VectorID, fused[0].Chunk.VectorID)
	assert.InDelta(t, DefaultSemanticWeight, fused[0].Score, 1e-9)
	assert.InDelta(t, DefaultKeywordWeight, fused[1].Score, 1e-9)
}

func TestSearcher_RetrieveContext_IntentFilter(t *testing.T) {
	store := newTestIndex(t, retrievalCorpus())
	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	// waiting_period intent selects the waiting_periods category filter, so
	// the maternity chunk must lead even in a mixed candidate set
	results := searcher.RetrieveContext("What is the waiting period for dental and maternity?", 3)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Chunk.ContentCategories, "waiting_periods")
}

func TestSearcher_RetrieveContext_NoFilterIntent(t *testing.T) {
	store := newTestIndex(t, retrievalCorpus())
	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	// No intent maps to a filter; plain hybrid retrieval
	results := searcher.RetrieveContext("claims submitted within 30 days", 2)
	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Chunk.Text, "Claims")
}

// recordingMonitor captures which retrieval stages fired.
type recordingMonitor struct {
	started        string
	semanticCount  int
	keywordCount   int
	fusionCount    int
	filteredCalled bool
	filters        index.Filters
	finished       []*core.ScoredChunk
}

var _ RetrievalMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(text string) { m.started = text }
func (m *recordingMonitor) AfterSemanticSearch(results []*core.ScoredChunk) {
	m.semanticCount = len(results)
}
func (m *recordingMonitor) AfterKeywordSearch(results []*core.ScoredChunk) {
	m.keywordCount = len(results)
}
func (m *recordingMonitor) AfterFusion(results []*core.ScoredChunk) { m.fusionCount = len(results) }
func (m *recordingMonitor) AfterFilteredSearch(filters index.Filters, _ []*core.ScoredChunk) {
	m.filteredCalled = true
	m.filters = filters
}
func (m *recordingMonitor) Finish(results []*core.ScoredChunk) { m.finished = results }

func TestSearcher_RetrieveContextWithMonitor(t *testing.T) {
	store := newTestIndex(t, retrievalCorpus())
	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results := searcher.RetrieveContextWithMonitor("What is the waiting period for maternity?", 3, monitor)

	assert.Equal(t, "What is the waiting period for maternity?", monitor.started)
	assert.Greater(t, monitor.semanticCount, 0)
	assert.Greater(t, monitor.keywordCount, 0)
	assert.Greater(t, monitor.fusionCount, 0)
	assert.True(t, monitor.filteredCalled, "waiting_period intent triggers the filtered pass")
	assert.Equal(t, index.Filters{"content_categories": []string{"waiting_periods"}}, monitor.filters)
	assert.Equal(t, results, monitor.finished)
}

func TestSearcher_RetrieveContextWithMonitor_NilMonitor(t *testing.T) {
	store := newTestIndex(t, retrievalCorpus())
	searcher, err := NewSearcher(store)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		searcher.RetrieveContextWithMonitor("dental coverage", 2, nil)
	})
}
