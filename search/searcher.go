package search

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/index"
	"github.com/poiesic/askit/query"
)

// Default fusion weights. The semantic weight applies to the index similarity
// pass, the keyword weight to the raw overlap pass.
const (
	DefaultSemanticWeight = 0.7
	DefaultKeywordWeight  = 0.3
)

// filteredScoreThreshold is the relaxed threshold used for the
// metadata-filtered pass during orchestration.
const filteredScoreThreshold = 0.2

// Searcher provides hybrid retrieval and intent-driven context orchestration
// over a lexical index.
type Searcher struct {
	index          *index.Store
	semanticWeight float64
	keywordWeight  float64
	logger         *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithWeights sets the fusion weights for the two retrieval passes.
func WithWeights(semantic, keyword float64) Option {
	return func(s *Searcher) error {
		if semantic < 0 || keyword < 0 {
			return fmt.Errorf("fusion weights must be non-negative")
		}
		s.semanticWeight = semantic
		s.keywordWeight = keyword
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher over the given index.
func NewSearcher(store *index.Store, opts ...Option) (*Searcher, error) {
	if store == nil {
		return nil, ErrIndexRequired
	}

	s := &Searcher{
		index:          store,
		semanticWeight: DefaultSemanticWeight,
		keywordWeight:  DefaultKeywordWeight,
		logger:         slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Retrieve runs the two scoring passes and fuses them into one ranked list of
// up to topK chunks.
func (s *Searcher) Retrieve(text string, topK int) []*core.ScoredChunk {
	return s.retrieve(text, topK, &noopMonitor{})
}

func (s *Searcher) retrieve(text string, topK int, monitor RetrievalMonitor) []*core.ScoredChunk {
	// 1. Index similarity pass over an enlarged pool
	semanticResults := s.index.Search(text, topK*2, index.DefaultScoreThreshold)
	monitor.AfterSemanticSearch(semanticResults)

	// 2. Raw keyword-overlap pass
	keywordResults := s.keywordSearch(text, topK*2)
	monitor.AfterKeywordSearch(keywordResults)

	// 3. Fuse by vector ID
	fused := s.fuse(semanticResults, keywordResults)
	monitor.AfterFusion(fused)

	if len(fused) > topK {
		fused = fused[:topK]
	}
	return fused
}

// keywordSearch scores every stored chunk by raw word overlap with the query:
// whitespace tokenization, no stop-word removal, no stemming. Chunks with no
// overlap are dropped.
func (s *Searcher) keywordSearch(text string, topK int) []*core.ScoredChunk {
	queryWords := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		queryWords[word] = struct{}{}
	}
	if len(queryWords) == 0 {
		return nil
	}

	var results []*core.ScoredChunk
	for _, chunk := range s.index.Chunks() {
		chunkWords := make(map[string]struct{})
		for _, word := range strings.Fields(strings.ToLower(chunk.Text)) {
			chunkWords[word] = struct{}{}
		}

		overlap := 0
		for word := range queryWords {
			if _, ok := chunkWords[word]; ok {
				overlap++
			}
		}
		if overlap == 0 {
			continue
		}

		results = append(results, &core.ScoredChunk{
			Chunk: chunk,
			Score: float64(overlap) / float64(len(queryWords)),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// fuse combines the two passes keyed by vector ID. A chunk present in only
// one pass contributes that pass's weighted score; a chunk present in both
// accumulates both. The result is sorted by combined score descending.
func (s *Searcher) fuse(semanticResults, keywordResults []*core.ScoredChunk) []*core.ScoredChunk {
	type fusedEntry struct {
		chunk    *core.Chunk
		combined float64
	}

	byID := make(map[int]*fusedEntry, len(semanticResults)+len(keywordResults))
	order := make([]*fusedEntry, 0, len(semanticResults)+len(keywordResults))

	for _, result := range semanticResults {
		entry := &fusedEntry{
			chunk:    result.Chunk,
			combined: result.Score * s.semanticWeight,
		}
		byID[result.Chunk.VectorID] = entry
		order = append(order, entry)
	}

	for _, result := range keywordResults {
		if entry, ok := byID[result.Chunk.VectorID]; ok {
			entry.combined += result.Score * s.keywordWeight
			continue
		}
		entry := &fusedEntry{
			chunk:    result.Chunk,
			combined: result.Score * s.keywordWeight,
		}
		byID[result.Chunk.VectorID] = entry
		order = append(order, entry)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].combined > order[j].combined
	})

	fused := make([]*core.ScoredChunk, len(order))
	for i, entry := range order {
		fused[i] = &core.ScoredChunk{Chunk: entry.chunk, Score: entry.combined}
	}
	return fused
}

// RetrieveContext returns the final top-K context set for answer generation:
// hybrid candidates merged with metadata-filtered results when the query's
// intent selects a filter, filtered results first.
func (s *Searcher) RetrieveContext(text string, topK int) []*core.ScoredChunk {
	return s.RetrieveContextWithMonitor(text, topK, nil)
}

// RetrieveContextWithMonitor is RetrieveContext with observation hooks.
// The monitor receives callbacks at each stage of retrieval.
func (s *Searcher) RetrieveContextWithMonitor(text string, topK int, monitor RetrievalMonitor) []*core.ScoredChunk {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(text)

	analysis := query.Analyze(text)
	filters := filtersForIntent(analysis)

	candidates := s.retrieve(text, topK*2, monitor)

	if len(filters) > 0 {
		filtered := s.index.SearchWithFilters(text, filters, topK*2, filteredScoreThreshold)
		monitor.AfterFilteredSearch(filters, filtered)

		// Filtered matches first, then remaining unfiltered candidates.
		seen := make(map[int]struct{}, len(filtered))
		merged := make([]*core.ScoredChunk, 0, topK*2)
		for _, result := range filtered {
			if _, dup := seen[result.Chunk.VectorID]; dup {
				continue
			}
			seen[result.Chunk.VectorID] = struct{}{}
			merged = append(merged, result)
		}
		for _, result := range candidates {
			if len(merged) >= topK*2 {
				break
			}
			if _, dup := seen[result.Chunk.VectorID]; dup {
				continue
			}
			seen[result.Chunk.VectorID] = struct{}{}
			merged = append(merged, result)
		}
		candidates = merged
	}

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	s.logger.Debug("retrieved context",
		"query_type", analysis.QueryType,
		"filtered", len(filters) > 0,
		"chunks", len(candidates))
	monitor.Finish(candidates)

	return candidates
}

// filtersForIntent maps specific intent categories to a metadata filter.
// At most one filter applies; earlier intents take precedence.
func filtersForIntent(analysis query.Analysis) index.Filters {
	switch {
	case analysis.HasIntent("coverage_query"):
		return index.Filters{"content_categories": []string{"coverage_limits", "eligibility_criteria"}}
	case analysis.HasIntent("waiting_period"):
		return index.Filters{"content_categories": []string{"waiting_periods"}}
	case analysis.HasIntent("procedure_query"):
		return index.Filters{"has_medical_terms": true}
	}
	return nil
}
