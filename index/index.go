package index

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/poiesic/askit/core"
)

// DefaultScoreThreshold is the minimum similarity score for search results.
const DefaultScoreThreshold = 0.3

const (
	defaultModelName = "simple"
	defaultDimension = 384
)

// Store is the lexical chunk index. Chunks are append-only: they receive a
// vector ID and their keyword set on insertion and are mutated afterwards
// only by an explicit Refresh pass. A single reader/writer lock guards all
// access.
type Store struct {
	mu           sync.RWMutex
	chunks       []*core.Chunk
	trained      bool
	snapshotPath string

	// Informational labels only; no embedding is computed.
	modelName string
	dimension int

	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithModelLabel sets the informational embedding model name and dimension
// reported by Statistics.
func WithModelLabel(name string, dimension int) Option {
	return func(s *Store) error {
		if name == "" {
			return fmt.Errorf("model label name cannot be empty")
		}
		if dimension <= 0 {
			return fmt.Errorf("model label dimension must be positive")
		}
		s.modelName = name
		s.dimension = dimension
		return nil
	}
}

// New creates a lexical index persisted at snapshotPath. An existing snapshot
// is loaded eagerly; a snapshot that cannot be read or parsed resets the
// store to empty with a warning rather than failing construction.
func New(snapshotPath string, opts ...Option) (*Store, error) {
	s := &Store{
		snapshotPath: snapshotPath,
		modelName:    defaultModelName,
		dimension:    defaultDimension,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if err := s.loadSnapshot(); err != nil {
		s.logger.Warn("failed to load index snapshot, starting empty",
			"path", snapshotPath, "err", err)
		s.chunks = nil
		s.trained = false
	}

	return s, nil
}

// Add appends chunks to the store, assigning each the next vector ID in
// insertion order and deriving its keyword set. An empty batch is rejected
// with ErrNoChunks and leaves the store untouched.
//
// Add does not persist; callers decide how to handle persistence failure via
// an explicit Snapshot call.
func (s *Store) Add(chunks []*core.Chunk) error {
	if len(chunks) == 0 {
		return ErrNoChunks
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := len(s.chunks)
	for i, chunk := range chunks {
		chunk.VectorID = next + i
		chunk.Keywords = Keywords(chunk.Text)
		s.chunks = append(s.chunks, chunk)
	}
	s.trained = true

	s.logger.Info("added chunks to index", "count", len(chunks), "total", len(s.chunks))
	return nil
}

// Search scores every stored chunk against the query and returns chunks
// scoring at least scoreThreshold, ordered by descending score with ties
// preserving insertion order, truncated to topK. An empty or untrained store
// yields an empty result.
func (s *Store) Search(query string, topK int, scoreThreshold float64) []*core.ScoredChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.trained || len(s.chunks) == 0 {
		s.logger.Warn("index is empty or not trained")
		return nil
	}

	queryKeywords := Keywords(query)

	results := make([]*core.ScoredChunk, 0, topK)
	for _, chunk := range s.chunks {
		score := similarity(queryKeywords, chunk, query)
		if score >= scoreThreshold {
			results = append(results, &core.ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}

	s.logger.Debug("search complete", "query", query, "hits", len(results))
	return results
}

// Filters maps chunk field names (wire names, e.g. "content_categories") to
// required values. A slice value matches if any element appears as a
// case-insensitive substring of the stringified field; a scalar value must
// itself appear as a substring. Field names the chunk does not expose are
// ignored.
type Filters map[string]any

// SearchWithFilters runs Search over an enlarged candidate pool (2*topK) and
// keeps candidates matching every filter, stopping once topK matches are
// collected or the pool is exhausted.
func (s *Store) SearchWithFilters(query string, filters Filters, topK int, scoreThreshold float64) []*core.ScoredChunk {
	initial := s.Search(query, topK*2, scoreThreshold)

	if len(filters) == 0 {
		if len(initial) > topK {
			initial = initial[:topK]
		}
		return initial
	}

	filtered := make([]*core.ScoredChunk, 0, topK)
	for _, result := range initial {
		if matchesFilters(result.Chunk, filters) {
			filtered = append(filtered, result)
		}
		if len(filtered) >= topK {
			break
		}
	}

	s.logger.Debug("filtered search complete",
		"initial", len(initial), "filtered", len(filtered))
	return filtered
}

// matchesFilters reports whether every filter key is satisfied by the chunk.
func matchesFilters(chunk *core.Chunk, filters Filters) bool {
	for key, want := range filters {
		field, ok := chunk.Field(key)
		if !ok {
			continue
		}
		switch v := want.(type) {
		case []string:
			anyMatch := false
			for _, candidate := range v {
				if strings.Contains(field, strings.ToLower(candidate)) {
					anyMatch = true
					break
				}
			}
			if !anyMatch {
				return false
			}
		case string:
			if !strings.Contains(field, strings.ToLower(v)) {
				return false
			}
		case bool:
			if !strings.Contains(field, strconv.FormatBool(v)) {
				return false
			}
		default:
			if !strings.Contains(field, strings.ToLower(fmt.Sprint(v))) {
				return false
			}
		}
	}
	return true
}

// Refresh applies fn to the stored chunks under the write lock, then
// re-derives every chunk's keyword set. It exists for maintenance passes that
// rebuild derived chunk fields after the enrichment rules change; the chunk
// set itself and the vector IDs are untouched. An error from fn aborts the
// keyword pass and is returned unchanged.
func (s *Store) Refresh(fn func(chunks []*core.Chunk) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chunks) == 0 {
		return nil
	}

	if err := fn(s.chunks); err != nil {
		return err
	}

	for _, chunk := range s.chunks {
		chunk.Keywords = Keywords(chunk.Text)
	}

	s.logger.Info("refreshed index", "count", len(s.chunks))
	return nil
}

// Chunks returns a point-in-time copy of the stored chunk slice, in insertion
// order. The chunks themselves are shared and must not be mutated.
func (s *Store) Chunks() []*core.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*core.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// IsTrained reports whether the store holds any chunks.
func (s *Store) IsTrained() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trained
}

// Clear empties the store, resets the trained flag, and removes the persisted
// snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = nil
	s.trained = false

	if err := s.removeSnapshot(); err != nil {
		return err
	}

	s.logger.Info("index cleared")
	return nil
}

// Statistics reports the current index state, including a histogram of
// content categories across all stored chunks.
func (s *Store) Statistics() core.IndexStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sources := make(map[string]struct{})
	categories := make(map[string]int)
	for _, chunk := range s.chunks {
		sources[chunk.Source] = struct{}{}
		for _, category := range chunk.ContentCategories {
			categories[category]++
		}
	}

	return core.IndexStats{
		TotalChunks:        len(s.chunks),
		EmbeddingDimension: s.dimension,
		ModelName:          s.modelName,
		IsTrained:          s.trained,
		UniqueSources:      len(sources),
		ContentCategories:  categories,
	}
}
