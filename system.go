// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package askit

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/askit/ai"
	"github.com/poiesic/askit/ai/openai"
	"github.com/poiesic/askit/chunk"
	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/index"
	"github.com/poiesic/askit/ingestion"
	"github.com/poiesic/askit/query"
	"github.com/poiesic/askit/reindex"
	"github.com/poiesic/askit/search"
	"github.com/poiesic/askit/storage"
	"github.com/poiesic/askit/storage/badger"
)

// DefaultTopK is the number of context chunks retrieved per query when the
// caller does not ask for a specific count.
const DefaultTopK = 5

// System is the top-level facade: one data directory holding the index
// snapshot and the registry database, plus the retrieval and answer
// generation machinery wired together.
type System struct {
	backend   *badger.Backend
	documents storage.DocumentRepository
	queryLog  storage.QueryLogRepository
	store     *index.Store
	chunker   *chunk.Chunker
	pool      *ants.Pool
	searcher  *search.Searcher
	generator ai.AnswerGenerator
	logger    *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig  *ai.Config
	generator ai.AnswerGenerator
	logger    *slog.Logger
	poolSize  int
}

// WithAIConfig sets the answer-generation service configuration.
func WithAIConfig(cfg *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithAnswerGenerator injects a pre-built answer generator, bypassing the
// AI config. Useful for tests and for callers with custom model clients.
func WithAnswerGenerator(generator ai.AnswerGenerator) SystemOption {
	return func(o *systemOptions) {
		o.generator = generator
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) SystemOption {
	return func(o *systemOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPoolSize sets the size of the worker pool driving chunk enrichment.
// Default is runtime.NumCPU() / 2, minimum 1.
func WithPoolSize(size int) SystemOption {
	return func(o *systemOptions) {
		if size < 1 {
			size = 1
		}
		o.poolSize = size
	}
}

// New opens a System rooted at dataDir. The directory holds the index
// snapshot (index.json) and the registry database (registry/).
func New(dataDir string, opts ...SystemOption) (*System, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	// Apply options
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
		logger:   slog.Default(),
		poolSize: poolSize,
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filepath.Join(dataDir, "registry"), false)
	if err != nil {
		return nil, err
	}

	// Create document repository
	documents, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create query log repository
	queryLog, err := badger.NewQueryLogRepository(backend)
	if err != nil {
		documents.Close()
		backend.Close()
		return nil, err
	}

	// Load (or start) the lexical index
	store, err := index.New(filepath.Join(dataDir, "index.json"), index.WithLogger(options.logger))
	if err != nil {
		queryLog.Close()
		documents.Close()
		backend.Close()
		return nil, err
	}

	// Worker pool shared by the enrichment passes (ingestion and reindex)
	pool, err := ants.NewPool(options.poolSize)
	if err != nil {
		queryLog.Close()
		documents.Close()
		backend.Close()
		return nil, err
	}

	chunker, err := chunk.New(chunk.WithLogger(options.logger), chunk.WithPool(pool))
	if err != nil {
		pool.Release()
		queryLog.Close()
		documents.Close()
		backend.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(store, search.WithLogger(options.logger))
	if err != nil {
		pool.Release()
		queryLog.Close()
		documents.Close()
		backend.Close()
		return nil, err
	}

	// Build the answer generator unless one was injected
	generator := options.generator
	if generator == nil {
		generator, err = openai.NewGenerator(options.aiConfig)
		if err != nil {
			pool.Release()
			queryLog.Close()
			documents.Close()
			backend.Close()
			return nil, err
		}
	}

	return &System{
		backend:   backend,
		documents: documents,
		queryLog:  queryLog,
		store:     store,
		chunker:   chunker,
		pool:      pool,
		searcher:  searcher,
		generator: generator,
		logger:    options.logger,
	}, nil
}

// Close releases the enrichment pool and the registry database. The index
// snapshot needs no closing; it is written on ingestion.
func (s *System) Close() error {
	s.pool.Release()
	if err := s.queryLog.Close(); err != nil {
		s.logger.Error("error closing query log repository", "err", err)
		return err
	}
	if err := s.documents.Close(); err != nil {
		s.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// QueryResult is the complete response to one query.
type QueryResult struct {
	Query          string          `json:"query"`
	Answer         *ai.Answer      `json:"answer"`
	Analysis       query.Analysis  `json:"query_analysis"`
	ChunksUsed     int             `json:"chunks_used"`
	ProcessingTime time.Duration   `json:"processing_time"`
	IndexStats     core.IndexStats `json:"index_stats"`
}

// Query answers a question from the ingested documents: analyze, retrieve
// context, generate. Generation failures degrade to the canonical
// "insufficient information" answer with zero confidence instead of failing
// the call. Every answered query is logged to the query log.
func (s *System) Query(ctx context.Context, text string, topK int) (*QueryResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	start := time.Now()

	analysis := query.Analyze(text)
	contextChunks := s.searcher.RetrieveContext(text, topK)

	answer, err := s.generator.GenerateAnswer(ctx, text, contextChunks)
	if err != nil {
		s.logger.Error("answer generation failed", "query", text, "err", err)
		answer = ai.Degraded("Answer generation failed; see system logs.")
	}

	elapsed := time.Since(start)

	// Query log failures must not fail the query itself
	if _, logErr := s.queryLog.AddQueryRecords(ctx, &core.QueryRecord{
		Query:          text,
		Answer:         answer.Text,
		Confidence:     answer.Confidence,
		ChunksUsed:     len(contextChunks),
		ProcessingTime: elapsed,
		Timestamp:      start.UTC(),
	}); logErr != nil {
		s.logger.Warn("failed to log query", "err", logErr)
	}

	return &QueryResult{
		Query:          text,
		Answer:         answer,
		Analysis:       analysis,
		ChunksUsed:     len(contextChunks),
		ProcessingTime: elapsed,
		IndexStats:     s.store.Statistics(),
	}, nil
}

// SystemStatus reports component readiness and index statistics.
type SystemStatus struct {
	IndexStats  core.IndexStats   `json:"index_stats"`
	SystemReady bool              `json:"system_ready"`
	Components  map[string]string `json:"components"`
}

// Status returns system readiness: the system is ready once at least one
// document has been indexed.
func (s *System) Status() SystemStatus {
	stats := s.store.Statistics()

	indexState := "empty"
	if stats.IsTrained {
		indexState = "ready"
	}

	return SystemStatus{
		IndexStats:  stats,
		SystemReady: stats.IsTrained,
		Components: map[string]string{
			"extractor": "ready",
			"chunker":   "ready",
			"index":     indexState,
			"generator": "ready",
		},
	}
}

// Stats returns the index statistics.
func (s *System) Stats() core.IndexStats {
	return s.store.Statistics()
}

// Clear removes all indexed chunks, the snapshot file, and the document
// registry entries. The query log is kept.
func (s *System) Clear(ctx context.Context) error {
	if err := s.store.Clear(); err != nil {
		return err
	}

	records, err := s.documents.ListDocuments(ctx)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := s.documents.DeleteDocuments(ctx, record.Id); err != nil {
			return err
		}
	}
	return nil
}

// DocumentRepository exposes the document registry.
func (s *System) DocumentRepository() storage.DocumentRepository {
	return s.documents
}

// QueryLogRepository exposes the query log.
func (s *System) QueryLogRepository() storage.QueryLogRepository {
	return s.queryLog
}

// Index exposes the lexical index store.
func (s *System) Index() *index.Store {
	return s.store
}

// NewIngestionPipeline creates an ingestion pipeline wired to this system's
// index, chunker, and document registry.
func (s *System) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	base := []ingestion.Option{ingestion.WithLogger(s.logger)}
	return ingestion.NewPipeline(s.store, s.chunker, s.documents, append(base, opts...)...)
}

// NewReindexer creates a reindexer over this system's index and chunker.
// Progress output goes to progress (typically os.Stderr).
func (s *System) NewReindexer(config *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	return reindex.NewReindexer(s.store, s.chunker, config, progress)
}

// NewSearcher creates a searcher over this system's index.
func (s *System) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(s.store, opts...)
}
