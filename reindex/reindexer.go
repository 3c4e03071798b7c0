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


package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/poiesic/askit/chunk"
	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/index"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of chunks to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of chunks)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for snapshot writes
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer orchestrates rebuilding the derived fields of every indexed
// chunk: the semantic classification, content categories, indicator flags,
// and keyword sets are recomputed from the current rules, then the snapshot
// is rewritten.
type Reindexer struct {
	store    *index.Store
	chunker  *chunk.Chunker
	config   *Config
	progress io.Writer
}

// NewReindexer creates a new reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(store *index.Store, chunker *chunk.Chunker, config *Config, progress io.Writer) (*Reindexer, error) {
	if store == nil {
		return nil, ErrIndexRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.BatchSize <= 0 {
		return nil, ErrInvalidBatchSize
	}

	return &Reindexer{
		store:    store,
		chunker:  chunker,
		config:   config,
		progress: progress,
	}, nil
}

// Run executes the reindexing operation. Every chunk in the index is
// re-enriched with the current rules and the snapshot is rewritten.
// Progress is reported to the configured writer.
func (r *Reindexer) Run(ctx context.Context) error {
	total := r.store.Statistics().TotalChunks
	if total == 0 {
		fmt.Fprintf(r.progress, "Index is empty (0 chunks)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindex of %d chunks (batch size: %d)\n",
		total, r.config.BatchSize)

	// Initialize progress tracker
	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	// Re-enrich all chunks in batches under the store's write lock
	err := r.store.Refresh(func(chunks []*core.Chunk) error {
		for start := 0; start < len(chunks); start += r.config.BatchSize {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			end := min(start+r.config.BatchSize, len(chunks))
			r.chunker.Refresh(chunks[start:end])
			tracker.Update(end)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to refresh chunks: %w", err)
	}

	// Persist the rebuilt index; a partially written snapshot is retried
	if err := RetryWithBackoff(ctx, r.store.Snapshot, r.config.MaxRetries, r.config.RetryDelay); err != nil {
		return fmt.Errorf("failed to persist snapshot: %w", err)
	}

	// Finish progress tracking
	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindex complete. Processed %d chunks in %v (%.1f chunks/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
