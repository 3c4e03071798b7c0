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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/askit/chunk"
	"github.com/poiesic/askit/core"
	"github.com/poiesic/askit/extract"
	"github.com/poiesic/askit/index"
	"github.com/poiesic/askit/storage"
)

// Pipeline orchestrates document ingestion: extraction, chunking, indexing,
// snapshot persistence, and registry bookkeeping.
type Pipeline struct {
	index      *index.Store
	chunker    *chunk.Chunker
	extractors *extract.Registry
	documents  storage.DocumentRepository
	logger     *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithExtractors replaces the default extractor registry.
func WithExtractors(registry *extract.Registry) Option {
	return func(p *Pipeline) error {
		if registry != nil {
			p.extractors = registry
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	store *index.Store,
	chunker *chunk.Chunker,
	documents storage.DocumentRepository,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrIndexRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}

	p := &Pipeline{
		index:      store,
		chunker:    chunker,
		extractors: extract.NewRegistry(),
		documents:  documents,
		logger:     slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// IngestResult summarizes one completed ingestion.
type IngestResult struct {
	DocumentName  string `json:"document_name"`
	ChunksCreated int    `json:"chunks_created"`
	TotalChunks   int    `json:"total_chunks_in_store"`
}

// IngestFile extracts, chunks, and indexes the document at path. The name
// argument labels the chunks' source; pass "" to use the file's base name.
// The document's registry record moves pending -> processing -> completed,
// or to failed with the error message recorded.
func (p *Pipeline) IngestFile(ctx context.Context, path, name string) (*IngestResult, error) {
	if name == "" {
		name = filepath.Base(path)
	}

	record := &core.DocumentRecord{
		Filename: name,
		FileType: strings.ToLower(filepath.Ext(name)),
		Status:   core.DocumentStatusPending,
	}
	if info, err := os.Stat(path); err == nil {
		record.FileSize = info.Size()
	}

	record, err := p.documents.AddDocument(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("registering document: %w", err)
	}

	record.Status = core.DocumentStatusProcessing
	if _, err := p.documents.UpdateDocument(ctx, record); err != nil {
		return nil, fmt.Errorf("updating document status: %w", err)
	}

	doc, err := p.extractors.ExtractFile(path)
	if err != nil {
		p.markFailed(ctx, record, err)
		return nil, err
	}

	return p.ingestDocument(ctx, record, doc, name)
}

// IngestDocument chunks and indexes an already-extracted document, for
// callers that produce documents without a source file (pre-paginated text,
// in-memory content).
func (p *Pipeline) IngestDocument(ctx context.Context, doc *core.Document, name string) (*IngestResult, error) {
	record := &core.DocumentRecord{
		Filename: name,
		FileType: strings.ToLower(filepath.Ext(name)),
		Status:   core.DocumentStatusProcessing,
	}
	record, err := p.documents.AddDocument(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("registering document: %w", err)
	}
	return p.ingestDocument(ctx, record, doc, name)
}

// IngestURL downloads a remote document and ingests it. The document name is
// inferred from the URL.
func (p *Pipeline) IngestURL(ctx context.Context, documentURL string) (*IngestResult, error) {
	path, name, cleanup, err := extract.Fetch(ctx, documentURL)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	p.logger.Info("downloaded document", "url", documentURL, "name", name)
	return p.IngestFile(ctx, path, name)
}

// SupportedExtensions returns the file extensions the pipeline can ingest.
func (p *Pipeline) SupportedExtensions() []string {
	return p.extractors.SupportedExtensions()
}

func (p *Pipeline) ingestDocument(ctx context.Context, record *core.DocumentRecord, doc *core.Document, name string) (*IngestResult, error) {
	chunks, err := p.chunker.Chunk(doc, name)
	if err != nil {
		p.markFailed(ctx, record, err)
		return nil, err
	}

	if err := p.index.Add(chunks); err != nil {
		p.markFailed(ctx, record, err)
		return nil, err
	}

	// Snapshot failures leave the in-memory index searchable; the next
	// successful snapshot catches up.
	if err := p.index.Snapshot(); err != nil {
		p.logger.Warn("failed to persist index snapshot", "err", err)
	}

	record.Status = core.DocumentStatusCompleted
	record.ChunkCount = len(chunks)
	record.Metadata = doc.Metadata
	if _, err := p.documents.UpdateDocument(ctx, record); err != nil {
		p.logger.Warn("failed to update document record", "document", name, "err", err)
	}

	stats := p.index.Statistics()
	p.logger.Info("ingested document",
		"document", name,
		"structure", doc.StructureType,
		"chunks", len(chunks),
		"total_chunks", stats.TotalChunks)

	return &IngestResult{
		DocumentName:  name,
		ChunksCreated: len(chunks),
		TotalChunks:   stats.TotalChunks,
	}, nil
}

// markFailed records an ingestion failure in the registry, best-effort.
func (p *Pipeline) markFailed(ctx context.Context, record *core.DocumentRecord, cause error) {
	record.Status = core.DocumentStatusFailed
	record.ErrorMessage = cause.Error()
	if _, err := p.documents.UpdateDocument(ctx, record); err != nil {
		p.logger.Warn("failed to record document failure", "document", record.Filename, "err", err)
	}
}
