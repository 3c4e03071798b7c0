package chunk

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/askit/core"
)

// Default chunk geometry. Size is measured in words for generic windows and
// in characters for structured buffers; overlap is in words.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunker splits extracted documents into enriched chunks.
type Chunker struct {
	size    int
	overlap int
	pool    *ants.Pool
	logger  *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithGeometry sets the chunk size and overlap. Size must exceed overlap so
// that sliding windows advance.
func WithGeometry(size, overlap int) Option {
	return func(c *Chunker) error {
		if size <= 0 {
			return fmt.Errorf("chunk size must be positive, got %d", size)
		}
		if overlap < 0 || overlap >= size {
			return fmt.Errorf("chunk overlap must be in [0,%d), got %d", size, overlap)
		}
		c.size = size
		c.overlap = overlap
		return nil
	}
}

// WithPool sets a worker pool for the enrichment pass. Enrichment of each
// chunk is independent, so the pass fans out per chunk and joins before
// returning. Without a pool enrichment runs sequentially.
func WithPool(pool *ants.Pool) Option {
	return func(c *Chunker) error {
		c.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// New creates a Chunker with the default geometry.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		size:    DefaultChunkSize,
		overlap: DefaultChunkOverlap,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Chunk splits an extracted document into enriched chunks. The strategy is
// selected by the document's structure type; every produced chunk is then
// enriched in the same pass. A document yielding no text or no chunks is an
// error the caller must surface as an ingest failure.
func (c *Chunker) Chunk(doc *core.Document, documentName string) ([]*core.Chunk, error) {
	if doc == nil || (strings.TrimSpace(doc.Text) == "" && len(doc.Pages) == 0) {
		return nil, ErrEmptyDocument
	}

	var chunks []*core.Chunk
	switch {
	case doc.StructureType == core.StructurePaged && len(doc.Pages) > 0:
		chunks = c.chunkByPages(doc.Pages, documentName)
	case doc.StructureType == core.StructureStructured && len(doc.Paragraphs) > 0:
		chunks = c.chunkByStructure(doc.Paragraphs, documentName)
	default:
		chunks = c.chunkGeneric(doc.Text, documentName)
	}

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	c.enrichAll(chunks)

	c.logger.Debug("chunked document",
		"document", documentName,
		"structure", doc.StructureType,
		"chunks", len(chunks))
	return chunks, nil
}

// chunkByPages emits one chunk per non-empty page.
func (c *Chunker) chunkByPages(pages []core.Page, documentName string) []*core.Chunk {
	chunks := make([]*core.Chunk, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		chunks = append(chunks, &core.Chunk{
			Text:      page.Text,
			Source:    documentName,
			ChunkType: core.ChunkTypePage,
			Metadata: core.ChunkMetadata{
				PageNumber: page.Number,
				CharCount:  page.CharCount,
			},
		})
	}
	return chunks
}

// chunkByStructure accumulates paragraphs into a running buffer, cutting at
// headings and whenever the buffer exceeds the size threshold (in
// characters). The heading level is carried as chunk metadata.
func (c *Chunker) chunkByStructure(paragraphs []core.Paragraph, documentName string) []*core.Chunk {
	var chunks []*core.Chunk
	var buffer strings.Builder
	var meta core.ChunkMetadata

	emit := func() {
		text := strings.TrimSpace(buffer.String())
		if text == "" {
			return
		}
		chunks = append(chunks, &core.Chunk{
			Text:      text,
			Source:    documentName,
			ChunkType: core.ChunkTypeStructured,
			Metadata:  meta,
		})
	}

	for _, para := range paragraphs {
		if para.HeadingLevel > 0 && buffer.Len() > 0 {
			emit()
			buffer.Reset()
			buffer.WriteString(para.Text)
			buffer.WriteString("\n")
			meta = core.ChunkMetadata{HeadingLevel: para.HeadingLevel}
		} else {
			buffer.WriteString(para.Text)
			buffer.WriteString("\n")
		}

		if buffer.Len() > c.size {
			emit()
			buffer.Reset()
			meta = core.ChunkMetadata{}
		}
	}

	emit()
	return chunks
}

// chunkGeneric splits the whitespace-tokenized word sequence into sliding
// windows of size words advancing by size-overlap per step. Consecutive
// windows share exactly overlap words; the final window may be shorter.
func (c *Chunker) chunkGeneric(text, documentName string) []*core.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []*core.Chunk
	for i := 0; i < len(words); i += step {
		end := i + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, &core.Chunk{
			Text:      strings.Join(words[i:end], " "),
			Source:    documentName,
			ChunkType: core.ChunkTypeGeneric,
			Metadata: core.ChunkMetadata{
				StartIndex: i,
				EndIndex:   end,
			},
		})
	}
	return chunks
}

// enrichAll assigns each chunk its relative position within the document and
// runs the enrichment pass.
func (c *Chunker) enrichAll(chunks []*core.Chunk) {
	total := len(chunks)
	for i, chunk := range chunks {
		chunk.ChunkPosition = float64(i) / float64(total)
	}
	c.Refresh(chunks)
}

// Refresh re-runs the enrichment pass over already-chunked chunks in place,
// fanning out on the worker pool when one is configured. Each task writes only
// its own chunk, so the result is identical to the sequential pass. Positions
// are preserved; only the derived classification fields are recomputed. Used
// to bring an existing index up to date after the vocabulary rules change,
// without re-extracting the documents.
func (c *Chunker) Refresh(chunks []*core.Chunk) {
	if c.pool == nil {
		for _, chunk := range chunks {
			enrich(chunk)
		}
		return
	}

	var wg sync.WaitGroup
	for _, chunk := range chunks {
		wg.Add(1)
		if err := c.pool.Submit(func() {
			defer wg.Done()
			enrich(chunk)
		}); err != nil {
			// Pool rejected the task; fall back inline.
			enrich(chunk)
			wg.Done()
		}
	}
	wg.Wait()
}
