package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// StructureType identifies how an extracted document is organized, which in
// turn selects the chunking strategy.
type StructureType string

const (
	// StructurePaged is for documents with page boundaries (e.g. PDF).
	StructurePaged StructureType = "paged"
	// StructureStructured is for documents with a heading hierarchy (e.g. DOCX).
	StructureStructured StructureType = "structured"
	// StructureGeneric is for plain text and anything without usable structure.
	StructureGeneric StructureType = "generic"
)

// Page is a single page of an extracted paged document.
type Page struct {
	Number    int    `json:"number"`
	Text      string `json:"text"`
	CharCount int    `json:"char_count"`
}

// Paragraph is a single paragraph of an extracted structured document.
// HeadingLevel is 0 for body text, 1-6 for headings.
type Paragraph struct {
	Text         string `json:"text"`
	Style        string `json:"style,omitempty"`
	HeadingLevel int    `json:"heading_level"`
}

// Document is the extraction handoff: everything the chunker needs to know
// about an extracted document, independent of the file format it came from.
type Document struct {
	Text          string            `json:"text"`
	StructureType StructureType     `json:"structure_type"`
	Pages         []Page            `json:"pages,omitempty"`
	Paragraphs    []Paragraph       `json:"paragraphs,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// ChunkType records which chunking strategy produced a chunk.
type ChunkType string

const (
	ChunkTypePage       ChunkType = "page"
	ChunkTypeStructured ChunkType = "structured"
	ChunkTypeGeneric    ChunkType = "generic"
)

// SemanticType is a mutually-exclusive, priority-ordered content classification.
type SemanticType string

const (
	SemanticTabular       SemanticType = "tabular"
	SemanticStructural    SemanticType = "structural"
	SemanticPolicyContent SemanticType = "policy_content"
	SemanticLegalContent  SemanticType = "legal_content"
	SemanticGeneral       SemanticType = "general"
)

// ChunkMetadata carries strategy-specific details about how a chunk was cut.
// Known fields are typed; Extra preserves anything else an extractor wants to
// pass through.
type ChunkMetadata struct {
	PageNumber   int               `json:"page_number,omitempty"`
	CharCount    int               `json:"char_count,omitempty"`
	HeadingLevel int               `json:"heading_level,omitempty"`
	StartIndex   int               `json:"start_index,omitempty"`
	EndIndex     int               `json:"end_index,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// Chunk is the unit of retrievable text. It is created once by the chunker
// and enriched in the same pass; after insertion into the index it is mutated
// only by a maintenance reindex pass.
type Chunk struct {
	VectorID  int       `json:"vector_id"`
	Text      string    `json:"text"`
	Source    string    `json:"source"`
	ChunkType ChunkType `json:"chunk_type"`

	Metadata ChunkMetadata `json:"metadata"`

	SemanticType      SemanticType `json:"semantic_type"`
	ContentCategories []string     `json:"content_categories"`

	HasNumbers      bool `json:"has_numbers"`
	HasCurrency     bool `json:"has_currency"`
	HasDates        bool `json:"has_dates"`
	HasPercentages  bool `json:"has_percentages"`
	HasMedicalTerms bool `json:"has_medical_terms"`
	HasLegalTerms   bool `json:"has_legal_terms"`

	WordCount     int     `json:"word_count"`
	ChunkPosition float64 `json:"chunk_position"`

	UrgencyIndicators   []string `json:"urgency_indicators"`
	ExclusionIndicators []string `json:"exclusion_indicators"`

	// Keywords is derived purely from Text; the same text always yields the
	// same set.
	Keywords []string `json:"keywords"`
}

// Field returns the lowercased string form of a chunk field by its wire name,
// for metadata filter matching. Collection fields are comma-joined. The
// second return is false for field names the chunk does not expose.
func (c *Chunk) Field(name string) (string, bool) {
	switch name {
	case "source":
		return strings.ToLower(c.Source), true
	case "text":
		return strings.ToLower(c.Text), true
	case "chunk_type":
		return string(c.ChunkType), true
	case "semantic_type":
		return string(c.SemanticType), true
	case "content_categories":
		return strings.ToLower(strings.Join(c.ContentCategories, ",")), true
	case "urgency_indicators":
		return strings.ToLower(strings.Join(c.UrgencyIndicators, ",")), true
	case "exclusion_indicators":
		return strings.ToLower(strings.Join(c.ExclusionIndicators, ",")), true
	case "has_numbers":
		return strconv.FormatBool(c.HasNumbers), true
	case "has_currency":
		return strconv.FormatBool(c.HasCurrency), true
	case "has_dates":
		return strconv.FormatBool(c.HasDates), true
	case "has_percentages":
		return strconv.FormatBool(c.HasPercentages), true
	case "has_medical_terms":
		return strconv.FormatBool(c.HasMedicalTerms), true
	case "has_legal_terms":
		return strconv.FormatBool(c.HasLegalTerms), true
	case "word_count":
		return strconv.Itoa(c.WordCount), true
	}
	return "", false
}

// ScoredChunk pairs a chunk with a relevance score from a retrieval pass.
type ScoredChunk struct {
	Chunk *Chunk
	Score float64
}

// IndexStats summarizes the state of the lexical index.
type IndexStats struct {
	TotalChunks        int            `json:"total_chunks"`
	EmbeddingDimension int            `json:"embedding_dimension"`
	ModelName          string         `json:"model_name"`
	IsTrained          bool           `json:"is_trained"`
	UniqueSources      int            `json:"unique_sources"`
	ContentCategories  map[string]int `json:"content_categories"`
}

// DocumentStatus tracks a document through the ingestion pipeline.
type DocumentStatus string

const (
	DocumentStatusPending    DocumentStatus = "pending"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// DocumentRecord is the registry entry for an ingested document.
type DocumentRecord struct {
	Id           ID
	Filename     string
	FileType     string
	FileSize     int64
	Status       DocumentStatus
	ChunkCount   int
	Metadata     map[string]string
	ErrorMessage string
	UploadedAt   time.Time // When the document entered the pipeline
	UpdatedAt    time.Time // When the record was last updated
}

// QueryRecord logs a single answered query for analytics.
type QueryRecord struct {
	Id             ID
	Query          string
	Answer         string
	Confidence     float64
	ChunksUsed     int
	ProcessingTime time.Duration
	Timestamp      time.Time // When the query was asked
	InsertedAt     time.Time // When the record was inserted into the database
}
