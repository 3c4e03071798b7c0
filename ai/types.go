package ai

import "github.com/poiesic/askit/core"

// InsufficientInformationAnswer is the canonical degraded answer used when no
// relevant context exists or the generator fails.
const InsufficientInformationAnswer = "I don't have enough relevant information to answer your query. " +
	"Please ensure the document has been processed and contains relevant content."

// Answer is the result of answer generation.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer"`

	// Confidence is the generator's confidence in [0,1], adjusted by the
	// quality of the supplied context.
	Confidence float64 `json:"confidence"`

	// Reasoning explains how the answer was derived.
	Reasoning string `json:"reasoning"`

	// Sources describes the context chunks the answer was grounded in, in
	// the order they were supplied.
	Sources []Source `json:"sources"`

	// ContextQuality is the mean retrieval score of the supplied chunks.
	ContextQuality float64 `json:"context_quality"`
}

// Source labels one context chunk used for an answer.
type Source struct {
	Source            string   `json:"source"`
	SimilarityScore   float64  `json:"similarity_score"`
	ContentCategories []string `json:"content_categories"`
	ChunkType         string   `json:"chunk_type"`
}

// Degraded returns the canonical "insufficient information" answer with zero
// confidence and the given reasoning.
func Degraded(reasoning string) *Answer {
	return &Answer{
		Text:       InsufficientInformationAnswer,
		Confidence: 0.0,
		Reasoning:  reasoning,
		Sources:    []Source{},
	}
}

// SourcesFromChunks builds source labels for a ranked context set.
func SourcesFromChunks(chunks []*core.ScoredChunk) []Source {
	sources := make([]Source, 0, len(chunks))
	for _, sc := range chunks {
		sources = append(sources, Source{
			Source:            sc.Chunk.Source,
			SimilarityScore:   sc.Score,
			ContentCategories: sc.Chunk.ContentCategories,
			ChunkType:         string(sc.Chunk.SemanticType),
		})
	}
	return sources
}
