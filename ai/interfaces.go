package ai

import (
	"context"

	"github.com/poiesic/askit/core"
)

// AnswerGenerator composes an answer to a query from ranked context chunks.
// Implementations must be thread-safe for concurrent use.
type AnswerGenerator interface {
	// GenerateAnswer produces an answer grounded in the supplied context
	// chunks, ordered most relevant first. The generator must answer from
	// the context only; callers treat an error as a degraded answer, not a
	// crash, and must not retry automatically.
	GenerateAnswer(ctx context.Context, query string, contextChunks []*core.ScoredChunk) (*Answer, error)
}
