package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/askit/ai"
	"github.com/poiesic/askit/core"
)

// MockAnswerGenerator is a test double for ai.AnswerGenerator.
// It allows custom behavior injection via function fields.
type MockAnswerGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, uses a default deterministic answer built from the context.
	GenerateAnswerFunc func(ctx context.Context, query string, contextChunks []*core.ScoredChunk) (*ai.Answer, error)

	callCount int
}

var _ ai.AnswerGenerator = (*MockAnswerGenerator)(nil)

// NewMockAnswerGenerator creates a mock answer generator with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockAnswerGenerator() *MockAnswerGenerator {
	return &MockAnswerGenerator{}
}

// GenerateAnswer returns a deterministic answer derived from the context.
// Default behavior: echoes the query and the top chunk's source, with a
// confidence bounded by the context quality the same way the real
// implementation bounds it.
func (m *MockAnswerGenerator) GenerateAnswer(ctx context.Context, query string, contextChunks []*core.ScoredChunk) (*ai.Answer, error) {
	m.callCount++

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, query, contextChunks)
	}

	if len(contextChunks) == 0 {
		return ai.Degraded("No relevant context found in processed documents."), nil
	}

	avgScore := 0.0
	for _, sc := range contextChunks {
		avgScore += sc.Score
	}
	avgScore /= float64(len(contextChunks))

	confidence := 0.8
	if bound := avgScore + 0.3; bound < confidence {
		confidence = bound
	}

	return &ai.Answer{
		Text:           fmt.Sprintf("Mock answer to %q based on %s.", query, contextChunks[0].Chunk.Source),
		Confidence:     confidence,
		Reasoning:      "Mock answer generated from supplied context.",
		Sources:        ai.SourcesFromChunks(contextChunks),
		ContextQuality: avgScore,
	}, nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockAnswerGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockAnswerGenerator) Reset() {
	m.callCount = 0
	m.GenerateAnswerFunc = nil
}
