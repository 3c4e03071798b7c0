package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/askit/core"
)

const answerSystemPrompt = `You are an expert document analysis assistant specializing in insurance, legal, HR, and compliance domains. Your task is to provide accurate, detailed answers based on the provided document context.

Guidelines:
1. Answer based ONLY on the provided context - do not use external knowledge
2. If the context doesn't contain enough information, clearly state this
3. For insurance/policy queries, be specific about coverage conditions, waiting periods, and limitations
4. Include relevant details like amounts, percentages, time periods, and conditions
5. If there are exclusions or limitations, mention them explicitly
6. Structure your response clearly with specific details
7. Always indicate your confidence level in the answer

Response format: Provide a direct, comprehensive answer followed by your reasoning.`

// buildUserPrompt assembles the user message: the query followed by every
// context chunk, each labeled with its retrieval score and source.
func buildUserPrompt(query string, contextChunks []*core.ScoredChunk) string {
	var contextText strings.Builder
	for i, sc := range contextChunks {
		fmt.Fprintf(&contextText, "\n--- Context %d (Score: %.3f) ---\n", i+1, sc.Score)
		contextText.WriteString(sc.Chunk.Text)
		fmt.Fprintf(&contextText, "\n[Source: %s]", sc.Chunk.Source)
	}

	return fmt.Sprintf(`Query: %s

Context from documents:
%s

Please provide a comprehensive answer to the query based on the provided context. Include specific details like amounts, conditions, waiting periods, and any relevant limitations or exclusions.`,
		query, contextText.String())
}
