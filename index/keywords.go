package index

import (
	"math"
	"regexp"
	"strings"

	"github.com/poiesic/askit/core"
)

// Stop words filtered out during keyword extraction
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"being": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "can": {}, "this": {}, "that": {}, "these": {},
	"those": {},
}

var wordPattern = regexp.MustCompile(`\b\w+\b`)

// Keywords derives the normalized keyword set for a piece of text: lowercased
// word tokens longer than 2 characters with stop words removed, deduplicated
// in first-occurrence order. The result depends only on the input text.
func Keywords(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	seen := make(map[string]struct{}, len(words))
	keywords := make([]string, 0, len(words))
	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}

// Blend weights for the similarity score.
const (
	keywordBlend = 0.6
	phraseBlend  = 0.4
)

// phraseBigramBonus is added for each adjacent query bigram found verbatim in
// the chunk text when the full query is not present.
const phraseBigramBonus = 0.3

// similarity scores a chunk against a query: keyword-set overlap blended with
// a phrase score. The phrase score is 1.0 for a full-query substring match,
// otherwise 0.3 per matching adjacent bigram, capped at 1.0 before blending.
func similarity(queryKeywords []string, chunk *core.Chunk, query string) float64 {
	if len(queryKeywords) == 0 {
		return 0.0
	}

	chunkSet := make(map[string]struct{}, len(chunk.Keywords))
	for _, kw := range chunk.Keywords {
		chunkSet[kw] = struct{}{}
	}

	overlap := 0
	for _, kw := range queryKeywords {
		if _, ok := chunkSet[kw]; ok {
			overlap++
		}
	}
	keywordScore := float64(overlap) / float64(len(queryKeywords))

	phraseScore := 0.0
	queryLower := strings.ToLower(query)
	textLower := strings.ToLower(chunk.Text)

	if strings.Contains(textLower, queryLower) {
		phraseScore = 1.0
	} else {
		queryWords := strings.Fields(queryLower)
		for i := 0; i+1 < len(queryWords); i++ {
			bigram := queryWords[i] + " " + queryWords[i+1]
			if strings.Contains(textLower, bigram) {
				phraseScore += phraseBigramBonus
			}
		}
	}

	return keywordScore*keywordBlend + math.Min(phraseScore, 1.0)*phraseBlend
}
