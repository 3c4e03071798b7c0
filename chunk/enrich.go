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


package chunk

import (
	"regexp"
	"strings"

	"github.com/poiesic/askit/core"
)

var (
	numbersPattern     = regexp.MustCompile(`\d+`)
	currencyPattern    = regexp.MustCompile(`(?i)[$€£₹]|\b(?:dollar|euro|pound|rupee)s?\b`)
	datesPattern       = regexp.MustCompile(`(?i)\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	percentagesPattern = regexp.MustCompile(`\d+\.?\d*\s*%`)
)

// enrich fills the derived fields of a chunk in a single pass. ChunkPosition
// is set at chunking time and never touched here, so a refresh over
// already-indexed chunks keeps the position recorded for the document.
func enrich(chunk *core.Chunk) {
	text := chunk.Text
	lower := strings.ToLower(text)

	chunk.SemanticType = classifySemanticType(lower)
	chunk.ContentCategories = extractContentCategories(lower)

	chunk.HasNumbers = numbersPattern.MatchString(text)
	chunk.HasCurrency = currencyPattern.MatchString(text)
	chunk.HasDates = datesPattern.MatchString(text)
	chunk.HasPercentages = percentagesPattern.MatchString(text)
	chunk.HasMedicalTerms = containsAny(lower, medicalTerms)
	chunk.HasLegalTerms = containsAny(lower, legalTerms)

	chunk.WordCount = len(strings.Fields(text))

	chunk.UrgencyIndicators = matchIndicators(lower, urgencyRules)
	chunk.ExclusionIndicators = matchIndicators(lower, exclusionRules)
}

// classifySemanticType assigns the single semantic type whose rule matches
// first. First-match classification and multi-match category tagging are
// deliberately separate functions; see extractContentCategories.
func classifySemanticType(lower string) core.SemanticType {
	for _, rule := range semanticRules {
		if containsAny(lower, rule.terms) {
			return core.SemanticType(rule.semanticType)
		}
	}
	return core.SemanticGeneral
}

// extractContentCategories collects every category whose rule matches.
// Multiple categories may apply to one chunk.
func extractContentCategories(lower string) []string {
	categories := make([]string, 0, 4)
	for _, rule := range categoryRules {
		if containsAny(lower, rule.terms) {
			categories = append(categories, rule.category)
		}
	}
	return categories
}

func matchIndicators(lower string, rules []indicatorRule) []string {
	indicators := make([]string, 0, len(rules))
	for _, rule := range rules {
		if containsAny(lower, rule.terms) {
			indicators = append(indicators, rule.indicator)
		}
	}
	return indicators
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
