package query

import "strings"

// Entity is a coarse entity found in a query, tagged with the vocabulary it
// came from.
type Entity struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Entity type tags.
const (
	EntityMedicalProcedure = "medical_procedure"
	EntityBodyPart         = "body_part"
	EntityFinancial        = "financial"
)

// Analysis is the result of classifying a query.
type Analysis struct {
	OriginalQuery          string   `json:"original_query"`
	QueryType              string   `json:"query_type"`
	IntentCategories       []string `json:"intent_categories"`
	KeyEntities            []Entity `json:"key_entities"`
	RequiresSpecificAnswer bool     `json:"requires_specific_answer"`
}

// intentRule maps an intent category to its trigger terms. Rules are
// evaluated in order; every matching category is collected and the first
// match becomes the primary query type.
type intentRule struct {
	category string
	terms    []string
}

var intentRules = []intentRule{
	{"coverage_query", []string{"cover", "coverage", "covered", "include", "included"}},
	{"exclusion_query", []string{"exclude", "excluded", "not covered", "exception", "limitation"}},
	{"waiting_period", []string{"waiting period", "wait", "minimum duration", "cooling period"}},
	{"eligibility", []string{"eligible", "eligibility", "qualify", "qualification", "criteria"}},
	{"cost_query", []string{"cost", "premium", "deductible", "copay", "price", "fee"}},
	{"procedure_query", []string{"surgery", "procedure", "treatment", "operation"}},
	{"condition_query", []string{"condition", "disease", "illness", "diagnosis"}},
	{"benefit_query", []string{"benefit", "advantage", "discount", "bonus"}},
}

var (
	medicalProcedureTerms = []string{"surgery", "procedure", "treatment", "diagnosis", "condition", "disease"}
	bodyPartTerms         = []string{"knee", "heart", "brain", "liver", "kidney", "eye", "dental", "maternity"}
	financialTerms        = []string{"premium", "deductible", "copay", "cost", "price", "discount"}

	questionWords = []string{"what", "when", "where", "how", "why", "which", "who"}
)

// QueryTypeGeneral is the query type when no intent category matches.
const QueryTypeGeneral = "general"

// Analyze classifies a query into intent categories, extracts coarse
// entities, and determines whether the query demands a specific answer.
func Analyze(text string) Analysis {
	lower := strings.ToLower(text)

	analysis := Analysis{
		OriginalQuery:    text,
		QueryType:        QueryTypeGeneral,
		IntentCategories: []string{},
		KeyEntities:      []Entity{},
	}

	for _, rule := range intentRules {
		if containsAny(lower, rule.terms) {
			analysis.IntentCategories = append(analysis.IntentCategories, rule.category)
		}
	}
	if len(analysis.IntentCategories) > 0 {
		analysis.QueryType = analysis.IntentCategories[0]
	}

	analysis.KeyEntities = append(analysis.KeyEntities, scanEntities(lower, EntityMedicalProcedure, medicalProcedureTerms)...)
	analysis.KeyEntities = append(analysis.KeyEntities, scanEntities(lower, EntityBodyPart, bodyPartTerms)...)
	analysis.KeyEntities = append(analysis.KeyEntities, scanEntities(lower, EntityFinancial, financialTerms)...)

	analysis.RequiresSpecificAnswer = containsAny(lower, questionWords)

	return analysis
}

// HasIntent reports whether the analysis contains the given intent category.
func (a Analysis) HasIntent(category string) bool {
	for _, c := range a.IntentCategories {
		if c == category {
			return true
		}
	}
	return false
}

func scanEntities(lower, entityType string, terms []string) []Entity {
	var entities []Entity
	for _, term := range terms {
		if strings.Contains(lower, term) {
			entities = append(entities, Entity{Type: entityType, Value: term})
		}
	}
	return entities
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}
