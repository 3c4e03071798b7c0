package chunk

// Fixed vocabularies for chunk classification. All matching is
// case-insensitive substring matching against the chunk text.

// semanticRule maps a semantic type to its trigger terms. Rules are evaluated
// in order; the first match wins.
type semanticRule struct {
	semanticType string
	terms        []string
}

var semanticRules = []semanticRule{
	{"tabular", []string{"table", "chart", "figure", "|", "row", "column"}},
	{"structural", []string{"section", "chapter", "article", "clause"}},
	{"policy_content", []string{"policy", "coverage", "premium", "deductible"}},
	{"legal_content", []string{"terms", "conditions", "agreement", "contract"}},
}

// categoryRule maps a content category to its trigger terms. Unlike semantic
// rules, every matching category applies.
type categoryRule struct {
	category string
	terms    []string
}

var categoryRules = []categoryRule{
	{"eligibility_criteria", []string{"eligible", "eligibility", "qualify", "qualification", "criteria", "requirements"}},
	{"waiting_periods", []string{"waiting period", "wait", "minimum duration", "cooling period", "pre-existing"}},
	{"coverage_limits", []string{"maximum", "limit", "cap", "upto", "not exceeding", "ceiling"}},
	{"deductibles", []string{"deductible", "co-payment", "copay", "self-payment", "excess"}},
	{"geographical", []string{"location", "network", "hospital", "city", "state", "region"}},
	{"age_related", []string{"age", "years old", "minor", "senior", "adult", "child"}},
	{"emergency", []string{"emergency", "urgent", "critical", "immediate", "acute"}},
	{"preventive", []string{"preventive", "preventative", "routine", "screening", "checkup"}},
	{"chronic_conditions", []string{"chronic", "diabetes", "hypertension", "cancer", "heart disease"}},
	{"maternity", []string{"maternity", "pregnancy", "childbirth", "delivery", "prenatal"}},
	{"dental", []string{"dental", "teeth", "oral", "orthodontic", "periodontal"}},
	{"mental_health", []string{"mental health", "psychological", "psychiatric", "counseling", "therapy"}},
}

var medicalTerms = []string{
	"surgery", "procedure", "treatment", "diagnosis", "medication", "therapy",
	"hospital", "clinic", "doctor", "physician", "specialist", "consultation",
	"disease", "condition", "symptom", "patient", "medical", "clinical",
}

var legalTerms = []string{
	"contract", "agreement", "clause", "terms", "conditions", "liability",
	"indemnity", "breach", "compliance", "regulation", "statute", "law",
}

// indicatorRule maps an urgency or exclusion tag to its trigger terms.
type indicatorRule struct {
	indicator string
	terms     []string
}

var urgencyRules = []indicatorRule{
	{"immediate", []string{"immediate", "urgent", "emergency", "critical", "acute"}},
	{"time_sensitive", []string{"within", "before", "deadline", "expires", "due date"}},
	{"conditional", []string{"must", "required", "mandatory", "shall", "obligated"}},
}

var exclusionRules = []indicatorRule{
	{"not_covered", []string{"not covered", "excluded", "exception", "does not cover"}},
	{"limitations", []string{"limited to", "maximum", "up to", "subject to"}},
	{"restrictions", []string{"restricted", "prohibited", "forbidden", "not applicable"}},
}
