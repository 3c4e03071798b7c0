package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_WaitingPeriod(t *testing.T) {
	analysis := Analyze("When does the waiting period for maternity end?")

	assert.Equal(t, "When does the waiting period for maternity end?", analysis.OriginalQuery)
	assert.Equal(t, "waiting_period", analysis.QueryType)
	assert.Contains(t, analysis.IntentCategories, "waiting_period")
	assert.True(t, analysis.RequiresSpecificAnswer, "question word present")

	require.NotEmpty(t, analysis.KeyEntities)
	assert.Contains(t, analysis.KeyEntities, Entity{Type: EntityBodyPart, Value: "maternity"})
}

func TestAnalyze_MultipleIntents(t *testing.T) {
	analysis := Analyze("Is knee surgery covered and what is the copay?")

	assert.Contains(t, analysis.IntentCategories, "coverage_query")
	assert.Contains(t, analysis.IntentCategories, "cost_query")
	assert.Contains(t, analysis.IntentCategories, "procedure_query")

	// The first matching rule in evaluation order becomes the primary type
	assert.Equal(t, "coverage_query", analysis.QueryType)

	assert.Contains(t, analysis.KeyEntities, Entity{Type: EntityMedicalProcedure, Value: "surgery"})
	assert.Contains(t, analysis.KeyEntities, Entity{Type: EntityBodyPart, Value: "knee"})
	assert.Contains(t, analysis.KeyEntities, Entity{Type: EntityFinancial, Value: "copay"})
}

func TestAnalyze_General(t *testing.T) {
	analysis := Analyze("Tell me about the document.")

	assert.Equal(t, QueryTypeGeneral, analysis.QueryType)
	assert.Empty(t, analysis.IntentCategories)
	assert.Empty(t, analysis.KeyEntities)
	assert.False(t, analysis.RequiresSpecificAnswer)
}

func TestAnalyze_ExclusionIntent(t *testing.T) {
	analysis := Analyze("List everything excluded from the plan.")

	assert.Equal(t, "exclusion_query", analysis.QueryType)
	assert.False(t, analysis.RequiresSpecificAnswer, "no question word")
}

func TestAnalyze_CaseInsensitive(t *testing.T) {
	analysis := Analyze("WHAT IS THE DEDUCTIBLE?")

	assert.Contains(t, analysis.IntentCategories, "cost_query")
	assert.Contains(t, analysis.KeyEntities, Entity{Type: EntityFinancial, Value: "deductible"})
	assert.True(t, analysis.RequiresSpecificAnswer)
}

func TestAnalysis_HasIntent(t *testing.T) {
	analysis := Analyze("What is the waiting period?")

	assert.True(t, analysis.HasIntent("waiting_period"))
	assert.False(t, analysis.HasIntent("coverage_query"))
	assert.False(t, Analysis{}.HasIntent("waiting_period"))
}
