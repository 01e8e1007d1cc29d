package video

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInsights_JSONArray(t *testing.T) {
	response := `[
		{"category": "Operations", "insight": "Batch similar tasks", "priority": "High", "complexity": "Low"},
		{"category": "Communication", "insight": "Weekly written updates"}
	]`

	insights := ParseInsights(response)

	require.Len(t, insights, 2)
	assert.Equal(t, "Operations", insights[0].Category)
	assert.Equal(t, "Batch similar tasks", insights[0].Insight)
	assert.Equal(t, "High", insights[0].Priority)
	assert.Equal(t, "Low", insights[0].Complexity)
	assert.Equal(t, "Medium", insights[1].Priority, "missing fields take defaults")
	assert.Equal(t, "Standard resources", insights[1].ResourcesNeeded)
}

func TestParseInsights_FencedJSON(t *testing.T) {
	response := "Here are the insights:\n```json\n" +
		`[{"category": "Focus", "insight": "Protect deep work"}]` +
		"\n```\nLet me know if you need more."

	insights := ParseInsights(response)

	require.Len(t, insights, 1)
	assert.Equal(t, "Focus", insights[0].Category)
	assert.Equal(t, "Protect deep work", insights[0].Insight)
}

func TestParseInsights_LabeledLines(t *testing.T) {
	response := `1. Category: Productivity
   Insight: Start the day with the hardest task
   Implementation: Schedule it before checking email
   Priority: High

2. Category: Health
   Insight: Walk between meetings`

	insights := ParseInsights(response)

	require.Len(t, insights, 2)
	assert.Equal(t, "Productivity", insights[0].Category)
	assert.Equal(t, "Schedule it before checking email", insights[0].Implementation)
	assert.Equal(t, "High", insights[0].Priority)
	assert.Equal(t, "Health", insights[1].Category)
	assert.Equal(t, "1-3 months", insights[1].Timeline, "unlabeled fields take defaults")
}

func TestParseInsights_Freeform(t *testing.T) {
	response := "The subject demonstrates strong delegation " + strings.Repeat("and iteration ", 30)

	insights := ParseInsights(response)

	require.Len(t, insights, 1)
	assert.Equal(t, "General", insights[0].Category)
	assert.True(t, strings.HasSuffix(insights[0].Insight, "..."), "long freeform text is clipped")
	assert.LessOrEqual(t, len(insights[0].Insight), 203)
}

func TestParseRecommendations_JSONArray(t *testing.T) {
	response := `[{
		"title": "Introduce weekly reviews",
		"description": "Close each week with a review",
		"steps": ["Book a slot", "Use a fixed template"],
		"risk_level": "Medium"
	}]`

	recs := ParseRecommendations(response)

	require.Len(t, recs, 1)
	assert.Equal(t, "Introduce weekly reviews", recs[0].Title)
	assert.Equal(t, []string{"Book a slot", "Use a fixed template"}, recs[0].Steps)
	assert.Equal(t, "Medium", recs[0].RiskLevel)
	assert.Equal(t, "1-3 months", recs[0].Timeline, "missing fields take defaults")
}

func TestParseRecommendations_Freeform(t *testing.T) {
	recs := ParseRecommendations("Consider adopting the observed planning cadence.")

	require.Len(t, recs, 1)
	assert.Equal(t, "Apply extracted strategies", recs[0].Title)
	assert.NotEmpty(t, recs[0].Steps)
	assert.Equal(t, "Low", recs[0].RiskLevel)
}
