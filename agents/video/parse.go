package video

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ParseInsights extracts structured insights from a model response. It tries
// a JSON array first, then falls back to scanning "key: value" lines, and as
// a last resort wraps the raw response in a single general insight. It never
// returns an empty slice for non-empty input.
func ParseInsights(response string) []Insight {
	if arr, ok := jsonArray(response); ok {
		insights := make([]Insight, 0, len(arr))
		for _, item := range arr {
			if !item.IsObject() {
				continue
			}
			insights = append(insights, Insight{
				Category:        field(item, "category", "General"),
				Insight:         field(item, "insight", ""),
				Implementation:  field(item, "implementation", "Review and adapt to your context"),
				Timeline:        field(item, "timeline", "1-3 months"),
				ResourcesNeeded: field(item, "resources_needed", "Standard resources"),
				SuccessMetrics:  field(item, "success_metrics", "Improved performance"),
				Priority:        field(item, "priority", "Medium"),
				Complexity:      field(item, "complexity", "Moderate"),
			})
		}
		if len(insights) > 0 {
			return insights
		}
	}

	if insights := scanInsightLines(response); len(insights) > 0 {
		return insights
	}

	return []Insight{{
		Category:        "General",
		Insight:         clip(strings.TrimSpace(response), 200),
		Implementation:  "Review and adapt to your context",
		Timeline:        "1-3 months",
		ResourcesNeeded: "Standard resources",
		SuccessMetrics:  "Improved performance",
		Priority:        "Medium",
		Complexity:      "Moderate",
	}}
}

// ParseRecommendations extracts structured recommendations from a model
// response, with the same JSON-first then catch-all strategy as
// ParseInsights.
func ParseRecommendations(response string) []Recommendation {
	if arr, ok := jsonArray(response); ok {
		recs := make([]Recommendation, 0, len(arr))
		for _, item := range arr {
			if !item.IsObject() {
				continue
			}
			rec := Recommendation{
				Title:          field(item, "title", "Implementation recommendation"),
				Description:    field(item, "description", ""),
				Rationale:      field(item, "rationale", "Derived from observed strategies"),
				Timeline:       field(item, "timeline", "1-3 months"),
				Dependencies:   field(item, "dependencies", "None identified"),
				ExpectedImpact: field(item, "expected_impact", "Moderate improvement"),
				RiskLevel:      field(item, "risk_level", "Low"),
			}
			for _, step := range item.Get("steps").Array() {
				rec.Steps = append(rec.Steps, step.String())
			}
			recs = append(recs, rec)
		}
		if len(recs) > 0 {
			return recs
		}
	}

	return []Recommendation{{
		Title:          "Apply extracted strategies",
		Description:    clip(strings.TrimSpace(response), 200),
		Rationale:      "Derived from observed strategies",
		Steps:          []string{"Review the strategy document", "Select the highest-impact strategy", "Pilot it for one month"},
		Timeline:       "1-3 months",
		Dependencies:   "None identified",
		ExpectedImpact: "Moderate improvement",
		RiskLevel:      "Low",
	}}
}

// jsonArray finds the outermost JSON array in a response, tolerating code
// fences and surrounding prose.
func jsonArray(response string) ([]gjson.Result, bool) {
	start := strings.Index(response, "[")
	end := strings.LastIndex(response, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	candidate := response[start : end+1]
	if !gjson.Valid(candidate) {
		return nil, false
	}
	parsed := gjson.Parse(candidate)
	if !parsed.IsArray() {
		return nil, false
	}
	return parsed.Array(), true
}

func field(item gjson.Result, key, fallback string) string {
	if value := item.Get(key); value.Exists() && value.String() != "" {
		return value.String()
	}
	return fallback
}

// scanInsightLines recovers insights from loosely formatted responses where
// the model produced labeled lines instead of JSON.
func scanInsightLines(response string) []Insight {
	var insights []Insight
	var current *Insight

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch key {
		case "category":
			if current != nil {
				insights = append(insights, *current)
			}
			current = &Insight{
				Category:        value,
				Implementation:  "Review and adapt to your context",
				Timeline:        "1-3 months",
				ResourcesNeeded: "Standard resources",
				SuccessMetrics:  "Improved performance",
				Priority:        "Medium",
				Complexity:      "Moderate",
			}
		case "insight":
			if current == nil {
				current = &Insight{
					Category:        "General",
					Implementation:  "Review and adapt to your context",
					Timeline:        "1-3 months",
					ResourcesNeeded: "Standard resources",
					SuccessMetrics:  "Improved performance",
					Priority:        "Medium",
					Complexity:      "Moderate",
				}
			}
			current.Insight = value
		case "implementation":
			if current != nil {
				current.Implementation = value
			}
		case "timeline":
			if current != nil {
				current.Timeline = value
			}
		case "resources_needed", "resources needed", "resources":
			if current != nil {
				current.ResourcesNeeded = value
			}
		case "success_metrics", "success metrics":
			if current != nil {
				current.SuccessMetrics = value
			}
		case "priority":
			if current != nil {
				current.Priority = value
			}
		case "complexity":
			if current != nil {
				current.Complexity = value
			}
		}
	}
	if current != nil {
		insights = append(insights, *current)
	}

	// Discard entries that never got an actual insight.
	kept := insights[:0]
	for _, in := range insights {
		if in.Insight != "" {
			kept = append(kept, in)
		}
	}
	return kept
}
