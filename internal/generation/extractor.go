package generation

import (
	"encoding/json"
	"strings"
)

// Extractor defaults. Backend text that strays from the requested JSON
// contract degrades the result, never the response.
const (
	defaultExplanation  = "Code has been reviewed and optimized."
	fallbackExplanation = "AI provided general code review and suggestions."
	defaultQualityScore = 75
)

// ExtractCodeReview turns free-form backend text into a fully populated
// CodeReview. It is a total function: any input, including the empty
// string, yields a usable result. The text is expected to contain an
// embedded JSON object, possibly wrapped in prose or code fences; the
// span between the first '{' and the last '}' is parsed, and each field
// falls back to its default independently when missing or wrong-typed.
func ExtractCodeReview(raw, originalCode string) CodeReview {
	parsed, ok := parseEmbeddedObject(raw)
	if !ok {
		return CodeReview{
			Issues: []Issue{{
				Type:     "info",
				Message:  "Code analysis completed",
				Line:     1,
				Severity: "low",
			}},
			FixedCode:    originalCode,
			Explanation:  fallbackExplanation,
			QualityScore: defaultQualityScore,
		}
	}

	review := CodeReview{
		Issues:       coerceIssues(parsed["issues"]),
		FixedCode:    coerceString(parsed["fixedCode"], originalCode),
		Explanation:  coerceString(parsed["explanation"], defaultExplanation),
		QualityScore: coerceScore(parsed["qualityScore"]),
	}
	return review
}

func parseEmbeddedObject(raw string) (map[string]any, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, false
	}
	return parsed, true
}

func coerceIssues(v any) []Issue {
	items, ok := v.([]any)
	if !ok {
		return []Issue{}
	}
	out := make([]Issue, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}
		issue := Issue{
			Type:     coerceString(fields["type"], "suggestion"),
			Message:  coerceString(fields["message"], ""),
			Severity: coerceString(fields["severity"], "low"),
		}
		if line, ok := fields["line"].(float64); ok && line > 0 {
			issue.Line = int(line)
		}
		out = append(out, issue)
	}
	return out
}

func coerceString(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func coerceScore(v any) int {
	f, ok := v.(float64)
	if !ok {
		return defaultQualityScore
	}
	score := int(f)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
