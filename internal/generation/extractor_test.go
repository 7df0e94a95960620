package generation

import (
	"reflect"
	"testing"
)

func TestExtractCodeReviewTotality(t *testing.T) {
	inputs := []string{
		"",
		"plain prose with no json at all",
		`{"issues": [`,
		"only an opening brace {",
		"} only a closing brace",
		"{}",
		"```json\n{\"fixedCode\": \"x\"}\n```",
		`prose before {"issues":[{"type":"error","message":"m","line":2,"severity":"high"}],"fixedCode":"y","explanation":"e","qualityScore":10} prose after`,
	}

	for _, input := range inputs {
		review := ExtractCodeReview(input, "original")
		if review.Issues == nil {
			t.Errorf("input %q: issues must never be nil", input)
		}
		if review.FixedCode == "" {
			t.Errorf("input %q: fixedCode must never be empty", input)
		}
		if review.Explanation == "" {
			t.Errorf("input %q: explanation must never be empty", input)
		}
		if review.QualityScore < 0 || review.QualityScore > 100 {
			t.Errorf("input %q: qualityScore %d out of range", input, review.QualityScore)
		}
	}
}

func TestExtractCodeReviewFidelity(t *testing.T) {
	raw := `blah {"issues":[],"fixedCode":"x","explanation":"e","qualityScore":42} blah`
	review := ExtractCodeReview(raw, "original")

	want := CodeReview{
		Issues:       []Issue{},
		FixedCode:    "x",
		Explanation:  "e",
		QualityScore: 42,
	}
	if !reflect.DeepEqual(review, want) {
		t.Fatalf("review = %+v, want %+v", review, want)
	}
}

func TestExtractCodeReviewParseFailureSyntheticIssue(t *testing.T) {
	review := ExtractCodeReview("the model refused to answer", "var a = 1;")

	if review.FixedCode != "var a = 1;" {
		t.Errorf("fixedCode = %q, want original code", review.FixedCode)
	}
	if review.Explanation != fallbackExplanation {
		t.Errorf("explanation = %q", review.Explanation)
	}
	if review.QualityScore != defaultQualityScore {
		t.Errorf("qualityScore = %d", review.QualityScore)
	}
	if len(review.Issues) != 1 {
		t.Fatalf("issues = %+v", review.Issues)
	}
	issue := review.Issues[0]
	if issue.Type != "info" || issue.Message != "Code analysis completed" || issue.Line != 1 || issue.Severity != "low" {
		t.Errorf("synthetic issue = %+v", issue)
	}
}

func TestExtractCodeReviewFieldDefaults(t *testing.T) {
	// Wrong-typed fields fall back independently.
	raw := `{"issues":"not an array","fixedCode":123,"explanation":null,"qualityScore":"high"}`
	review := ExtractCodeReview(raw, "orig")

	if len(review.Issues) != 0 {
		t.Errorf("issues = %+v, want empty", review.Issues)
	}
	if review.FixedCode != "orig" {
		t.Errorf("fixedCode = %q", review.FixedCode)
	}
	if review.Explanation != defaultExplanation {
		t.Errorf("explanation = %q", review.Explanation)
	}
	if review.QualityScore != defaultQualityScore {
		t.Errorf("qualityScore = %d", review.QualityScore)
	}
}

func TestExtractCodeReviewScoreClamping(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{`{"qualityScore":150}`, 100},
		{`{"qualityScore":-5}`, 0},
		{`{"qualityScore":0}`, 0},
		{`{"qualityScore":100}`, 100},
	}
	for _, tc := range cases {
		review := ExtractCodeReview(tc.raw, "orig")
		if review.QualityScore != tc.want {
			t.Errorf("raw %q: score = %d, want %d", tc.raw, review.QualityScore, tc.want)
		}
	}
}

func TestExtractCodeReviewIssueCoercion(t *testing.T) {
	raw := `{"issues":[
		{"type":"error","message":"nil deref","line":3,"severity":"high"},
		{"type":"warning","message":"unused var","line":-1},
		"not an object"
	]}`
	review := ExtractCodeReview(raw, "orig")

	if len(review.Issues) != 2 {
		t.Fatalf("issues = %+v", review.Issues)
	}
	if review.Issues[0].Line != 3 || review.Issues[0].Severity != "high" {
		t.Errorf("issue 0 = %+v", review.Issues[0])
	}
	if review.Issues[1].Line != 0 || review.Issues[1].Severity != "low" {
		t.Errorf("issue 1 = %+v", review.Issues[1])
	}
}
