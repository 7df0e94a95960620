package creations

import "time"

// CodeFixDetail is the full code-fix view. Content is exposed as
// fixed_code to match what the dashboard renders.
type CodeFixDetail struct {
	ID           string    `json:"id"`
	Language     string    `json:"language"`
	OriginalCode string    `json:"original_code"`
	FixedCode    string    `json:"fixed_code"`
	Explanation  string    `json:"explanation"`
	QualityScore *int      `json:"quality_score"`
	IssuesFound  []Issue   `json:"issues_found"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CodeFixSummary is the trimmed row for recent-activity widgets.
type CodeFixSummary struct {
	ID           string    `json:"id"`
	Language     string    `json:"language"`
	QualityScore *int      `json:"quality_score"`
	CreatedAt    time.Time `json:"created_at"`
	CodePreview  string    `json:"code_preview"`
}

// CodeFixSearchRow extends the summary with an explanation preview.
type CodeFixSearchRow struct {
	CodeFixSummary
	ExplanationPreview string `json:"explanation_preview"`
}

// SearchFilter narrows a code-fix search. Zero values mean "no filter";
// quality bounds use pointers so 0 remains expressible.
type SearchFilter struct {
	Language   string
	MinQuality *int
	MaxQuality *int
	Search     string
}

// LanguageStat aggregates quality per language.
type LanguageStat struct {
	Language        string  `json:"language"`
	TotalFixes      int     `json:"total_fixes"`
	AvgQualityScore float64 `json:"avg_quality_score"`
	MinQualityScore int     `json:"min_quality_score"`
	MaxQualityScore int     `json:"max_quality_score"`
}

// OverallStats aggregates quality across all of a user's code fixes.
type OverallStats struct {
	TotalCodeFixes    int     `json:"total_code_fixes"`
	OverallAvgQuality float64 `json:"overall_avg_quality"`
	HighQualityFixes  int     `json:"high_quality_fixes"`
	LowQualityFixes   int     `json:"low_quality_fixes"`
}

// QualityStats is the stats endpoint payload.
type QualityStats struct {
	LanguageStats []LanguageStat `json:"languageStats"`
	OverallStats  OverallStats   `json:"overallStats"`
}
