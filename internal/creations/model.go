package creations

import "time"

// Creation types recorded in the ledger. Background and object removal
// both produce image rows.
const (
	TypeArticle      = "article"
	TypeBlogTitle    = "blog-title"
	TypeImage        = "image"
	TypeResumeReview = "resume-review"
	TypeCodeFix      = "code-fix"
)

// Creation is one ledger row: a prompt, the produced content, and the
// community state around it.
type Creation struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Prompt       string    `json:"prompt"`
	Content      string    `json:"content"`
	Type         string    `json:"type"`
	Publish      bool      `json:"publish"`
	Likes        []string  `json:"likes"`
	Language     string    `json:"language,omitempty"`
	Explanation  string    `json:"explanation,omitempty"`
	QualityScore *int      `json:"quality_score,omitempty"`
	OriginalCode string    `json:"original_code,omitempty"`
	IssuesFound  []Issue   `json:"issues_found,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Issue is a single finding from a code review.
type Issue struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Severity string `json:"severity"`
}
