package generation

// Operation is the closed set of generation operations. It is fixed at
// request construction and never reinterpreted mid-pipeline.
type Operation string

const (
	OpArticle          Operation = "article"
	OpBlogTitle        Operation = "blog-title"
	OpImage            Operation = "image"
	OpRemoveBackground Operation = "remove-background"
	OpRemoveObject     Operation = "remove-object"
	OpResumeReview     Operation = "resume-review"
	OpCodeFix          Operation = "code-fix"
)

// Payload carries operation-specific inputs. Only the fields the
// operation reads are populated; the rest stay zero.
type Payload struct {
	// Text operations.
	Prompt    string
	MaxTokens int
	Publish   bool

	// Image editing operations.
	Image      []byte
	ObjectName string

	// Resume review.
	File     []byte
	FileName string
	FileMime string

	// Code fix.
	Code     string
	Language string
}

// Request is one pipeline invocation.
type Request struct {
	Operation Operation
	UserID    string
	PlanClaim string
	Payload   Payload
}

// CodeReview is the guaranteed-shape code-fix result. Every field is
// always populated; see the extractor's defaulting rules.
type CodeReview struct {
	Issues       []Issue `json:"issues"`
	FixedCode    string  `json:"fixedCode"`
	Explanation  string  `json:"explanation"`
	QualityScore int     `json:"qualityScore"`
}

// Issue is a single code-review finding.
type Issue struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Severity string `json:"severity"`
}

// Result is what a completed pipeline run returns. Content holds text
// or a durable URL; Review is set for code-fix only.
type Result struct {
	Content string
	Review  *CodeReview
}
