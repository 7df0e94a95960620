package generation

import "fmt"

// Ledger labels for operations whose prompt is not user text.
const (
	labelRemoveBackground = "Remove background from image"
	labelResumeReview     = "Review the uploaded resume"
)

func labelRemoveObject(objectName string) string {
	return fmt.Sprintf("Removed %s from image", objectName)
}

func labelCodeFix(language string) string {
	return fmt.Sprintf("Fix and optimize %s code", language)
}

func resumeReviewPrompt(resumeText string) string {
	return "Review the following resume and provide constructive feedback on its strengths, weaknesses, and areas for improvement. Resume Content:\n\n" + resumeText
}

// codeFixPrompt asks the model for a JSON object with a fixed key set.
// The extractor tolerates answers that stray from it.
func codeFixPrompt(language, code string) string {
	return fmt.Sprintf(`You are an expert code reviewer and debugger. Analyze the following %[1]s code and provide a comprehensive response in JSON format with these exact keys:

1. "issues": An array of objects, each containing:
   - "type": "error", "warning", or "suggestion"
   - "message": Description of the issue
   - "line": Line number (estimate if needed)
   - "severity": "high", "medium", or "low"

2. "fixedCode": The corrected and optimized version of the code with proper formatting

3. "explanation": A clear explanation of what was wrong and how it was fixed

4. "qualityScore": A number from 0-100 representing the code quality after fixes

Original %[1]s code:
`+"```%[1]s\n%[2]s\n```"+`

Please ensure the JSON is properly formatted and complete.`, language, code)
}
