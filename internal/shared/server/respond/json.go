package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every endpoint answers with the same envelope; callers branch on
// the success flag rather than the HTTP status. Domain failures
// (quota, premium gate, bad input, backend outage) still return 200.

// Content writes a successful envelope carrying generated content.
func Content(c *gin.Context, content string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "content": content})
}

// Data writes a successful envelope carrying a structured payload.
func Data(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": payload})
}

// OK writes a successful envelope with extra top-level fields merged in.
func OK(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
