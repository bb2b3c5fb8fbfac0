package identity

import "github.com/gin-gonic/gin"

const contextKey = "sharerUserID"

// UserID returns the calling user's id extracted by Required, or empty string.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
