package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the calling user's id. The gateway in front of this service
// authenticates the user and forwards the id; it is trusted here, not verified.
const Header = "X-Sharer-User-Id"

// Required extracts the user id from the sharer header and stores it in the
// request context. Requests without a well-formed id are rejected.
func Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + Header + " header"})
			return
		}
		if _, err := uuid.Parse(id); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + Header + " header"})
			return
		}

		c.Set(contextKey, id)
		c.Next()
	}
}
