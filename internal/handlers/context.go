package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/hadrian75/campusfound/internal/middleware"
)

// currentUserID returns the authenticated user id from the request context.
func currentUserID(c *gin.Context) (string, bool) {
	value, ok := c.Get(middleware.ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := value.(string)
	return id, ok && id != ""
}
