package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const corsAllowedMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"

// allowAllOrigins answers CORS preflights and marks every response as
// readable from any origin.
func allowAllOrigins() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Origin") == "" {
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")

		if c.Request.Method != http.MethodOptions || c.GetHeader("Access-Control-Request-Method") == "" {
			c.Next()
			return
		}

		h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			h.Set("Access-Control-Allow-Headers", strings.TrimSpace(requested))
		}
		h.Set("Access-Control-Max-Age", "600")
		h.Add("Vary", "Origin")
		c.AbortWithStatus(http.StatusNoContent)
	}
}
