package api

import (
	"net/http"

	"github.com/ada-mcp/ada-mcp-tools/pkg/types"
	"github.com/gin-gonic/gin"
)

func (s *Server) listToolsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.registry.List())
	}
}

func (s *Server) getToolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
			return
		}
		tool, ok := s.registry.Get(name)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "tool not found: " + name})
			return
		}
		c.JSON(http.StatusOK, tool)
	}
}

// invokeToolHandler runs a tool outside of an MCP session.
// The response body is the same tool result a tools/call would carry.
func (s *Server) invokeToolHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input types.CallToolParams
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tool name is required"})
			return
		}
		if _, ok := s.registry.Get(input.Name); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "tool not found: " + input.Name})
			return
		}

		args := input.Arguments
		if args == nil {
			args = map[string]any{}
		}
		c.JSON(http.StatusOK, s.invoker.Invoke(c.Request.Context(), input.Name, args))
	}
}
