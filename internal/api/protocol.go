package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ada-mcp/ada-mcp-tools/internal"
	"github.com/ada-mcp/ada-mcp-tools/pkg/types"
	"github.com/ada-mcp/ada-mcp-tools/pkg/version"
	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

const forwardedProtoHeader = "X-Forwarded-Proto"

func (s *Server) healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, &types.HealthStatus{
			Status: "ok",
			Server: version.ServerName,
			TS:     unixSeconds(s.now()),
		})
	}
}

func (s *Server) discoveryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		host, proto := c.Request.Host, c.GetHeader(forwardedProtoHeader)
		c.JSON(http.StatusOK, &types.DiscoveryDocument{
			Name:    version.DisplayName,
			Version: version.GetVersion(),
			Endpoints: types.DiscoveryEndpoints{
				SSE:     internal.SSEURL(host, proto),
				Message: internal.MessageURL(host, proto),
			},
		})
	}
}

// sseHandler holds the connection open and runs a push session on it until
// the client goes away.
func (s *Server) sseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache, no-transform")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		c.Status(http.StatusOK)
		c.Writer.WriteHeaderNow()
		c.Writer.Flush()

		endpoint := internal.MessageURL(c.Request.Host, c.GetHeader(forwardedProtoHeader))
		s.pushChannel.Serve(c.Request.Context(), c.Writer, c.Writer.Flush, endpoint)
	}
}

// messageHandler accepts one JSON-RPC envelope and writes back its response,
// or 204 with no body for notifications.
func (s *Server) messageHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, MaxRequestBodySize+1))
		if err != nil {
			s.logger.Warn("failed to read message body", zap.Error(err))
			writeEnvelope(c, rpcError(mcp.PARSE_ERROR, "failed to read request body"))
			return
		}
		if len(body) > MaxRequestBodySize {
			writeEnvelope(c, rpcError(mcp.INVALID_REQUEST, "request body too large"))
			return
		}

		resp := s.rpcRouter.Handle(c.Request.Context(), body)
		if resp == nil {
			c.Status(http.StatusNoContent)
			return
		}
		writeEnvelope(c, resp)
	}
}

func rpcError(code int, message string) *types.Response {
	return &types.Response{
		JSONRPC: types.JSONRPCVersion,
		ID:      json.RawMessage("null"),
		Error:   &types.Error{Code: code, Message: message},
	}
}

// writeEnvelope writes resp without HTML escaping so that echoed ids stay byte-identical.
func writeEnvelope(c *gin.Context, resp *types.Response) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", bytes.TrimRight(buf.Bytes(), "\n"))
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
