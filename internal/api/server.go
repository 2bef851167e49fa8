// Package api provides the HTTP surface of the ada-mcp-tools gateway.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ada-mcp/ada-mcp-tools/internal/rpc"
	"github.com/ada-mcp/ada-mcp-tools/internal/sse"
	"github.com/ada-mcp/ada-mcp-tools/internal/telemetry"
	"github.com/ada-mcp/ada-mcp-tools/internal/tools"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const (
	V0PathPrefix    = "/v0"
	V0ApiPathPrefix = "/api" + V0PathPrefix
)

// MaxRequestBodySize is the largest envelope accepted on the message endpoint.
const MaxRequestBodySize = 1 << 20

type ServerOptions struct {
	// Port is the HTTP port to bind the server to
	Port string

	// Registry is the tool catalog advertised by the gateway.
	Registry *tools.Registry
	// Invoker runs tool calls made through the REST API.
	// JSON-RPC tool calls go through RPCRouter, which holds its own invoker.
	Invoker rpc.ToolInvoker
	// RPCRouter interprets envelopes posted to /message.
	RPCRouter *rpc.Router
	// PushChannel serves the /sse stream.
	PushChannel *sse.Channel

	OtelProviders *telemetry.Providers
	Logger        *zap.Logger

	// Clock returns the current time; it defaults to time.Now.
	Clock func() time.Time
}

// Server represents the gateway's HTTP server: the MCP push and message
// endpoints, health and discovery, and the tool REST API.
type Server struct {
	port   string
	router *gin.Engine

	registry    *tools.Registry
	invoker     rpc.ToolInvoker
	rpcRouter   *rpc.Router
	pushChannel *sse.Channel

	otelProviders *telemetry.Providers
	logger        *zap.Logger
	now           func() time.Time
}

// NewServer initializes a new Gin server for the gateway
func NewServer(opts *ServerOptions) (*Server, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if opts.Invoker == nil {
		return nil, fmt.Errorf("tool invoker is required")
	}
	if opts.RPCRouter == nil {
		return nil, fmt.Errorf("rpc router is required")
	}
	if opts.PushChannel == nil {
		return nil, fmt.Errorf("push channel is required")
	}

	s := &Server{
		port:          opts.Port,
		registry:      opts.Registry,
		invoker:       opts.Invoker,
		rpcRouter:     opts.RPCRouter,
		pushChannel:   opts.PushChannel,
		otelProviders: opts.OtelProviders,
		logger:        opts.Logger,
		now:           opts.Clock,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}

	// Set up the router after the server is fully initialized
	r, err := s.setupRouter()
	if err != nil {
		return nil, err
	}
	s.router = r

	return s, nil
}

// Handler returns the server's request handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the Gin server (blocking call)
func (s *Server) Start() error {
	s.logger.Info("gateway listening", zap.String("port", s.port))
	if err := s.router.Run(":" + s.port); err != nil {
		return fmt.Errorf("failed to run the server: %w", err)
	}
	return nil
}

// setupRouter sets up the Gin router with the MCP endpoints and the tool API.
func (s *Server) setupRouter() (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	r.Use(allowAllOrigins())

	// if otel is enabled, setup prometheus metrics endpoint
	if s.otelProviders != nil && s.otelProviders.IsEnabled() {
		// instrument gin
		r.Use(otelgin.Middleware(s.otelProviders.ServiceName()))

		// expose prometheus metrics endpoint
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/", s.healthHandler())
	r.GET("/health", s.healthHandler())
	r.GET("/.well-known/mcp.json", s.discoveryHandler())

	// MCP over SSE: the push channel announces /message, where envelopes are posted
	r.GET("/sse", s.sseHandler())
	r.POST("/message", s.messageHandler())

	apiV0 := r.Group(V0ApiPathPrefix)
	{
		apiV0.GET("/tools", s.listToolsHandler())
		apiV0.GET("/tool", s.getToolHandler())
		apiV0.POST("/tools/invoke", s.invokeToolHandler())
	}

	return r, nil
}
