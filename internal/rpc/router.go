// Package rpc interprets JSON-RPC envelopes posted to the message endpoint and
// routes them to the tool catalog and dispatcher.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ada-mcp/ada-mcp-tools/internal/telemetry"
	"github.com/ada-mcp/ada-mcp-tools/internal/tools"
	"github.com/ada-mcp/ada-mcp-tools/pkg/types"
	"github.com/ada-mcp/ada-mcp-tools/pkg/version"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// ProtocolVersion is the MCP protocol revision announced in the initialize handshake.
const ProtocolVersion = "2024-11-05"

const (
	MethodInitialize              = "initialize"
	MethodNotificationInitialized = "notifications/initialized"
	MethodToolsList               = "tools/list"
	MethodToolsCall               = "tools/call"
)

// ToolInvoker runs a tool call. *tools.Dispatcher implements it.
type ToolInvoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult
}

// RouterConfig holds the collaborators of a Router.
type RouterConfig struct {
	Registry *tools.Registry
	Invoker  ToolInvoker

	Metrics telemetry.CustomMetrics
	Logger  *zap.Logger
}

// Router is the envelope state machine behind POST /message.
// It is stateless and safe for concurrent use.
type Router struct {
	registry *tools.Registry
	invoker  ToolInvoker
	metrics  telemetry.CustomMetrics
	logger   *zap.Logger
}

type listToolsResult struct {
	Tools []mcp.Tool `json:"tools"`
}

type callToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// NewRouter creates a Router.
func NewRouter(c *RouterConfig) (*Router, error) {
	if c.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if c.Invoker == nil {
		return nil, fmt.Errorf("tool invoker is required")
	}
	r := &Router{
		registry: c.Registry,
		invoker:  c.Invoker,
		metrics:  c.Metrics,
		logger:   c.Logger,
	}
	if r.metrics == nil {
		r.metrics = telemetry.NewNoopCustomMetrics()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r, nil
}

// Handle decodes one envelope from body and returns the response to send back.
// It returns nil when the envelope is a notification and no body must be written.
func (r *Router) Handle(ctx context.Context, body []byte) *types.Response {
	if !json.Valid(body) {
		r.metrics.RecordRPCRequest(ctx, "", mcp.PARSE_ERROR)
		return errorResponse(nil, mcp.PARSE_ERROR, "Parse error")
	}

	var req types.Request
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) || json.Unmarshal(body, &req) != nil {
		r.metrics.RecordRPCRequest(ctx, "", mcp.INVALID_REQUEST)
		return errorResponse(nil, mcp.INVALID_REQUEST, "Invalid Request")
	}

	return r.HandleRequest(ctx, &req)
}

// HandleRequest routes a decoded envelope.
// It returns nil when the envelope is a notification and no body must be written.
func (r *Router) HandleRequest(ctx context.Context, req *types.Request) *types.Response {
	if req.Method == MethodNotificationInitialized || req.IsNotification() {
		r.logger.Debug("accepted notification", zap.String("method", req.Method))
		r.metrics.RecordRPCRequest(ctx, req.Method, 0)
		return nil
	}

	resp := r.route(ctx, req)

	code := 0
	if resp.Error != nil {
		code = resp.Error.Code
		r.logger.Debug(
			"rpc request failed",
			zap.String("method", req.Method),
			zap.Int("code", code),
			zap.String("message", resp.Error.Message),
		)
	}
	r.metrics.RecordRPCRequest(ctx, req.Method, code)

	return resp
}

func (r *Router) route(ctx context.Context, req *types.Request) *types.Response {
	if req.JSONRPC != "" && req.JSONRPC != types.JSONRPCVersion {
		return errorResponse(req.ID, mcp.INVALID_REQUEST, fmt.Sprintf("Invalid Request: unsupported jsonrpc version %q", req.JSONRPC))
	}

	switch req.Method {
	case MethodInitialize:
		return resultResponse(req.ID, initializeResult())

	case MethodToolsList:
		return resultResponse(req.ID, listToolsResult{Tools: r.registry.List()})

	case MethodToolsCall:
		name, args, err := decodeCallParams(req.Params)
		if err != nil {
			return errorResponse(req.ID, mcp.INVALID_PARAMS, "Invalid params: "+err.Error())
		}
		r.logger.Debug("tools/call", zap.String("tool", name))
		return resultResponse(req.ID, r.invoker.Invoke(ctx, name, args))
	}

	return errorResponse(req.ID, mcp.METHOD_NOT_FOUND, "Unknown method: "+req.Method)
}

func initializeResult() types.InitializeResult {
	return types.InitializeResult{
		ProtocolVersion: ProtocolVersion,
		Capabilities: map[string]any{
			"tools":     map[string]any{"listChanged": true},
			"resources": map[string]any{},
			"prompts":   map[string]any{},
		},
		ServerInfo: types.Implementation{
			Name:    version.ServerName,
			Version: version.Version,
		},
	}
}

// decodeCallParams extracts the tool name and arguments of a tools/call request.
// Missing params or arguments are treated as empty objects.
func decodeCallParams(raw json.RawMessage) (string, map[string]any, error) {
	var params callToolParams
	if !isNull(raw) {
		if err := json.Unmarshal(raw, &params); err != nil {
			return "", nil, fmt.Errorf("params must be an object with a string name: %w", err)
		}
	}

	args := map[string]any{}
	if !isNull(params.Arguments) {
		if err := json.Unmarshal(params.Arguments, &args); err != nil {
			return "", nil, fmt.Errorf("arguments must be an object: %w", err)
		}
		if args == nil {
			args = map[string]any{}
		}
	}

	return params.Name, args, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func resultResponse(id json.RawMessage, result any) *types.Response {
	return &types.Response{JSONRPC: types.JSONRPCVersion, ID: echoID(id), Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *types.Response {
	return &types.Response{
		JSONRPC: types.JSONRPCVersion,
		ID:      echoID(id),
		Error:   &types.Error{Code: code, Message: message},
	}
}

// echoID returns the request id as it should appear in the response; a missing id is sent as null.
func echoID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
