package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ada-mcp/ada-mcp-tools/internal/fetcher"
	"github.com/ada-mcp/ada-mcp-tools/internal/store"
	"github.com/ada-mcp/ada-mcp-tools/internal/telemetry"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// ContentFetcher retrieves outbound content for the fetch tool.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) fetcher.Result
}

// handlerFunc runs one tool and returns the value to be serialized into the result text.
// failed reports a tool-level failure; it only affects metrics and logs.
type handlerFunc func(ctx context.Context, args map[string]any) (payload any, failed bool)

// DispatcherConfig holds the collaborators of a Dispatcher.
type DispatcherConfig struct {
	Registry *Registry
	Store    store.Store
	Fetcher  ContentFetcher

	Metrics telemetry.CustomMetrics
	Logger  *zap.Logger

	// Clock returns the current time; it defaults to time.Now.
	Clock func() time.Time
}

// Dispatcher maps a tool name and its arguments to a handler invocation.
// Every outcome, including unknown tools and tool failures, is returned as
// a successful CallToolResult whose single text block holds the JSON payload.
type Dispatcher struct {
	registry *Registry
	store    store.Store
	fetcher  ContentFetcher
	metrics  telemetry.CustomMetrics
	logger   *zap.Logger
	now      func() time.Time

	handlers map[string]handlerFunc
}

type toolError struct {
	Error string `json:"error"`
}

// NewDispatcher creates a Dispatcher.
// Every tool in the registry must have a handler.
func NewDispatcher(c *DispatcherConfig) (*Dispatcher, error) {
	if c.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if c.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if c.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	d := &Dispatcher{
		registry: c.Registry,
		store:    c.Store,
		fetcher:  c.Fetcher,
		metrics:  c.Metrics,
		logger:   c.Logger,
		now:      c.Clock,
	}
	if d.metrics == nil {
		d.metrics = telemetry.NewNoopCustomMetrics()
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if d.now == nil {
		d.now = time.Now
	}

	d.handlers = map[string]handlerFunc{
		ToolAdaInvoke: d.invokeAda,
		ToolSearch:    d.search,
		ToolFetch:     d.fetch,
	}
	for _, name := range c.Registry.Names() {
		if _, ok := d.handlers[name]; !ok {
			return nil, fmt.Errorf("no handler for registered tool %s", name)
		}
	}

	return d, nil
}

// Invoke runs the named tool. It never fails: tool-level errors are embedded
// in the payload as an "error" field.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	started := time.Now()
	outcome := telemetry.ToolCallOutcomeError
	defer func() {
		d.metrics.RecordToolCall(ctx, name, outcome, time.Since(started))
	}()

	if args == nil {
		args = map[string]any{}
	}

	var payload any
	failed := true

	h, ok := d.handlers[name]
	if _, registered := d.registry.Get(name); !ok || !registered {
		payload = toolError{Error: "Unknown tool: " + name}
	} else {
		payload, failed = h(ctx, args)
	}
	if !failed {
		outcome = telemetry.ToolCallOutcomeSuccess
	}

	text, err := json.Marshal(payload)
	if err != nil {
		// payloads are plain structs of strings and numbers; this is not expected to happen
		d.logger.Error("failed to encode tool result", zap.String("tool", name), zap.Error(err))
		text, _ = json.Marshal(toolError{Error: fmt.Sprintf("failed to encode result of %s: %v", name, err)})
		outcome = telemetry.ToolCallOutcomeError
	}

	d.logger.Debug(
		"tool call complete",
		zap.String("tool", name),
		zap.String("outcome", string(outcome)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return mcp.NewToolResultText(string(text))
}

// unixSeconds converts t to fractional seconds since the epoch.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
