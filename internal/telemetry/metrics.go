package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ToolCallOutcome is the outcome of a tool call as recorded in metrics.
type ToolCallOutcome string

const (
	ToolCallOutcomeSuccess ToolCallOutcome = "success"
	ToolCallOutcomeError   ToolCallOutcome = "error"
)

// CustomMetrics records the gateway-specific metrics.
// Callers use it unconditionally; when telemetry is disabled the no-op implementation is used.
type CustomMetrics interface {
	// RecordToolCall records one tools/call dispatch.
	RecordToolCall(ctx context.Context, toolName string, outcome ToolCallOutcome, elapsed time.Duration)

	// RecordStoreCommand records one command sent to the backing store.
	RecordStoreCommand(ctx context.Context, command string, ok bool, elapsed time.Duration)

	// RecordRPCRequest records one envelope handled by the message endpoint.
	RecordRPCRequest(ctx context.Context, method string, errorCode int)

	// PushSessionOpened and PushSessionClosed track the number of open push channels.
	PushSessionOpened(ctx context.Context)
	PushSessionClosed(ctx context.Context)
}

type noopCustomMetrics struct{}

// NewNoopCustomMetrics returns a CustomMetrics implementation that does nothing.
func NewNoopCustomMetrics() CustomMetrics {
	return noopCustomMetrics{}
}

func (noopCustomMetrics) RecordToolCall(context.Context, string, ToolCallOutcome, time.Duration) {}
func (noopCustomMetrics) RecordStoreCommand(context.Context, string, bool, time.Duration)        {}
func (noopCustomMetrics) RecordRPCRequest(context.Context, string, int)                          {}
func (noopCustomMetrics) PushSessionOpened(context.Context)                                      {}
func (noopCustomMetrics) PushSessionClosed(context.Context)                                      {}

type otelCustomMetrics struct {
	toolCalls        metric.Int64Counter
	toolCallLatency  metric.Float64Histogram
	storeCommands    metric.Int64Counter
	storeLatency     metric.Float64Histogram
	rpcRequests      metric.Int64Counter
	openPushSessions metric.Int64UpDownCounter
}

// NewOtelCustomMetrics creates the gateway instruments on the given meter.
func NewOtelCustomMetrics(meter metric.Meter) (CustomMetrics, error) {
	m := &otelCustomMetrics{}
	var err error

	m.toolCalls, err = meter.Int64Counter(
		"ada_tool_calls_total",
		metric.WithDescription("Number of tools/call dispatches"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool calls counter: %w", err)
	}
	m.toolCallLatency, err = meter.Float64Histogram(
		"ada_tool_call_duration_seconds",
		metric.WithDescription("Latency of tools/call dispatches"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call latency histogram: %w", err)
	}
	m.storeCommands, err = meter.Int64Counter(
		"ada_store_commands_total",
		metric.WithDescription("Number of commands sent to the backing store"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store commands counter: %w", err)
	}
	m.storeLatency, err = meter.Float64Histogram(
		"ada_store_command_duration_seconds",
		metric.WithDescription("Latency of backing store commands"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store latency histogram: %w", err)
	}
	m.rpcRequests, err = meter.Int64Counter(
		"ada_rpc_requests_total",
		metric.WithDescription("Number of JSON-RPC envelopes handled"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rpc requests counter: %w", err)
	}
	m.openPushSessions, err = meter.Int64UpDownCounter(
		"ada_push_sessions_open",
		metric.WithDescription("Number of open SSE push channels"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create push sessions counter: %w", err)
	}
	return m, nil
}

func (m *otelCustomMetrics) RecordToolCall(ctx context.Context, toolName string, outcome ToolCallOutcome, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("tool_name", toolName),
		attribute.String("outcome", string(outcome)),
	)
	m.toolCalls.Add(ctx, 1, attrs)
	m.toolCallLatency.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *otelCustomMetrics) RecordStoreCommand(ctx context.Context, command string, ok bool, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("command", command),
		attribute.Bool("ok", ok),
	)
	m.storeCommands.Add(ctx, 1, attrs)
	m.storeLatency.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *otelCustomMetrics) RecordRPCRequest(ctx context.Context, method string, errorCode int) {
	m.rpcRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("error_code", errorCode),
	))
}

func (m *otelCustomMetrics) PushSessionOpened(ctx context.Context) {
	m.openPushSessions.Add(ctx, 1)
}

func (m *otelCustomMetrics) PushSessionClosed(ctx context.Context) {
	m.openPushSessions.Add(ctx, -1)
}
