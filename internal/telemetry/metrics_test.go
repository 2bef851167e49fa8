package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestOtelCustomMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewOtelCustomMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordToolCall(ctx, "search", ToolCallOutcomeSuccess, 20*time.Millisecond)
	m.RecordToolCall(ctx, "fetch", ToolCallOutcomeError, time.Second)
	m.RecordStoreCommand(ctx, "GET", true, time.Millisecond)
	m.RecordRPCRequest(ctx, "tools/list", 0)
	m.PushSessionOpened(ctx)
	m.PushSessionOpened(ctx)
	m.PushSessionClosed(ctx)

	got := collect(t, reader)

	calls, ok := got["ada_tool_calls_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range calls.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	sessions, ok := got["ada_push_sessions_open"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sessions.DataPoints, 1)
	assert.Equal(t, int64(1), sessions.DataPoints[0].Value)

	assert.Contains(t, got, "ada_store_commands_total")
	assert.Contains(t, got, "ada_store_command_duration_seconds")
	assert.Contains(t, got, "ada_rpc_requests_total")
}

func TestInitDisabled(t *testing.T) {
	p, err := Init(context.Background(), &Config{ServiceName: "ada-mcp-tools", Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.Equal(t, "ada-mcp-tools", p.ServiceName())
	assert.NotNil(t, p.Meter)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNoopCustomMetrics(t *testing.T) {
	m := NewNoopCustomMetrics()
	ctx := context.Background()

	// must not panic
	m.RecordToolCall(ctx, "x", ToolCallOutcomeError, 0)
	m.RecordStoreCommand(ctx, "GET", false, 0)
	m.RecordRPCRequest(ctx, "bogus", -32601)
	m.PushSessionOpened(ctx)
	m.PushSessionClosed(ctx)
}
