package rpc

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ada-mcp/ada-mcp-tools/internal/fetcher"
	"github.com/ada-mcp/ada-mcp-tools/internal/store"
	"github.com/ada-mcp/ada-mcp-tools/internal/tools"
	"github.com/ada-mcp/ada-mcp-tools/pkg/types"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct{}

func (stubFetcher) Fetch(_ context.Context, url string) fetcher.Result {
	return fetcher.Result{URL: url, Status: 200, Content: "ok"}
}

type recordingInvoker struct {
	name string
	args map[string]any
}

func (r *recordingInvoker) Invoke(_ context.Context, name string, args map[string]any) *mcp.CallToolResult {
	r.name = name
	r.args = args
	return mcp.NewToolResultText(`{"ok":true}`)
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	registry := tools.DefaultRegistry()
	d, err := tools.NewDispatcher(&tools.DispatcherConfig{
		Registry: registry,
		Store:    store.NewMemory(),
		Fetcher:  stubFetcher{},
		Clock:    func() time.Time { return time.Unix(1700000000, 0) },
	})
	require.NoError(t, err)

	r, err := NewRouter(&RouterConfig{Registry: registry, Invoker: d})
	require.NoError(t, err)
	return r
}

// roundTrip handles body and returns the response as a generic JSON object.
func roundTrip(t *testing.T, r *Router, body string) map[string]any {
	t.Helper()
	resp := r.Handle(context.Background(), []byte(body))
	require.NotNil(t, resp, "expected a response envelope for %s", body)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestNewRouterValidation(t *testing.T) {
	_, err := NewRouter(&RouterConfig{Invoker: &recordingInvoker{}})
	assert.Error(t, err)

	_, err = NewRouter(&RouterConfig{Registry: tools.DefaultRegistry()})
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	r := newTestRouter(t)

	out := roundTrip(t, r, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)

	assert.Equal(t, "2.0", out["jsonrpc"])
	assert.Equal(t, float64(1), out["id"])
	assert.NotContains(t, out, "error")
	assert.Equal(t, map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities": map[string]any{
			"tools":     map[string]any{"listChanged": true},
			"resources": map[string]any{},
			"prompts":   map[string]any{},
		},
		"serverInfo": map[string]any{"name": "ada-mcp-tools", "version": "1.0.0"},
	}, out["result"])
}

func TestIDIsEchoedVerbatim(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		id   string
	}{
		{"integer", `7`},
		{"string", `"req-42"`},
		{"float", `1.5`},
		{"large integer", `12345678901234567890`},
		{"null", `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, method := range []string{"initialize", "tools/list", "nope"} {
				body := `{"jsonrpc":"2.0","id":` + tt.id + `,"method":"` + method + `"}`
				resp := r.Handle(context.Background(), []byte(body))
				require.NotNil(t, resp)

				raw, err := json.Marshal(resp)
				require.NoError(t, err)
				var envelope struct {
					ID json.RawMessage `json:"id"`
				}
				require.NoError(t, json.Unmarshal(raw, &envelope))
				assert.Equal(t, tt.id, string(envelope.ID), "method %s", method)
			}
		})
	}
}

func TestNotificationsHaveNoBody(t *testing.T) {
	r := newTestRouter(t)

	bodies := []string{
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized","id":3}`,
		`{"jsonrpc":"2.0","method":"notifications/cancelled","params":{"requestId":1}}`,
		`{"jsonrpc":"2.0","method":"tools/list"}`,
	}
	for _, body := range bodies {
		assert.Nil(t, r.Handle(context.Background(), []byte(body)), body)
	}
}

func TestToolsListOrder(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 3; i++ {
		out := roundTrip(t, r, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

		list := out["result"].(map[string]any)["tools"].([]any)
		require.Len(t, list, 3)
		var names []string
		for _, tool := range list {
			descriptor := tool.(map[string]any)
			names = append(names, descriptor["name"].(string))
			assert.Contains(t, descriptor, "inputSchema")
			assert.NotEmpty(t, descriptor["description"])
		}
		assert.Equal(t, []string{"Ada.invoke", "search", "fetch"}, names)
	}
}

func TestToolsCall(t *testing.T) {
	r := newTestRouter(t)

	out := roundTrip(t, r, `{"jsonrpc":"2.0","id":"w","method":"tools/call","params":{"name":"Ada.invoke","arguments":{"verb":"whisper","payload":{"message":"hi"}}}}`)

	assert.Equal(t, "w", out["id"])
	content := out["result"].(map[string]any)["content"].([]any)
	require.Len(t, content, 1)
	block := content[0].(map[string]any)
	assert.Equal(t, "text", block["type"])

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(block["text"].(string)), &payload))
	assert.Equal(t, "whispered", payload["status"])
	assert.Equal(t, "hi", payload["message"])
	assert.Equal(t, float64(1700000000), payload["ts"])
}

func TestToolsCallUnknownToolIsNotAProtocolError(t *testing.T) {
	r := newTestRouter(t)

	out := roundTrip(t, r, `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"nope"}}`)

	assert.NotContains(t, out, "error")
	content := out["result"].(map[string]any)["content"].([]any)
	text := content[0].(map[string]any)["text"].(string)
	assert.JSONEq(t, `{"error":"Unknown tool: nope"}`, text)
}

func TestToolsCallArgumentDefaults(t *testing.T) {
	inv := &recordingInvoker{}
	r, err := NewRouter(&RouterConfig{Registry: tools.DefaultRegistry(), Invoker: inv})
	require.NoError(t, err)

	bodies := []string{
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search"}}`,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search","arguments":null}}`,
	}
	for _, body := range bodies {
		inv.args = nil
		resp := r.Handle(context.Background(), []byte(body))
		require.NotNil(t, resp)
		assert.Nil(t, resp.Error)
		assert.Equal(t, "search", inv.name)
		assert.NotNil(t, inv.args)
		assert.Empty(t, inv.args)
	}

	resp := r.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/call"}`))
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "", inv.name)
}

func TestProtocolErrors(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		body string
		id   any
		code float64
	}{
		{"unknown method", `{"jsonrpc":"2.0","id":5,"method":"resources/list"}`, float64(5), float64(mcp.METHOD_NOT_FOUND)},
		{"missing method", `{"jsonrpc":"2.0","id":5}`, float64(5), float64(mcp.METHOD_NOT_FOUND)},
		{"malformed json", `{"jsonrpc":"2.0","id":5,`, nil, float64(mcp.PARSE_ERROR)},
		{"empty body", ``, nil, float64(mcp.PARSE_ERROR)},
		{"not an object", `[1,2,3]`, nil, float64(mcp.INVALID_REQUEST)},
		{"null body", `null`, nil, float64(mcp.INVALID_REQUEST)},
		{"method not a string", `{"jsonrpc":"2.0","id":5,"method":5}`, nil, float64(mcp.INVALID_REQUEST)},
		{"wrong version", `{"jsonrpc":"1.0","id":5,"method":"initialize"}`, float64(5), float64(mcp.INVALID_REQUEST)},
		{"params not an object", `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":[1]}`, float64(5), float64(mcp.INVALID_PARAMS)},
		{"arguments not an object", `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"search","arguments":"q"}}`, float64(5), float64(mcp.INVALID_PARAMS)},
		{"name not a string", `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":1}}`, float64(5), float64(mcp.INVALID_PARAMS)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := roundTrip(t, r, tt.body)

			assert.Equal(t, "2.0", out["jsonrpc"])
			assert.Contains(t, out, "id")
			assert.Equal(t, tt.id, out["id"])
			assert.NotContains(t, out, "result")
			rpcErr := out["error"].(map[string]any)
			assert.Equal(t, tt.code, rpcErr["code"])
			assert.NotEmpty(t, rpcErr["message"])
		})
	}
}

func TestUnknownMethodMessage(t *testing.T) {
	r := newTestRouter(t)

	resp := r.Handle(context.Background(), []byte(`{"jsonrpc":"2.0","id":5,"method":"resources/list"}`))

	require.NotNil(t, resp.Error)
	assert.Equal(t, "Unknown method: resources/list", resp.Error.Message)
}

func TestMissingVersionTagIsAccepted(t *testing.T) {
	r := newTestRouter(t)

	resp := r.Handle(context.Background(), []byte(`{"id":1,"method":"tools/list"}`))

	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.IsType(t, listToolsResult{}, resp.Result)
}

func TestHandleRequest(t *testing.T) {
	r := newTestRouter(t)

	resp := r.HandleRequest(context.Background(), &types.Request{
		JSONRPC: types.JSONRPCVersion,
		ID:      json.RawMessage(`"abc"`),
		Method:  MethodInitialize,
	})

	require.NotNil(t, resp)
	assert.Equal(t, json.RawMessage(`"abc"`), resp.ID)
	result, ok := resp.Result.(types.InitializeResult)
	require.True(t, ok)
	assert.Equal(t, ProtocolVersion, result.ProtocolVersion)
}
