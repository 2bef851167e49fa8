package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ada-mcp/ada-mcp-tools/pkg/types"
)

// Call posts one JSON-RPC request to the message endpoint and decodes its result into out.
// A protocol-level error is returned as a *types.Error.
func (c *Client) Call(method string, params any, out any) error {
	id := json.RawMessage(strconv.FormatInt(c.nextID.Add(1), 10))

	raw, err := c.post(&types.Request{JSONRPC: types.JSONRPCVersion, ID: id, Method: method}, params)
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%s: gateway returned no response", method)
	}

	var resp types.RawResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !bytes.Equal(resp.ID, id) {
		return fmt.Errorf("%s: response id %s does not match request id %s", method, resp.ID, id)
	}
	if resp.Error != nil {
		return fmt.Errorf("%s failed: %w", method, resp.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

// Notify posts a one-way notification. The gateway acknowledges it without a body.
func (c *Client) Notify(method string, params any) error {
	raw, err := c.post(&types.Request{JSONRPC: types.JSONRPCVersion, Method: method}, params)
	if err != nil {
		return err
	}
	if raw != nil {
		return fmt.Errorf("%s: unexpected response to a notification: %s", method, raw)
	}
	return nil
}

// Initialize performs the MCP handshake and returns the server's identity and capabilities.
func (c *Client) Initialize() (*types.InitializeResult, error) {
	params := map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "ada-mcp-tools-cli", "version": "1.0.0"},
	}
	var result types.InitializeResult
	if err := c.Call("initialize", params, &result); err != nil {
		return nil, err
	}
	if err := c.Notify("notifications/initialized", nil); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListToolsRPC lists the tools over the MCP message endpoint.
func (c *Client) ListToolsRPC() ([]types.Tool, error) {
	var result types.ListToolsResult
	if err := c.Call("tools/list", nil, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool runs a tool over the MCP message endpoint.
// Tool-level failures are not errors; they are part of the returned result text.
func (c *Client) CallTool(name string, args map[string]any) (*types.ToolInvokeResult, error) {
	if args == nil {
		args = map[string]any{}
	}
	var result types.ToolInvokeResult
	if err := c.Call("tools/call", &types.CallToolParams{Name: name, Arguments: args}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Health returns the gateway's health status.
func (c *Client) Health() (*types.HealthStatus, error) {
	var status types.HealthStatus
	if err := c.getJSON("/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Discover returns the gateway's discovery document.
func (c *Client) Discover() (*types.DiscoveryDocument, error) {
	var doc types.DiscoveryDocument
	if err := c.getJSON("/.well-known/mcp.json", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// post sends an envelope to /message. It returns nil bytes when the gateway answers 204.
func (c *Client) post(req *types.Request, params any) ([]byte, error) {
	u, err := c.constructURL("/message")
	if err != nil {
		return nil, err
	}

	if params != nil {
		p, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		req.Params = p
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := c.newRequest(http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
		var raw json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return raw, nil
	default:
		return nil, c.parseErrorResponse(resp)
	}
}

func (c *Client) getJSON(path string, out any) error {
	u, err := c.constructURL(path)
	if err != nil {
		return err
	}

	req, err := c.newRequest(http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseErrorResponse(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
