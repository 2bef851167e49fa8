package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ada-mcp/ada-mcp-tools/pkg/types"
)

// ListTools returns the tool catalog of the gateway, in registry order
func (c *Client) ListTools() ([]*types.Tool, error) {
	u, _ := c.constructAPIEndpoint("/tools")

	req, err := c.newRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var tools []*types.Tool
	if err := json.NewDecoder(resp.Body).Decode(&tools); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return tools, nil
}

// GetTool returns the descriptor of a single tool
func (c *Client) GetTool(name string) (*types.Tool, error) {
	u, _ := c.constructAPIEndpoint("/tool")
	u += "?" + url.Values{"name": []string{name}}.Encode()

	req, err := c.newRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var tool types.Tool
	if err := json.NewDecoder(resp.Body).Decode(&tool); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &tool, nil
}

// InvokeTool runs a tool through the REST API and returns its result
func (c *Client) InvokeTool(name string, args map[string]any) (*types.ToolInvokeResult, error) {
	u, _ := c.constructAPIEndpoint("/tools/invoke")

	body, err := json.Marshal(&types.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool call: %w", err)
	}

	req, err := c.newRequest(http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseErrorResponse(resp)
	}

	var result types.ToolInvokeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}
