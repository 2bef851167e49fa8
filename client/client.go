// Package client provides a Go client for a running ada-mcp-tools gateway.
package client

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/ada-mcp/ada-mcp-tools/internal/api"
)

// Client talks to the gateway over its REST tool API and its MCP message endpoint.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client

	nextID atomic.Int64
}

// NewClient creates a client for the gateway at baseURL.
// accessToken is sent as a bearer token when non-empty, for gateways deployed behind an authenticating proxy.
func NewClient(baseURL string, accessToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

// BaseURL returns the base URL of the gateway.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// constructURL joins the base URL with a path relative to the gateway root.
func (c *Client) constructURL(p string) (string, error) {
	u, err := url.JoinPath(c.baseURL, p)
	if err != nil {
		return "", fmt.Errorf("failed to construct URL for %s: %w", p, err)
	}
	return u, nil
}

// constructAPIEndpoint returns the URL of a v0 REST API endpoint.
func (c *Client) constructAPIEndpoint(suffixPath string) (string, error) {
	return c.constructURL(api.V0ApiPathPrefix + suffixPath)
}

func (c *Client) newRequest(method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, err
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	return req, nil
}

func (c *Client) parseErrorResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("request failed with status: %d (failed to read body: %v)", resp.StatusCode, err)
	}
	return fmt.Errorf("request failed with status: %d, message: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
