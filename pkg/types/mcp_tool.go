package types

// ToolInputSchema defines the schema for the input parameters of a tool
type ToolInputSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// Tool is a tool descriptor as advertised by the gateway in a tools/list result.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema ToolInputSchema `json:"inputSchema"`
	Annotations map[string]any  `json:"annotations,omitempty"`
}

// ListToolsResult is the result payload of a tools/list call.
type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

// CallToolParams are the params of a tools/call request.
type CallToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
}

// ToolInvokeResult represents the result of a tools/call request.
// Content always holds a single text block whose text is the JSON-encoded
// return value of the tool, including tool-level errors.
type ToolInvokeResult struct {
	Content []map[string]any `json:"content"`
	IsError bool             `json:"isError,omitempty"`
}

// Text returns the text of the first text content block, or an empty string.
func (r *ToolInvokeResult) Text() string {
	for _, c := range r.Content {
		if c["type"] != "text" {
			continue
		}
		if s, ok := c["text"].(string); ok {
			return s
		}
	}
	return ""
}
