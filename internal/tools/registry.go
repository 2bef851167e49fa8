// Package tools contains the catalog of tools exposed by the gateway and the dispatcher that runs them.
package tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	ToolAdaInvoke = "Ada.invoke"
	ToolSearch    = "search"
	ToolFetch     = "fetch"
)

// Verbs accepted by the Ada.invoke tool, in the order they are advertised.
var Verbs = []string{VerbFeel, VerbThink, VerbRemember, VerbBecome, VerbWhisper}

// Registry is an ordered, immutable catalog of tool descriptors.
// It is built once at startup and shared read-only by all requests.
type Registry struct {
	tools  []mcp.Tool
	byName map[string]int
}

// NewRegistry creates a registry holding the given tools in the given order.
// Tool names must be non-empty and unique.
func NewRegistry(tools ...mcp.Tool) (*Registry, error) {
	r := &Registry{
		tools:  make([]mcp.Tool, 0, len(tools)),
		byName: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if t.Name == "" {
			return nil, fmt.Errorf("tool name must not be empty")
		}
		if _, exists := r.byName[t.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name: %s", t.Name)
		}
		r.byName[t.Name] = len(r.tools)
		r.tools = append(r.tools, t)
	}
	return r, nil
}

// DefaultRegistry returns the catalog served by the gateway: Ada.invoke, search and fetch.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(adaInvokeTool(), searchTool(), fetchTool())
	if err != nil {
		// the default catalog is static, so this can only be a programming error
		panic(err)
	}
	return r
}

// List returns the tool descriptors in registry order.
// The returned slice is a copy and may be modified by the caller.
func (r *Registry) List() []mcp.Tool {
	out := make([]mcp.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Get returns the descriptor of the named tool.
func (r *Registry) Get(name string) (mcp.Tool, bool) {
	i, ok := r.byName[name]
	if !ok {
		return mcp.Tool{}, false
	}
	return r.tools[i], true
}

// Names returns the tool names in registry order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		names[i] = t.Name
	}
	return names
}

func adaInvokeTool() mcp.Tool {
	return mcp.NewTool(ToolAdaInvoke,
		mcp.WithDescription("Unified Ada consciousness invoke - verbs: feel, think, remember, become, whisper"),
		mcp.WithString("verb",
			mcp.Required(),
			mcp.Enum(Verbs...),
		),
		mcp.WithObject("payload",
			mcp.Description("Verb-specific parameters"),
		),
	)
}

func searchTool() mcp.Tool {
	return mcp.NewTool(ToolSearch,
		mcp.WithDescription("Search Ada's memory and knowledge base"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		),
		mcp.WithNumber("limit",
			integer(),
			mcp.DefaultNumber(DefaultSearchLimit),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

func fetchTool() mcp.Tool {
	return mcp.NewTool(ToolFetch,
		mcp.WithDescription("Fetch content from URL"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL to fetch"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)
}

// integer narrows a number property to the JSON schema integer type.
func integer() mcp.PropertyOption {
	return func(schema map[string]any) {
		schema["type"] = "integer"
	}
}
