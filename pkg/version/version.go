// Package version holds the release identity of the gateway.
package version

// Version is overridden at build time via ldflags.
var Version = "1.0.0"

const (
	// ServerName is the machine name reported in handshakes, health checks and push events.
	ServerName = "ada-mcp-tools"

	// DisplayName is the human-readable name used in the discovery document.
	DisplayName = "Ada MCP Tools"
)

// GetVersion returns the version of the gateway.
func GetVersion() string {
	return Version
}
