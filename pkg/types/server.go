package types

// Implementation identifies a server in an initialize result.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// InitializeResult is the result payload of the initialize handshake.
type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      Implementation `json:"serverInfo"`
}

// HealthStatus is returned by the health endpoints.
type HealthStatus struct {
	Status string  `json:"status"`
	Server string  `json:"server"`
	TS     float64 `json:"ts"`
}

// DiscoveryEndpoints lists the absolute URLs a client needs to talk to the gateway.
type DiscoveryEndpoints struct {
	SSE     string `json:"sse"`
	Message string `json:"message"`
}

// DiscoveryDocument is served at /.well-known/mcp.json.
type DiscoveryDocument struct {
	Name      string             `json:"name"`
	Version   string             `json:"version"`
	Endpoints DiscoveryEndpoints `json:"endpoints"`
}
