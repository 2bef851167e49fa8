package types

import "encoding/json"

// JSONRPCVersion is the protocol tag carried by every envelope.
const JSONRPCVersion = "2.0"

// Request is an inbound JSON-RPC envelope posted to the message endpoint.
// ID is kept as raw bytes so that it can be echoed back verbatim.
// A request without an ID is a one-way notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no ID.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is the JSON-RPC envelope returned for a request that carries an ID.
// Exactly one of Result or Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the error member of a Response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// RawResponse is a Response as seen by a client, with the result left undecoded.
type RawResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}
