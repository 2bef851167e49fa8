// Package sse implements the server-push half of a gateway session: a one-way
// Server-Sent Events stream that announces the message endpoint and then keeps
// the connection alive with periodic pings.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ada-mcp/ada-mcp-tools/internal/telemetry"
	"github.com/ada-mcp/ada-mcp-tools/pkg/version"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPingInterval is the time between two keep-alive pings.
const DefaultPingInterval = 30 * time.Second

// Event names, in the order a session emits them.
const (
	EventEndpoint  = "endpoint"
	EventConnected = "connected"
	EventPing      = "ping"
)

// ChannelConfig configures a push Channel.
type ChannelConfig struct {
	PingInterval time.Duration

	Metrics telemetry.CustomMetrics
	Logger  *zap.Logger

	// Clock returns the current time; it defaults to time.Now.
	Clock func() time.Time
}

// Channel serves push sessions. A single Channel is shared by all connections;
// each call to Serve runs an independent session with its own ticker.
type Channel struct {
	interval time.Duration
	metrics  telemetry.CustomMetrics
	logger   *zap.Logger
	now      func() time.Time
}

type connectedData struct {
	Server  string  `json:"server"`
	Version string  `json:"version"`
	TS      float64 `json:"ts"`
}

type pingData struct {
	TS float64 `json:"ts"`
}

// NewChannel creates a Channel. Zero values in c fall back to defaults.
func NewChannel(c *ChannelConfig) *Channel {
	ch := &Channel{
		interval: c.PingInterval,
		metrics:  c.Metrics,
		logger:   c.Logger,
		now:      c.Clock,
	}
	if ch.interval <= 0 {
		ch.interval = DefaultPingInterval
	}
	if ch.metrics == nil {
		ch.metrics = telemetry.NewNoopCustomMetrics()
	}
	if ch.logger == nil {
		ch.logger = zap.NewNop()
	}
	if ch.now == nil {
		ch.now = time.Now
	}
	return ch
}

// Serve runs one push session on w. It emits the endpoint event, then the
// connected event, then a ping every interval until ctx is done or a write
// fails. flush is called after every event and may be nil.
// A failed write ends the session silently.
func (c *Channel) Serve(ctx context.Context, w io.Writer, flush func(), endpoint string) {
	sessionID := uuid.NewString()
	logger := c.logger.With(zap.String("session", sessionID))

	c.metrics.PushSessionOpened(ctx)
	defer c.metrics.PushSessionClosed(ctx)

	logger.Info("push session opened", zap.String("endpoint", endpoint))
	defer logger.Info("push session closed")

	send := func(name, data string) bool {
		if err := WriteEvent(w, name, data); err != nil {
			logger.Debug("push write failed, ending session", zap.String("event", name), zap.Error(err))
			return false
		}
		if flush != nil {
			flush()
		}
		return true
	}

	var last float64
	timestamp := func() float64 {
		ts := unixSeconds(c.now())
		// wall clock steps must not make pings go back in time
		if ts < last {
			ts = last
		}
		last = ts
		return ts
	}

	if !send(EventEndpoint, endpoint) {
		return
	}
	connected, _ := json.Marshal(connectedData{
		Server:  version.ServerName,
		Version: version.Version,
		TS:      timestamp(),
	})
	if !send(EventConnected, string(connected)) {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ping, _ := json.Marshal(pingData{TS: timestamp()})
			if !send(EventPing, string(ping)) {
				return
			}
		}
	}
}

// WriteEvent writes a single event in text/event-stream framing.
// data must not contain newlines.
func WriteEvent(w io.Writer, name, data string) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
