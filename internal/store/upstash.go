package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// maxUpstashResponseSize caps how much of a reply is read from the REST endpoint.
const maxUpstashResponseSize = 10 << 20

// Upstash talks to an Upstash Redis database over its REST API.
// A command is POSTed as a JSON array of strings and the reply is a JSON
// object carrying either a "result" or an "error" member.
type Upstash struct {
	url        string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// UpstashOption configures an Upstash client.
type UpstashOption func(*Upstash)

// WithHTTPClient overrides the HTTP client used to reach the REST endpoint.
func WithHTTPClient(c *http.Client) UpstashOption {
	return func(u *Upstash) { u.httpClient = c }
}

// WithTimeout overrides the per-command timeout.
func WithTimeout(d time.Duration) UpstashOption {
	return func(u *Upstash) {
		if d > 0 {
			u.timeout = d
		}
	}
}

// WithLogger sets the logger used to report absorbed failures.
func WithLogger(l *zap.Logger) UpstashOption {
	return func(u *Upstash) {
		if l != nil {
			u.logger = l
		}
	}
}

// NewUpstash creates a client for the Upstash REST endpoint at url.
func NewUpstash(url, token string, opts ...UpstashOption) *Upstash {
	u := &Upstash{
		url:        url,
		token:      token,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

type upstashReply struct {
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

// Do sends one command and returns its decoded result.
// ok is false if the command could not be completed for any reason.
func (u *Upstash) Do(ctx context.Context, args ...string) (any, bool) {
	if len(args) == 0 {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	body, err := json.Marshal(args)
	if err != nil {
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(body))
	if err != nil {
		u.logger.Warn("failed to build store request", zap.String("command", args[0]), zap.Error(err))
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")
	if u.token != "" {
		req.Header.Set("Authorization", "Bearer "+u.token)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		u.logger.Warn("store command failed", zap.String("command", args[0]), zap.Error(err))
		return nil, false
	}
	defer resp.Body.Close()

	var reply upstashReply
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUpstashResponseSize)).Decode(&reply); err != nil {
		u.logger.Warn(
			"failed to decode store reply",
			zap.String("command", args[0]),
			zap.Int("status", resp.StatusCode),
			zap.Error(err),
		)
		return nil, false
	}
	if reply.Error != "" {
		u.logger.Debug("store returned an error", zap.String("command", args[0]), zap.String("error", reply.Error))
		return nil, false
	}
	if resp.StatusCode != http.StatusOK {
		u.logger.Warn("unexpected store response status", zap.String("command", args[0]), zap.Int("status", resp.StatusCode))
		return nil, false
	}
	return reply.Result, true
}

func (u *Upstash) Get(ctx context.Context, key string) (string, bool) {
	res, ok := u.Do(ctx, "GET", key)
	if !ok {
		return "", false
	}
	s, ok := res.(string)
	return s, ok
}

func (u *Upstash) HSet(ctx context.Context, key string, fieldValues ...string) bool {
	args := append([]string{"HSET", key}, fieldValues...)
	_, ok := u.Do(ctx, args...)
	return ok
}

func (u *Upstash) LPush(ctx context.Context, key, value string) bool {
	_, ok := u.Do(ctx, "LPUSH", key, value)
	return ok
}

func (u *Upstash) Keys(ctx context.Context, pattern string) ([]string, bool) {
	res, ok := u.Do(ctx, "KEYS", pattern)
	if !ok {
		return nil, false
	}
	items, ok := res.([]any)
	if !ok {
		return nil, false
	}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		if k, ok := item.(string); ok {
			keys = append(keys, k)
		}
	}
	return keys, true
}
