// Package store provides access to the backing key-value store.
//
// Every operation is a single attempt bounded by a short timeout. Failures of
// any kind (transport, timeout, upstream error, undecodable reply) are
// absorbed here and reported as an absent result, never as an error: callers
// treat a missing value and an unreachable store the same way.
package store

import (
	"context"
	"time"

	"github.com/ada-mcp/ada-mcp-tools/internal/telemetry"
)

// DefaultTimeout bounds a single store command.
const DefaultTimeout = 5 * time.Second

// Store is the typed view of the backing key-value store used by the tools.
type Store interface {
	// Get returns the string value at key. ok is false on a miss or on any failure.
	Get(ctx context.Context, key string) (value string, ok bool)

	// HSet sets field/value pairs on the hash at key.
	// fieldValues must hold an even number of elements.
	HSet(ctx context.Context, key string, fieldValues ...string) bool

	// LPush prepends value to the list at key.
	LPush(ctx context.Context, key, value string) bool

	// Keys returns the keys matching a redis-style glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, bool)
}

// Commander sends a single raw command to a store that speaks the redis command set.
type Commander interface {
	Do(ctx context.Context, args ...string) (any, bool)
}

// instrumented records a metric for every command passed to the wrapped Store.
type instrumented struct {
	next    Store
	metrics telemetry.CustomMetrics
}

// WithMetrics wraps s so that each operation is recorded as a store command metric.
func WithMetrics(s Store, m telemetry.CustomMetrics) Store {
	if m == nil {
		return s
	}
	return &instrumented{next: s, metrics: m}
}

func (i *instrumented) Get(ctx context.Context, key string) (string, bool) {
	started := time.Now()
	v, ok := i.next.Get(ctx, key)
	i.metrics.RecordStoreCommand(ctx, "GET", ok, time.Since(started))
	return v, ok
}

func (i *instrumented) HSet(ctx context.Context, key string, fieldValues ...string) bool {
	started := time.Now()
	ok := i.next.HSet(ctx, key, fieldValues...)
	i.metrics.RecordStoreCommand(ctx, "HSET", ok, time.Since(started))
	return ok
}

func (i *instrumented) LPush(ctx context.Context, key, value string) bool {
	started := time.Now()
	ok := i.next.LPush(ctx, key, value)
	i.metrics.RecordStoreCommand(ctx, "LPUSH", ok, time.Since(started))
	return ok
}

func (i *instrumented) Keys(ctx context.Context, pattern string) ([]string, bool) {
	started := time.Now()
	keys, ok := i.next.Keys(ctx, pattern)
	i.metrics.RecordStoreCommand(ctx, "KEYS", ok, time.Since(started))
	return keys, ok
}

// pairs converts a flat field/value list into a map.
// A trailing field without a value is dropped.
func pairs(fieldValues []string) map[string]string {
	m := make(map[string]string, len(fieldValues)/2)
	for i := 0; i+1 < len(fieldValues); i += 2 {
		m[fieldValues[i]] = fieldValues[i+1]
	}
	return m
}
