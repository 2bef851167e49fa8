package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tidwall/match"
)

// Memory is an in-process Store. It is used when no external store is
// configured, and as the store fake in tests.
// Like redis, a key holds exactly one kind of value; reading a key as the wrong kind is a miss.
type Memory struct {
	mu      sync.RWMutex
	strings map[string]string
	hashes  map[string]map[string]string
	lists   map[string][]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		strings: make(map[string]string),
		hashes:  make(map[string]map[string]string),
		lists:   make(map[string][]string),
	}
}

// Set stores a string value at key, replacing whatever the key held before.
func (m *Memory) Set(_ context.Context, key, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hashes, key)
	delete(m.lists, key)
	m.strings[key] = value
	return true
}

func (m *Memory) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.strings[key]
	return v, ok
}

func (m *Memory) HSet(_ context.Context, key string, fieldValues ...string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.strings[key]; taken {
		return false
	}
	if _, taken := m.lists[key]; taken {
		return false
	}
	h, ok := m.hashes[key]
	if !ok {
		h = make(map[string]string)
		m.hashes[key] = h
	}
	for f, v := range pairs(fieldValues) {
		h[f] = v
	}
	return true
}

// HGetAll returns a copy of the hash at key.
func (m *Memory) HGetAll(_ context.Context, key string) (map[string]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.hashes[key]
	if !ok {
		return nil, false
	}
	out := make(map[string]string, len(h))
	for f, v := range h {
		out[f] = v
	}
	return out, true
}

func (m *Memory) LPush(_ context.Context, key, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.strings[key]; taken {
		return false
	}
	if _, taken := m.hashes[key]; taken {
		return false
	}
	m.lists[key] = append([]string{value}, m.lists[key]...)
	return true
}

// LRange returns a copy of the whole list at key, head first.
func (m *Memory) LRange(_ context.Context, key string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.lists[key]...)
}

func (m *Memory) Keys(_ context.Context, pattern string) ([]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0)
	collect := func(k string) {
		if match.Match(k, pattern) {
			keys = append(keys, k)
		}
	}
	for k := range m.strings {
		collect(k)
	}
	for k := range m.hashes {
		collect(k)
	}
	for k := range m.lists {
		collect(k)
	}
	sort.Strings(keys)
	return keys, true
}
