package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok := m.Get(ctx, "ada:mem:x")
	assert.False(t, ok, "expected a miss on an empty store")

	require.True(t, m.Set(ctx, "ada:mem:x", "remembered value"))
	v, ok := m.Get(ctx, "ada:mem:x")
	assert.True(t, ok)
	assert.Equal(t, "remembered value", v)

	require.True(t, m.HSet(ctx, "ada:state", "qualia", "warm", "ts", "1"))
	require.True(t, m.HSet(ctx, "ada:state", "mode", "HYBRID", "ts", "2"))
	h, ok := m.HGetAll(ctx, "ada:state")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"qualia": "warm", "mode": "HYBRID", "ts": "2"}, h)

	require.True(t, m.LPush(ctx, "ada:thoughts", "first"))
	require.True(t, m.LPush(ctx, "ada:thoughts", "second"))
	assert.Equal(t, []string{"second", "first"}, m.LRange(ctx, "ada:thoughts"))
}

func TestMemoryStoreWrongKind(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.True(t, m.HSet(ctx, "ada:state", "mode", "HYBRID"))
	_, ok := m.Get(ctx, "ada:state")
	assert.False(t, ok, "reading a hash as a string must be a miss")
	assert.False(t, m.LPush(ctx, "ada:state", "x"))

	require.True(t, m.Set(ctx, "plain", "v"))
	assert.False(t, m.HSet(ctx, "plain", "f", "v"))
}

func TestMemoryStoreKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.Set(ctx, "ada:mem:dream", "a")
	m.Set(ctx, "ada:mem:daydream", "b")
	m.Set(ctx, "other:dream", "c")
	m.HSet(ctx, "ada:state", "mode", "HYBRID")
	m.LPush(ctx, "ada:thoughts", "t")

	keys, ok := m.Keys(ctx, "ada:*dream*")
	require.True(t, ok)
	assert.Equal(t, []string{"ada:mem:daydream", "ada:mem:dream"}, keys)

	keys, ok = m.Keys(ctx, "ada:*")
	require.True(t, ok)
	assert.Equal(t, []string{"ada:mem:daydream", "ada:mem:dream", "ada:state", "ada:thoughts"}, keys)

	keys, ok = m.Keys(ctx, "nothing*")
	require.True(t, ok)
	assert.Empty(t, keys)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.LPush(ctx, "ada:thoughts", "t")
			m.HSet(ctx, "ada:state", "mode", "HYBRID")
			m.Keys(ctx, "ada:*")
		}()
	}
	wg.Wait()

	assert.Len(t, m.LRange(ctx, "ada:thoughts"), 50)
}
