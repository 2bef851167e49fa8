package sse

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ada-mcp/ada-mcp-tools/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	name string
	data string
}

// eventWriter hands every write to the test as one parsed event.
type eventWriter struct {
	events chan event
}

func (w *eventWriter) Write(p []byte) (int, error) {
	s := string(p)
	lines := strings.Split(strings.TrimSuffix(s, "\n\n"), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "event: ") || !strings.HasPrefix(lines[1], "data: ") {
		return 0, errors.New("unexpected frame: " + s)
	}
	w.events <- event{
		name: strings.TrimPrefix(lines[0], "event: "),
		data: strings.TrimPrefix(lines[1], "data: "),
	}
	return len(p), nil
}

// failingWriter accepts n writes and then fails.
type failingWriter struct {
	n      int
	writes int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.writes >= w.n {
		return 0, io.ErrClosedPipe
	}
	w.writes++
	return len(p), nil
}

type sessionMetrics struct {
	telemetry.CustomMetrics
	mu     sync.Mutex
	opened int
	closed int
}

func (m *sessionMetrics) PushSessionOpened(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opened++
}

func (m *sessionMetrics) PushSessionClosed(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
}

func next(t *testing.T, events <-chan event) event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return event{}
	}
}

func TestServeEventOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := NewChannel(&ChannelConfig{PingInterval: 5 * time.Millisecond})
	w := &eventWriter{events: make(chan event)}

	flushes := 0
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		ch.Serve(ctx, w, func() {
			mu.Lock()
			flushes++
			mu.Unlock()
		}, "https://ada.example.com/message")
	}()

	first := next(t, w.events)
	assert.Equal(t, EventEndpoint, first.name)
	assert.Equal(t, "https://ada.example.com/message", first.data)

	second := next(t, w.events)
	assert.Equal(t, EventConnected, second.name)
	var connected map[string]any
	require.NoError(t, json.Unmarshal([]byte(second.data), &connected))
	assert.Equal(t, "ada-mcp-tools", connected["server"])
	assert.Equal(t, "1.0.0", connected["version"])
	last := connected["ts"].(float64)

	for i := 0; i < 3; i++ {
		ping := next(t, w.events)
		assert.Equal(t, EventPing, ping.name)
		var data map[string]any
		require.NoError(t, json.Unmarshal([]byte(ping.data), &data))
		ts := data["ts"].(float64)
		assert.GreaterOrEqual(t, ts, last, "ping timestamps must not decrease")
		last = ts
	}

	cancel()
	// unblock a ping that may be in flight
	go func() {
		for range w.events {
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after the context was cancelled")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, flushes, 5)
}

func TestServeTimestampsNeverDecrease(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// a clock that steps backwards on every reading
	base := time.Unix(1700000000, 0)
	var calls int
	clock := func() time.Time {
		calls++
		return base.Add(-time.Duration(calls) * time.Second)
	}

	ch := NewChannel(&ChannelConfig{PingInterval: time.Millisecond, Clock: clock})
	w := &eventWriter{events: make(chan event)}
	go ch.Serve(ctx, w, nil, "http://h/message")

	next(t, w.events)
	var connected pingData
	require.NoError(t, json.Unmarshal([]byte(next(t, w.events).data), &connected))

	last := connected.TS
	for i := 0; i < 3; i++ {
		var p pingData
		require.NoError(t, json.Unmarshal([]byte(next(t, w.events).data), &p))
		assert.GreaterOrEqual(t, p.TS, last)
		last = p.TS
	}
	cancel()
	go func() {
		for range w.events {
		}
	}()
}

func TestServeStopsSilentlyOnWriteFailure(t *testing.T) {
	for _, accepted := range []int{0, 1, 2, 4} {
		m := &sessionMetrics{CustomMetrics: telemetry.NewNoopCustomMetrics()}
		ch := NewChannel(&ChannelConfig{PingInterval: time.Millisecond, Metrics: m})
		w := &failingWriter{n: accepted}

		done := make(chan struct{})
		go func() {
			defer close(done)
			ch.Serve(context.Background(), w, nil, "http://h/message")
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("Serve kept running after write %d failed", accepted+1)
		}
		assert.Equal(t, accepted, w.writes)
		assert.Equal(t, 1, m.opened)
		assert.Equal(t, 1, m.closed)
	}
}

func TestServeConcurrentSessionsAreIndependent(t *testing.T) {
	ch := NewChannel(&ChannelConfig{PingInterval: time.Millisecond})

	ctxA, cancelA := context.WithCancel(context.Background())
	ctxB, cancelB := context.WithCancel(context.Background())
	defer cancelB()

	a := &eventWriter{events: make(chan event)}
	b := &eventWriter{events: make(chan event)}
	doneA := make(chan struct{})
	go func() {
		defer close(doneA)
		ch.Serve(ctxA, a, nil, "http://a/message")
	}()
	go ch.Serve(ctxB, b, nil, "http://b/message")

	assert.Equal(t, "http://a/message", next(t, a.events).data)
	assert.Equal(t, "http://b/message", next(t, b.events).data)

	cancelA()
	go func() {
		for range a.events {
		}
	}()
	<-doneA

	// b keeps going after a has ended
	assert.Equal(t, EventConnected, next(t, b.events).name)
	assert.Equal(t, EventPing, next(t, b.events).name)
	go func() {
		for range b.events {
		}
	}()
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEvent(&buf, "ping", `{"ts":1}`))

	assert.Equal(t, "event: ping\ndata: {\"ts\":1}\n\n", buf.String())

	sc := bufio.NewScanner(&buf)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	assert.Equal(t, []string{"event: ping", `data: {"ts":1}`, ""}, lines)
}

func TestNewChannelDefaults(t *testing.T) {
	ch := NewChannel(&ChannelConfig{})
	assert.Equal(t, DefaultPingInterval, ch.interval)
	assert.NotNil(t, ch.logger)
	assert.NotNil(t, ch.metrics)
	assert.NotNil(t, ch.now)
}
