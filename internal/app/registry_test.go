package app

import (
	"context"
	"testing"
	"time"

	"github.com/dkeye/PhoneCall/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSignal struct{ closed bool }

func (n *nopSignal) TrySend(core.Frame) error { return nil }
func (n *nopSignal) Close()                   { n.closed = true }

func TestRegistry_GetOrCreateIsStable(t *testing.T) {
	r := NewRegistry()
	a := r.GetOrCreate("sid")
	b := r.GetOrCreate("sid")
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Count())

	assert.False(t, has(r, "other"))
}

func has(r *Registry, sid core.SessionID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[sid]
	return ok
}

func TestRegistry_BindSignalCancelsPrevious(t *testing.T) {
	r := NewRegistry()
	first, second := &nopSignal{}, &nopSignal{}
	ctx1, cancel1 := context.WithCancel(context.Background())
	_, cancel2 := context.WithCancel(context.Background())
	defer cancel2()

	r.BindSignal("sid", first, cancel1)
	r.BindSignal("sid", second, cancel2)

	assert.ErrorIs(t, ctx1.Err(), context.Canceled)
	conn, ok := r.Signal("sid")
	require.True(t, ok)
	assert.Same(t, second, conn)

	r.UnbindSignal("sid", first)
	_, ok = r.Signal("sid")
	assert.True(t, ok, "stale unbind keeps the newer socket")

	r.UnbindSignal("sid", second)
	_, ok = r.Signal("sid")
	assert.False(t, ok)
}

func TestRegistry_Sweep(t *testing.T) {
	r := NewRegistry()
	now := time.Now()
	r.now = func() time.Time { return now }

	r.GetOrCreate("old")
	ctx, cancel := context.WithCancel(context.Background())
	r.BindSignal("old", &nopSignal{}, cancel)

	now = now.Add(time.Hour)
	r.GetOrCreate("fresh")

	assert.Equal(t, 1, r.Sweep(30*time.Minute))
	assert.False(t, has(r, "old"))
	assert.True(t, has(r, "fresh"))
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Minute, time.Millisecond)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSimplePolicy(t *testing.T) {
	p := SimplePolicy{MaxDrops: 3}
	assert.Equal(t, DropFrame, p.OnBackPressure("sid", 1))
	assert.Equal(t, CloseSignal, p.OnBackPressure("sid", 3))
	assert.Equal(t, DropFrame, SimplePolicy{}.OnBackPressure("sid", 100))
}
