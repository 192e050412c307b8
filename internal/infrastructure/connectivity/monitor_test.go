package connectivity

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	up     atomic.Bool
	probes atomic.Int32
}

func (p *fakeProber) Healthy(context.Context) error {
	p.probes.Add(1)
	if p.up.Load() {
		return nil
	}

	return errors.New("connection refused")
}

func newMonitor(p Prober) *Monitor {
	return New(p, logger.NewWithWriter("error", io.Discard), Interval(5*time.Millisecond))
}

func TestOnline(t *testing.T) {
	t.Parallel()
	p := &fakeProber{}
	m := newMonitor(p)

	assert.False(t, m.Online(context.Background()))

	p.up.Store(true)
	assert.True(t, m.Online(context.Background()))
}

func TestFiresOncePerTransition(t *testing.T) {
	t.Parallel()
	p := &fakeProber{}
	m := newMonitor(p)

	var events atomic.Int32
	m.Subscribe(func() { events.Add(1) })

	require.NoError(t, m.Start(context.Background()))
	defer func() { _ = m.Shutdown(context.Background()) }()

	// offline: probes run, nothing fires
	require.Eventually(t, func() bool { return p.probes.Load() >= 3 }, time.Second, time.Millisecond)
	assert.Zero(t, events.Load())

	p.up.Store(true)
	require.Eventually(t, func() bool { return events.Load() == 1 }, time.Second, time.Millisecond)

	// staying online does not fire again
	seen := p.probes.Load()
	require.Eventually(t, func() bool { return p.probes.Load() >= seen+3 }, time.Second, time.Millisecond)
	assert.Equal(t, int32(1), events.Load())

	p.up.Store(false)
	seen = p.probes.Load()
	require.Eventually(t, func() bool { return p.probes.Load() >= seen+2 }, time.Second, time.Millisecond)

	p.up.Store(true)
	require.Eventually(t, func() bool { return events.Load() == 2 }, time.Second, time.Millisecond)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()
	p := &fakeProber{}
	p.up.Store(true)
	m := newMonitor(p)

	var kept, dropped atomic.Int32
	m.Subscribe(func() { kept.Add(1) })
	unsubscribe := m.Subscribe(func() { dropped.Add(1) })
	unsubscribe()

	require.NoError(t, m.Start(context.Background()))
	defer func() { _ = m.Shutdown(context.Background()) }()

	require.Eventually(t, func() bool { return kept.Load() == 1 }, time.Second, time.Millisecond)
	assert.Zero(t, dropped.Load())
}

func TestStartTwice(t *testing.T) {
	t.Parallel()
	m := newMonitor(&fakeProber{})

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Start(context.Background()))
	assert.NoError(t, m.Shutdown(context.Background()))
}

func TestShutdownWithoutStart(t *testing.T) {
	t.Parallel()
	assert.NoError(t, newMonitor(&fakeProber{}).Shutdown(context.Background()))
}
