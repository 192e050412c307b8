package connectivity

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
)

const (
	_defaultInterval     = 5 * time.Second
	_defaultProbeTimeout = 3 * time.Second
)

type Prober interface {
	Healthy(ctx context.Context) error
}

// Monitor reports whether the record store is reachable and tells subscribers
// when it becomes reachable again. The state starts as offline, so the first
// successful probe after Start counts as coming online.
type Monitor struct {
	prober Prober
	logger logger.Interface

	interval     time.Duration
	probeTimeout time.Duration

	mu          sync.Mutex
	subscribers map[int]func()
	nextID      int

	online atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

func New(prober Prober, l logger.Interface, opts ...Option) *Monitor {
	m := &Monitor{
		prober:       prober,
		logger:       l,
		interval:     _defaultInterval,
		probeTimeout: _defaultProbeTimeout,
		subscribers:  make(map[int]func()),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Online probes the record store once.
func (m *Monitor) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.probeTimeout)
	defer cancel()

	if err := m.prober.Healthy(ctx); err != nil {
		m.logger.Debug("connectivity probe failed: %v", err)

		return false
	}

	return true
}

// Subscribe registers fn for "became online" events. Callbacks run one at a
// time on the monitor goroutine.
func (m *Monitor) Subscribe(fn func()) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subscribers[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		delete(m.subscribers, id)
	}
}

func (m *Monitor) Start(ctx context.Context) error {
	if !m.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Monitor - Start - monitor already started")
	}

	m.ctx, m.cancel = context.WithCancel(ctx)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		m.probe()

		for {
			select {
			case <-m.ctx.Done():
				return
			case <-ticker.C:
				m.probe()
			}
		}
	}()

	return nil
}

func (m *Monitor) probe() {
	online := m.Online(m.ctx)
	wasOnline := m.online.Swap(online)

	switch {
	case online && !wasOnline:
		m.logger.Info("record store is reachable")
		m.notify()
	case !online && wasOnline:
		m.logger.Warn("record store is unreachable")
	}
}

func (m *Monitor) notify() {
	m.mu.Lock()
	callbacks := make([]func(), 0, len(m.subscribers))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.subscribers[id]; ok {
			callbacks = append(callbacks, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

func (m *Monitor) Shutdown(ctx context.Context) error {
	if !m.started.Load() {
		return nil
	}

	if m.cancel != nil {
		m.cancel()
	}

	done := make(chan struct{})

	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("Monitor - Shutdown - ctx.Done: %w", ctx.Err())
	}
}
