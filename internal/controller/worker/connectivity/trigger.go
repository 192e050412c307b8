package connectivity

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/andreyxaxa/Seed-Manager/internal/usecase/syncqueue"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
)

type (
	EventSource interface {
		Subscribe(fn func()) (unsubscribe func())
	}

	Drainer interface {
		Drain(ctx context.Context) (syncqueue.DrainReport, error)
	}
)

// Trigger drains the sync queue once for every "became online" event.
type Trigger struct {
	queue  Drainer
	events EventSource
	logger logger.Interface

	drainTimeout time.Duration

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	started atomic.Bool
}

func New(queue Drainer, events EventSource, l logger.Interface, drainTimeout time.Duration) *Trigger {
	return &Trigger{
		queue:        queue,
		events:       events,
		logger:       l,
		drainTimeout: drainTimeout,
	}
}

func (t *Trigger) Start(ctx context.Context) error {
	if !t.started.CompareAndSwap(false, true) {
		return fmt.Errorf("Trigger - Start - trigger already started")
	}

	t.ctx, t.cancel = context.WithCancel(ctx)
	t.unsubscribe = t.events.Subscribe(t.onOnline)

	return nil
}

func (t *Trigger) onOnline() {
	ctx, cancel := context.WithTimeout(t.ctx, t.drainTimeout)
	defer cancel()

	report, err := t.queue.Drain(ctx)
	if err != nil {
		t.logger.Error(err, "Trigger - onOnline - t.queue.Drain")

		return
	}

	if len(report.Delivered) > 0 || report.Failure != nil {
		t.logger.Info("sync queue drained: delivered=%d remaining=%d", len(report.Delivered), report.Remaining)
	}
}

func (t *Trigger) Shutdown(_ context.Context) error {
	if !t.started.Load() {
		return nil
	}

	if t.unsubscribe != nil {
		t.unsubscribe()
	}

	if t.cancel != nil {
		t.cancel()
	}

	return nil
}
