package syncqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/internal/repo"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
)

var errHeadChanged = errors.New("queue head changed during delivery")

// QueueReplayError reports the submission a drain stopped at.
type QueueReplayError struct {
	Position int
	QRCode   string
	Err      error
}

func (e *QueueReplayError) Error() string {
	return fmt.Sprintf("replay of queued submission %d (qr_code=%s) failed: %v", e.Position, e.QRCode, e.Err)
}

func (e *QueueReplayError) Unwrap() error {
	return e.Err
}

type DrainReport struct {
	Delivered []*entity.Observation
	Remaining int
	Failure   *QueueReplayError
}

type Queue struct {
	slot      repo.QueueSlot
	deliverer usecase.Deliverer

	drainMu sync.Mutex

	logger logger.Interface
}

func New(slot repo.QueueSlot, deliverer usecase.Deliverer, l logger.Interface) *Queue {
	return &Queue{
		slot:      slot,
		deliverer: deliverer,
		logger:    l,
	}
}

func (q *Queue) Enqueue(ctx context.Context, sub entity.QueuedSubmission) error {
	err := q.slot.Update(ctx, func(queue []entity.QueuedSubmission) ([]entity.QueuedSubmission, error) {
		return append(queue, sub), nil
	})
	if err != nil {
		return fmt.Errorf("Queue - Enqueue - q.slot.Update: %w", err)
	}

	q.logger.Debug("queued submission qr_code=%s", sub.Observation.QRCode)

	return nil
}

func (q *Queue) Len(ctx context.Context) (int, error) {
	queue, err := q.slot.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("Queue - Len - q.slot.Load: %w", err)
	}

	return len(queue), nil
}

func (q *Queue) Pending(ctx context.Context) ([]entity.QueuedSubmission, error) {
	queue, err := q.slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("Queue - Pending - q.slot.Load: %w", err)
	}

	return queue, nil
}

// Drain delivers queued submissions oldest first. A submission is removed only
// after the store acknowledged it; the first failure stops the drain and leaves
// that submission at the front.
func (q *Queue) Drain(ctx context.Context) (DrainReport, error) {
	q.drainMu.Lock()
	defer q.drainMu.Unlock()

	var report DrainReport

	for position := 0; ; position++ {
		// 1. peek
		queue, err := q.slot.Load(ctx)
		if err != nil {
			return report, fmt.Errorf("Queue - Drain - q.slot.Load: %w", err)
		}

		report.Remaining = len(queue)
		if len(queue) == 0 {
			return report, nil
		}
		head := queue[0]

		// 2. deliver
		o, err := q.deliverer.Deliver(ctx, head)
		if err != nil {
			report.Failure = &QueueReplayError{
				Position: position,
				QRCode:   head.Observation.QRCode,
				Err:      err,
			}
			q.logger.Error(report.Failure, "Queue - Drain - q.deliverer.Deliver, %d left in queue", report.Remaining)

			return report, nil
		}
		report.Delivered = append(report.Delivered, o)

		// 3. pop
		err = q.slot.Update(ctx, func(queue []entity.QueuedSubmission) ([]entity.QueuedSubmission, error) {
			if len(queue) == 0 {
				return nil, errHeadChanged
			}

			return queue[1:], nil
		})
		if err != nil {
			return report, fmt.Errorf("Queue - Drain - q.slot.Update: %w", err)
		}

		report.Remaining--
	}
}
