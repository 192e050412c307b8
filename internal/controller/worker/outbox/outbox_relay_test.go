package outbox

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/internal/usecase"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSeeds implements only the outbox part of the usecase.
type fakeSeeds struct {
	usecase.ObservationUseCase

	mu         sync.Mutex
	pending    []*entity.OutboxEvent
	processing int
	processed  int
	retried    int
	failed     int
	cleanups   int
}

func (f *fakeSeeds) GetPendingEvents(_ context.Context, _, limit int) ([]*entity.OutboxEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.pending) < limit {
		limit = len(f.pending)
	}

	return f.pending[:limit], nil
}

func (f *fakeSeeds) MarkAsProcessingBatch(_ context.Context, events []*entity.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.processing += len(events)

	return nil
}

func (f *fakeSeeds) MarkAsProcessedBatch(_ context.Context, events []*entity.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.processed += len(events)
	f.pending = f.pending[len(events):]

	return nil
}

func (f *fakeSeeds) IncrementRetryCountBatch(_ context.Context, events []*entity.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.retried += len(events)

	return nil
}

func (f *fakeSeeds) MarkMaxRetriesAsFailed(context.Context, int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failed++

	return nil
}

func (f *fakeSeeds) CleanupOutbox(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cleanups++

	return nil
}

func (f *fakeSeeds) snapshot() (processing, processed, retried int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.processing, f.processed, f.retried
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []*entity.OutboxEvent
	err    error
	closed bool
}

func (s *fakeSender) SendEvents(_ context.Context, events []*entity.OutboxEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, events...)

	return nil
}

func (s *fakeSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	return nil
}

func events(n int) []*entity.OutboxEvent {
	result := make([]*entity.OutboxEvent, 0, n)
	for i := 0; i < n; i++ {
		result = append(result, &entity.OutboxEvent{ID: uuid.New(), AggregateID: int64(i + 1), Status: entity.Pending})
	}

	return result
}

func newRelay(seeds usecase.ObservationUseCase, es *fakeSender) *OutboxRelay {
	return New(seeds, es, logger.NewWithWriter("error", io.Discard),
		5*time.Millisecond, time.Hour, time.Hour, time.Second, 10, 3)
}

func TestProcessBatchPublishes(t *testing.T) {
	t.Parallel()
	seeds := &fakeSeeds{pending: events(3)}
	es := &fakeSender{}

	newRelay(seeds, es).processEventsBatch(context.Background())

	processing, processed, retried := seeds.snapshot()
	assert.Equal(t, 3, processing)
	assert.Equal(t, 3, processed)
	assert.Zero(t, retried)
	assert.Len(t, es.sent, 3)
}

func TestProcessBatchSendFailureRetries(t *testing.T) {
	t.Parallel()
	seeds := &fakeSeeds{pending: events(2)}
	es := &fakeSender{err: errors.New("broker down")}

	newRelay(seeds, es).processEventsBatch(context.Background())

	processing, processed, retried := seeds.snapshot()
	assert.Equal(t, 2, processing)
	assert.Zero(t, processed)
	assert.Equal(t, 2, retried)
}

func TestProcessBatchNothingPending(t *testing.T) {
	t.Parallel()
	seeds := &fakeSeeds{}
	es := &fakeSender{}

	newRelay(seeds, es).processEventsBatch(context.Background())

	processing, _, _ := seeds.snapshot()
	assert.Zero(t, processing)
	assert.Empty(t, es.sent)
}

func TestRelayRunsUntilShutdown(t *testing.T) {
	t.Parallel()
	seeds := &fakeSeeds{pending: events(4)}
	es := &fakeSender{}
	r := newRelay(seeds, es)

	require.NoError(t, r.Start(context.Background()))
	assert.Error(t, r.Start(context.Background()))

	require.Eventually(t, func() bool {
		_, processed, _ := seeds.snapshot()
		return processed == 4
	}, time.Second, time.Millisecond)

	require.NoError(t, r.Shutdown(context.Background()))

	es.mu.Lock()
	defer es.mu.Unlock()
	assert.True(t, es.closed)
}
