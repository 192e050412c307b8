package observation

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

func quietLogger() logger.Interface {
	return logger.NewWithWriter("error", io.Discard)
}

type fakeObservationRepo struct {
	mu      sync.Mutex
	nextID  int64
	records map[int64]entity.Observation
	updates []int64
	failOn  string
}

func newFakeObservationRepo() *fakeObservationRepo {
	return &fakeObservationRepo{nextID: 1, records: map[int64]entity.Observation{}}
}

func (r *fakeObservationRepo) Create(_ context.Context, o *entity.Observation) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failOn == "create" {
		return 0, errBoom
	}

	id := r.nextID
	r.nextID++
	stored := *o
	stored.ID = id
	r.records[id] = stored

	return id, nil
}

func (r *fakeObservationRepo) GetByID(_ context.Context, id int64) (*entity.Observation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.records[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}

	return &o, nil
}

func (r *fakeObservationRepo) List(_ context.Context, _ dto.Filter) ([]*entity.Observation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]int64, 0, len(r.records))
	for id := range r.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*entity.Observation, 0, len(ids))
	for _, id := range ids {
		o := r.records[id]
		result = append(result, &o)
	}

	return result, nil
}

func (r *fakeObservationRepo) Page(ctx context.Context, filter dto.Filter, limit, offset int) ([]*entity.Observation, error) {
	all, _ := r.List(ctx, filter)
	if offset >= len(all) {
		return []*entity.Observation{}, nil
	}

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], nil
}

func (r *fakeObservationRepo) Update(_ context.Context, o *entity.Observation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates = append(r.updates, o.ID)
	if _, ok := r.records[o.ID]; !ok {
		return errs.ErrRecordNotFound
	}
	r.records[o.ID] = *o

	return nil
}

func (r *fakeObservationRepo) Delete(_ context.Context, id int64) (*entity.Observation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.records[id]
	if !ok {
		return nil, errs.ErrRecordNotFound
	}
	delete(r.records, id)

	return &o, nil
}

type fakePictureRepo struct {
	mu       sync.Mutex
	nextID   int64
	pictures []entity.Picture
	failOn   string
}

func (r *fakePictureRepo) Create(_ context.Context, p *entity.Picture) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failOn == "create" {
		return 0, errBoom
	}

	r.nextID++
	stored := *p
	stored.ID = r.nextID
	r.pictures = append(r.pictures, stored)

	return stored.ID, nil
}

func (r *fakePictureRepo) GetByID(_ context.Context, id int64) (*entity.Picture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.pictures {
		if p.ID == id {
			return &p, nil
		}
	}

	return nil, errs.ErrRecordNotFound
}

func (r *fakePictureRepo) ListBySeedDataID(_ context.Context, seedDataID int64) ([]*entity.Picture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*entity.Picture, 0)
	for _, p := range r.pictures {
		if p.SeedDataID == seedDataID {
			result = append(result, &p)
		}
	}

	return result, nil
}

func (r *fakePictureRepo) CountBySeedDataID(ctx context.Context, seedDataID int64) (int, error) {
	pictures, _ := r.ListBySeedDataID(ctx, seedDataID)
	return len(pictures), nil
}

func (r *fakePictureRepo) forRecord(seedDataID int64) []entity.Picture {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []entity.Picture
	for _, p := range r.pictures {
		if p.SeedDataID == seedDataID {
			result = append(result, p)
		}
	}

	return result
}

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error {
	return f(ctx)
}

type fakeBlobRepo struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeBlobRepo() *fakeBlobRepo {
	return &fakeBlobRepo{objects: map[string][]byte{}}
}

func (r *fakeBlobRepo) UploadBytes(_ context.Context, key string, data []byte, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.objects[key] = data

	return nil
}

func (r *fakeBlobRepo) DownloadBytes(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, ok := r.objects[key]
	if !ok {
		return nil, errBoom
	}

	return data, nil
}

func (r *fakeBlobRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.objects, key)
	r.deleted = append(r.deleted, key)

	return nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*entity.OutboxEvent
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *entity.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)

	return nil
}

func (r *fakeOutboxRepo) GetPendingEvents(_ context.Context, limit int, _ int) ([]*entity.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.events) < limit {
		limit = len(r.events)
	}

	return r.events[:limit], nil
}

func (r *fakeOutboxRepo) MarkAsProcessingBatch(context.Context, uuid.UUIDs) error { return nil }

func (r *fakeOutboxRepo) MarkAsProcessedBatch(context.Context, uuid.UUIDs) error { return nil }

func (r *fakeOutboxRepo) MarkMaxRetriesAsFailed(context.Context, int) error { return nil }

func (r *fakeOutboxRepo) IncrementRetryCountBatch(context.Context, uuid.UUIDs) error { return nil }

func (r *fakeOutboxRepo) DeleteProcessedAndFailed(context.Context) (int64, error) { return 0, nil }
