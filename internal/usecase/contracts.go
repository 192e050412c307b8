package usecase

import (
	"context"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
)

type (
	ObservationUseCase interface {
		Create(ctx context.Context, o entity.Observation, pictures [][]byte) (*entity.Observation, error)
		List(ctx context.Context, filter dto.Filter) ([]*entity.Observation, error)
		Page(ctx context.Context, filter dto.Filter, page, limit int) (*dto.Page, error)
		Get(ctx context.Context, id int64) (*entity.Observation, error)
		Update(ctx context.Context, id int64, o entity.Observation, pictures [][]byte) (*entity.Observation, error)
		Delete(ctx context.Context, id int64) (*entity.Observation, error)
		ListPictures(ctx context.Context, seedDataID int64) ([][]byte, error)
		GetPicture(ctx context.Context, id int64) ([]byte, error)

		GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error
		IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		CleanupOutbox(ctx context.Context) error
	}

	// Deliverer is the remote-send operation shared by the submission pipeline
	// and the sync queue: create, or replace-by-id when RecordID is set.
	Deliverer interface {
		Deliver(ctx context.Context, sub entity.QueuedSubmission) (*entity.Observation, error)
	}

	Enqueuer interface {
		Enqueue(ctx context.Context, sub entity.QueuedSubmission) error
	}

	ConnectivityChecker interface {
		Online(ctx context.Context) bool
	}
)
