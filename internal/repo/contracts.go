package repo

import (
	"context"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/google/uuid"
)

type (
	ObservationRepo interface {
		Create(ctx context.Context, o *entity.Observation) (int64, error)
		GetByID(ctx context.Context, id int64) (*entity.Observation, error)
		List(ctx context.Context, filter dto.Filter) ([]*entity.Observation, error)
		Page(ctx context.Context, filter dto.Filter, limit, offset int) ([]*entity.Observation, error)
		Update(ctx context.Context, o *entity.Observation) error
		Delete(ctx context.Context, id int64) (*entity.Observation, error)
	}

	PictureRepo interface {
		Create(ctx context.Context, p *entity.Picture) (int64, error)
		GetByID(ctx context.Context, id int64) (*entity.Picture, error)
		ListBySeedDataID(ctx context.Context, seedDataID int64) ([]*entity.Picture, error)
		CountBySeedDataID(ctx context.Context, seedDataID int64) (int, error)
	}

	// PictureBlobRepo keeps picture bytes outside of postgres.
	PictureBlobRepo interface {
		UploadBytes(ctx context.Context, key string, data []byte, contentType string) error
		DownloadBytes(ctx context.Context, key string) ([]byte, error)
		Delete(ctx context.Context, key string) error
	}

	OutboxRepo interface {
		Create(ctx context.Context, event *entity.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int, maxRetries int) ([]*entity.OutboxEvent, error)
		MarkAsProcessingBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkAsProcessedBatch(ctx context.Context, IDs uuid.UUIDs) error
		MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error
		IncrementRetryCountBatch(ctx context.Context, IDs uuid.UUIDs) error
		DeleteProcessedAndFailed(ctx context.Context) (int64, error)
	}

	Transactor interface {
		WithinTransaction(ctx context.Context, f func(ctx context.Context) error) error
	}

	// QueueSlot is the single durable slot holding the whole sync queue.
	// Update runs fn over the current list and stores its result atomically.
	QueueSlot interface {
		Load(ctx context.Context) ([]entity.QueuedSubmission, error)
		Update(ctx context.Context, fn func([]entity.QueuedSubmission) ([]entity.QueuedSubmission, error)) error
	}
)
