package observation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/pkg/picturecodec"
	"github.com/google/uuid"
)

// uploadBlobs returns one key per picture, or nil when pictures live in postgres.
func (uc *ObservationUseCase) uploadBlobs(ctx context.Context, pictures [][]byte) ([]string, error) {
	if uc.blobRepo == nil || len(pictures) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(pictures))
	for _, data := range pictures {
		key := fmt.Sprintf("pictures/%s", uuid.New())

		err := uc.blobRepo.UploadBytes(ctx, key, data, picturecodec.ContentType(data))
		if err != nil {
			uc.deleteBlobs(ctx, keys)

			return nil, fmt.Errorf("ObservationUseCase - uploadBlobs - uc.blobRepo.UploadBytes: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, nil
}

func (uc *ObservationUseCase) deleteBlobs(ctx context.Context, keys []string) {
	if uc.blobRepo == nil {
		return
	}

	for _, key := range keys {
		if err := uc.blobRepo.Delete(ctx, key); err != nil {
			uc.logger.Warn("failed to delete key=%s, error=%v", key, err)
		}
	}
}

func (uc *ObservationUseCase) insertPictures(ctx context.Context, seedDataID int64, pictures [][]byte, keys []string) error {
	for i, data := range pictures {
		p := &entity.Picture{SeedDataID: seedDataID}
		if keys != nil {
			p.ObjectKey = &keys[i]
		} else {
			p.Data = data
		}

		if _, err := uc.pictureRepo.Create(ctx, p); err != nil {
			return fmt.Errorf("ObservationUseCase - insertPictures - uc.pictureRepo.Create: %w", err)
		}
	}

	return nil
}

func (uc *ObservationUseCase) pictureBytes(ctx context.Context, p *entity.Picture) ([]byte, error) {
	if p.ObjectKey == nil {
		return p.Data, nil
	}

	if uc.blobRepo == nil {
		return nil, fmt.Errorf("ObservationUseCase - pictureBytes - picture %d is in blob storage, none configured", p.ID)
	}

	data, err := uc.blobRepo.DownloadBytes(ctx, *p.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - pictureBytes - uc.blobRepo.DownloadBytes: %w", err)
	}

	return data, nil
}

func (uc *ObservationUseCase) writeEvent(ctx context.Context, change entity.ChangeType, o *entity.Observation, pictureCount int) error {
	if uc.outboxRepo == nil {
		return nil
	}

	event, err := createOutboxEvent(change, o, pictureCount)
	if err != nil {
		return fmt.Errorf("ObservationUseCase - writeEvent - createOutboxEvent: %w", err)
	}

	if err := uc.outboxRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("ObservationUseCase - writeEvent - uc.outboxRepo.Create: %w", err)
	}

	return nil
}

func createOutboxEvent(change entity.ChangeType, o *entity.Observation, pictureCount int) (*entity.OutboxEvent, error) {
	b, err := json.Marshal(dto.ChangeEvent{
		ID:           o.ID,
		Change:       change,
		QRCode:       o.QRCode,
		SeedID:       o.SeedID,
		PictureCount: pictureCount,
	})
	if err != nil {
		return nil, fmt.Errorf("createOutboxEvent - json.Marshal: %w", err)
	}

	return &entity.OutboxEvent{
		ID:          uuid.New(),
		AggregateID: o.ID,
		Payload:     b,
		Status:      entity.Pending,
		CreatedAt:   time.Now(),
		RetryCount:  0,
	}, nil
}
