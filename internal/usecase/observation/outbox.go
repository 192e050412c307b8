package observation

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/google/uuid"
)

func (uc *ObservationUseCase) GetPendingEvents(ctx context.Context, maxRetries, limit int) ([]*entity.OutboxEvent, error) {
	if uc.outboxRepo == nil {
		return nil, nil
	}

	events, err := uc.outboxRepo.GetPendingEvents(ctx, limit, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - GetPendingEvents - uc.outboxRepo.GetPendingEvents: %w", err)
	}

	return events, nil
}

func (uc *ObservationUseCase) MarkAsProcessingBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	if uc.outboxRepo == nil || len(events) == 0 {
		return nil
	}

	err := uc.outboxRepo.MarkAsProcessingBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("ObservationUseCase - MarkAsProcessingBatch - uc.outboxRepo.MarkAsProcessingBatch: %w", err)
	}

	return nil
}

func (uc *ObservationUseCase) MarkAsProcessedBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	if uc.outboxRepo == nil || len(events) == 0 {
		return nil
	}

	err := uc.outboxRepo.MarkAsProcessedBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("ObservationUseCase - MarkAsProcessedBatch - uc.outboxRepo.MarkAsProcessedBatch: %w", err)
	}

	return nil
}

func (uc *ObservationUseCase) IncrementRetryCountBatch(ctx context.Context, events []*entity.OutboxEvent) error {
	if uc.outboxRepo == nil || len(events) == 0 {
		return nil
	}

	err := uc.outboxRepo.IncrementRetryCountBatch(ctx, eventIDs(events))
	if err != nil {
		return fmt.Errorf("ObservationUseCase - IncrementRetryCountBatch - uc.outboxRepo.IncrementRetryCountBatch: %w", err)
	}

	return nil
}

func (uc *ObservationUseCase) MarkMaxRetriesAsFailed(ctx context.Context, maxRetries int) error {
	if uc.outboxRepo == nil {
		return nil
	}

	err := uc.outboxRepo.MarkMaxRetriesAsFailed(ctx, maxRetries)
	if err != nil {
		return fmt.Errorf("ObservationUseCase - MarkMaxRetriesAsFailed - uc.outboxRepo.MarkMaxRetriesAsFailed: %w", err)
	}

	return nil
}

func (uc *ObservationUseCase) CleanupOutbox(ctx context.Context) error {
	if uc.outboxRepo == nil {
		return nil
	}

	count, err := uc.outboxRepo.DeleteProcessedAndFailed(ctx)
	if err != nil {
		return fmt.Errorf("ObservationUseCase - CleanupOutbox - uc.outboxRepo.DeleteProcessedAndFailed: %w", err)
	}

	if count > 0 {
		uc.logger.Info("deleted old events, count = %d", count)
	}

	return nil
}

func eventIDs(events []*entity.OutboxEvent) uuid.UUIDs {
	IDs := make(uuid.UUIDs, 0, len(events))
	for _, event := range events {
		IDs = append(IDs, event.ID)
	}

	return IDs
}
