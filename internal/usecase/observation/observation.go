package observation

import (
	"context"
	"fmt"

	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/internal/repo"
	"github.com/andreyxaxa/Seed-Manager/pkg/logger"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
)

type ObservationUseCase struct {
	observationRepo repo.ObservationRepo
	pictureRepo     repo.PictureRepo
	transactor      repo.Transactor

	// optional
	blobRepo   repo.PictureBlobRepo
	outboxRepo repo.OutboxRepo

	logger logger.Interface
}

func New(
	observationRepo repo.ObservationRepo,
	pictureRepo repo.PictureRepo,
	transactor repo.Transactor,
	l logger.Interface,
	opts ...Option,
) *ObservationUseCase {
	uc := &ObservationUseCase{
		observationRepo: observationRepo,
		pictureRepo:     pictureRepo,
		transactor:      transactor,
		logger:          l,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

func (uc *ObservationUseCase) Create(ctx context.Context, o entity.Observation, pictures [][]byte) (*entity.Observation, error) {
	o.Normalize()
	o.ID = 0
	o.HasPictures = len(pictures) > 0

	// 1. blobs go first, a failed tx removes them again
	keys, err := uc.uploadBlobs(ctx, pictures)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - Create - uc.uploadBlobs: %w", err)
	}

	// 2. record + pictures + event in one tx
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		id, err := uc.observationRepo.Create(ctx, &o)
		if err != nil {
			return fmt.Errorf("ObservationUseCase - Create - uc.observationRepo.Create: %w", err)
		}
		o.ID = id

		if err := uc.insertPictures(ctx, id, pictures, keys); err != nil {
			return fmt.Errorf("ObservationUseCase - Create - uc.insertPictures: %w", err)
		}

		if err := uc.writeEvent(ctx, entity.Created, &o, len(pictures)); err != nil {
			return fmt.Errorf("ObservationUseCase - Create - uc.writeEvent: %w", err)
		}

		return nil
	})
	if err != nil {
		uc.deleteBlobs(ctx, keys)

		return nil, fmt.Errorf("ObservationUseCase - Create - uc.transactor.WithinTransaction: %w", err)
	}

	return &o, nil
}

func (uc *ObservationUseCase) List(ctx context.Context, filter dto.Filter) ([]*entity.Observation, error) {
	observations, err := uc.observationRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - List - uc.observationRepo.List: %w", err)
	}

	return observations, nil
}

func (uc *ObservationUseCase) Page(ctx context.Context, filter dto.Filter, page, limit int) (*dto.Page, error) {
	if page < 1 || limit < 1 {
		return nil, fmt.Errorf("ObservationUseCase - Page - page=%d limit=%d: %w", page, limit, errs.ErrValidation)
	}

	observations, err := uc.observationRepo.Page(ctx, filter, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - Page - uc.observationRepo.Page: %w", err)
	}

	return &dto.Page{
		Page:  page,
		Limit: limit,
		Data:  observations,
	}, nil
}

func (uc *ObservationUseCase) Get(ctx context.Context, id int64) (*entity.Observation, error) {
	o, err := uc.observationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - Get - uc.observationRepo.GetByID: %w", err)
	}

	return o, nil
}

// Update replaces every field of the record and appends pictures to the ones it already has.
func (uc *ObservationUseCase) Update(ctx context.Context, id int64, o entity.Observation, pictures [][]byte) (*entity.Observation, error) {
	o.Normalize()
	o.ID = id

	// 1. blobs
	keys, err := uc.uploadBlobs(ctx, pictures)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - Update - uc.uploadBlobs: %w", err)
	}

	// 2. in one tx
	err = uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		// 2.1 existing pictures count towards has_pictures
		existing, err := uc.pictureRepo.CountBySeedDataID(ctx, id)
		if err != nil {
			return fmt.Errorf("ObservationUseCase - Update - uc.pictureRepo.CountBySeedDataID: %w", err)
		}
		o.HasPictures = existing+len(pictures) > 0

		// 2.2 record
		if err := uc.observationRepo.Update(ctx, &o); err != nil {
			return fmt.Errorf("ObservationUseCase - Update - uc.observationRepo.Update: %w", err)
		}

		// 2.3 new pictures
		if err := uc.insertPictures(ctx, id, pictures, keys); err != nil {
			return fmt.Errorf("ObservationUseCase - Update - uc.insertPictures: %w", err)
		}

		// 2.4 event
		if err := uc.writeEvent(ctx, entity.Updated, &o, existing+len(pictures)); err != nil {
			return fmt.Errorf("ObservationUseCase - Update - uc.writeEvent: %w", err)
		}

		return nil
	})
	if err != nil {
		uc.deleteBlobs(ctx, keys)

		return nil, fmt.Errorf("ObservationUseCase - Update - uc.transactor.WithinTransaction: %w", err)
	}

	return &o, nil
}

// Delete removes the record; its pictures go with it.
func (uc *ObservationUseCase) Delete(ctx context.Context, id int64) (*entity.Observation, error) {
	var (
		deleted *entity.Observation
		keys    []string
	)

	err := uc.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		// 1. remember blob keys, the rows disappear with the record
		pictures, err := uc.pictureRepo.ListBySeedDataID(ctx, id)
		if err != nil {
			return fmt.Errorf("ObservationUseCase - Delete - uc.pictureRepo.ListBySeedDataID: %w", err)
		}
		for _, p := range pictures {
			if p.ObjectKey != nil {
				keys = append(keys, *p.ObjectKey)
			}
		}

		// 2. record (pictures cascade)
		deleted, err = uc.observationRepo.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("ObservationUseCase - Delete - uc.observationRepo.Delete: %w", err)
		}

		// 3. event
		if err := uc.writeEvent(ctx, entity.Deleted, deleted, len(pictures)); err != nil {
			return fmt.Errorf("ObservationUseCase - Delete - uc.writeEvent: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - Delete - uc.transactor.WithinTransaction: %w", err)
	}

	// 4. blobs last, a leftover object is harmless
	uc.deleteBlobs(ctx, keys)

	return deleted, nil
}

func (uc *ObservationUseCase) ListPictures(ctx context.Context, seedDataID int64) ([][]byte, error) {
	pictures, err := uc.pictureRepo.ListBySeedDataID(ctx, seedDataID)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - ListPictures - uc.pictureRepo.ListBySeedDataID: %w", err)
	}

	if len(pictures) == 0 {
		return nil, fmt.Errorf("ObservationUseCase - ListPictures - seed_data_id=%d: %w", seedDataID, errs.ErrRecordNotFound)
	}

	result := make([][]byte, 0, len(pictures))
	for _, p := range pictures {
		data, err := uc.pictureBytes(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("ObservationUseCase - ListPictures - uc.pictureBytes: %w", err)
		}
		result = append(result, data)
	}

	return result, nil
}

func (uc *ObservationUseCase) GetPicture(ctx context.Context, id int64) ([]byte, error) {
	p, err := uc.pictureRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - GetPicture - uc.pictureRepo.GetByID: %w", err)
	}

	data, err := uc.pictureBytes(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("ObservationUseCase - GetPicture - uc.pictureBytes: %w", err)
	}

	return data, nil
}
