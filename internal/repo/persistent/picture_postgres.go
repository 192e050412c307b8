package persistent

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/pkg/postgres"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	seedPicturesTable = "seed_pictures"

	// Columns
	pictureIDColumn         = "id"
	pictureSeedDataIDColumn = "seed_data_id"
	pictureDataColumn       = "picture"
	pictureObjectKeyColumn  = "object_key"
)

type PictureRepo struct {
	*postgres.Postgres
}

func NewPictureRepo(pg *postgres.Postgres) *PictureRepo {
	return &PictureRepo{pg}
}

func (r *PictureRepo) Create(ctx context.Context, p *entity.Picture) (int64, error) {
	sql, args, err := r.Builder.
		Insert(seedPicturesTable).
		Columns(
			pictureSeedDataIDColumn,
			pictureDataColumn,
			pictureObjectKeyColumn,
		).
		Values(
			p.SeedDataID,
			p.Data,
			p.ObjectKey,
		).
		Suffix("RETURNING " + pictureIDColumn).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("PictureRepo - Create - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var id int64
	err = executor.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("PictureRepo - Create - executor.QueryRow.Scan: %w", err)
	}

	return id, nil
}

func (r *PictureRepo) GetByID(ctx context.Context, id int64) (*entity.Picture, error) {
	sql, args, err := r.Builder.
		Select(
			pictureIDColumn,
			pictureSeedDataIDColumn,
			pictureDataColumn,
			pictureObjectKeyColumn,
		).
		From(seedPicturesTable).
		Where(squirrel.Eq{pictureIDColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PictureRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var p entity.Picture
	err = executor.QueryRow(ctx, sql, args...).Scan(
		&p.ID,
		&p.SeedDataID,
		&p.Data,
		&p.ObjectKey,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("PictureRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("PictureRepo - GetByID - executor.QueryRow.Scan: %w", err)
	}

	return &p, nil
}

func (r *PictureRepo) ListBySeedDataID(ctx context.Context, seedDataID int64) ([]*entity.Picture, error) {
	sql, args, err := r.Builder.
		Select(
			pictureIDColumn,
			pictureSeedDataIDColumn,
			pictureDataColumn,
			pictureObjectKeyColumn,
		).
		From(seedPicturesTable).
		Where(squirrel.Eq{pictureSeedDataIDColumn: seedDataID}).
		OrderBy(pictureIDColumn + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("PictureRepo - ListBySeedDataID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("PictureRepo - ListBySeedDataID - executor.Query: %w", err)
	}
	defer rows.Close()

	pictures := make([]*entity.Picture, 0)
	for rows.Next() {
		var p entity.Picture
		err = rows.Scan(
			&p.ID,
			&p.SeedDataID,
			&p.Data,
			&p.ObjectKey,
		)
		if err != nil {
			return nil, fmt.Errorf("PictureRepo - ListBySeedDataID - rows.Scan: %w", err)
		}
		pictures = append(pictures, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("PictureRepo - ListBySeedDataID - rows.Err: %w", err)
	}

	return pictures, nil
}

func (r *PictureRepo) CountBySeedDataID(ctx context.Context, seedDataID int64) (int, error) {
	sql, args, err := r.Builder.
		Select("COUNT(*)").
		From(seedPicturesTable).
		Where(squirrel.Eq{pictureSeedDataIDColumn: seedDataID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("PictureRepo - CountBySeedDataID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	var count int
	err = executor.QueryRow(ctx, sql, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("PictureRepo - CountBySeedDataID - executor.QueryRow.Scan: %w", err)
	}

	return count, nil
}
