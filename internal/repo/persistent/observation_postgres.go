package persistent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/andreyxaxa/Seed-Manager/internal/dto"
	"github.com/andreyxaxa/Seed-Manager/internal/entity"
	"github.com/andreyxaxa/Seed-Manager/pkg/postgres"
	"github.com/andreyxaxa/Seed-Manager/pkg/types/errs"
	"github.com/jackc/pgx/v5"
)

const (
	// Table
	seedDataTable = "seed_data"

	// Columns
	idColumn          = "id"
	qrCodeColumn      = "qr_code"
	seedIDColumn      = "seed_id"
	descriptionColumn = "description"
	germinatedColumn  = "germinated"
	vigorousColumn    = "vigorous"
	smallColumn       = "small"
	abnormalColumn    = "abnormal"
	usableColumn      = "usable"
	groupSizeColumn   = "group_size"
	dayNumberColumn   = "day_number"
	dateScannedColumn = "date_scanned"
	timeScannedColumn = "time_scanned"
	hasPicturesColumn = "has_pictures"
)

// date and time are read back as text so the entity keeps the wire format
var observationColumns = []string{
	idColumn,
	qrCodeColumn,
	seedIDColumn,
	descriptionColumn,
	germinatedColumn,
	vigorousColumn,
	smallColumn,
	abnormalColumn,
	usableColumn,
	groupSizeColumn,
	dayNumberColumn,
	"COALESCE(to_char(" + dateScannedColumn + ", 'YYYY-MM-DD'), '')",
	"COALESCE(to_char(" + timeScannedColumn + ", 'HH24:MI'), '')",
	hasPicturesColumn,
}

type ObservationRepo struct {
	*postgres.Postgres
}

func NewObservationRepo(pg *postgres.Postgres) *ObservationRepo {
	return &ObservationRepo{pg}
}

func (r *ObservationRepo) Create(ctx context.Context, o *entity.Observation) (int64, error) {
	sql, args, err := r.Builder.
		Insert(seedDataTable).
		Columns(
			qrCodeColumn,
			seedIDColumn,
			descriptionColumn,
			germinatedColumn,
			vigorousColumn,
			smallColumn,
			abnormalColumn,
			usableColumn,
			groupSizeColumn,
			dayNumberColumn,
			dateScannedColumn,
			timeScannedColumn,
			hasPicturesColumn,
		).
		Values(
			o.QRCode,
			o.SeedID,
			o.Description,
			o.Germinated,
			o.Vigorous,
			o.Small,
			o.Abnormal,
			o.Usable,
			o.GroupSize,
			o.DayNumber,
			nullIfEmpty(o.DateScanned),
			nullIfEmpty(o.TimeScanned),
			o.HasPictures,
		).
		Suffix("RETURNING " + idColumn).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ObservationRepo - Create - r.Builder.ToSql: %w", err)
	}

	// Pool / Tx
	executor := r.GetExecutor(ctx)

	var id int64
	err = executor.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ObservationRepo - Create - executor.QueryRow.Scan: %w", err)
	}

	return id, nil
}

func (r *ObservationRepo) GetByID(ctx context.Context, id int64) (*entity.Observation, error) {
	sql, args, err := r.Builder.
		Select(observationColumns...).
		From(seedDataTable).
		Where(squirrel.Eq{idColumn: id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ObservationRepo - GetByID - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	o, err := scanObservation(executor.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ObservationRepo - GetByID: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("ObservationRepo - GetByID - executor.QueryRow: %w", err)
	}

	return o, nil
}

func (r *ObservationRepo) List(ctx context.Context, filter dto.Filter) ([]*entity.Observation, error) {
	sql, args, err := listQuery(r.Builder, filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("ObservationRepo - List - r.Builder.ToSql: %w", err)
	}

	observations, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ObservationRepo - List - r.query: %w", err)
	}

	return observations, nil
}

func (r *ObservationRepo) Page(ctx context.Context, filter dto.Filter, limit, offset int) ([]*entity.Observation, error) {
	sql, args, err := listQuery(r.Builder, filter).
		Limit(uint64(limit)).   //nolint:gosec // validated by the handler
		Offset(uint64(offset)). //nolint:gosec // validated by the handler
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ObservationRepo - Page - r.Builder.ToSql: %w", err)
	}

	observations, err := r.query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("ObservationRepo - Page - r.query: %w", err)
	}

	return observations, nil
}

func (r *ObservationRepo) Update(ctx context.Context, o *entity.Observation) error {
	sql, args, err := r.Builder.
		Update(seedDataTable).
		Set(qrCodeColumn, o.QRCode).
		Set(seedIDColumn, o.SeedID).
		Set(descriptionColumn, o.Description).
		Set(germinatedColumn, o.Germinated).
		Set(vigorousColumn, o.Vigorous).
		Set(smallColumn, o.Small).
		Set(abnormalColumn, o.Abnormal).
		Set(usableColumn, o.Usable).
		Set(groupSizeColumn, o.GroupSize).
		Set(dayNumberColumn, o.DayNumber).
		Set(dateScannedColumn, nullIfEmpty(o.DateScanned)).
		Set(timeScannedColumn, nullIfEmpty(o.TimeScanned)).
		Set(hasPicturesColumn, o.HasPictures).
		Where(squirrel.Eq{idColumn: o.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("ObservationRepo - Update - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	tag, err := executor.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("ObservationRepo - Update - executor.Exec: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ObservationRepo - Update: %w", errs.ErrRecordNotFound)
	}

	return nil
}

// Delete removes the record and returns it as it was. Pictures go with it (ON DELETE CASCADE).
func (r *ObservationRepo) Delete(ctx context.Context, id int64) (*entity.Observation, error) {
	sql, args, err := r.Builder.
		Delete(seedDataTable).
		Where(squirrel.Eq{idColumn: id}).
		Suffix("RETURNING " + strings.Join(observationColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ObservationRepo - Delete - r.Builder.ToSql: %w", err)
	}

	executor := r.GetExecutor(ctx)

	o, err := scanObservation(executor.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ObservationRepo - Delete: %w", errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("ObservationRepo - Delete - executor.QueryRow: %w", err)
	}

	return o, nil
}

func (r *ObservationRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Observation, error) {
	executor := r.GetExecutor(ctx)

	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("executor.Query: %w", err)
	}
	defer rows.Close()

	observations := make([]*entity.Observation, 0)
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}
		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return observations, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanObservation(row scanner) (*entity.Observation, error) {
	var o entity.Observation
	err := row.Scan(
		&o.ID,
		&o.QRCode,
		&o.SeedID,
		&o.Description,
		&o.Germinated,
		&o.Vigorous,
		&o.Small,
		&o.Abnormal,
		&o.Usable,
		&o.GroupSize,
		&o.DayNumber,
		&o.DateScanned,
		&o.TimeScanned,
		&o.HasPictures,
	)
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// listQuery selects the filtered records in insertion order, oldest first.
func listQuery(b squirrel.StatementBuilderType, filter dto.Filter) squirrel.SelectBuilder {
	return applyFilter(b.Select(observationColumns...).From(seedDataTable), filter).
		OrderBy(idColumn + " ASC")
}

func applyFilter(b squirrel.SelectBuilder, filter dto.Filter) squirrel.SelectBuilder {
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{qrCodeColumn: pattern},
			squirrel.ILike{seedIDColumn: pattern},
			squirrel.ILike{descriptionColumn: pattern},
		})
	}

	flags := []struct {
		column string
		value  *bool
	}{
		{germinatedColumn, filter.Flags.Germinated},
		{vigorousColumn, filter.Flags.Vigorous},
		{smallColumn, filter.Flags.Small},
		{abnormalColumn, filter.Flags.Abnormal},
		{usableColumn, filter.Flags.Usable},
	}
	// flags narrow the result only when set to true
	for _, f := range flags {
		if f.value != nil && *f.value {
			b = b.Where(squirrel.Eq{f.column: true})
		}
	}

	return b
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
