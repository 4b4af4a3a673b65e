package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/leadhub/lead-intake-service/internal/apperrors"
	"github.com/leadhub/lead-intake-service/internal/domain"
)

const (
	sourceColumns = "id, name, description, created_at, updated_at"
	weightColumns = "id, source_id, operator_id, weight, created_at, updated_at"
)

type SourceRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewSourceRepository(db *sqlx.DB, log *slog.Logger) *SourceRepository {
	return &SourceRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *SourceRepository) Create(ctx context.Context, source domain.Source) (*domain.Source, error) {
	const op = "internal.repository.postgres.source.Create"

	query, args, err := r.sq.Insert("sources").
		Columns("name", "description").
		Values(source.Name, source.Description).
		Suffix("RETURNING " + sourceColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Source
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, classifyError(err))
	}

	return &created, nil
}

func (r *SourceRepository) ext(e sqlx.ExtContext) sqlx.ExtContext {
	if e == nil {
		return r.db
	}

	return e
}

func (r *SourceRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Source, error) {
	const op = "internal.repository.postgres.source.GetByID"

	ext = r.ext(ext)

	query, args, err := r.sq.Select(sourceColumns).
		From("sources").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var source domain.Source
	if err := sqlx.GetContext(ctx, ext, &source, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Source"))
		}

		return nil, fmt.Errorf("%s: failed to get source: %w", op, classifyError(err))
	}

	return &source, nil
}

func (r *SourceRepository) GetByName(ctx context.Context, name string) (*domain.Source, error) {
	const op = "internal.repository.postgres.source.GetByName"

	query, args, err := r.sq.Select(sourceColumns).
		From("sources").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var source domain.Source
	if err := r.db.GetContext(ctx, &source, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Source"))
		}

		return nil, fmt.Errorf("%s: failed to get source: %w", op, classifyError(err))
	}

	return &source, nil
}

func (r *SourceRepository) List(ctx context.Context, skip, limit uint64) ([]domain.Source, error) {
	const op = "internal.repository.postgres.source.List"

	query, args, err := r.sq.Select(sourceColumns).
		From("sources").
		OrderBy("id").
		Offset(skip).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	sources := []domain.Source{}
	if err := r.db.SelectContext(ctx, &sources, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	return sources, nil
}

func (r *SourceRepository) Update(ctx context.Context, id int64, patch domain.SourcePatch) (*domain.Source, error) {
	const op = "internal.repository.postgres.source.Update"

	builder := r.sq.Update("sources").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + sourceColumns)

	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
	}
	if patch.Description != nil {
		builder = builder.Set("description", *patch.Description)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var source domain.Source
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&source); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Source"))
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, classifyError(err))
	}

	return &source, nil
}

// Delete removes a source. Weight rows cascade via the FK; contacts keep the
// source alive (ON DELETE RESTRICT), which surfaces here as ErrConflict.
func (r *SourceRepository) Delete(ctx context.Context, id int64) error {
	const op = "internal.repository.postgres.source.Delete"

	query, args, err := r.sq.Delete("sources").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute delete: %w", op, classifyError(err))
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Source"))
	}

	return nil
}

type WeightRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewWeightRepository(db *sqlx.DB, log *slog.Logger) *WeightRepository {
	return &WeightRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *WeightRepository) ext(e sqlx.ExtContext) sqlx.ExtContext {
	if e == nil {
		return r.db
	}

	return e
}

func (r *WeightRepository) ListBySource(ctx context.Context, ext sqlx.ExtContext, sourceID int64) ([]domain.SourceOperatorWeight, error) {
	const op = "internal.repository.postgres.weight.ListBySource"

	ext = r.ext(ext)

	query, args, err := r.sq.Select(weightColumns).
		From("source_operator_weights").
		Where(sq.Eq{"source_id": sourceID}).
		OrderBy("operator_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	weights := []domain.SourceOperatorWeight{}
	if err := sqlx.SelectContext(ctx, ext, &weights, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	return weights, nil
}

func (r *WeightRepository) GetBySourceAndOperator(ctx context.Context, sourceID, operatorID int64) (*domain.SourceOperatorWeight, error) {
	const op = "internal.repository.postgres.weight.GetBySourceAndOperator"

	query, args, err := r.sq.Select(weightColumns).
		From("source_operator_weights").
		Where(sq.Eq{"source_id": sourceID, "operator_id": operatorID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var weight domain.SourceOperatorWeight
	if err := r.db.GetContext(ctx, &weight, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("SourceOperatorWeight"))
		}

		return nil, fmt.Errorf("%s: failed to get weight: %w", op, classifyError(err))
	}

	return &weight, nil
}

// Upsert creates the weight row for the pair or updates the weight of the
// existing one. A repeated set for the same (source, operator) pair never
// inserts a duplicate: the statement rides on the uq(source_id, operator_id)
// constraint.
func (r *WeightRepository) Upsert(ctx context.Context, sourceID, operatorID, weight int64) (*domain.SourceOperatorWeight, error) {
	const op = "internal.repository.postgres.weight.Upsert"

	query, args, err := r.sq.Insert("source_operator_weights").
		Columns("source_id", "operator_id", "weight").
		Values(sourceID, operatorID, weight).
		Suffix(`ON CONFLICT (source_id, operator_id)
			DO UPDATE SET weight = EXCLUDED.weight, updated_at = now()
			RETURNING ` + weightColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build upsert query: %w", op, err)
	}

	var row domain.SourceOperatorWeight
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute upsert: %w", op, classifyError(err))
	}

	return &row, nil
}

func (r *WeightRepository) Delete(ctx context.Context, sourceID, operatorID int64) error {
	const op = "internal.repository.postgres.weight.Delete"

	query, args, err := r.sq.Delete("source_operator_weights").
		Where(sq.Eq{"source_id": sourceID, "operator_id": operatorID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build delete query: %w", op, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute delete: %w", op, classifyError(err))
	}

	if rowsAffected, err := res.RowsAffected(); err == nil && rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, apperrors.NewNotFound("SourceOperatorWeight"))
	}

	return nil
}
