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

const operatorColumns = "id, name, is_active, load_limit, created_at, updated_at"

type OperatorRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewOperatorRepository(db *sqlx.DB, log *slog.Logger) *OperatorRepository {
	return &OperatorRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *OperatorRepository) Create(ctx context.Context, operator domain.Operator) (*domain.Operator, error) {
	const op = "internal.repository.postgres.operator.Create"

	query, args, err := r.sq.Insert("operators").
		Columns("name", "is_active", "load_limit").
		Values(operator.Name, operator.IsActive, operator.LoadLimit).
		Suffix("RETURNING " + operatorColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Operator
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, classifyError(err))
	}

	return &created, nil
}

func (r *OperatorRepository) GetByID(ctx context.Context, id int64) (*domain.Operator, error) {
	const op = "internal.repository.postgres.operator.GetByID"

	query, args, err := r.sq.Select(operatorColumns).
		From("operators").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var operator domain.Operator
	if err := r.db.GetContext(ctx, &operator, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Operator"))
		}

		return nil, fmt.Errorf("%s: failed to get operator: %w", op, classifyError(err))
	}

	return &operator, nil
}

func (r *OperatorRepository) List(ctx context.Context, skip, limit uint64) ([]domain.Operator, error) {
	const op = "internal.repository.postgres.operator.List"

	query, args, err := r.sq.Select(operatorColumns).
		From("operators").
		OrderBy("id").
		Offset(skip).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	operators := []domain.Operator{}
	if err := r.db.SelectContext(ctx, &operators, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	return operators, nil
}

func (r *OperatorRepository) Update(ctx context.Context, id int64, patch domain.OperatorPatch) (*domain.Operator, error) {
	const op = "internal.repository.postgres.operator.Update"

	builder := r.sq.Update("operators").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + operatorColumns)

	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
	}
	if patch.IsActive != nil {
		builder = builder.Set("is_active", *patch.IsActive)
	}
	if patch.LoadLimit != nil {
		builder = builder.Set("load_limit", *patch.LoadLimit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var operator domain.Operator
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&operator); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Operator"))
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, classifyError(err))
	}

	return &operator, nil
}

func (r *OperatorRepository) Delete(ctx context.Context, id int64) error {
	const op = "internal.repository.postgres.operator.Delete"

	query, args, err := r.sq.Delete("operators").
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
		return fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Operator"))
	}

	return nil
}

func (r *OperatorRepository) ext(e sqlx.ExtContext) sqlx.ExtContext {
	if e == nil {
		return r.db
	}

	return e
}

// AvailableOperators implements the eligibility query in a single statement:
// operators linked to the source by a weight row, active, and under their
// load cap. The per-operator load is a grouped subquery over active contacts,
// so every candidate is compared against the same snapshot instead of N
// racing count queries.
func (r *OperatorRepository) AvailableOperators(ctx context.Context, ext sqlx.ExtContext, sourceID int64) ([]domain.Operator, error) {
	const op = "internal.repository.postgres.operator.AvailableOperators"

	ext = r.ext(ext)

	query, args, err := r.sq.Select(
		"o.id", "o.name", "o.is_active", "o.load_limit", "o.created_at", "o.updated_at",
	).
		From("operators o").
		Join("source_operator_weights w ON w.operator_id = o.id").
		JoinClause(`LEFT JOIN (
			SELECT operator_id, COUNT(id) AS current_load
			FROM contacts
			WHERE is_active AND operator_id IS NOT NULL
			GROUP BY operator_id
		) l ON l.operator_id = o.id`).
		Where(sq.Eq{"w.source_id": sourceID, "o.is_active": true}).
		Where("COALESCE(l.current_load, 0) < o.load_limit").
		OrderBy("o.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	operators := []domain.Operator{}
	if err := sqlx.SelectContext(ctx, ext, &operators, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	return operators, nil
}

func (r *OperatorRepository) CurrentLoad(ctx context.Context, operatorID int64) (int64, error) {
	const op = "internal.repository.postgres.operator.CurrentLoad"

	query, args, err := r.sq.Select("COUNT(id)").
		From("contacts").
		Where(sq.Eq{"operator_id": operatorID, "is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var load int64
	if err := r.db.GetContext(ctx, &load, query, args...); err != nil {
		return 0, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	return load, nil
}
