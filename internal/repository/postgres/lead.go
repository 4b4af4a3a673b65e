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

const leadColumns = "id, external_id, phone, email, name, created_at, updated_at"

type LeadRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewLeadRepository(db *sqlx.DB, log *slog.Logger) *LeadRepository {
	return &LeadRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ext resolves the execution target: the given transaction when present,
// the repository's own connection otherwise.
func (r *LeadRepository) ext(e sqlx.ExtContext) sqlx.ExtContext {
	if e == nil {
		return r.db
	}

	return e
}

func (r *LeadRepository) Create(ctx context.Context, ext sqlx.ExtContext, lead domain.Lead) (*domain.Lead, error) {
	const op = "internal.repository.postgres.lead.Create"

	ext = r.ext(ext)

	query, args, err := r.sq.Insert("leads").
		Columns("external_id", "phone", "email", "name").
		Values(lead.ExternalID, lead.Phone, lead.Email, lead.Name).
		Suffix("RETURNING " + leadColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Lead
	if err := sqlx.GetContext(ctx, ext, &created, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, classifyError(err))
	}

	return &created, nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	const op = "internal.repository.postgres.lead.GetByID"

	query, args, err := r.sq.Select(leadColumns).
		From("leads").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var lead domain.Lead
	if err := r.db.GetContext(ctx, &lead, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Lead"))
		}

		return nil, fmt.Errorf("%s: failed to get lead: %w", op, classifyError(err))
	}

	return &lead, nil
}

func (r *LeadRepository) List(ctx context.Context, skip, limit uint64) ([]domain.Lead, error) {
	const op = "internal.repository.postgres.lead.List"

	query, args, err := r.sq.Select(leadColumns).
		From("leads").
		OrderBy("id").
		Offset(skip).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	leads := []domain.Lead{}
	if err := r.db.SelectContext(ctx, &leads, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	return leads, nil
}

func (r *LeadRepository) Update(ctx context.Context, id int64, patch domain.LeadPatch) (*domain.Lead, error) {
	const op = "internal.repository.postgres.lead.Update"

	builder := r.sq.Update("leads").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + leadColumns)

	if patch.ExternalID != nil {
		builder = builder.Set("external_id", *patch.ExternalID)
	}
	if patch.Phone != nil {
		builder = builder.Set("phone", *patch.Phone)
	}
	if patch.Email != nil {
		builder = builder.Set("email", *patch.Email)
	}
	if patch.Name != nil {
		builder = builder.Set("name", *patch.Name)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var lead domain.Lead
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&lead); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Lead"))
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, classifyError(err))
	}

	return &lead, nil
}

func (r *LeadRepository) FindByIdentifiers(ctx context.Context, ext sqlx.ExtContext, externalID, phone, email *string) (*domain.Lead, error) {
	const op = "internal.repository.postgres.lead.FindByIdentifiers"

	ext = r.ext(ext)

	conditions := sq.Or{}

	if externalID != nil && *externalID != "" {
		conditions = append(conditions, sq.Eq{"external_id": *externalID})
	}
	if phone != nil && *phone != "" {
		conditions = append(conditions, sq.Eq{"phone": *phone})
	}
	if email != nil && *email != "" {
		conditions = append(conditions, sq.Eq{"email": *email})
	}

	if len(conditions) == 0 {
		return nil, nil
	}

	query, args, err := r.sq.Select(leadColumns).
		From("leads").
		Where(conditions).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var lead domain.Lead
	if err := sqlx.GetContext(ctx, ext, &lead, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	return &lead, nil
}
