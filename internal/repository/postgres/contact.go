package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/leadhub/lead-intake-service/internal/apperrors"
	"github.com/leadhub/lead-intake-service/internal/domain"
)

const contactColumns = "id, lead_id, source_id, operator_id, is_active, message, created_at, updated_at"

type ContactRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewContactRepository(db *sqlx.DB, log *slog.Logger) *ContactRepository {
	return &ContactRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ContactRepository) Create(ctx context.Context, tx *sqlx.Tx, contact domain.Contact) (*domain.Contact, error) {
	const op = "internal.repository.postgres.contact.Create"

	query, args, err := r.sq.Insert("contacts").
		Columns("lead_id", "source_id", "operator_id", "is_active", "message").
		Values(contact.LeadID, contact.SourceID, contact.OperatorID, contact.IsActive, contact.Message).
		Suffix("RETURNING " + contactColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.Contact
	if err := tx.GetContext(ctx, &created, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, classifyError(err))
	}

	return &created, nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	const op = "internal.repository.postgres.contact.GetByID"

	query, args, err := r.sq.Select(contactColumns).
		From("contacts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var contact domain.Contact
	if err := r.db.GetContext(ctx, &contact, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Contact"))
		}

		return nil, fmt.Errorf("%s: failed to get contact: %w", op, classifyError(err))
	}

	return &contact, nil
}

// detailRow is the flat scan target of the detail join. Operator columns are
// nullable because the join to operators is a LEFT JOIN.
type detailRow struct {
	domain.Contact

	LeadExternalID *string   `db:"l_external_id"`
	LeadPhone      *string   `db:"l_phone"`
	LeadEmail      *string   `db:"l_email"`
	LeadName       *string   `db:"l_name"`
	LeadCreatedAt  time.Time `db:"l_created_at"`
	LeadUpdatedAt  time.Time `db:"l_updated_at"`

	SourceName        string    `db:"s_name"`
	SourceDescription *string   `db:"s_description"`
	SourceCreatedAt   time.Time `db:"s_created_at"`
	SourceUpdatedAt   time.Time `db:"s_updated_at"`

	OperatorName      *string    `db:"o_name"`
	OperatorIsActive  *bool      `db:"o_is_active"`
	OperatorLoadLimit *int       `db:"o_load_limit"`
	OperatorCreatedAt *time.Time `db:"o_created_at"`
	OperatorUpdatedAt *time.Time `db:"o_updated_at"`
}

func (row *detailRow) toDetail() domain.ContactDetail {
	detail := domain.ContactDetail{
		Contact: row.Contact,
		Lead: domain.Lead{
			ID:         row.LeadID,
			ExternalID: row.LeadExternalID,
			Phone:      row.LeadPhone,
			Email:      row.LeadEmail,
			Name:       row.LeadName,
			CreatedAt:  row.LeadCreatedAt,
			UpdatedAt:  row.LeadUpdatedAt,
		},
		Source: domain.Source{
			ID:          row.SourceID,
			Name:        row.SourceName,
			Description: row.SourceDescription,
			CreatedAt:   row.SourceCreatedAt,
			UpdatedAt:   row.SourceUpdatedAt,
		},
	}

	if row.OperatorID != nil && row.OperatorName != nil {
		detail.Operator = &domain.Operator{
			ID:        *row.OperatorID,
			Name:      *row.OperatorName,
			IsActive:  *row.OperatorIsActive,
			LoadLimit: *row.OperatorLoadLimit,
			CreatedAt: *row.OperatorCreatedAt,
			UpdatedAt: *row.OperatorUpdatedAt,
		}
	}

	return detail
}

func (r *ContactRepository) detailBuilder() sq.SelectBuilder {
	return r.sq.Select(
		"c.id", "c.lead_id", "c.source_id", "c.operator_id", "c.is_active", "c.message",
		"c.created_at", "c.updated_at",
		"l.external_id AS l_external_id", "l.phone AS l_phone", "l.email AS l_email",
		"l.name AS l_name", "l.created_at AS l_created_at", "l.updated_at AS l_updated_at",
		"s.name AS s_name", "s.description AS s_description",
		"s.created_at AS s_created_at", "s.updated_at AS s_updated_at",
		"o.name AS o_name", "o.is_active AS o_is_active", "o.load_limit AS o_load_limit",
		"o.created_at AS o_created_at", "o.updated_at AS o_updated_at",
	).
		From("contacts c").
		Join("leads l ON l.id = c.lead_id").
		Join("sources s ON s.id = c.source_id").
		LeftJoin("operators o ON o.id = c.operator_id")
}

func (r *ContactRepository) ext(e sqlx.ExtContext) sqlx.ExtContext {
	if e == nil {
		return r.db
	}

	return e
}

// GetDetailByID is the explicit counterpart of relation eager-loading: one
// query resolving lead, source and operator alongside the contact.
func (r *ContactRepository) GetDetailByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.ContactDetail, error) {
	const op = "internal.repository.postgres.contact.GetDetailByID"

	ext = r.ext(ext)

	query, args, err := r.detailBuilder().
		Where(sq.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	var row detailRow
	if err := sqlx.GetContext(ctx, ext, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Contact"))
		}

		return nil, fmt.Errorf("%s: failed to get contact detail: %w", op, classifyError(err))
	}

	detail := row.toDetail()

	return &detail, nil
}

func (r *ContactRepository) List(ctx context.Context, skip, limit uint64) ([]domain.Contact, error) {
	const op = "internal.repository.postgres.contact.List"

	query, args, err := r.sq.Select(contactColumns).
		From("contacts").
		OrderBy("id").
		Offset(skip).
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	contacts := []domain.Contact{}
	if err := r.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	return contacts, nil
}

func (r *ContactRepository) ListDetailByLead(ctx context.Context, leadID int64) ([]domain.ContactDetail, error) {
	const op = "internal.repository.postgres.contact.ListDetailByLead"

	query, args, err := r.detailBuilder().
		Where(sq.Eq{"c.lead_id": leadID}).
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows := []detailRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	details := make([]domain.ContactDetail, len(rows))
	for i := range rows {
		details[i] = rows[i].toDetail()
	}

	return details, nil
}

func (r *ContactRepository) Update(ctx context.Context, id int64, patch domain.ContactPatch) (*domain.Contact, error) {
	const op = "internal.repository.postgres.contact.Update"

	builder := r.sq.Update("contacts").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + contactColumns)

	if patch.IsActive != nil {
		builder = builder.Set("is_active", *patch.IsActive)
	}
	if patch.Message != nil {
		builder = builder.Set("message", *patch.Message)
	}
	if patch.OperatorID != nil {
		builder = builder.Set("operator_id", *patch.OperatorID)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var contact domain.Contact
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&contact); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.NewNotFound("Contact"))
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, classifyError(err))
	}

	return &contact, nil
}

func (r *ContactRepository) Distribution(ctx context.Context) ([]domain.DistributionRow, error) {
	const op = "internal.repository.postgres.contact.Distribution"

	query, args, err := r.sq.Select(
		"source_id",
		"operator_id",
		"COUNT(id) AS cnt",
	).
		From("contacts").
		GroupBy("source_id", "operator_id").
		OrderBy("source_id", "operator_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build query: %w", op, err)
	}

	rows := []domain.DistributionRow{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute query: %w", op, classifyError(err))
	}

	return rows, nil
}
