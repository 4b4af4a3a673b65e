// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the
// service layer.
package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/leadhub/lead-intake-service/internal/domain"
)

// LeadRepository defines the contract for lead data operations.
type LeadRepository interface {
	// Create inserts a new lead and returns it with generated id and
	// timestamps. The ext argument allows execution within a transaction
	// (*sqlx.Tx) or directly on a DB connection (*sqlx.DB).
	Create(ctx context.Context, ext sqlx.ExtContext, lead domain.Lead) (*domain.Lead, error)

	// GetByID retrieves a lead by id.
	// It returns apperrors.ErrNotFound if the lead does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Lead, error)

	// List returns a page of leads ordered by id.
	List(ctx context.Context, skip, limit uint64) ([]domain.Lead, error)

	// Update applies the non-nil fields of patch and returns the updated
	// lead. It returns apperrors.ErrNotFound if the lead does not exist.
	Update(ctx context.Context, id int64, patch domain.LeadPatch) (*domain.Lead, error)

	// FindByIdentifiers returns some lead matching ANY of the given non-nil
	// identifiers (OR semantics, no ordering guarantee), or nil when no
	// identifier is provided or nothing matches. The any-field match is a
	// documented merge heuristic: a single shared identifier is enough to
	// reuse an existing lead.
	FindByIdentifiers(ctx context.Context, ext sqlx.ExtContext, externalID, phone, email *string) (*domain.Lead, error)
}

// SourceRepository defines the contract for source data operations.
type SourceRepository interface {
	// Create inserts a new source. It returns
	// *apperrors.UniqueViolationError if the name is already taken.
	Create(ctx context.Context, source domain.Source) (*domain.Source, error)

	// GetByID retrieves a source by id. The ext argument allows execution
	// within a transaction or on a direct DB connection.
	// It returns apperrors.ErrNotFound if the source does not exist.
	GetByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Source, error)

	// GetByName retrieves a source by its unique name.
	GetByName(ctx context.Context, name string) (*domain.Source, error)

	// List returns a page of sources ordered by id.
	List(ctx context.Context, skip, limit uint64) ([]domain.Source, error)

	// Update applies the non-nil fields of patch.
	Update(ctx context.Context, id int64, patch domain.SourcePatch) (*domain.Source, error)

	// Delete removes a source. Its weight rows cascade; the delete is
	// rejected with apperrors.ErrConflict while contacts still reference
	// the source.
	Delete(ctx context.Context, id int64) error
}

// WeightRepository defines the contract for (source, operator) weight rows.
type WeightRepository interface {
	// ListBySource returns all weight rows for a source.
	ListBySource(ctx context.Context, ext sqlx.ExtContext, sourceID int64) ([]domain.SourceOperatorWeight, error)

	// GetBySourceAndOperator retrieves the single weight row for the pair.
	// It returns apperrors.ErrNotFound if no row exists.
	GetBySourceAndOperator(ctx context.Context, sourceID, operatorID int64) (*domain.SourceOperatorWeight, error)

	// Upsert atomically creates the weight row for the pair or updates the
	// weight of the existing one, keyed on the (source_id, operator_id)
	// uniqueness constraint.
	Upsert(ctx context.Context, sourceID, operatorID, weight int64) (*domain.SourceOperatorWeight, error)

	// Delete removes the weight row for the pair.
	// It returns apperrors.ErrNotFound if no row exists.
	Delete(ctx context.Context, sourceID, operatorID int64) error
}

// OperatorRepository defines the contract for operator data operations.
type OperatorRepository interface {
	// Create inserts a new operator.
	Create(ctx context.Context, operator domain.Operator) (*domain.Operator, error)

	// GetByID retrieves an operator by id.
	// It returns apperrors.ErrNotFound if the operator does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Operator, error)

	// List returns a page of operators ordered by id.
	List(ctx context.Context, skip, limit uint64) ([]domain.Operator, error)

	// Update applies the non-nil fields of patch.
	Update(ctx context.Context, id int64, patch domain.OperatorPatch) (*domain.Operator, error)

	// Delete removes an operator. Its weight rows cascade and its contacts
	// get operator_id nulled out.
	Delete(ctx context.Context, id int64) error

	// AvailableOperators returns the operators eligible for a source:
	// linked to it by a weight row, active, and with a live count of active
	// contacts strictly below their load limit. The load counts come from a
	// single aggregate query so all candidates see one consistent snapshot.
	// No ordering guarantee beyond being stable within one call.
	AvailableOperators(ctx context.Context, ext sqlx.ExtContext, sourceID int64) ([]domain.Operator, error)

	// CurrentLoad returns the number of active contacts assigned to the
	// operator right now. Always recomputed, never cached.
	CurrentLoad(ctx context.Context, operatorID int64) (int64, error)
}

// ContactRepository defines the contract for contact data operations.
type ContactRepository interface {
	// Create inserts a new contact within the given transaction and returns
	// it with generated id and timestamps.
	Create(ctx context.Context, tx *sqlx.Tx, contact domain.Contact) (*domain.Contact, error)

	// GetByID retrieves a contact by id without related rows.
	GetByID(ctx context.Context, id int64) (*domain.Contact, error)

	// GetDetailByID retrieves a contact with its lead, source and operator
	// resolved in one query. The ext argument allows the re-read after an
	// insert to run inside the same transaction.
	GetDetailByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.ContactDetail, error)

	// List returns a page of contacts ordered by id.
	List(ctx context.Context, skip, limit uint64) ([]domain.Contact, error)

	// ListDetailByLead returns all contacts of a lead with related rows
	// resolved.
	ListDetailByLead(ctx context.Context, leadID int64) ([]domain.ContactDetail, error)

	// Update applies the non-nil fields of patch.
	// It returns apperrors.ErrNotFound if the contact does not exist.
	Update(ctx context.Context, id int64, patch domain.ContactPatch) (*domain.Contact, error)

	// Distribution counts contacts grouped by (source_id, operator_id) over
	// the whole table.
	Distribution(ctx context.Context) ([]domain.DistributionRow, error)
}
