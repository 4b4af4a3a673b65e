package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/leadhub/lead-intake-service/internal/domain"
	"github.com/leadhub/lead-intake-service/internal/repository"
	"github.com/leadhub/lead-intake-service/pkg/api"
)

type LeadService interface {
	CreateLead(ctx context.Context, in api.LeadCreate) (*api.Lead, error)
	GetLead(ctx context.Context, leadID int64) (*api.Lead, error)
	GetLeadWithContacts(ctx context.Context, leadID int64) (*api.LeadWithContacts, error)
	ListLeads(ctx context.Context, skip, limit uint64) ([]api.Lead, error)
	UpdateLead(ctx context.Context, leadID int64, in api.LeadUpdate) (*api.Lead, error)
	FindOrCreateLead(ctx context.Context, in api.LeadCreate) (*api.Lead, error)
}

type LeadServiceImpl struct {
	db       Transactor
	log      *slog.Logger
	leads    repository.LeadRepository
	contacts repository.ContactRepository
}

func NewLeadService(
	db Transactor,
	log *slog.Logger,
	leads repository.LeadRepository,
	contacts repository.ContactRepository,
) *LeadServiceImpl {
	return &LeadServiceImpl{
		db:       db,
		log:      log,
		leads:    leads,
		contacts: contacts,
	}
}

func (s *LeadServiceImpl) CreateLead(ctx context.Context, in api.LeadCreate) (*api.Lead, error) {
	const op = "internal.service.lead.CreateLead"

	lead, err := s.findOrCreate(ctx, nil, in, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toAPILead(lead), nil
}

func (s *LeadServiceImpl) GetLead(ctx context.Context, leadID int64) (*api.Lead, error) {
	const op = "internal.service.lead.GetLead"

	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get lead: %w", op, err)
	}

	return toAPILead(lead), nil
}

func (s *LeadServiceImpl) GetLeadWithContacts(ctx context.Context, leadID int64) (*api.LeadWithContacts, error) {
	const op = "internal.service.lead.GetLeadWithContacts"

	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get lead: %w", op, err)
	}

	details, err := s.contacts.ListDetailByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get lead contacts: %w", op, err)
	}

	apiContacts := make([]api.ContactDetail, len(details))
	for i := range details {
		apiContacts[i] = *toAPIContactDetail(&details[i])
	}

	return &api.LeadWithContacts{
		Lead:     *toAPILead(lead),
		Contacts: apiContacts,
	}, nil
}

func (s *LeadServiceImpl) ListLeads(ctx context.Context, skip, limit uint64) ([]api.Lead, error) {
	const op = "internal.service.lead.ListLeads"

	leads, err := s.leads.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list leads: %w", op, err)
	}

	apiLeads := make([]api.Lead, len(leads))
	for i := range leads {
		apiLeads[i] = *toAPILead(&leads[i])
	}

	return apiLeads, nil
}

func (s *LeadServiceImpl) UpdateLead(ctx context.Context, leadID int64, in api.LeadUpdate) (*api.Lead, error) {
	const op = "internal.service.lead.UpdateLead"

	lead, err := s.leads.Update(ctx, leadID, domain.LeadPatch{
		ExternalID: in.ExternalID,
		Phone:      in.Phone,
		Email:      in.Email,
		Name:       in.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update lead: %w", op, err)
	}

	return toAPILead(lead), nil
}

// FindOrCreateLead deduplicates the person behind a contact: any single
// matching identifier (external id, phone or email) reuses the existing
// lead; otherwise a new one is created with all given fields.
func (s *LeadServiceImpl) FindOrCreateLead(ctx context.Context, in api.LeadCreate) (*api.Lead, error) {
	const op = "internal.service.lead.FindOrCreateLead"
	log := s.log.With(slog.String("op", op))

	var lead *domain.Lead

	err := transaction(ctx, s.db, s.log, op, func(tx *sqlx.Tx) error {
		var err error

		lead, err = s.findOrCreate(ctx, tx, in, true)

		return err
	})
	if err != nil {
		return nil, err
	}

	log.Debug("lead resolved", slog.Int64("lead_id", lead.ID))

	return toAPILead(lead), nil
}

// findOrCreate implements the resolver against either a transaction or the
// bare connection. With match=false it skips the lookup and always creates.
func (s *LeadServiceImpl) findOrCreate(ctx context.Context, tx *sqlx.Tx, in api.LeadCreate, match bool) (*domain.Lead, error) {
	var ext sqlx.ExtContext
	if tx != nil {
		ext = tx
	}

	if match {
		found, err := s.leads.FindByIdentifiers(ctx, ext, in.ExternalID, in.Phone, in.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to find lead by identifiers: %w", err)
		}

		if found != nil {
			return found, nil
		}
	}

	created, err := s.leads.Create(ctx, ext, domain.Lead{
		ExternalID: in.ExternalID,
		Phone:      in.Phone,
		Email:      in.Email,
		Name:       in.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	return created, nil
}

func toAPILead(lead *domain.Lead) *api.Lead {
	return &api.Lead{
		ID:         lead.ID,
		ExternalID: lead.ExternalID,
		Phone:      lead.Phone,
		Email:      lead.Email,
		Name:       lead.Name,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
}
