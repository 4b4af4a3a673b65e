package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/leadhub/lead-intake-service/internal/assign"
	"github.com/leadhub/lead-intake-service/internal/domain"
	"github.com/leadhub/lead-intake-service/internal/repository"
	"github.com/leadhub/lead-intake-service/pkg/api"
)

type ContactService interface {
	CreateContact(ctx context.Context, in api.ContactCreate) (*api.ContactDetail, error)
	GetContact(ctx context.Context, contactID int64) (*api.ContactDetail, error)
	ListContacts(ctx context.Context, skip, limit uint64) ([]api.Contact, error)
	UpdateContact(ctx context.Context, contactID int64, in api.ContactUpdate) (*api.Contact, error)
	GetDistribution(ctx context.Context) (api.Distribution, error)
}

type ContactServiceImpl struct {
	db        Transactor
	log       *slog.Logger
	picker    *assign.Picker
	leads     repository.LeadRepository
	sources   repository.SourceRepository
	operators repository.OperatorRepository
	weights   repository.WeightRepository
	contacts  repository.ContactRepository
}

func NewContactService(
	db Transactor,
	log *slog.Logger,
	picker *assign.Picker,
	leads repository.LeadRepository,
	sources repository.SourceRepository,
	operators repository.OperatorRepository,
	weights repository.WeightRepository,
	contacts repository.ContactRepository,
) *ContactServiceImpl {
	return &ContactServiceImpl{
		db:        db,
		log:       log,
		picker:    picker,
		leads:     leads,
		sources:   sources,
		operators: operators,
		weights:   weights,
		contacts:  contacts,
	}
}

// CreateContact is the intake entry point. It resolves the lead behind the
// identifiers, runs the weighted operator lottery for the source and writes
// the contact, all inside one transaction; either everything lands or
// nothing does. A contact with no winnable operator is stored unassigned,
// not rejected.
func (s *ContactServiceImpl) CreateContact(ctx context.Context, in api.ContactCreate) (*api.ContactDetail, error) {
	const op = "internal.service.contact.CreateContact"
	log := s.log.With(slog.String("op", op))

	if _, err := s.sources.GetByID(ctx, nil, in.SourceID); err != nil {
		return nil, fmt.Errorf("%s: failed to get source: %w", op, err)
	}

	var detail *domain.ContactDetail

	err := transaction(ctx, s.db, s.log, op, func(tx *sqlx.Tx) error {
		lead, err := s.findOrCreateLead(ctx, tx, in)
		if err != nil {
			return err
		}

		operatorID, err := s.selectOperator(ctx, tx, in.SourceID)
		if err != nil {
			return err
		}

		contact, err := s.contacts.Create(ctx, tx, domain.Contact{
			LeadID:     lead.ID,
			SourceID:   in.SourceID,
			OperatorID: operatorID,
			IsActive:   true,
			Message:    in.Message,
		})
		if err != nil {
			return fmt.Errorf("failed to create contact: %w", err)
		}

		detail, err = s.contacts.GetDetailByID(ctx, tx, contact.ID)
		if err != nil {
			return fmt.Errorf("failed to get contact detail: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logAttrs := []any{
		slog.Int64("contact_id", detail.Contact.ID),
		slog.Int64("lead_id", detail.Lead.ID),
		slog.Int64("source_id", detail.Source.ID),
	}
	if detail.Operator != nil {
		logAttrs = append(logAttrs, slog.Int64("operator_id", detail.Operator.ID))
	}

	log.Info("contact created", logAttrs...)

	return toAPIContactDetail(detail), nil
}

// findOrCreateLead reuses an existing lead when any identifier matches,
// otherwise creates a new one. Both steps ride on the intake transaction.
func (s *ContactServiceImpl) findOrCreateLead(ctx context.Context, tx *sqlx.Tx, in api.ContactCreate) (*domain.Lead, error) {
	found, err := s.leads.FindByIdentifiers(ctx, tx, in.ExternalID, in.Phone, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find lead by identifiers: %w", err)
	}

	if found != nil {
		return found, nil
	}

	created, err := s.leads.Create(ctx, tx, domain.Lead{
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

// selectOperator runs the eligibility query and the weighted lottery for
// the source. A nil result means no operator can take the contact right
// now; the caller stores it unassigned.
func (s *ContactServiceImpl) selectOperator(ctx context.Context, tx *sqlx.Tx, sourceID int64) (*int64, error) {
	eligible, err := s.operators.AvailableOperators(ctx, tx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get available operators: %w", err)
	}

	if len(eligible) == 0 {
		return nil, nil
	}

	rows, err := s.weights.ListBySource(ctx, tx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list source weights: %w", err)
	}

	weights := make(map[int64]int64, len(rows))
	for _, row := range rows {
		weights[row.OperatorID] = row.Weight
	}

	operatorID, ok := s.picker.Pick(eligible, weights)
	if !ok {
		return nil, nil
	}

	return &operatorID, nil
}

func (s *ContactServiceImpl) GetContact(ctx context.Context, contactID int64) (*api.ContactDetail, error) {
	const op = "internal.service.contact.GetContact"

	detail, err := s.contacts.GetDetailByID(ctx, nil, contactID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get contact: %w", op, err)
	}

	return toAPIContactDetail(detail), nil
}

func (s *ContactServiceImpl) ListContacts(ctx context.Context, skip, limit uint64) ([]api.Contact, error) {
	const op = "internal.service.contact.ListContacts"

	contacts, err := s.contacts.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list contacts: %w", op, err)
	}

	apiContacts := make([]api.Contact, len(contacts))
	for i := range contacts {
		apiContacts[i] = *toAPIContact(&contacts[i])
	}

	return apiContacts, nil
}

// UpdateContact applies a partial update. Reassigning to a missing operator
// is rejected up front so the caller gets a not-found instead of an FK
// violation.
func (s *ContactServiceImpl) UpdateContact(ctx context.Context, contactID int64, in api.ContactUpdate) (*api.Contact, error) {
	const op = "internal.service.contact.UpdateContact"

	if in.OperatorID != nil {
		if _, err := s.operators.GetByID(ctx, *in.OperatorID); err != nil {
			return nil, fmt.Errorf("%s: failed to get operator: %w", op, err)
		}
	}

	contact, err := s.contacts.Update(ctx, contactID, domain.ContactPatch{
		IsActive:   in.IsActive,
		Message:    in.Message,
		OperatorID: in.OperatorID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update contact: %w", op, err)
	}

	return toAPIContact(contact), nil
}

// GetDistribution reports contact counts per source and operator. Unassigned
// contacts land under the "null" key of their source.
func (s *ContactServiceImpl) GetDistribution(ctx context.Context) (api.Distribution, error) {
	const op = "internal.service.contact.GetDistribution"

	rows, err := s.contacts.Distribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get distribution: %w", op, err)
	}

	dist := make(api.Distribution, len(rows))
	for _, row := range rows {
		perOperator, ok := dist[row.SourceID]
		if !ok {
			perOperator = make(map[string]int64)
			dist[row.SourceID] = perOperator
		}

		key := "null"
		if row.OperatorID != nil {
			key = strconv.FormatInt(*row.OperatorID, 10)
		}

		perOperator[key] = row.Count
	}

	return dist, nil
}

func toAPIContact(contact *domain.Contact) *api.Contact {
	return &api.Contact{
		ID:         contact.ID,
		LeadID:     contact.LeadID,
		SourceID:   contact.SourceID,
		OperatorID: contact.OperatorID,
		IsActive:   contact.IsActive,
		Message:    contact.Message,
		CreatedAt:  contact.CreatedAt,
		UpdatedAt:  contact.UpdatedAt,
	}
}

func toAPIContactDetail(detail *domain.ContactDetail) *api.ContactDetail {
	out := &api.ContactDetail{
		Contact: *toAPIContact(&detail.Contact),
		Lead:    *toAPILead(&detail.Lead),
		Source:  *toAPISource(&detail.Source),
	}

	if detail.Operator != nil {
		out.Operator = toAPIOperator(detail.Operator)
	}

	return out
}
