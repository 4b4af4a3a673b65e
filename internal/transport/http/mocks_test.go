package http

import (
	"context"

	"github.com/leadhub/lead-intake-service/internal/service"
	"github.com/leadhub/lead-intake-service/pkg/api"
	"github.com/stretchr/testify/mock"
)

type LeadServiceMock struct {
	mock.Mock
}

var _ service.LeadService = (*LeadServiceMock)(nil)

func (m *LeadServiceMock) CreateLead(ctx context.Context, in api.LeadCreate) (*api.Lead, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Lead), args.Error(1)
}

func (m *LeadServiceMock) GetLead(ctx context.Context, leadID int64) (*api.Lead, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Lead), args.Error(1)
}

func (m *LeadServiceMock) GetLeadWithContacts(ctx context.Context, leadID int64) (*api.LeadWithContacts, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.LeadWithContacts), args.Error(1)
}

func (m *LeadServiceMock) ListLeads(ctx context.Context, skip, limit uint64) ([]api.Lead, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.Lead), args.Error(1)
}

func (m *LeadServiceMock) UpdateLead(ctx context.Context, leadID int64, in api.LeadUpdate) (*api.Lead, error) {
	args := m.Called(ctx, leadID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Lead), args.Error(1)
}

func (m *LeadServiceMock) FindOrCreateLead(ctx context.Context, in api.LeadCreate) (*api.Lead, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Lead), args.Error(1)
}

type SourceServiceMock struct {
	mock.Mock
}

var _ service.SourceService = (*SourceServiceMock)(nil)

func (m *SourceServiceMock) CreateSource(ctx context.Context, in api.SourceCreate) (*api.Source, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Source), args.Error(1)
}

func (m *SourceServiceMock) GetSource(ctx context.Context, sourceID int64) (*api.Source, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Source), args.Error(1)
}

func (m *SourceServiceMock) GetSourceWithWeights(ctx context.Context, sourceID int64) (*api.SourceWithWeights, error) {
	args := m.Called(ctx, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.SourceWithWeights), args.Error(1)
}

func (m *SourceServiceMock) ListSources(ctx context.Context, skip, limit uint64) ([]api.Source, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.Source), args.Error(1)
}

func (m *SourceServiceMock) UpdateSource(ctx context.Context, sourceID int64, in api.SourceUpdate) (*api.Source, error) {
	args := m.Called(ctx, sourceID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Source), args.Error(1)
}

func (m *SourceServiceMock) DeleteSource(ctx context.Context, sourceID int64) error {
	args := m.Called(ctx, sourceID)
	return args.Error(0)
}

func (m *SourceServiceMock) SetOperatorWeight(ctx context.Context, sourceID int64, in api.WeightSet) (*api.SourceOperatorWeight, error) {
	args := m.Called(ctx, sourceID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.SourceOperatorWeight), args.Error(1)
}

func (m *SourceServiceMock) RemoveOperatorWeight(ctx context.Context, sourceID, operatorID int64) error {
	args := m.Called(ctx, sourceID, operatorID)
	return args.Error(0)
}

type OperatorServiceMock struct {
	mock.Mock
}

var _ service.OperatorService = (*OperatorServiceMock)(nil)

func (m *OperatorServiceMock) CreateOperator(ctx context.Context, in api.OperatorCreate) (*api.Operator, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Operator), args.Error(1)
}

func (m *OperatorServiceMock) GetOperator(ctx context.Context, operatorID int64) (*api.Operator, error) {
	args := m.Called(ctx, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Operator), args.Error(1)
}

func (m *OperatorServiceMock) ListOperators(ctx context.Context, skip, limit uint64) ([]api.Operator, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.Operator), args.Error(1)
}

func (m *OperatorServiceMock) UpdateOperator(ctx context.Context, operatorID int64, in api.OperatorUpdate) (*api.Operator, error) {
	args := m.Called(ctx, operatorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Operator), args.Error(1)
}

func (m *OperatorServiceMock) DeleteOperator(ctx context.Context, operatorID int64) error {
	args := m.Called(ctx, operatorID)
	return args.Error(0)
}

type ContactServiceMock struct {
	mock.Mock
}

var _ service.ContactService = (*ContactServiceMock)(nil)

func (m *ContactServiceMock) CreateContact(ctx context.Context, in api.ContactCreate) (*api.ContactDetail, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.ContactDetail), args.Error(1)
}

func (m *ContactServiceMock) GetContact(ctx context.Context, contactID int64) (*api.ContactDetail, error) {
	args := m.Called(ctx, contactID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.ContactDetail), args.Error(1)
}

func (m *ContactServiceMock) ListContacts(ctx context.Context, skip, limit uint64) ([]api.Contact, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.Contact), args.Error(1)
}

func (m *ContactServiceMock) UpdateContact(ctx context.Context, contactID int64, in api.ContactUpdate) (*api.Contact, error) {
	args := m.Called(ctx, contactID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.Contact), args.Error(1)
}

func (m *ContactServiceMock) GetDistribution(ctx context.Context) (api.Distribution, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(api.Distribution), args.Error(1)
}
