package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/leadhub/lead-intake-service/internal/domain"
	"github.com/leadhub/lead-intake-service/internal/repository"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMockDBAndTx(t *testing.T) (*sqlx.DB, *sqlx.Tx, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, smock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")

	smock.ExpectBegin()

	tx, err := sqlxDB.Beginx()
	require.NoError(t, err)

	return sqlxDB, tx, smock
}

type TransactorMock struct {
	mock.Mock
}

func (m *TransactorMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	var tx *sqlx.Tx

	args := m.Called(ctx, opts)
	if args.Get(0) != nil {
		tx = args.Get(0).(*sqlx.Tx)
	}

	return tx, args.Error(1)
}

type LeadRepositoryMock struct {
	mock.Mock
}

var _ repository.LeadRepository = (*LeadRepositoryMock)(nil)

func (m *LeadRepositoryMock) Create(ctx context.Context, ext sqlx.ExtContext, lead domain.Lead) (*domain.Lead, error) {
	args := m.Called(ctx, ext, lead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *LeadRepositoryMock) GetByID(ctx context.Context, id int64) (*domain.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *LeadRepositoryMock) List(ctx context.Context, skip, limit uint64) ([]domain.Lead, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Lead), args.Error(1)
}

func (m *LeadRepositoryMock) Update(ctx context.Context, id int64, patch domain.LeadPatch) (*domain.Lead, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Lead), args.Error(1)
}

func (m *LeadRepositoryMock) FindByIdentifiers(ctx context.Context, ext sqlx.ExtContext, externalID, phone, email *string) (*domain.Lead, error) {
	args := m.Called(ctx, ext, externalID, phone, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Lead), args.Error(1)
}

type SourceRepositoryMock struct {
	mock.Mock
}

var _ repository.SourceRepository = (*SourceRepositoryMock)(nil)

func (m *SourceRepositoryMock) Create(ctx context.Context, source domain.Source) (*domain.Source, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Source), args.Error(1)
}

func (m *SourceRepositoryMock) GetByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.Source, error) {
	args := m.Called(ctx, ext, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Source), args.Error(1)
}

func (m *SourceRepositoryMock) GetByName(ctx context.Context, name string) (*domain.Source, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Source), args.Error(1)
}

func (m *SourceRepositoryMock) List(ctx context.Context, skip, limit uint64) ([]domain.Source, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Source), args.Error(1)
}

func (m *SourceRepositoryMock) Update(ctx context.Context, id int64, patch domain.SourcePatch) (*domain.Source, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Source), args.Error(1)
}

func (m *SourceRepositoryMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type WeightRepositoryMock struct {
	mock.Mock
}

var _ repository.WeightRepository = (*WeightRepositoryMock)(nil)

func (m *WeightRepositoryMock) ListBySource(ctx context.Context, ext sqlx.ExtContext, sourceID int64) ([]domain.SourceOperatorWeight, error) {
	args := m.Called(ctx, ext, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.SourceOperatorWeight), args.Error(1)
}

func (m *WeightRepositoryMock) GetBySourceAndOperator(ctx context.Context, sourceID, operatorID int64) (*domain.SourceOperatorWeight, error) {
	args := m.Called(ctx, sourceID, operatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.SourceOperatorWeight), args.Error(1)
}

func (m *WeightRepositoryMock) Upsert(ctx context.Context, sourceID, operatorID, weight int64) (*domain.SourceOperatorWeight, error) {
	args := m.Called(ctx, sourceID, operatorID, weight)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.SourceOperatorWeight), args.Error(1)
}

func (m *WeightRepositoryMock) Delete(ctx context.Context, sourceID, operatorID int64) error {
	args := m.Called(ctx, sourceID, operatorID)
	return args.Error(0)
}

type OperatorRepositoryMock struct {
	mock.Mock
}

var _ repository.OperatorRepository = (*OperatorRepositoryMock)(nil)

func (m *OperatorRepositoryMock) Create(ctx context.Context, operator domain.Operator) (*domain.Operator, error) {
	args := m.Called(ctx, operator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *OperatorRepositoryMock) GetByID(ctx context.Context, id int64) (*domain.Operator, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *OperatorRepositoryMock) List(ctx context.Context, skip, limit uint64) ([]domain.Operator, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Operator), args.Error(1)
}

func (m *OperatorRepositoryMock) Update(ctx context.Context, id int64, patch domain.OperatorPatch) (*domain.Operator, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Operator), args.Error(1)
}

func (m *OperatorRepositoryMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *OperatorRepositoryMock) AvailableOperators(ctx context.Context, ext sqlx.ExtContext, sourceID int64) ([]domain.Operator, error) {
	args := m.Called(ctx, ext, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Operator), args.Error(1)
}

func (m *OperatorRepositoryMock) CurrentLoad(ctx context.Context, operatorID int64) (int64, error) {
	args := m.Called(ctx, operatorID)
	return args.Get(0).(int64), args.Error(1)
}

type ContactRepositoryMock struct {
	mock.Mock
}

var _ repository.ContactRepository = (*ContactRepositoryMock)(nil)

func (m *ContactRepositoryMock) Create(ctx context.Context, tx *sqlx.Tx, contact domain.Contact) (*domain.Contact, error) {
	args := m.Called(ctx, tx, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *ContactRepositoryMock) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *ContactRepositoryMock) GetDetailByID(ctx context.Context, ext sqlx.ExtContext, id int64) (*domain.ContactDetail, error) {
	args := m.Called(ctx, ext, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ContactDetail), args.Error(1)
}

func (m *ContactRepositoryMock) List(ctx context.Context, skip, limit uint64) ([]domain.Contact, error) {
	args := m.Called(ctx, skip, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *ContactRepositoryMock) ListDetailByLead(ctx context.Context, leadID int64) ([]domain.ContactDetail, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.ContactDetail), args.Error(1)
}

func (m *ContactRepositoryMock) Update(ctx context.Context, id int64, patch domain.ContactPatch) (*domain.Contact, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *ContactRepositoryMock) Distribution(ctx context.Context) ([]domain.DistributionRow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.DistributionRow), args.Error(1)
}
