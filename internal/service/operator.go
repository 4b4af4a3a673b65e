package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leadhub/lead-intake-service/internal/domain"
	"github.com/leadhub/lead-intake-service/internal/repository"
	"github.com/leadhub/lead-intake-service/pkg/api"
)

// defaultLoadLimit caps how many active contacts a new operator takes on
// when the create request does not say otherwise.
const defaultLoadLimit = 10

type OperatorService interface {
	CreateOperator(ctx context.Context, in api.OperatorCreate) (*api.Operator, error)
	GetOperator(ctx context.Context, operatorID int64) (*api.Operator, error)
	ListOperators(ctx context.Context, skip, limit uint64) ([]api.Operator, error)
	UpdateOperator(ctx context.Context, operatorID int64, in api.OperatorUpdate) (*api.Operator, error)
	DeleteOperator(ctx context.Context, operatorID int64) error
}

type OperatorServiceImpl struct {
	log       *slog.Logger
	operators repository.OperatorRepository
}

func NewOperatorService(log *slog.Logger, operators repository.OperatorRepository) *OperatorServiceImpl {
	return &OperatorServiceImpl{
		log:       log,
		operators: operators,
	}
}

func (s *OperatorServiceImpl) CreateOperator(ctx context.Context, in api.OperatorCreate) (*api.Operator, error) {
	const op = "internal.service.operator.CreateOperator"

	loadLimit := in.LoadLimit
	if loadLimit <= 0 {
		loadLimit = defaultLoadLimit
	}

	operator, err := s.operators.Create(ctx, domain.Operator{
		Name:      in.Name,
		IsActive:  in.IsActive,
		LoadLimit: loadLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create operator: %w", op, err)
	}

	return toAPIOperator(operator), nil
}

func (s *OperatorServiceImpl) GetOperator(ctx context.Context, operatorID int64) (*api.Operator, error) {
	const op = "internal.service.operator.GetOperator"

	operator, err := s.operators.GetByID(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get operator: %w", op, err)
	}

	return toAPIOperator(operator), nil
}

func (s *OperatorServiceImpl) ListOperators(ctx context.Context, skip, limit uint64) ([]api.Operator, error) {
	const op = "internal.service.operator.ListOperators"

	operators, err := s.operators.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list operators: %w", op, err)
	}

	apiOperators := make([]api.Operator, len(operators))
	for i := range operators {
		apiOperators[i] = *toAPIOperator(&operators[i])
	}

	return apiOperators, nil
}

func (s *OperatorServiceImpl) UpdateOperator(ctx context.Context, operatorID int64, in api.OperatorUpdate) (*api.Operator, error) {
	const op = "internal.service.operator.UpdateOperator"

	operator, err := s.operators.Update(ctx, operatorID, domain.OperatorPatch{
		Name:      in.Name,
		IsActive:  in.IsActive,
		LoadLimit: in.LoadLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update operator: %w", op, err)
	}

	return toAPIOperator(operator), nil
}

// DeleteOperator removes the operator. Existing contacts stay behind with a
// nulled operator reference and the operator's weight rows cascade away, so
// the lottery simply stops seeing it.
func (s *OperatorServiceImpl) DeleteOperator(ctx context.Context, operatorID int64) error {
	const op = "internal.service.operator.DeleteOperator"

	if err := s.operators.Delete(ctx, operatorID); err != nil {
		return fmt.Errorf("%s: failed to delete operator: %w", op, err)
	}

	s.log.Info("operator deleted", slog.Int64("operator_id", operatorID))

	return nil
}

func toAPIOperator(operator *domain.Operator) *api.Operator {
	return &api.Operator{
		ID:        operator.ID,
		Name:      operator.Name,
		IsActive:  operator.IsActive,
		LoadLimit: operator.LoadLimit,
		CreatedAt: operator.CreatedAt,
		UpdatedAt: operator.UpdatedAt,
	}
}
