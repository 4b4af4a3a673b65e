package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leadhub/lead-intake-service/internal/domain"
	"github.com/leadhub/lead-intake-service/internal/repository"
	"github.com/leadhub/lead-intake-service/pkg/api"
)

// defaultWeight is the lottery weight a pairing gets when the request sets
// none.
const defaultWeight = 10

type SourceService interface {
	CreateSource(ctx context.Context, in api.SourceCreate) (*api.Source, error)
	GetSource(ctx context.Context, sourceID int64) (*api.Source, error)
	GetSourceWithWeights(ctx context.Context, sourceID int64) (*api.SourceWithWeights, error)
	ListSources(ctx context.Context, skip, limit uint64) ([]api.Source, error)
	UpdateSource(ctx context.Context, sourceID int64, in api.SourceUpdate) (*api.Source, error)
	DeleteSource(ctx context.Context, sourceID int64) error

	SetOperatorWeight(ctx context.Context, sourceID int64, in api.WeightSet) (*api.SourceOperatorWeight, error)
	RemoveOperatorWeight(ctx context.Context, sourceID, operatorID int64) error
}

type SourceServiceImpl struct {
	log       *slog.Logger
	sources   repository.SourceRepository
	operators repository.OperatorRepository
	weights   repository.WeightRepository
}

func NewSourceService(
	log *slog.Logger,
	sources repository.SourceRepository,
	operators repository.OperatorRepository,
	weights repository.WeightRepository,
) *SourceServiceImpl {
	return &SourceServiceImpl{
		log:       log,
		sources:   sources,
		operators: operators,
		weights:   weights,
	}
}

func (s *SourceServiceImpl) CreateSource(ctx context.Context, in api.SourceCreate) (*api.Source, error) {
	const op = "internal.service.source.CreateSource"

	source, err := s.sources.Create(ctx, domain.Source{
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create source: %w", op, err)
	}

	return toAPISource(source), nil
}

func (s *SourceServiceImpl) GetSource(ctx context.Context, sourceID int64) (*api.Source, error) {
	const op = "internal.service.source.GetSource"

	source, err := s.sources.GetByID(ctx, nil, sourceID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get source: %w", op, err)
	}

	return toAPISource(source), nil
}

func (s *SourceServiceImpl) GetSourceWithWeights(ctx context.Context, sourceID int64) (*api.SourceWithWeights, error) {
	const op = "internal.service.source.GetSourceWithWeights"

	source, err := s.sources.GetByID(ctx, nil, sourceID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get source: %w", op, err)
	}

	weights, err := s.weights.ListBySource(ctx, nil, sourceID)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list source weights: %w", op, err)
	}

	apiWeights := make([]api.SourceOperatorWeight, len(weights))
	for i := range weights {
		apiWeights[i] = *toAPIWeight(&weights[i])
	}

	return &api.SourceWithWeights{
		Source:          *toAPISource(source),
		OperatorWeights: apiWeights,
	}, nil
}

func (s *SourceServiceImpl) ListSources(ctx context.Context, skip, limit uint64) ([]api.Source, error) {
	const op = "internal.service.source.ListSources"

	sources, err := s.sources.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list sources: %w", op, err)
	}

	apiSources := make([]api.Source, len(sources))
	for i := range sources {
		apiSources[i] = *toAPISource(&sources[i])
	}

	return apiSources, nil
}

func (s *SourceServiceImpl) UpdateSource(ctx context.Context, sourceID int64, in api.SourceUpdate) (*api.Source, error) {
	const op = "internal.service.source.UpdateSource"

	source, err := s.sources.Update(ctx, sourceID, domain.SourcePatch{
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update source: %w", op, err)
	}

	return toAPISource(source), nil
}

func (s *SourceServiceImpl) DeleteSource(ctx context.Context, sourceID int64) error {
	const op = "internal.service.source.DeleteSource"

	if err := s.sources.Delete(ctx, sourceID); err != nil {
		return fmt.Errorf("%s: failed to delete source: %w", op, err)
	}

	s.log.Info("source deleted", slog.Int64("source_id", sourceID))

	return nil
}

// SetOperatorWeight pairs an operator with a source for the assignment
// lottery, or adjusts the weight of an existing pairing. Both sides are
// checked up front so a dangling id surfaces as a not-found instead of an
// FK violation.
func (s *SourceServiceImpl) SetOperatorWeight(ctx context.Context, sourceID int64, in api.WeightSet) (*api.SourceOperatorWeight, error) {
	const op = "internal.service.source.SetOperatorWeight"

	if _, err := s.sources.GetByID(ctx, nil, sourceID); err != nil {
		return nil, fmt.Errorf("%s: failed to get source: %w", op, err)
	}

	if _, err := s.operators.GetByID(ctx, in.OperatorID); err != nil {
		return nil, fmt.Errorf("%s: failed to get operator: %w", op, err)
	}

	weight := in.Weight
	if weight <= 0 {
		weight = defaultWeight
	}

	row, err := s.weights.Upsert(ctx, sourceID, in.OperatorID, weight)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to upsert weight: %w", op, err)
	}

	s.log.Info("operator weight set",
		slog.Int64("source_id", sourceID),
		slog.Int64("operator_id", in.OperatorID),
		slog.Int64("weight", weight),
	)

	return toAPIWeight(row), nil
}

func (s *SourceServiceImpl) RemoveOperatorWeight(ctx context.Context, sourceID, operatorID int64) error {
	const op = "internal.service.source.RemoveOperatorWeight"

	if err := s.weights.Delete(ctx, sourceID, operatorID); err != nil {
		return fmt.Errorf("%s: failed to delete weight: %w", op, err)
	}

	return nil
}

func toAPISource(source *domain.Source) *api.Source {
	return &api.Source{
		ID:          source.ID,
		Name:        source.Name,
		Description: source.Description,
		CreatedAt:   source.CreatedAt,
		UpdatedAt:   source.UpdatedAt,
	}
}

func toAPIWeight(weight *domain.SourceOperatorWeight) *api.SourceOperatorWeight {
	return &api.SourceOperatorWeight{
		ID:         weight.ID,
		SourceID:   weight.SourceID,
		OperatorID: weight.OperatorID,
		Weight:     weight.Weight,
		CreatedAt:  weight.CreatedAt,
		UpdatedAt:  weight.UpdatedAt,
	}
}
