package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/leadhub/lead-intake-service/internal/apperrors"
	"github.com/leadhub/lead-intake-service/internal/domain"
	"github.com/leadhub/lead-intake-service/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceServiceImpl_SetOperatorWeight(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	source := &domain.Source{ID: 1, Name: "telegram"}
	operator := &domain.Operator{ID: 3, Name: "Dana", IsActive: true, LoadLimit: 10}

	testCases := []struct {
		name           string
		in             api.WeightSet
		setupMocks     func(sources *SourceRepositoryMock, operators *OperatorRepositoryMock, weights *WeightRepositoryMock)
		expectedWeight int64
		expectedError  error
	}{
		{
			name: "Create new pairing",
			in:   api.WeightSet{OperatorID: 3, Weight: 25},
			setupMocks: func(sources *SourceRepositoryMock, operators *OperatorRepositoryMock, weights *WeightRepositoryMock) {
				sources.On("GetByID", ctx, nil, int64(1)).Return(source, nil).Once()
				operators.On("GetByID", ctx, int64(3)).Return(operator, nil).Once()
				weights.On("Upsert", ctx, int64(1), int64(3), int64(25)).
					Return(&domain.SourceOperatorWeight{ID: 10, SourceID: 1, OperatorID: 3, Weight: 25}, nil).Once()
			},
			expectedWeight: 25,
		},
		{
			name: "Omitted weight falls back to the default",
			in:   api.WeightSet{OperatorID: 3},
			setupMocks: func(sources *SourceRepositoryMock, operators *OperatorRepositoryMock, weights *WeightRepositoryMock) {
				sources.On("GetByID", ctx, nil, int64(1)).Return(source, nil).Once()
				operators.On("GetByID", ctx, int64(3)).Return(operator, nil).Once()
				weights.On("Upsert", ctx, int64(1), int64(3), int64(defaultWeight)).
					Return(&domain.SourceOperatorWeight{ID: 10, SourceID: 1, OperatorID: 3, Weight: defaultWeight}, nil).Once()
			},
			expectedWeight: defaultWeight,
		},
		{
			name: "Repeated set updates in place",
			in:   api.WeightSet{OperatorID: 3, Weight: 50},
			setupMocks: func(sources *SourceRepositoryMock, operators *OperatorRepositoryMock, weights *WeightRepositoryMock) {
				sources.On("GetByID", ctx, nil, int64(1)).Return(source, nil).Once()
				operators.On("GetByID", ctx, int64(3)).Return(operator, nil).Once()
				weights.On("Upsert", ctx, int64(1), int64(3), int64(50)).
					Return(&domain.SourceOperatorWeight{ID: 10, SourceID: 1, OperatorID: 3, Weight: 50}, nil).Once()
			},
			expectedWeight: 50,
		},
		{
			name: "Missing source",
			in:   api.WeightSet{OperatorID: 3, Weight: 25},
			setupMocks: func(sources *SourceRepositoryMock, operators *OperatorRepositoryMock, weights *WeightRepositoryMock) {
				sources.On("GetByID", ctx, nil, int64(1)).Return(nil, apperrors.NewNotFound("Source")).Once()
			},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name: "Missing operator",
			in:   api.WeightSet{OperatorID: 99, Weight: 25},
			setupMocks: func(sources *SourceRepositoryMock, operators *OperatorRepositoryMock, weights *WeightRepositoryMock) {
				sources.On("GetByID", ctx, nil, int64(1)).Return(source, nil).Once()
				operators.On("GetByID", ctx, int64(99)).Return(nil, apperrors.NewNotFound("Operator")).Once()
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sourcesMock := new(SourceRepositoryMock)
			operatorsMock := new(OperatorRepositoryMock)
			weightsMock := new(WeightRepositoryMock)
			tc.setupMocks(sourcesMock, operatorsMock, weightsMock)

			service := NewSourceService(logger, sourcesMock, operatorsMock, weightsMock)

			weight, err := service.SetOperatorWeight(ctx, 1, tc.in)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.expectedWeight, weight.Weight)
			}

			sourcesMock.AssertExpectations(t)
			operatorsMock.AssertExpectations(t)
			weightsMock.AssertExpectations(t)
		})
	}
}

func TestSourceServiceImpl_GetSourceWithWeights(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	sourcesMock := new(SourceRepositoryMock)
	weightsMock := new(WeightRepositoryMock)

	sourcesMock.On("GetByID", ctx, nil, int64(1)).
		Return(&domain.Source{ID: 1, Name: "telegram"}, nil).Once()
	weightsMock.On("ListBySource", ctx, nil, int64(1)).Return([]domain.SourceOperatorWeight{
		{ID: 10, SourceID: 1, OperatorID: 3, Weight: 25},
		{ID: 11, SourceID: 1, OperatorID: 4, Weight: 75},
	}, nil).Once()

	service := NewSourceService(logger, sourcesMock, nil, weightsMock)

	resp, err := service.GetSourceWithWeights(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "telegram", resp.Name)
	require.Len(t, resp.OperatorWeights, 2)
	assert.Equal(t, int64(75), resp.OperatorWeights[1].Weight)

	sourcesMock.AssertExpectations(t)
	weightsMock.AssertExpectations(t)
}

func TestSourceServiceImpl_DeleteSource(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("delete blocked by contacts", func(t *testing.T) {
		sourcesMock := new(SourceRepositoryMock)
		sourcesMock.On("Delete", ctx, int64(1)).Return(apperrors.ErrConflict).Once()

		service := NewSourceService(logger, sourcesMock, nil, nil)

		err := service.DeleteSource(ctx, 1)
		assert.ErrorIs(t, err, apperrors.ErrConflict)

		sourcesMock.AssertExpectations(t)
	})

	t.Run("delete succeeds", func(t *testing.T) {
		sourcesMock := new(SourceRepositoryMock)
		sourcesMock.On("Delete", ctx, int64(2)).Return(nil).Once()

		service := NewSourceService(logger, sourcesMock, nil, nil)

		require.NoError(t, service.DeleteSource(ctx, 2))

		sourcesMock.AssertExpectations(t)
	})
}
