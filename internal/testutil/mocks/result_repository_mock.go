package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bencao/herbquiz/internal/models"
)

// MockResultRepository is a mock implementation of repository.ResultRepository
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Insert(ctx context.Context, result models.SessionResult) (int64, error) {
	args := m.Called(ctx, result)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.SessionResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SessionResult), args.Error(1)
}
