package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/bencao/herbquiz/internal/models"
)

// MockLedgerRepository is a mock implementation of repository.LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, entry models.MistakeEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) List(ctx context.Context) ([]models.MistakeEntry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MistakeEntry), args.Error(1)
}

func (m *MockLedgerRepository) RemoveAt(ctx context.Context, index int) error {
	args := m.Called(ctx, index)
	return args.Error(0)
}

func (m *MockLedgerRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
