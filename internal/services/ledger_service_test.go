package services_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/services"
	"github.com/bencao/herbquiz/internal/testutil/mocks"
)

func TestLedgerService_List(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	repo.On("List", mock.Anything).Return([]models.MistakeEntry{
		{HerbID: 2, Name: "黃連", Wrong: "x", Correct: "Coptidis Rhizoma"},
	}, nil)

	svc := services.NewLedgerService(repo)
	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].HerbID)
}

func TestLedgerService_ListEmptyIsNotNil(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	repo.On("List", mock.Anything).Return(nil, nil)

	svc := services.NewLedgerService(repo)
	entries, err := svc.List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestLedgerService_ListFailure(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	repo.On("List", mock.Anything).Return(nil, fmt.Errorf("db closed"))

	svc := services.NewLedgerService(repo)
	_, err := svc.List(context.Background())
	assertServiceCode(t, err, "INTERNAL_ERROR")
}

func TestLedgerService_Remove(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	repo.On("RemoveAt", mock.Anything, 1).Return(nil)

	svc := services.NewLedgerService(repo)
	require.NoError(t, svc.Remove(context.Background(), 1))
	repo.AssertExpectations(t)
}

func TestLedgerService_RemoveOutOfRange(t *testing.T) {
	repo := new(mocks.MockLedgerRepository)
	repo.On("RemoveAt", mock.Anything, 5).Return(sql.ErrNoRows)

	svc := services.NewLedgerService(repo)
	err := svc.Remove(context.Background(), 5)
	assertServiceCode(t, err, "INDEX_OUT_OF_RANGE")
}

func TestResultService_ListEmptyIsNotNil(t *testing.T) {
	repo := new(mocks.MockResultRepository)
	repo.On("List", mock.Anything, mock.AnythingOfType("models.ResultFilter")).Return(nil, nil)

	svc := services.NewResultService(repo)
	results, err := svc.List(context.Background(), models.ResultFilter{})
	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Empty(t, results)
}
