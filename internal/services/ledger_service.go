package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/repository"
)

// LedgerService exposes the mistake ledger for browsing and pruning. There is
// no edit operation: a wrong entry is corrected by deleting it and missing
// the herb again.
type LedgerService interface {
	List(ctx context.Context) ([]models.MistakeEntry, error)
	Remove(ctx context.Context, index int) error
}

type ledgerService struct {
	repo repository.LedgerRepository
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(repo repository.LedgerRepository) LedgerService {
	return &ledgerService{repo: repo}
}

func (s *ledgerService) List(ctx context.Context) ([]models.MistakeEntry, error) {
	log := logger.FromContext(ctx)

	entries, err := s.repo.List(ctx)
	if err != nil {
		log.Error("failed to list mistakes: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if entries == nil {
		entries = []models.MistakeEntry{}
	}
	return entries, nil
}

func (s *ledgerService) Remove(ctx context.Context, index int) error {
	log := logger.FromContext(ctx)
	log.Debug("removing mistake at index %d", index)

	if err := s.repo.RemoveAt(ctx, index); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewIndexError(index)
		}
		log.Error("failed to remove mistake: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
