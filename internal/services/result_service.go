package services

import (
	"context"

	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/repository"
)

// ResultService exposes the finished-session history.
type ResultService interface {
	List(ctx context.Context, filter models.ResultFilter) ([]models.SessionResult, error)
}

type resultService struct {
	repo repository.ResultRepository
}

// NewResultService creates a new ResultService
func NewResultService(repo repository.ResultRepository) ResultService {
	return &resultService{repo: repo}
}

func (s *resultService) List(ctx context.Context, filter models.ResultFilter) ([]models.SessionResult, error) {
	log := logger.FromContext(ctx)

	results, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if results == nil {
		results = []models.SessionResult{}
	}
	return results, nil
}
