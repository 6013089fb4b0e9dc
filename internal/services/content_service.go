package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"path"
	"time"

	"github.com/bencao/herbquiz/internal/catalog"
	"github.com/bencao/herbquiz/internal/content"
	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
)

// Document names accepted by the admin content endpoints.
const (
	DocHerbs      = "herbs"
	DocCategories = "categories"
)

// remote layout of the content repository
const (
	remoteDataDir  = "data"
	remoteImageDir = "images/uploads"
)

// ContentService is the administrative boundary: it reads and writes the two
// catalog documents in the remote content repository and uploads images.
// Writes validate the payload shape before anything leaves the process.
type ContentService interface {
	Document(ctx context.Context, doc string) (*content.Document, error)
	SaveDocument(ctx context.Context, doc string, payload json.RawMessage, version, message string) (string, error)
	UploadImage(ctx context.Context, data []byte) (string, error)
}

type contentService struct {
	client *content.Client
}

// NewContentService creates a new ContentService
func NewContentService(client *content.Client) ContentService {
	return &contentService{client: client}
}

func (s *contentService) remotePath(doc string) (string, error) {
	switch doc {
	case DocHerbs:
		return path.Join(remoteDataDir, catalog.HerbsFile), nil
	case DocCategories:
		return path.Join(remoteDataDir, catalog.CategoriesFile), nil
	default:
		return "", errors.NewNotFoundError("content document", doc)
	}
}

func (s *contentService) Document(ctx context.Context, doc string) (*content.Document, error) {
	remote, err := s.remotePath(doc)
	if err != nil {
		return nil, err
	}
	out, err := s.client.ReadJSON(ctx, remote)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return out, nil
}

func (s *contentService) SaveDocument(ctx context.Context, doc string, payload json.RawMessage, version, message string) (string, error) {
	log := logger.FromContext(ctx)

	remote, err := s.remotePath(doc)
	if err != nil {
		return "", err
	}
	if version == "" {
		return "", errors.NewValidationError("version", "write requires the version token from the last read")
	}
	if err := validateDocument(doc, payload); err != nil {
		return "", err
	}
	if message == "" {
		message = fmt.Sprintf("Update %s", remote)
	}

	newVersion, err := s.client.WriteJSON(ctx, remote, payload, version, message)
	if err != nil {
		if stderrors.Is(err, content.ErrVersionConflict) {
			return "", errors.NewConflictError("the document changed since it was read; reload and try again")
		}
		log.Error("failed to save document %s: %v", doc, err)
		return "", errors.NewInternalError(err)
	}
	return newVersion, nil
}

func (s *contentService) UploadImage(ctx context.Context, data []byte) (string, error) {
	log := logger.FromContext(ctx)

	if len(data) == 0 {
		return "", errors.NewValidationError("image", "empty upload")
	}

	name := fmt.Sprintf("%d_%d.jpg", time.Now().UnixMilli(), rand.IntN(1000))
	url, err := s.client.UploadImage(ctx, remoteImageDir, name, data)
	if err != nil {
		log.Error("failed to upload image: %v", err)
		return "", errors.NewInternalError(err)
	}
	return url, nil
}

// validateDocument rejects payloads that would fail the next catalog load,
// so a broken publish is caught at save time rather than at sync time.
func validateDocument(doc string, payload json.RawMessage) error {
	switch doc {
	case DocHerbs:
		var herbs []models.HerbRecord
		if err := json.Unmarshal(payload, &herbs); err != nil {
			return errors.NewValidationError("content", "herbs payload must be an array of herb records")
		}
		seen := map[int64]bool{}
		for _, h := range herbs {
			if seen[h.ID] {
				return errors.NewValidationError("content", fmt.Sprintf("duplicate herb id %d", h.ID))
			}
			seen[h.ID] = true
		}
	case DocCategories:
		var cats map[string]models.CategoryNode
		if err := json.Unmarshal(payload, &cats); err != nil {
			return errors.NewValidationError("content", "categories payload must be a map of category nodes")
		}
	}
	return nil
}
