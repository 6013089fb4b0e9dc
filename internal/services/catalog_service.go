package services

import (
	"context"
	"sync"

	"github.com/bencao/herbquiz/internal/catalog"
	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
)

// CategorySummary is one taxonomy node together with its map key.
type CategorySummary struct {
	Key string `json:"key"`
	models.CategoryNode
}

// CategoryGroup is the member herbs of one sub-category.
type CategoryGroup struct {
	models.SubCategory
	Herbs []models.HerbRecord `json:"herbs"`
}

// CategoryView is the browse payload for one category: the node, its member
// herbs grouped by sub-category, and any members whose chem_sub key matches
// no sub-category label.
type CategoryView struct {
	Key string `json:"key"`
	models.CategoryNode
	Groups    []CategoryGroup     `json:"groups"`
	Ungrouped []models.HerbRecord `json:"ungrouped,omitempty"`
}

// SetupHerb is one row of the quiz setup herb list.
type SetupHerb struct {
	ID          int64  `json:"id"`
	ChineseName string `json:"chinese_name"`
	LatinName   string `json:"latin_name"`
	Grade       string `json:"grade"`
}

// SetupOptions is everything the quiz setup view needs to render.
type SetupOptions struct {
	Grades []string      `json:"grades"`
	Herbs  []SetupHerb   `json:"herbs"`
	Modes  []models.Mode `json:"modes"`
}

// CatalogService guards all read access to the herb catalog. Every method
// fails with DATA_LOAD_ERROR until the initial load has succeeded, so
// dependent views stay disabled instead of crashing.
type CatalogService interface {
	Store(ctx context.Context) (*catalog.Store, error)
	Herbs(ctx context.Context, keyword string) ([]models.HerbRecord, error)
	Suggest(ctx context.Context, keyword string) ([]models.HerbRecord, error)
	Herb(ctx context.Context, id int64) (*models.HerbRecord, error)
	Categories(ctx context.Context) ([]CategorySummary, error)
	Category(ctx context.Context, key string) (*CategoryView, error)
	Setup(ctx context.Context) (*SetupOptions, error)
	Reload(ctx context.Context) error
}

type catalogService struct {
	dir             string
	suggestionLimit int

	mu      sync.RWMutex
	store   *catalog.Store
	loadErr error
}

// NewCatalogService loads the catalog from dir. A failed load is not fatal:
// the service starts disabled and a later Reload can recover it.
func NewCatalogService(dir string, suggestionLimit int) CatalogService {
	s := &catalogService{dir: dir, suggestionLimit: suggestionLimit}
	s.store, s.loadErr = catalog.Load(dir)
	if s.loadErr != nil {
		logger.Default().WithPrefix("catalog").Warn("starting with catalog views disabled: %v", s.loadErr)
	}
	return s
}

func (s *catalogService) Store(ctx context.Context) (*catalog.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, errors.NewDataLoadError(s.loadErr)
	}
	return s.store, nil
}

// Reload re-reads the data directory. On failure the previous store stays in
// place, so a bad publish never takes a working catalog down.
func (s *catalogService) Reload(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("catalog")

	store, err := catalog.Load(s.dir)
	if err != nil {
		s.mu.Lock()
		if s.store == nil {
			s.loadErr = err
		}
		s.mu.Unlock()
		log.Error("reload failed, keeping previous catalog: %v", err)
		return errors.NewDataLoadError(err)
	}

	s.mu.Lock()
	s.store = store
	s.loadErr = nil
	s.mu.Unlock()
	log.Info("catalog reloaded: %d herbs", store.Len())
	return nil
}

func (s *catalogService) Herbs(ctx context.Context, keyword string) ([]models.HerbRecord, error) {
	store, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}
	return store.Filter(keyword), nil
}

func (s *catalogService) Suggest(ctx context.Context, keyword string) ([]models.HerbRecord, error) {
	store, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}
	return store.Suggest(keyword, s.suggestionLimit), nil
}

func (s *catalogService) Herb(ctx context.Context, id int64) (*models.HerbRecord, error) {
	store, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}
	h := store.ByID(id)
	if h == nil {
		return nil, errors.NewNotFoundError("herb", id)
	}
	out := *h
	return &out, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]CategorySummary, error) {
	store, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}
	out := []CategorySummary{}
	for _, key := range store.CategoryKeys() {
		node, _ := store.Category(key)
		out = append(out, CategorySummary{Key: key, CategoryNode: node})
	}
	return out, nil
}

func (s *catalogService) Category(ctx context.Context, key string) (*CategoryView, error) {
	store, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}
	node, ok := store.Category(key)
	if !ok {
		return nil, errors.NewNotFoundError("category", key)
	}

	view := &CategoryView{Key: key, CategoryNode: node}
	members := store.HerbsInCategory(key)

	grouped := map[int64]bool{}
	for _, sub := range node.SubCategories {
		group := CategoryGroup{SubCategory: sub}
		for _, h := range members {
			if h.ChemSub == sub.Local {
				group.Herbs = append(group.Herbs, h)
				grouped[h.ID] = true
			}
		}
		view.Groups = append(view.Groups, group)
	}
	for _, h := range members {
		if !grouped[h.ID] {
			view.Ungrouped = append(view.Ungrouped, h)
		}
	}
	return view, nil
}

func (s *catalogService) Setup(ctx context.Context) (*SetupOptions, error) {
	store, err := s.Store(ctx)
	if err != nil {
		return nil, err
	}

	herbs := store.SetupList()
	rows := make([]SetupHerb, len(herbs))
	for i, h := range herbs {
		rows[i] = SetupHerb{ID: h.ID, ChineseName: h.ChineseName, LatinName: h.LatinName, Grade: h.Grade}
	}
	return &SetupOptions{
		Grades: store.Grades(),
		Herbs:  rows,
		Modes:  models.AllModes(),
	}, nil
}
