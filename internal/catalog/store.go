package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
)

// File names of the two data resources inside the data directory.
const (
	HerbsFile      = "herbs.json"
	CategoriesFile = "categories.json"
)

// Store holds the herb catalog and the category taxonomy in memory and offers
// read-only query access. A Store is immutable once built; reloading the data
// produces a new Store.
type Store struct {
	herbs      []models.HerbRecord
	byID       map[int64]*models.HerbRecord
	categories map[string]models.CategoryNode
	catOrder   []string
}

// New builds a Store from already-decoded records, validating that herb ids
// are unique across the catalog.
func New(herbs []models.HerbRecord, categories map[string]models.CategoryNode) (*Store, error) {
	byID := make(map[int64]*models.HerbRecord, len(herbs))
	for i := range herbs {
		if _, dup := byID[herbs[i].ID]; dup {
			return nil, fmt.Errorf("duplicate herb id %d", herbs[i].ID)
		}
		byID[herbs[i].ID] = &herbs[i]
	}

	order := make([]string, 0, len(categories))
	for key := range categories {
		order = append(order, key)
	}
	sort.Strings(order)

	return &Store{
		herbs:      herbs,
		byID:       byID,
		categories: categories,
		catOrder:   order,
	}, nil
}

// Load reads herbs.json and categories.json from dir and builds a Store.
func Load(dir string) (*Store, error) {
	log := logger.Default().WithPrefix("catalog")

	var herbs []models.HerbRecord
	if err := readJSON(filepath.Join(dir, HerbsFile), &herbs); err != nil {
		log.Error("failed to load herb catalog: %v", err)
		return nil, err
	}

	var categories map[string]models.CategoryNode
	if err := readJSON(filepath.Join(dir, CategoriesFile), &categories); err != nil {
		log.Error("failed to load category taxonomy: %v", err)
		return nil, err
	}

	store, err := New(herbs, categories)
	if err != nil {
		log.Error("invalid catalog data: %v", err)
		return nil, err
	}
	log.Info("catalog loaded: %d herbs, %d categories", len(herbs), len(categories))
	return store, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Len returns the number of herb records.
func (s *Store) Len() int {
	return len(s.herbs)
}

// All returns a copy of the full catalog in load order.
func (s *Store) All() []models.HerbRecord {
	out := make([]models.HerbRecord, len(s.herbs))
	copy(out, s.herbs)
	return out
}

// ByID returns the record with the given id, or nil.
func (s *Store) ByID(id int64) *models.HerbRecord {
	return s.byID[id]
}

// Grades returns the distinct, sorted grade labels present in the catalog.
func (s *Store) Grades() []string {
	seen := map[string]bool{}
	var grades []string
	for i := range s.herbs {
		g := s.herbs[i].Grade
		if g != "" && !seen[g] {
			seen[g] = true
			grades = append(grades, g)
		}
	}
	sort.Strings(grades)
	return grades
}

// CategoryKeys returns the taxonomy keys in sorted order.
func (s *Store) CategoryKeys() []string {
	out := make([]string, len(s.catOrder))
	copy(out, s.catOrder)
	return out
}

// Category looks up a taxonomy node by key. The second return is false when
// the key is absent; callers must stay defensive against missing keys.
func (s *Store) Category(key string) (models.CategoryNode, bool) {
	node, ok := s.categories[key]
	return node, ok
}

// HerbsInCategory returns the records whose chem_main key matches.
func (s *Store) HerbsInCategory(key string) []models.HerbRecord {
	var out []models.HerbRecord
	for i := range s.herbs {
		if s.herbs[i].ChemMain == key {
			out = append(out, s.herbs[i])
		}
	}
	return out
}

// SetupList returns the catalog sorted by grade, then by localized name, the
// order the quiz setup view presents its selectable herb list in.
func (s *Store) SetupList() []models.HerbRecord {
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Grade != out[j].Grade {
			return out[i].Grade < out[j].Grade
		}
		return out[i].ChineseName < out[j].ChineseName
	})
	return out
}
