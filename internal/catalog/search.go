package catalog

import (
	"strings"

	"github.com/bencao/herbquiz/internal/models"
)

// DefaultSuggestionLimit caps the auto-suggest list for live typing.
const DefaultSuggestionLimit = 8

// Filter returns the records matching keyword by case-insensitive substring
// search across every searchable field. An empty or whitespace-only keyword
// returns the full catalog: that is the "clear search" behavior, not an error.
func (s *Store) Filter(keyword string) []models.HerbRecord {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return s.All()
	}

	var out []models.HerbRecord
	for i := range s.herbs {
		if s.matches(&s.herbs[i], k) {
			out = append(out, s.herbs[i])
		}
	}
	if out == nil {
		out = []models.HerbRecord{}
	}
	return out
}

// Suggest returns at most limit matches for an incremental search box.
// Selecting a suggestion is equivalent to filtering with its canonical name.
func (s *Store) Suggest(keyword string, limit int) []models.HerbRecord {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" {
		return []models.HerbRecord{}
	}

	out := []models.HerbRecord{}
	for i := range s.herbs {
		if s.matches(&s.herbs[i], k) {
			out = append(out, s.herbs[i])
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// matches tests one record against an already-normalized keyword. Optional
// fields are treated as empty strings, so absent data never fails a search.
func (s *Store) matches(h *models.HerbRecord, k string) bool {
	fields := []string{
		h.ChineseName,
		h.LatinName,
		h.Family,
		h.Chemistry,
		h.Origin,
		h.Grade,
		h.ChemMain,
		h.ChemSub,
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), k) {
			return true
		}
	}

	// Reverse lookup: let the foreign-language taxonomy labels match too, so
	// searching "alkaloid" finds herbs categorized under the local key.
	if node, ok := s.categories[h.ChemMain]; ok {
		if strings.Contains(strings.ToLower(node.NameForeign), k) {
			return true
		}
		for _, sub := range node.SubCategories {
			if sub.Local == h.ChemSub && strings.Contains(strings.ToLower(sub.Foreign), k) {
				return true
			}
		}
	}
	return false
}
