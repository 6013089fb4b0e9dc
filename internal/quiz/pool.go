package quiz

import (
	"math/rand/v2"

	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/models"
)

// Build selects the records satisfying filter, assigns each one a question
// mode drawn uniformly from filter.Modes, and returns them as a uniformly
// shuffled pool. The mode assignment happens once per build, not per view.
//
// An empty mode set fails with EMPTY_SELECTION before any filtering; an empty
// filtered selection fails with EMPTY_POOL. Neither failure mutates anything,
// so a caller can simply correct its setup and try again.
func Build(catalog []models.HerbRecord, filter models.QuizFilter) ([]*models.QuizItem, error) {
	if len(filter.Modes) == 0 {
		return nil, errors.NewEmptySelectionError()
	}
	for _, m := range filter.Modes {
		if !m.Valid() {
			return nil, errors.NewValidationError("modes", "unknown question mode: "+string(m))
		}
	}

	grades := map[string]bool{}
	for _, g := range filter.Grades {
		grades[g] = true
	}
	ids := map[int64]bool{}
	for _, id := range filter.HerbIDs {
		ids[id] = true
	}

	var selected []*models.HerbRecord
	for i := range catalog {
		h := &catalog[i]
		if len(grades) > 0 && !grades[h.Grade] {
			continue
		}
		if filter.HerbIDs != nil && !ids[h.ID] {
			continue
		}
		selected = append(selected, h)
	}
	if len(selected) == 0 {
		return nil, errors.NewEmptyPoolError()
	}

	return buildFrom(selected, filter.Modes), nil
}

// Rebuild produces a fresh shuffled pool over the given records, reassigning
// modes. Used by "retry mistakes", where the selection is the missed items of
// the prior session rather than a catalog filter.
func Rebuild(records []*models.HerbRecord, modes []models.Mode) ([]*models.QuizItem, error) {
	if len(modes) == 0 {
		return nil, errors.NewEmptySelectionError()
	}
	if len(records) == 0 {
		return nil, errors.NewEmptyPoolError()
	}
	return buildFrom(records, modes), nil
}

func buildFrom(records []*models.HerbRecord, modes []models.Mode) []*models.QuizItem {
	pool := make([]*models.QuizItem, len(records))
	for i, h := range records {
		mode := modes[rand.IntN(len(modes))]
		pool[i] = &models.QuizItem{
			Herb:          h,
			Mode:          mode,
			CorrectAnswer: Project(h, mode),
		}
	}
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	return pool
}

// ToggleGradeBucket flips the explicit-id selection for every herb of one
// grade, leaving all other selections untouched. It backs the setup view's
// grade checkboxes, which act as bucket toggles over the herb list.
func ToggleGradeBucket(selected map[int64]bool, catalog []models.HerbRecord, grade string, on bool) {
	for i := range catalog {
		if catalog[i].Grade == grade {
			selected[catalog[i].ID] = on
		}
	}
}
