package quiz

import (
	"math/rand/v2"

	"github.com/bencao/herbquiz/internal/models"
)

const (
	// DefaultDistractorCount is the number of wrong options per question.
	DefaultDistractorCount = 3
	// DefaultMaxAttempts bounds the rejection-sampling loop.
	DefaultMaxAttempts = 100
	// FillerOption pads the result when the catalog is too sparse to supply
	// enough distinct distractors. Fillers may repeat.
	FillerOption = "other option"
)

// Distractors returns exactly count plausible-but-wrong answer strings for a
// question by rejection sampling over the catalog: a random record's
// projection under mode is accepted unless it equals the correct answer,
// duplicates an accepted distractor, or is a placeholder sentinel. Sampling
// stops after maxAttempts draws and the remainder is padded with FillerOption,
// so narrow categories degrade instead of looping forever.
func Distractors(catalog []models.HerbRecord, mode models.Mode, correct string, count, maxAttempts int) []string {
	if count <= 0 {
		count = DefaultDistractorCount
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	out := make([]string, 0, count)
	if len(catalog) > 0 {
		seen := map[string]bool{}
		for attempts := 0; len(out) < count && attempts < maxAttempts; attempts++ {
			h := &catalog[rand.IntN(len(catalog))]
			v := Project(h, mode)
			if v == correct || seen[v] || IsSentinel(v) {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	for len(out) < count {
		out = append(out, FillerOption)
	}
	return out
}

// Options returns the full shuffled answer set for an item: its distractors
// plus the correct answer. Callers cache the result on the item so repeated
// navigation shows identical choices.
func Options(catalog []models.HerbRecord, item *models.QuizItem, distractorCount, maxAttempts int) []string {
	opts := Distractors(catalog, item.Mode, item.CorrectAnswer, distractorCount, maxAttempts)
	opts = append(opts, item.CorrectAnswer)
	rand.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
	return opts
}
