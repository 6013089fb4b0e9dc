package quiz_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/quiz"
	"github.com/bencao/herbquiz/internal/testutil"
)

func poolIDs(pool []*models.QuizItem) []int64 {
	out := make([]int64, len(pool))
	for i, item := range pool {
		out[i] = item.Herb.ID
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := err.(*apperrors.AppError)
	require.True(t, ok, "expected *AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func TestBuild_ConservesSelection(t *testing.T) {
	catalog := testutil.SampleHerbs()

	pool, err := quiz.Build(catalog, models.QuizFilter{Modes: models.AllModes()})
	require.NoError(t, err)

	require.Len(t, pool, len(catalog))
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, poolIDs(pool))
}

func TestBuild_ModesDrawnFromSelection(t *testing.T) {
	catalog := testutil.SampleHerbs()
	modes := []models.Mode{models.ModeFamily, models.ModeLatinName}

	pool, err := quiz.Build(catalog, models.QuizFilter{Modes: modes})
	require.NoError(t, err)

	for _, item := range pool {
		assert.Contains(t, modes, item.Mode)
		assert.Equal(t, quiz.Project(item.Herb, item.Mode), item.CorrectAnswer)
	}
}

func TestBuild_SingleModeAppliesToAll(t *testing.T) {
	catalog := testutil.SampleHerbs()

	pool, err := quiz.Build(catalog, models.QuizFilter{Modes: []models.Mode{models.ModeFamily}})
	require.NoError(t, err)

	for _, item := range pool {
		assert.Equal(t, models.ModeFamily, item.Mode)
	}
}

func TestBuild_GradeFilter(t *testing.T) {
	catalog := testutil.SampleHerbs()

	pool, err := quiz.Build(catalog, models.QuizFilter{
		Grades: []string{"二年級"},
		Modes:  []models.Mode{models.ModeFamily},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2}, poolIDs(pool))
}

func TestBuild_ExplicitIDsRestrict(t *testing.T) {
	catalog := testutil.SampleHerbs()

	pool, err := quiz.Build(catalog, models.QuizFilter{
		HerbIDs: []int64{2, 5},
		Modes:   []models.Mode{models.ModeFamily},
	})
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 5}, poolIDs(pool))
}

func TestBuild_EmptyModeSelection(t *testing.T) {
	_, err := quiz.Build(testutil.SampleHerbs(), models.QuizFilter{})
	assertAppCode(t, err, "EMPTY_SELECTION")
}

func TestBuild_UnknownMode(t *testing.T) {
	_, err := quiz.Build(testutil.SampleHerbs(), models.QuizFilter{
		Modes: []models.Mode{"bogus"},
	})
	assertAppCode(t, err, "VALIDATION_ERROR")
}

func TestBuild_EmptyPool(t *testing.T) {
	_, err := quiz.Build(testutil.SampleHerbs(), models.QuizFilter{
		Grades: []string{"一年級"},
		Modes:  []models.Mode{models.ModeFamily},
	})
	assertAppCode(t, err, "EMPTY_POOL")
}

func TestBuild_GradeAndIDIntersectionEmpty(t *testing.T) {
	// Herb 4 exists but is not in the selected grade, so the intersection
	// of both filters holds nothing.
	_, err := quiz.Build(testutil.SampleHerbs(), models.QuizFilter{
		Grades:  []string{"二年級"},
		HerbIDs: []int64{4},
		Modes:   []models.Mode{models.ModeFamily},
	})
	assertAppCode(t, err, "EMPTY_POOL")
}

func TestBuild_FailedBuildThenSuccess(t *testing.T) {
	catalog := testutil.SampleHerbs()

	_, err := quiz.Build(catalog, models.QuizFilter{})
	require.Error(t, err)
	_, err = quiz.Build(catalog, models.QuizFilter{Grades: []string{"一年級"}, Modes: models.AllModes()})
	require.Error(t, err)

	pool, err := quiz.Build(catalog, models.QuizFilter{Modes: models.AllModes()})
	require.NoError(t, err)
	assert.Len(t, pool, len(catalog))
}

func TestRebuild(t *testing.T) {
	herbs := testutil.SampleHerbs()
	records := []*models.HerbRecord{&herbs[1], &herbs[3]}

	pool, err := quiz.Rebuild(records, []models.Mode{models.ModeFamily})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, poolIDs(pool))
}

func TestRebuild_Empty(t *testing.T) {
	_, err := quiz.Rebuild(nil, []models.Mode{models.ModeFamily})
	assertAppCode(t, err, "EMPTY_POOL")

	herbs := testutil.SampleHerbs()
	_, err = quiz.Rebuild([]*models.HerbRecord{&herbs[0]}, nil)
	assertAppCode(t, err, "EMPTY_SELECTION")
}

func TestToggleGradeBucket(t *testing.T) {
	catalog := testutil.SampleHerbs()
	selected := map[int64]bool{1: true}

	quiz.ToggleGradeBucket(selected, catalog, "三年級", true)
	assert.Equal(t, map[int64]bool{1: true, 3: true, 4: true, 5: true}, selected)

	quiz.ToggleGradeBucket(selected, catalog, "三年級", false)
	assert.Equal(t, map[int64]bool{1: true, 3: false, 4: false, 5: false}, selected)
}
