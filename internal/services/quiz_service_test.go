package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/services"
	"github.com/bencao/herbquiz/internal/testutil"
	"github.com/bencao/herbquiz/internal/testutil/mocks"
)

type quizFixture struct {
	svc     services.QuizService
	ledger  *mocks.MockLedgerRepository
	results *mocks.MockResultRepository
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	f := &quizFixture{
		ledger:  new(mocks.MockLedgerRepository),
		results: new(mocks.MockResultRepository),
	}
	f.svc = services.NewQuizService(newTestCatalogService(t), f.ledger, f.results, 3, 100)
	return f
}

// latinByName maps each sample herb's display name to its latin name, the
// correct answer under the latin_name mode.
func latinByName() map[string]string {
	out := map[string]string{}
	for _, h := range testutil.SampleHerbs() {
		out[h.ChineseName] = h.LatinName
	}
	return out
}

func latinFilter() models.QuizFilter {
	return models.QuizFilter{Modes: []models.Mode{models.ModeLatinName}}
}

// answerAll walks the whole session, answering wrongly at the given cursor
// positions, and returns the herb ids it missed.
func answerAll(t *testing.T, f *quizFixture, id string, wrongAt map[int]bool) []int64 {
	t.Helper()
	ctx := context.Background()
	answers := latinByName()

	var missed []int64
	view, err := f.svc.Get(ctx, id)
	require.NoError(t, err)
	for !view.Terminal {
		q := view.Question
		require.NotNil(t, q)

		selected := answers[q.HerbName]
		if wrongAt[q.Index] {
			selected = "definitely wrong"
			var herbID int64
			for _, h := range testutil.SampleHerbs() {
				if h.ChineseName == q.HerbName {
					herbID = h.ID
					break
				}
			}
			require.NotZero(t, herbID)
			missed = append(missed, herbID)
		}

		_, err := f.svc.SubmitAnswer(ctx, id, selected)
		require.NoError(t, err)

		view, err = f.svc.Advance(ctx, id)
		require.NoError(t, err)
	}
	return missed
}

func TestQuizService_FullFlow(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	f.ledger.On("Record", mock.Anything, mock.AnythingOfType("models.MistakeEntry")).Return(true, nil)
	f.results.On("Insert", mock.Anything, mock.MatchedBy(func(r models.SessionResult) bool {
		return r.Percent == 60 && r.PoolSize == 5 && r.Correct == 3 && r.Modes == "latin_name"
	})).Return(int64(1), nil)

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)
	assert.Equal(t, 5, view.Total)
	assert.Equal(t, 0, view.Index)
	require.NotNil(t, view.Question)
	assert.Len(t, view.Question.Options, 4)

	missed := answerAll(t, f, view.ID, map[int]bool{1: true, 3: true})
	require.Len(t, missed, 2)

	result, err := f.svc.Finish(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 60, result.Percent)
	assert.Equal(t, 30, result.Score)
	assert.Equal(t, 3, result.Correct)

	missedIDs := make([]int64, len(result.Missed))
	for i, m := range result.Missed {
		missedIDs[i] = m.HerbID
	}
	assert.ElementsMatch(t, missed, missedIDs)

	f.ledger.AssertNumberOfCalls(t, "Record", 2)
	f.results.AssertExpectations(t)
}

func TestQuizService_StartFailuresRegisterNothing(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	_, err := f.svc.Start(ctx, models.QuizFilter{})
	assertServiceCode(t, err, "EMPTY_SELECTION")

	_, err = f.svc.Start(ctx, models.QuizFilter{
		Grades: []string{"一年級"},
		Modes:  []models.Mode{models.ModeFamily},
	})
	assertServiceCode(t, err, "EMPTY_POOL")

	// Setup corrected, the same service starts fine.
	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)
	assert.Equal(t, 5, view.Total)
}

func TestQuizService_GetUnknownSession(t *testing.T) {
	f := newQuizFixture(t)

	_, err := f.svc.Get(context.Background(), "no-such-session")
	assertServiceCode(t, err, "NOT_FOUND")
}

func TestQuizService_ResubmitDoesNotDoubleRecord(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	f.ledger.On("Record", mock.Anything, mock.AnythingOfType("models.MistakeEntry")).Return(true, nil)

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)

	first, err := f.svc.SubmitAnswer(ctx, view.ID, "definitely wrong")
	require.NoError(t, err)
	assert.False(t, first.Correct)
	assert.False(t, first.AlreadyAnswered)

	second, err := f.svc.SubmitAnswer(ctx, view.ID, "another wrong")
	require.NoError(t, err)
	assert.True(t, second.AlreadyAnswered)
	assert.Equal(t, first.Selected, second.Selected)

	f.ledger.AssertNumberOfCalls(t, "Record", 1)
}

func TestQuizService_LedgerFailureDoesNotFailSubmit(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	f.ledger.On("Record", mock.Anything, mock.AnythingOfType("models.MistakeEntry")).
		Return(false, fmt.Errorf("disk full"))

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)

	got, err := f.svc.SubmitAnswer(ctx, view.ID, "definitely wrong")
	require.NoError(t, err)
	assert.False(t, got.Correct)
}

func TestQuizService_OptionsStableAcrossNavigation(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)
	first := view.Question.Options

	_, err = f.svc.Advance(ctx, view.ID)
	require.NoError(t, err)
	back, err := f.svc.Retreat(ctx, view.ID)
	require.NoError(t, err)

	assert.Equal(t, first, back.Question.Options)
}

func TestQuizService_NavigationClamps(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)

	back, err := f.svc.Retreat(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, back.Index)

	for i := 0; i < 10; i++ {
		view, err = f.svc.Advance(ctx, view.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, view.Index)
	assert.True(t, view.Terminal)
	assert.Nil(t, view.Question)
}

func TestQuizService_RetryMistakes(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	f.ledger.On("Record", mock.Anything, mock.AnythingOfType("models.MistakeEntry")).Return(true, nil)
	f.results.On("Insert", mock.Anything, mock.AnythingOfType("models.SessionResult")).Return(int64(1), nil)

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)
	missed := answerAll(t, f, view.ID, map[int]bool{0: true, 2: true})

	_, err = f.svc.Finish(ctx, view.ID)
	require.NoError(t, err)

	retried, err := f.svc.Retry(ctx, view.ID, services.RetryMistakes)
	require.NoError(t, err)
	assert.Equal(t, view.ID, retried.ID)
	assert.Equal(t, len(missed), retried.Total)
	assert.Equal(t, 0, retried.Index)
	assert.Equal(t, 0, retried.Score)
}

func TestQuizService_RetryAll(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	f.results.On("Insert", mock.Anything, mock.AnythingOfType("models.SessionResult")).Return(int64(1), nil)

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)
	answerAll(t, f, view.ID, nil)
	_, err = f.svc.Finish(ctx, view.ID)
	require.NoError(t, err)

	retried, err := f.svc.Retry(ctx, view.ID, services.RetryAll)
	require.NoError(t, err)
	assert.Equal(t, 5, retried.Total)
}

func TestQuizService_RetryMistakesWithPerfectScoreFails(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	f.results.On("Insert", mock.Anything, mock.AnythingOfType("models.SessionResult")).Return(int64(1), nil)

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)
	answerAll(t, f, view.ID, nil)
	_, err = f.svc.Finish(ctx, view.ID)
	require.NoError(t, err)

	_, err = f.svc.Retry(ctx, view.ID, services.RetryMistakes)
	assertServiceCode(t, err, "EMPTY_POOL")

	// The finished session is untouched and retry-all still works.
	got, err := f.svc.Get(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Score)

	retried, err := f.svc.Retry(ctx, view.ID, services.RetryAll)
	require.NoError(t, err)
	assert.Equal(t, 5, retried.Total)
}

func TestQuizService_RetryUnknownMode(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)

	_, err = f.svc.Retry(ctx, view.ID, "again")
	assertServiceCode(t, err, "BAD_REQUEST")
}

func TestQuizService_ResultInsertFailureDoesNotFailFinish(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	f.results.On("Insert", mock.Anything, mock.AnythingOfType("models.SessionResult")).
		Return(int64(0), fmt.Errorf("disk full"))

	view, err := f.svc.Start(ctx, latinFilter())
	require.NoError(t, err)
	answerAll(t, f, view.ID, nil)

	result, err := f.svc.Finish(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Percent)
}

func TestQuizService_StartWithCatalogDisabled(t *testing.T) {
	svc := services.NewQuizService(
		services.NewCatalogService(t.TempDir(), 8),
		new(mocks.MockLedgerRepository),
		new(mocks.MockResultRepository),
		3, 100,
	)

	_, err := svc.Start(context.Background(), latinFilter())
	assertServiceCode(t, err, "DATA_LOAD_ERROR")
}
