package quiz

import (
	"math"

	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/models"
)

// PointsPerCorrect is fixed regardless of question mode.
const PointsPerCorrect = 10

// Phase is the lifecycle state of a quiz session.
type Phase string

const (
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
)

// Session tracks one quiz run: the fixed pool, the cursor, the sparse answer
// map and the running score. It implements the navigable variant: submitting
// an answer never moves the cursor, Advance and Retreat do.
//
// A Session is not safe for concurrent use; the owning service serializes
// access to it.
type Session struct {
	pool    []*models.QuizItem
	index   int
	answers map[int]models.Answer
	score   int
	phase   Phase
}

// Result is the outcome computed by Finish.
type Result struct {
	Score    int
	Percent  int
	PoolSize int
	Correct  int
	Missed   []*models.QuizItem
}

// NewSession starts a session over pool: score 0, cursor at 0, no answers.
func NewSession(pool []*models.QuizItem) *Session {
	return &Session{
		pool:    pool,
		answers: make(map[int]models.Answer),
		phase:   PhaseInProgress,
	}
}

func (s *Session) Phase() Phase { return s.phase }
func (s *Session) Index() int   { return s.index }
func (s *Session) Len() int     { return len(s.pool) }
func (s *Session) Score() int   { return s.score }

// Pool returns the session's items in order.
func (s *Session) Pool() []*models.QuizItem { return s.pool }

// Current returns the item under the cursor. ok is false when the cursor sits
// past the last question, the terminal condition: the caller must finish the
// session instead of rendering a question.
func (s *Session) Current() (item *models.QuizItem, ok bool) {
	if s.index >= len(s.pool) {
		return nil, false
	}
	return s.pool[s.index], true
}

// AnswerAt returns the recorded answer for a pool index, if any.
func (s *Session) AnswerAt(index int) (models.Answer, bool) {
	a, ok := s.answers[index]
	return a, ok
}

// Submit records an answer for the current question and updates the score.
// Submitting on an already-answered question is idempotent: the prior outcome
// is returned unchanged and nothing is recorded. already reports that case so
// the caller can skip side effects such as the mistake ledger.
func (s *Session) Submit(selected string) (a models.Answer, already bool, err error) {
	if s.phase != PhaseInProgress {
		return models.Answer{}, false, errors.NewValidationError("session", "quiz is already finished")
	}
	item, ok := s.Current()
	if !ok {
		return models.Answer{}, false, errors.NewValidationError("session", "no question remaining to answer")
	}
	if prior, answered := s.answers[s.index]; answered {
		return prior, true, nil
	}

	a = models.Answer{
		Selected: selected,
		Correct:  selected == item.CorrectAnswer,
	}
	s.answers[s.index] = a
	if a.Correct {
		s.score += PointsPerCorrect
	}
	return a, false, nil
}

// Advance moves the cursor forward, clamped to len(pool). The position one
// past the end is the terminal cursor Finish expects.
func (s *Session) Advance() {
	if s.index < len(s.pool) {
		s.index++
	}
}

// Retreat moves the cursor back, clamped to 0.
func (s *Session) Retreat() {
	if s.index > 0 {
		s.index--
	}
}

// Finish closes the session and computes the final result. The missed set is
// every pool index with no recorded answer or an incorrect one. Finishing an
// already-finished session just recomputes the same result.
func (s *Session) Finish() Result {
	s.phase = PhaseFinished

	res := Result{
		Score:    s.score,
		PoolSize: len(s.pool),
	}
	for i, item := range s.pool {
		if a, ok := s.answers[i]; ok && a.Correct {
			res.Correct++
		} else {
			res.Missed = append(res.Missed, item)
		}
	}
	if len(s.pool) > 0 {
		res.Percent = int(math.Round(float64(s.score) / float64(len(s.pool)*PointsPerCorrect) * 100))
	}
	return res
}

// MissedRecords returns the source records of the missed set, for building a
// retry pool.
func (s *Session) MissedRecords() []*models.HerbRecord {
	var out []*models.HerbRecord
	for i, item := range s.pool {
		if a, ok := s.answers[i]; !ok || !a.Correct {
			out = append(out, item.Herb)
		}
	}
	return out
}
