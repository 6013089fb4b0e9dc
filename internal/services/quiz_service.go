package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/quiz"
	"github.com/bencao/herbquiz/internal/repository"
)

// RetryMistakes and RetryAll are the two ways to restart a finished session.
const (
	RetryMistakes = "mistakes"
	RetryAll      = "all"
)

// QuestionView is the render payload for the question under the cursor.
type QuestionView struct {
	Index         int           `json:"index"`
	Total         int           `json:"total"`
	HerbName      string        `json:"herb_name"`
	Mode          models.Mode   `json:"mode"`
	Prompt        string        `json:"prompt"`
	Options       []string      `json:"options"`
	Answered      bool          `json:"answered"`
	Answer        *models.Answer `json:"answer,omitempty"`
	CorrectAnswer string        `json:"correct_answer,omitempty"` // revealed once answered
}

// SessionView is the state handed back after every session operation.
type SessionView struct {
	ID       string        `json:"id"`
	Phase    quiz.Phase    `json:"phase"`
	Index    int           `json:"index"`
	Total    int           `json:"total"`
	Score    int           `json:"score"`
	Terminal bool          `json:"terminal"` // cursor past the last question
	Question *QuestionView `json:"question,omitempty"`
}

// AnswerView is the outcome of an answer submission.
type AnswerView struct {
	Correct          bool   `json:"correct"`
	Selected         string `json:"selected"`
	CorrectAnswer    string `json:"correct_answer"`
	AlreadyAnswered  bool   `json:"already_answered"`
	Score            int    `json:"score"`
}

// MissedView is one entry of the final missed set.
type MissedView struct {
	HerbID        int64       `json:"herb_id"`
	Name          string      `json:"name"`
	Mode          models.Mode `json:"mode"`
	CorrectAnswer string      `json:"correct_answer"`
}

// ResultView is the finish payload.
type ResultView struct {
	Percent  int          `json:"percent"`
	Score    int          `json:"score"`
	PoolSize int          `json:"pool_size"`
	Correct  int          `json:"correct"`
	Missed   []MissedView `json:"missed"`
}

// QuizService drives quiz sessions end to end: setup, navigation, answer
// submission with mistake recording, finishing, and retries.
type QuizService interface {
	Start(ctx context.Context, filter models.QuizFilter) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	SubmitAnswer(ctx context.Context, id, selected string) (*AnswerView, error)
	Advance(ctx context.Context, id string) (*SessionView, error)
	Retreat(ctx context.Context, id string) (*SessionView, error)
	Finish(ctx context.Context, id string) (*ResultView, error)
	Retry(ctx context.Context, id, mode string) (*SessionView, error)
}

type sessionEntry struct {
	session *quiz.Session
	filter  models.QuizFilter
	// snapshot of the catalog at build time, so distractor generation stays
	// consistent within a session even if the catalog is reloaded underneath.
	snapshot []models.HerbRecord
}

type quizService struct {
	catalog         CatalogService
	ledger          repository.LedgerRepository
	results         repository.ResultRepository
	distractorCount int
	maxAttempts     int

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewQuizService creates a new QuizService
func NewQuizService(catalog CatalogService, ledger repository.LedgerRepository, results repository.ResultRepository, distractorCount, maxAttempts int) QuizService {
	if distractorCount <= 0 {
		distractorCount = quiz.DefaultDistractorCount
	}
	if maxAttempts <= 0 {
		maxAttempts = quiz.DefaultMaxAttempts
	}
	return &quizService{
		catalog:         catalog,
		ledger:          ledger,
		results:         results,
		distractorCount: distractorCount,
		maxAttempts:     maxAttempts,
		sessions:        make(map[string]*sessionEntry),
	}
}

func (s *quizService) Start(ctx context.Context, filter models.QuizFilter) (*SessionView, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting quiz: grades=%v, ids=%d, modes=%v", filter.Grades, len(filter.HerbIDs), filter.Modes)

	store, err := s.catalog.Store(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := store.All()

	// A failed build mutates nothing: no session is registered.
	pool, err := quiz.Build(snapshot, filter)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	entry := &sessionEntry{
		session:  quiz.NewSession(pool),
		filter:   filter,
		snapshot: snapshot,
	}

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	log.Info("quiz started: session=%s, pool_size=%d", id, len(pool))
	return s.view(id, entry), nil
}

func (s *quizService) Get(ctx context.Context, id string) (*SessionView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view(id, entry), nil
}

func (s *quizService) SubmitAnswer(ctx context.Context, id, selected string) (*AnswerView, error) {
	log := logger.FromContext(ctx)
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	item, ok := entry.session.Current()
	if !ok {
		s.mu.Unlock()
		return nil, errors.NewValidationError("session", "no question remaining to answer")
	}
	answer, already, err := entry.session.Submit(selected)
	score := entry.session.Score()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if !already && !answer.Correct {
		// First miss of a herb goes to the ledger; the repository suppresses
		// later misses of the same herb. A ledger failure is logged but never
		// fails the submission itself.
		recorded, lerr := s.ledger.Record(ctx, models.MistakeEntry{
			HerbID:  item.Herb.ID,
			Name:    item.Herb.ChineseName,
			Wrong:   selected,
			Correct: item.CorrectAnswer,
		})
		if lerr != nil {
			log.Warn("failed to record mistake: %v", lerr)
		} else if recorded {
			log.Debug("mistake recorded: herb_id=%d", item.Herb.ID)
		}
	}

	return &AnswerView{
		Correct:         answer.Correct,
		Selected:        answer.Selected,
		CorrectAnswer:   item.CorrectAnswer,
		AlreadyAnswered: already,
		Score:           score,
	}, nil
}

func (s *quizService) Advance(ctx context.Context, id string) (*SessionView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.session.Advance()
	return s.view(id, entry), nil
}

func (s *quizService) Retreat(ctx context.Context, id string) (*SessionView, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.session.Retreat()
	return s.view(id, entry), nil
}

func (s *quizService) Finish(ctx context.Context, id string) (*ResultView, error) {
	log := logger.FromContext(ctx)
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	result := entry.session.Finish()
	filter := entry.filter
	s.mu.Unlock()

	if _, rerr := s.results.Insert(ctx, models.SessionResult{
		PoolSize: result.PoolSize,
		Correct:  result.Correct,
		Percent:  result.Percent,
		Modes:    joinModes(filter.Modes),
		Grades:   strings.Join(filter.Grades, ","),
	}); rerr != nil {
		log.Warn("failed to store session result: %v", rerr)
	}

	missed := make([]MissedView, 0, len(result.Missed))
	for _, item := range result.Missed {
		missed = append(missed, MissedView{
			HerbID:        item.Herb.ID,
			Name:          item.Herb.ChineseName,
			Mode:          item.Mode,
			CorrectAnswer: item.CorrectAnswer,
		})
	}

	log.Info("quiz finished: session=%s, percent=%d, missed=%d", id, result.Percent, len(missed))
	return &ResultView{
		Percent:  result.Percent,
		Score:    result.Score,
		PoolSize: result.PoolSize,
		Correct:  result.Correct,
		Missed:   missed,
	}, nil
}

func (s *quizService) Retry(ctx context.Context, id, mode string) (*SessionView, error) {
	log := logger.FromContext(ctx)
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var pool []*models.QuizItem
	switch mode {
	case RetryMistakes:
		pool, err = quiz.Rebuild(entry.session.MissedRecords(), entry.filter.Modes)
	case RetryAll:
		pool, err = quiz.Build(entry.snapshot, entry.filter)
	default:
		return nil, errors.NewBadRequestError("retry mode must be \"mistakes\" or \"all\"")
	}
	if err != nil {
		// The finished session stays intact; the caller can still retry all.
		return nil, err
	}

	entry.session = quiz.NewSession(pool)
	log.Info("quiz retried: session=%s, mode=%s, pool_size=%d", id, mode, len(pool))
	return s.view(id, entry), nil
}

func (s *quizService) entry(id string) (*sessionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, errors.NewNotFoundError("quiz session", id)
	}
	return entry, nil
}

// view renders the session state. Caller holds s.mu except right after Start,
// where the entry is not yet visible to anyone else.
func (s *quizService) view(id string, entry *sessionEntry) *SessionView {
	sess := entry.session
	out := &SessionView{
		ID:    id,
		Phase: sess.Phase(),
		Index: sess.Index(),
		Total: sess.Len(),
		Score: sess.Score(),
	}

	item, ok := sess.Current()
	if !ok {
		out.Terminal = true
		return out
	}

	// Options are generated once per item and cached, so navigating back and
	// forth shows identical choices.
	if item.Options == nil {
		item.Options = quiz.Options(entry.snapshot, item, s.distractorCount, s.maxAttempts)
	}

	q := &QuestionView{
		Index:    sess.Index(),
		Total:    sess.Len(),
		HerbName: item.Herb.ChineseName,
		Mode:     item.Mode,
		Prompt:   quiz.Prompt(item.Mode),
		Options:  item.Options,
	}
	if a, answered := sess.AnswerAt(sess.Index()); answered {
		q.Answered = true
		q.Answer = &a
		q.CorrectAnswer = item.CorrectAnswer
	}
	out.Question = q
	return out
}

func joinModes(modes []models.Mode) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = string(m)
	}
	return strings.Join(parts, ",")
}
