package app

import (
	"sync"
	"time"

	"archetype-quiz-service/internal/domain"
)

// State is a snapshot of one respondent's progress through a quiz.
type State struct {
	SessionID       string          `json:"sessionId"`
	QuizID          string          `json:"quizId"`
	Started         bool            `json:"started"`
	Complete        bool            `json:"complete"`
	CurrentQuestion int             `json:"currentQuestion"`
	TotalQuestions  int             `json:"totalQuestions"`
	Answers         []domain.Answer `json:"answers"`
	Results         []domain.Result `json:"results,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Session is the in-memory answer sheet of one respondent. Answers are kept
// in the order they were first given and replaced by question id on revision.
type Session struct {
	id        string
	quizID    string
	createdAt time.Time
	now       func() time.Time

	mu        sync.RWMutex
	started   bool
	complete  bool
	current   int
	answers   []domain.Answer
	results   []domain.Result
	updatedAt time.Time
}

func newSession(id, quizID string) *Session {
	return newSessionWithClock(id, quizID, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id, quizID string, now func() time.Time) *Session {
	created := now()
	return &Session{
		id:        id,
		quizID:    quizID,
		createdAt: created,
		now:       now,
		updatedAt: created,
	}
}

// QuizID returns the id of the quiz being answered.
func (s *Session) QuizID() string {
	return s.quizID
}

func (s *Session) start(total int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = true
	s.updatedAt = s.now()
	return s.snapshotLocked(total)
}

func (s *Session) setAnswer(answer domain.Answer, total int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return State{}, domain.ErrQuizNotStarted
	}
	s.answers = domain.Upsert(s.answers, answer)
	s.updatedAt = s.now()
	return s.snapshotLocked(total), nil
}

// answersSnapshot returns a frozen copy of the answers for scoring.
func (s *Session) answersSnapshot() []domain.Answer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// advance moves to the next question. It reports true when the current
// question was the last one and the quiz should be completed instead.
func (s *Session) advance(total int) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return State{}, false, domain.ErrQuizNotStarted
	}
	if s.current+1 >= total {
		return s.snapshotLocked(total), true, nil
	}
	s.current++
	s.updatedAt = s.now()
	return s.snapshotLocked(total), false, nil
}

func (s *Session) back(total int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return State{}, domain.ErrQuizNotStarted
	}
	return s.moveLocked(s.current-1, total), nil
}

func (s *Session) goTo(index, total int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return State{}, domain.ErrQuizNotStarted
	}
	return s.moveLocked(index, total), nil
}

// moveLocked clamps index to [0, total-1].
func (s *Session) moveLocked(index, total int) State {
	s.current = max(0, min(index, total-1))
	s.updatedAt = s.now()
	return s.snapshotLocked(total)
}

func (s *Session) finish(results []domain.Result, total int) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return State{}, domain.ErrQuizNotStarted
	}
	s.results = results
	s.complete = true
	s.updatedAt = s.now()
	return s.snapshotLocked(total), nil
}

func (s *Session) reset(total int) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = false
	s.complete = false
	s.current = 0
	s.answers = nil
	s.results = nil
	s.updatedAt = s.now()
	return s.snapshotLocked(total)
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot(total int) State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(total)
}

func (s *Session) snapshotLocked(total int) State {
	answers := make([]domain.Answer, len(s.answers))
	copy(answers, s.answers)
	var results []domain.Result
	if s.results != nil {
		results = make([]domain.Result, len(s.results))
		copy(results, s.results)
	}
	return State{
		SessionID:       s.id,
		QuizID:          s.quizID,
		Started:         s.started,
		Complete:        s.complete,
		CurrentQuestion: s.current,
		TotalQuestions:  total,
		Answers:         answers,
		Results:         results,
		CreatedAt:       s.createdAt,
		UpdatedAt:       s.updatedAt,
	}
}
