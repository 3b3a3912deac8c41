package app

import (
	"context"
	"fmt"
	"log"
	"sync"

	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scoring"
)

// SessionRepository abstracts how answer sheets are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID, quizID string) *Session
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// DefinitionRepository loads quiz definitions (from cache/backing store).
type DefinitionRepository interface {
	GetDefinition(ctx context.Context, quizID string) (domain.Definition, error)
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	sessions    SessionRepository
	definitions DefinitionRepository
	logger      *log.Logger

	mu      sync.Mutex
	scorers map[string]*scoring.Scorer
}

func NewQuizService(store SessionRepository, definitions DefinitionRepository) *QuizService {
	return &QuizService{
		sessions:    store,
		definitions: definitions,
		logger:      log.Default(),
		scorers:     make(map[string]*scoring.Scorer),
	}
}

// WithLogger replaces the logger used for scoring diagnostics.
func (s *QuizService) WithLogger(l *log.Logger) *QuizService {
	s.logger = l
	return s
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id, quizID string) *Session {
	return newSession(id, quizID)
}

// Definition returns the quiz definition for quizID.
func (s *QuizService) Definition(ctx context.Context, quizID string) (domain.Definition, error) {
	return s.definitions.GetDefinition(ctx, quizID)
}

// Scorer returns the scorer for quizID, building it on first use. A
// definition that fails validation surfaces here as a configuration error.
func (s *QuizService) Scorer(ctx context.Context, quizID string) (*scoring.Scorer, error) {
	s.mu.Lock()
	scorer, ok := s.scorers[quizID]
	s.mu.Unlock()
	if ok {
		return scorer, nil
	}

	def, err := s.definitions.GetDefinition(ctx, quizID)
	if err != nil {
		return nil, err
	}
	scorer, err = scoring.New(def, scoring.WithLogger(s.logger))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.scorers[quizID]; ok {
		return existing, nil
	}
	s.scorers[quizID] = scorer
	return scorer, nil
}

// Start opens (or reopens) an answer sheet for quizID.
func (s *QuizService) Start(ctx context.Context, sessionID, quizID string) (State, error) {
	// Users cannot start unknown or misconfigured quizzes.
	scorer, err := s.Scorer(ctx, quizID)
	if err != nil {
		return State{}, err
	}
	session := s.sessions.GetOrCreate(sessionID, quizID)
	if session.QuizID() != quizID {
		return State{}, fmt.Errorf("session %s belongs to quiz %s", sessionID, session.QuizID())
	}
	return session.start(len(scorer.Definition().Questions)), nil
}

// SetAnswer records or revises the answer to one question.
func (s *QuizService) SetAnswer(ctx context.Context, sessionID string, answer domain.Answer) (State, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	def := scorer.Definition()
	question, ok := def.FindQuestion(answer.QuestionID)
	if !ok {
		return State{}, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, answer.QuestionID)
	}
	if answer.Type == "" {
		answer.Type = question.Type
	}
	if answer.Type != question.Type {
		return State{}, fmt.Errorf("%w: %s is %s, got %s", domain.ErrTypeMismatch, question.ID, question.Type, answer.Type)
	}
	return session.setAnswer(answer, len(def.Questions))
}

// Next moves to the following question; on the last question it completes the quiz.
func (s *QuizService) Next(ctx context.Context, sessionID string) (State, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	total := len(scorer.Definition().Questions)
	state, last, err := session.advance(total)
	if err != nil || !last {
		return state, err
	}
	return session.finish(scorer.Score(session.answersSnapshot()), total)
}

// Previous moves back one question, stopping at the first.
func (s *QuizService) Previous(ctx context.Context, sessionID string) (State, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	return session.back(len(scorer.Definition().Questions))
}

// GoTo jumps to question index, clamped to the quiz bounds.
func (s *QuizService) GoTo(ctx context.Context, sessionID string, index int) (State, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	return session.goTo(index, len(scorer.Definition().Questions))
}

// GoToQuestion jumps to the question with the given id.
func (s *QuizService) GoToQuestion(ctx context.Context, sessionID, questionID string) (State, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	def := scorer.Definition()
	index := def.QuestionIndex(questionID)
	if index < 0 {
		return State{}, fmt.Errorf("%w: %s", domain.ErrQuestionNotFound, questionID)
	}
	return session.goTo(index, len(def.Questions))
}

// Preview scores the answers given so far without completing the quiz.
func (s *QuizService) Preview(ctx context.Context, sessionID string) ([]domain.Result, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return scorer.Score(session.answersSnapshot()), nil
}

// Complete scores the answer sheet and marks the quiz finished.
func (s *QuizService) Complete(ctx context.Context, sessionID string) (State, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	results := scorer.Score(session.answersSnapshot())
	return session.finish(results, len(scorer.Definition().Questions))
}

// Reset discards all answers and results of the session.
func (s *QuizService) Reset(ctx context.Context, sessionID string) (State, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	return session.reset(len(scorer.Definition().Questions)), nil
}

// State returns the current snapshot of the session.
func (s *QuizService) State(ctx context.Context, sessionID string) (State, error) {
	session, scorer, err := s.lookup(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	return session.Snapshot(len(scorer.Definition().Questions)), nil
}

// Leave drops the session.
func (s *QuizService) Leave(_ context.Context, sessionID string) {
	s.sessions.Delete(sessionID)
}

func (s *QuizService) lookup(ctx context.Context, sessionID string) (*Session, *scoring.Scorer, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	scorer, err := s.Scorer(ctx, session.QuizID())
	if err != nil {
		return nil, nil, err
	}
	return session, scorer, nil
}
