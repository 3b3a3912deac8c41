package domain

import "errors"

var (
	// ErrEmptyCatalogue is returned when a definition has no archetypes.
	ErrEmptyCatalogue = errors.New("archetype catalogue is empty")
	// ErrInvalidQuestion wraps payload problems that make a question unscorable.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrInvalidScoring wraps quiz-wide scoring parameters outside their allowed range.
	ErrInvalidScoring = errors.New("invalid scoring configuration")
	// ErrDuplicateID indicates two archetypes or two questions share an id.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrDefinitionNotFound indicates the quiz definition could not be loaded.
	ErrDefinitionNotFound = errors.New("quiz definition not found")
	// ErrQuestionNotFound indicates a submitted question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrTypeMismatch is returned when an answer's type tag differs from its question's.
	ErrTypeMismatch = errors.New("answer type does not match question")
	// ErrSessionNotFound is returned when a quiz session has not been started.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotStarted is returned when an answer sheet is used before it was (re)started.
	ErrQuizNotStarted = errors.New("quiz not started")
)
