// Package scoring reduces a set of quiz answers to a ranked archetype distribution.
package scoring

import (
	"fmt"
	"log"

	"archetype-quiz-service/internal/domain"
)

// Scorer scores answers against one quiz definition. It holds only immutable
// state and is safe for concurrent use.
type Scorer struct {
	def    domain.Definition
	cfg    Config
	order  []string
	logger *log.Logger
}

// Option customises a Scorer.
type Option func(*Scorer)

// WithLogger routes diagnostics about skipped answers to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Scorer) {
		s.logger = l
	}
}

// New validates def and resolves its scoring parameters. A definition that
// fails validation is a configuration error.
func New(def domain.Definition, opts ...Option) (*Scorer, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("quiz definition %q: %w", def.ID, err)
	}
	s := &Scorer{
		def:    def,
		cfg:    ResolveConfig(def.Scoring),
		order:  make([]string, 0, len(def.Archetypes)),
		logger: log.Default(),
	}
	for _, a := range def.Archetypes {
		s.order = append(s.order, a.ID)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Config returns the resolved scoring parameters.
func (s *Scorer) Config() Config {
	return s.cfg
}

// Definition returns the quiz definition the scorer was built from.
func (s *Scorer) Definition() domain.Definition {
	return s.def
}

// Score returns the ranked result list for answers. It never fails; answers
// that cannot be interpreted contribute nothing.
func (s *Scorer) Score(answers []domain.Answer) []domain.Result {
	return Select(s.RawScores(answers), s.order, s.cfg)
}

// RawScores accumulates per-archetype points. Every catalogue archetype is
// present in the returned map, starting from zero.
func (s *Scorer) RawScores(answers []domain.Answer) map[string]float64 {
	scores := make(map[string]float64, len(s.order))
	for _, id := range s.order {
		scores[id] = 0
	}

	for _, answer := range answers {
		question, ok := s.def.FindQuestion(answer.QuestionID)
		if !ok {
			s.logger.Printf("scoring: question not found for id %q", answer.QuestionID)
			continue
		}
		if !question.Type.Valid() {
			s.logger.Printf("scoring: unknown question type %q for question %q", question.Type, question.ID)
			continue
		}
		d, ok := contribution(question, answer.Value, s.cfg)
		if !ok {
			s.logger.Printf("scoring: answer to %q has unexpected value %T for type %s", question.ID, answer.Value, question.Type)
			continue
		}
		for archetype, points := range d {
			if _, known := scores[archetype]; known {
				scores[archetype] += points
			}
		}
	}
	return scores
}
