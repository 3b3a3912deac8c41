package domain

import (
	"errors"
	"fmt"
)

// Definition is the static quiz content: archetype catalogue, questions and
// quiz-wide scoring parameters. It is read-only once loaded.
type Definition struct {
	ID         string        `json:"id" yaml:"id"`
	Archetypes []Archetype   `json:"archetypes" yaml:"archetypes"`
	Questions  []Question    `json:"quizQuestions" yaml:"quizQuestions"`
	Scoring    ScoringConfig `json:"scoringConfig" yaml:"scoringConfig"`
}

// FindQuestion looks a question up by id.
func (d Definition) FindQuestion(id string) (Question, bool) {
	for _, q := range d.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionIndex returns the position of question id, or -1.
func (d Definition) QuestionIndex(id string) int {
	for i, q := range d.Questions {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// ArchetypeCatalogue returns the archetypes in catalogue order.
func (d Definition) ArchetypeCatalogue() []Archetype {
	out := make([]Archetype, len(d.Archetypes))
	copy(out, d.Archetypes)
	return out
}

// FindArchetype looks an archetype up by id.
func (d Definition) FindArchetype(id string) (Archetype, bool) {
	for _, a := range d.Archetypes {
		if a.ID == id {
			return a, true
		}
	}
	return Archetype{}, false
}

// Validate reports configuration errors that make the definition unusable.
// Unknown question types are tolerated; they are skipped when scoring.
func (d Definition) Validate() error {
	if len(d.Archetypes) == 0 {
		return ErrEmptyCatalogue
	}

	errs := validateScoring(d.Scoring)
	seen := make(map[string]struct{}, len(d.Archetypes))
	for _, a := range d.Archetypes {
		if _, dup := seen[a.ID]; dup {
			errs = append(errs, fmt.Errorf("archetype %q: %w", a.ID, ErrDuplicateID))
		}
		seen[a.ID] = struct{}{}
	}

	questions := make(map[string]struct{}, len(d.Questions))
	for _, q := range d.Questions {
		if _, dup := questions[q.ID]; dup {
			errs = append(errs, fmt.Errorf("question %q: %w", q.ID, ErrDuplicateID))
		}
		questions[q.ID] = struct{}{}
		if err := validateQuestion(q); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// validateScoring checks the quiz-wide parameters that are set. Unset ones
// fall back to defaults when scoring.
func validateScoring(sc ScoringConfig) []error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidScoring))
	}

	th := sc.Thresholds
	if v := th.MinThreshold; v != nil && *v <= 0 {
		invalid("minThreshold must be positive, got %v", *v)
	}
	ratios := []struct {
		name  string
		value *float64
	}{
		{"singleDominanceRatio", th.SingleDominanceRatio},
		{"dualInclusionRatio", th.DualInclusionRatio},
		{"tripleInclusionRatio", th.TripleInclusionRatio},
	}
	for _, r := range ratios {
		if r.value != nil && (*r.value < 0 || *r.value > 1) {
			invalid("%s must be within [0,1], got %v", r.name, *r.value)
		}
	}
	if v := sc.RankCeiling; v != nil && *v <= 0 {
		invalid("rankCeiling must be positive, got %d", *v)
	}
	if v := sc.BinaryPairPoints; v != nil && *v < 0 {
		invalid("binaryPairPoints must not be negative, got %v", *v)
	}
	return errs
}

func validateQuestion(q Question) error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("question %q (%s): %s: %w", q.ID, q.Type, fmt.Sprintf(format, args...), ErrInvalidQuestion)
	}

	switch q.Type {
	case RankWithCutoff:
		if len(q.Options) == 0 {
			return invalid("no options")
		}
	case Binary:
		if len(q.Pairs) == 0 {
			return invalid("no pairs")
		}
	case SingleChoice:
		if len(q.Options) == 0 {
			return invalid("no options")
		}
		for _, opt := range q.Options {
			if len(opt.Archetypes) > 0 && q.Scoring.PointsPerArchetype == nil {
				return invalid("option %q lists archetypes but pointsPerArchetype is missing", opt.Text)
			}
			if len(opt.Archetypes) == 0 && opt.Archetype != "" && q.Scoring.PointsPerSelection == nil {
				return invalid("option %q names an archetype but pointsPerSelection is missing", opt.Text)
			}
		}
	case MultiSelect:
		if len(q.Options) == 0 {
			return invalid("no options")
		}
		if p := q.Scoring.PointsPerSelection; p == nil || *p <= 0 {
			return invalid("pointsPerSelection must be positive")
		}
	case NegativeSelect:
		if len(q.Options) == 0 {
			return invalid("no options")
		}
		if p := q.Scoring.PointsPerSelection; p == nil || *p >= 0 {
			return invalid("pointsPerSelection must be negative")
		}
	case DynamicMatrix:
		if len(q.Options) == 0 {
			return invalid("no options")
		}
		if q.Scale == nil {
			return invalid("no scale")
		}
		if q.Scale.Min > q.Scale.Max {
			return invalid("scale min %v exceeds max %v", q.Scale.Min, q.Scale.Max)
		}
	}
	return nil
}
