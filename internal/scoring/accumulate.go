package scoring

import (
	"sort"

	"archetype-quiz-service/internal/domain"
)

// delta is the contribution of one answer, keyed by archetype id.
type delta map[string]float64

func (d delta) add(archetype string, points float64) {
	if archetype == "" {
		return
	}
	d[archetype] += points
}

// contribution dispatches to the rule for q.Type. ok is false when the type
// is unknown or the value does not have the shape the type expects.
func contribution(q domain.Question, value domain.AnswerValue, cfg Config) (delta, bool) {
	switch q.Type {
	case domain.RankWithCutoff:
		v, ok := value.(domain.Ranking)
		if !ok {
			return nil, false
		}
		return rankWithCutoff(q, v, cfg.RankCeiling), true
	case domain.Binary:
		v, ok := value.(domain.BinaryChoices)
		if !ok {
			return nil, false
		}
		return binary(q, v, cfg.BinaryPairPoints), true
	case domain.SingleChoice:
		v, ok := value.(domain.Choice)
		if !ok {
			return nil, false
		}
		return singleChoice(q, v), true
	case domain.MultiSelect:
		v, ok := value.(domain.Selections)
		if !ok {
			return nil, false
		}
		return multiSelect(q, v), true
	case domain.NegativeSelect:
		v, ok := value.(domain.Selections)
		if !ok {
			return nil, false
		}
		return negativeSelect(q, v), true
	case domain.DynamicMatrix:
		v, ok := value.(domain.Ratings)
		if !ok {
			return nil, false
		}
		return dynamicMatrix(q, v), true
	}
	return nil, false
}

// rankWithCutoff awards ceiling-i points to the option ranked at position i
// above the line. Items below the line score nothing.
func rankWithCutoff(q domain.Question, v domain.Ranking, ceiling int) delta {
	d := delta{}
	for i, label := range v.AboveTheLine {
		opt, ok := q.OptionByText(label)
		if !ok {
			continue
		}
		points := ceiling - i
		if points <= 0 {
			continue
		}
		d.add(opt.Archetype, float64(points))
	}
	return d
}

// binary gives the full per-pair value to every archetype tagged on the chosen side.
func binary(q domain.Question, v domain.BinaryChoices, perPair float64) delta {
	d := delta{}
	for i, pair := range q.Pairs {
		var side domain.Option
		switch v[i] {
		case domain.SideA:
			side = pair.OptionA
		case domain.SideB:
			side = pair.OptionB
		default:
			continue
		}
		for _, archetype := range tags(side) {
			d.add(archetype, perPair)
		}
	}
	return d
}

// singleChoice gives pointsPerArchetype to each archetype of a list-tagged
// option, or pointsPerSelection to a single-tagged option.
func singleChoice(q domain.Question, v domain.Choice) delta {
	d := delta{}
	opt, ok := q.OptionAt(int(v))
	if !ok {
		return d
	}
	if len(opt.Archetypes) > 0 {
		points := orZero(q.Scoring.PointsPerArchetype)
		for _, archetype := range opt.Archetypes {
			d.add(archetype, points)
		}
		return d
	}
	d.add(opt.Archetype, orZero(q.Scoring.PointsPerSelection))
	return d
}

func multiSelect(q domain.Question, v domain.Selections) delta {
	return perSelection(q, v)
}

// negativeSelect shares multiSelect's rule; the configured points are negative.
// The required selection count is not enforced here.
func negativeSelect(q domain.Question, v domain.Selections) delta {
	return perSelection(q, v)
}

func perSelection(q domain.Question, v domain.Selections) delta {
	d := delta{}
	points := orZero(q.Scoring.PointsPerSelection)
	for _, idx := range v {
		opt, ok := q.OptionAt(idx)
		if !ok {
			continue
		}
		d.add(opt.Archetype, points)
	}
	return d
}

// dynamicMatrix adds each rating, clamped to the question scale, to the
// archetype of the rated option.
func dynamicMatrix(q domain.Question, v domain.Ratings) delta {
	d := delta{}
	labels := make([]string, 0, len(v))
	for label := range v {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		rating := v[label]
		opt, ok := q.OptionByText(label)
		if !ok {
			continue
		}
		if q.Scale != nil {
			rating = min(max(rating, q.Scale.Min), q.Scale.Max)
		}
		d.add(opt.Archetype, rating)
	}
	return d
}

// tags returns the archetypes an option is tagged with, list or single.
func tags(opt domain.Option) []string {
	if len(opt.Archetypes) > 0 {
		return opt.Archetypes
	}
	if opt.Archetype != "" {
		return []string{opt.Archetype}
	}
	return nil
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
