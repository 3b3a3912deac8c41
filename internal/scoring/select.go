package scoring

import (
	"math"
	"sort"

	"archetype-quiz-service/internal/domain"
)

type candidate struct {
	archetype string
	score     float64
}

var rankStrengths = []domain.Strength{domain.Primary, domain.Secondary, domain.Tertiary}

// Select turns raw scores into the reported result list. order is the
// catalogue order used to break score ties. An empty list means the result
// is undetermined.
func Select(scores map[string]float64, order []string, cfg Config) []domain.Result {
	survivors := make([]candidate, 0, len(order))
	for _, id := range order {
		score, ok := scores[id]
		if !ok || score < cfg.MinThreshold {
			continue
		}
		survivors = append(survivors, candidate{archetype: id, score: score})
	}
	if len(survivors) == 0 {
		return []domain.Result{}
	}
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].score > survivors[j].score
	})

	top := survivors[0]
	if len(survivors) == 1 {
		return normalize(survivors)
	}

	var total float64
	for _, c := range survivors {
		total += c.score
	}
	if top.score > total*cfg.SingleDominanceRatio {
		return []domain.Result{{Archetype: top.archetype, Percentage: 100, Strength: domain.Dominant}}
	}

	if survivors[1].score < top.score*cfg.DualInclusionRatio {
		return normalize(survivors[:1])
	}
	if len(survivors) > 2 && survivors[2].score >= top.score*cfg.TripleInclusionRatio {
		return normalize(survivors[:3])
	}
	return normalize(survivors[:2])
}

// normalize converts the subset to integer percentages summing to 100. The
// rounding remainder goes to the first entry holding the largest percentage.
func normalize(subset []candidate) []domain.Result {
	var total float64
	for _, c := range subset {
		total += c.score
	}
	if total <= 0 {
		return []domain.Result{}
	}

	results := make([]domain.Result, len(subset))
	sum := 0
	largest := 0
	for i, c := range subset {
		pct := int(math.Round(c.score / total * 100))
		results[i] = domain.Result{
			Archetype:  c.archetype,
			Percentage: pct,
			Strength:   rankStrengths[i],
		}
		sum += pct
		if pct > results[largest].Percentage {
			largest = i
		}
	}
	if sum != 100 {
		results[largest].Percentage += 100 - sum
	}
	return results
}
