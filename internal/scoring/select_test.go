package scoring

import (
	"reflect"
	"testing"

	"archetype-quiz-service/internal/domain"
)

func TestSelect(t *testing.T) {
	cfg := ResolveConfig(domain.ScoringConfig{})

	cases := []struct {
		name   string
		scores map[string]float64
		want   []domain.Result
	}{
		{
			name:   "no answers is undetermined",
			scores: map[string]float64{},
			want:   []domain.Result{},
		},
		{
			name:   "lone survivor is primary",
			scores: map[string]float64{"hero": 40, "sage": 5},
			want:   []domain.Result{{Archetype: "hero", Percentage: 100, Strength: domain.Primary}},
		},
		{
			name:   "dominance is strictly greater than the ratio",
			scores: map[string]float64{"hero": 30, "sage": 25, "outlaw": 5},
			want:   []domain.Result{{Archetype: "hero", Percentage: 100, Strength: domain.Dominant}},
		},
		{
			name:   "exactly half is not dominant and second falls below dual ratio",
			scores: map[string]float64{"hero": 20, "sage": 10, "outlaw": 10},
			want:   []domain.Result{{Archetype: "hero", Percentage: 100, Strength: domain.Primary}},
		},
		{
			name:   "third below triple ratio yields two",
			scores: map[string]float64{"hero": 30, "sage": 25, "caregiver": 12},
			want: []domain.Result{
				{Archetype: "hero", Percentage: 55, Strength: domain.Primary},
				{Archetype: "sage", Percentage: 45, Strength: domain.Secondary},
			},
		},
		{
			name:   "third above triple ratio yields three",
			scores: map[string]float64{"hero": 20, "sage": 15, "caregiver": 10},
			want: []domain.Result{
				{Archetype: "hero", Percentage: 45, Strength: domain.Primary},
				{Archetype: "sage", Percentage: 33, Strength: domain.Secondary},
				{Archetype: "caregiver", Percentage: 22, Strength: domain.Tertiary},
			},
		},
		{
			name:   "rounding remainder goes to first largest entry",
			scores: map[string]float64{"sage": 20, "hero": 20, "lover": 20},
			want: []domain.Result{
				{Archetype: "hero", Percentage: 34, Strength: domain.Primary},
				{Archetype: "lover", Percentage: 33, Strength: domain.Secondary},
				{Archetype: "sage", Percentage: 33, Strength: domain.Tertiary},
			},
		},
		{
			name:   "maximum below threshold never appears",
			scores: map[string]float64{"hero": 9, "sage": 8},
			want:   []domain.Result{},
		},
		{
			name:   "fourth place is never reported",
			scores: map[string]float64{"hero": 20, "sage": 19, "lover": 18, "jester": 17},
			want: []domain.Result{
				{Archetype: "hero", Percentage: 35, Strength: domain.Primary},
				{Archetype: "sage", Percentage: 33, Strength: domain.Secondary},
				{Archetype: "lover", Percentage: 32, Strength: domain.Tertiary},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Select(tc.scores, archetypeIDs, cfg)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func TestSelectSumsToHundred(t *testing.T) {
	cfg := ResolveConfig(domain.ScoringConfig{})
	inputs := []map[string]float64{
		{"hero": 17, "sage": 13, "lover": 11},
		{"hero": 29, "sage": 23, "lover": 21},
		{"hero": 10.5, "sage": 10.25, "lover": 10.1},
		{"ruler": 33, "magician": 31, "creator": 30},
	}
	for _, scores := range inputs {
		results := Select(scores, archetypeIDs, cfg)
		if len(results) < 2 {
			t.Fatalf("expected a multi-entry result for %v, got %+v", scores, results)
		}
		sum := 0
		for i, r := range results {
			sum += r.Percentage
			if r.Strength != rankStrengths[i] {
				t.Fatalf("entry %d has strength %s", i, r.Strength)
			}
			if i > 0 && scores[results[i-1].Archetype] < scores[r.Archetype] {
				t.Fatalf("results not ordered by score: %+v", results)
			}
		}
		if sum != 100 {
			t.Fatalf("expected sum 100 for %v, got %d (%+v)", scores, sum, results)
		}
	}
}

func TestSelectTiesFollowCatalogueOrder(t *testing.T) {
	cfg := ResolveConfig(domain.ScoringConfig{})
	results := Select(map[string]float64{"sage": 20, "innocent": 20}, archetypeIDs, cfg)
	if len(results) != 2 || results[0].Archetype != "innocent" {
		t.Fatalf("expected catalogue order to break ties, got %+v", results)
	}
	if results[0].Percentage != 50 || results[1].Percentage != 50 {
		t.Fatalf("expected an even split, got %+v", results)
	}
}

func TestNormalizeZeroTotal(t *testing.T) {
	got := normalize([]candidate{{archetype: "hero"}, {archetype: "sage"}})
	if len(got) != 0 {
		t.Fatalf("expected empty result for zero total, got %+v", got)
	}
}
