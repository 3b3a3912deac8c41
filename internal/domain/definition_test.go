package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestValidateEmptyCatalogue(t *testing.T) {
	err := Definition{}.Validate()
	if !errors.Is(err, ErrEmptyCatalogue) {
		t.Fatalf("expected empty catalogue error, got %v", err)
	}
}

func TestValidateQuestionPayloads(t *testing.T) {
	cases := []struct {
		name     string
		question Question
		wantErr  bool
	}{
		{"rank without options", Question{ID: "q", Type: RankWithCutoff}, true},
		{"binary without pairs", Question{ID: "q", Type: Binary}, true},
		{"multi select without points", Question{ID: "q", Type: MultiSelect, Options: []Option{{Text: "a"}}}, true},
		{"multi select negative points", Question{ID: "q", Type: MultiSelect, Options: []Option{{Text: "a"}}, Scoring: QuestionScoring{PointsPerSelection: Float(-2)}}, true},
		{"negative select positive points", Question{ID: "q", Type: NegativeSelect, Options: []Option{{Text: "a"}}, Scoring: QuestionScoring{PointsPerSelection: Float(5)}}, true},
		{"negative select ok", Question{ID: "q", Type: NegativeSelect, Options: []Option{{Text: "a"}}, Scoring: QuestionScoring{PointsPerSelection: Float(-5)}}, false},
		{"single choice list without points", Question{ID: "q", Type: SingleChoice, Options: []Option{{Text: "a", Archetypes: []string{"hero"}}}}, true},
		{"single choice single without points", Question{ID: "q", Type: SingleChoice, Options: []Option{{Text: "a", Archetype: "hero"}}}, true},
		{"matrix without scale", Question{ID: "q", Type: DynamicMatrix, Options: []Option{{Text: "a"}}}, true},
		{"matrix inverted scale", Question{ID: "q", Type: DynamicMatrix, Options: []Option{{Text: "a"}}, Scale: &Scale{Min: 5, Max: 1}}, true},
		{"unknown type tolerated", Question{ID: "q", Type: "slider"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := Definition{
				Archetypes: []Archetype{{ID: "hero"}},
				Questions:  []Question{tc.question},
			}
			err := def.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidQuestion) {
				t.Fatalf("expected invalid question error, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateDuplicateIDs(t *testing.T) {
	def := Definition{
		Archetypes: []Archetype{{ID: "hero"}, {ID: "hero"}},
		Questions: []Question{
			{ID: "q1", Type: RankWithCutoff, Options: []Option{{Text: "a"}}},
			{ID: "q1", Type: RankWithCutoff, Options: []Option{{Text: "a"}}},
		},
	}
	if err := def.Validate(); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestValidateScoringParameters(t *testing.T) {
	cases := []struct {
		name    string
		scoring ScoringConfig
		wantErr bool
	}{
		{"defaults", ScoringConfig{}, false},
		{"explicit values", ScoringConfig{
			Thresholds:       Thresholds{MinThreshold: Float(10), SingleDominanceRatio: Float(0.5), DualInclusionRatio: Float(1), TripleInclusionRatio: Float(0)},
			RankCeiling:      Int(12),
			BinaryPairPoints: Float(0),
		}, false},
		{"zero min threshold", ScoringConfig{Thresholds: Thresholds{MinThreshold: Float(0)}}, true},
		{"negative min threshold", ScoringConfig{Thresholds: Thresholds{MinThreshold: Float(-20)}}, true},
		{"dominance ratio above one", ScoringConfig{Thresholds: Thresholds{SingleDominanceRatio: Float(1.2)}}, true},
		{"dual ratio below zero", ScoringConfig{Thresholds: Thresholds{DualInclusionRatio: Float(-0.1)}}, true},
		{"triple ratio below zero", ScoringConfig{Thresholds: Thresholds{TripleInclusionRatio: Float(-1)}}, true},
		{"zero rank ceiling", ScoringConfig{RankCeiling: Int(0)}, true},
		{"negative rank ceiling", ScoringConfig{RankCeiling: Int(-3)}, true},
		{"negative binary pair points", ScoringConfig{BinaryPairPoints: Float(-1)}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := Definition{
				Archetypes: []Archetype{{ID: "hero"}},
				Scoring:    tc.scoring,
			}
			err := def.Validate()
			if tc.wantErr && !errors.Is(err, ErrInvalidScoring) {
				t.Fatalf("expected invalid scoring error, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateReportsEveryScoringProblem(t *testing.T) {
	def := Definition{
		Archetypes: []Archetype{{ID: "hero"}},
		Scoring: ScoringConfig{Thresholds: Thresholds{
			MinThreshold:         Float(-20),
			SingleDominanceRatio: Float(0.9),
			TripleInclusionRatio: Float(-1),
		}},
	}
	err := def.Validate()
	if !errors.Is(err, ErrInvalidScoring) {
		t.Fatalf("expected invalid scoring error, got %v", err)
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) || len(joined.Unwrap()) != 2 {
		t.Fatalf("expected two joined problems, got %v", err)
	}
}

func TestAnswerDecodesValueByType(t *testing.T) {
	raw := `[
		{"questionId":"q1","type":"rankWithCutoff","value":{"aboveTheLine":["a","b"],"belowTheLine":["c"]}},
		{"questionId":"q2","type":"binary","value":{"0":"A","1":"B"}},
		{"questionId":"q3","type":"singleChoice","value":2},
		{"questionId":"q4","type":"negativeSelect","value":[0,3]},
		{"questionId":"q5","type":"dynamicMatrix","value":{"Bold":4}},
		{"questionId":"q6","type":"slider","value":7}
	]`
	var answers []Answer
	if err := json.Unmarshal([]byte(raw), &answers); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if r, ok := answers[0].Value.(Ranking); !ok || len(r.AboveTheLine) != 2 || r.AboveTheLine[1] != "b" {
		t.Fatalf("unexpected ranking %#v", answers[0].Value)
	}
	if b, ok := answers[1].Value.(BinaryChoices); !ok || b[1] != SideB {
		t.Fatalf("unexpected binary %#v", answers[1].Value)
	}
	if c, ok := answers[2].Value.(Choice); !ok || c != 2 {
		t.Fatalf("unexpected choice %#v", answers[2].Value)
	}
	if s, ok := answers[3].Value.(Selections); !ok || len(s) != 2 || s[1] != 3 {
		t.Fatalf("unexpected selections %#v", answers[3].Value)
	}
	if m, ok := answers[4].Value.(Ratings); !ok || m["Bold"] != 4 {
		t.Fatalf("unexpected ratings %#v", answers[4].Value)
	}
	if _, ok := answers[5].Value.(Unknown); !ok {
		t.Fatalf("expected unknown value, got %#v", answers[5].Value)
	}
}

func TestAnswerDecodesYAML(t *testing.T) {
	raw := `
- questionId: q2
  type: binary
  value:
    0: B
- questionId: q4
  type: multiSelect
  value: [1, 2]
`
	var answers []Answer
	if err := yaml.Unmarshal([]byte(raw), &answers); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b, ok := answers[0].Value.(BinaryChoices); !ok || b[0] != SideB {
		t.Fatalf("unexpected binary %#v", answers[0].Value)
	}
	if s, ok := answers[1].Value.(Selections); !ok || len(s) != 2 {
		t.Fatalf("unexpected selections %#v", answers[1].Value)
	}
}

func TestUpsertReplacesInPlace(t *testing.T) {
	answers := []Answer{
		{QuestionID: "q1", Type: SingleChoice, Value: Choice(0)},
		{QuestionID: "q2", Type: SingleChoice, Value: Choice(1)},
	}
	updated := Upsert(answers, Answer{QuestionID: "q1", Type: SingleChoice, Value: Choice(3)})
	if len(updated) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(updated))
	}
	if updated[0].Value != Choice(3) {
		t.Fatalf("expected q1 revised in place, got %#v", updated[0])
	}
	if answers[0].Value != Choice(0) {
		t.Fatalf("input slice was mutated")
	}

	updated = Upsert(updated, Answer{QuestionID: "q3", Type: SingleChoice, Value: Choice(0)})
	if len(updated) != 3 || updated[2].QuestionID != "q3" {
		t.Fatalf("expected q3 appended, got %+v", updated)
	}
}
