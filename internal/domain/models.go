package domain

// Archetype is one of the personality categories a brand can be classified into.
// Only ID takes part in scoring; the rest is display metadata.
type Archetype struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Traits      []string `json:"traits" yaml:"traits"`
	Examples    []string `json:"examples" yaml:"examples"`
	Color       string   `json:"color" yaml:"color"`
}

// QuestionType tags the interaction a question uses and selects its scoring rule.
type QuestionType string

const (
	RankWithCutoff QuestionType = "rankWithCutoff"
	Binary         QuestionType = "binary"
	SingleChoice   QuestionType = "singleChoice"
	MultiSelect    QuestionType = "multiSelect"
	NegativeSelect QuestionType = "negativeSelect"
	DynamicMatrix  QuestionType = "dynamicMatrix"
)

// Valid reports whether t belongs to the closed set of question types.
func (t QuestionType) Valid() bool {
	switch t {
	case RankWithCutoff, Binary, SingleChoice, MultiSelect, NegativeSelect, DynamicMatrix:
		return true
	}
	return false
}

// Option is a selectable answer. It is tagged with either a single archetype or a list.
type Option struct {
	Text       string   `json:"text" yaml:"text"`
	Archetype  string   `json:"archetype,omitempty" yaml:"archetype,omitempty"`
	Archetypes []string `json:"archetypes,omitempty" yaml:"archetypes,omitempty"`
}

// BinaryPair is one either/or choice of a binary question.
type BinaryPair struct {
	OptionA Option `json:"optionA" yaml:"optionA"`
	OptionB Option `json:"optionB" yaml:"optionB"`
}

// Scale bounds the ratings of a dynamic matrix question.
type Scale struct {
	Min      float64 `json:"min" yaml:"min"`
	Max      float64 `json:"max" yaml:"max"`
	MinLabel string  `json:"minLabel,omitempty" yaml:"minLabel,omitempty"`
	MaxLabel string  `json:"maxLabel,omitempty" yaml:"maxLabel,omitempty"`
}

// QuestionScoring carries the per-question point values. Their meaning depends on the question type.
type QuestionScoring struct {
	PointsPerSelection *float64 `json:"pointsPerSelection,omitempty" yaml:"pointsPerSelection,omitempty"`
	PointsPerArchetype *float64 `json:"pointsPerArchetype,omitempty" yaml:"pointsPerArchetype,omitempty"`
}

// Question is a single quiz step.
type Question struct {
	ID                 string          `json:"id" yaml:"id"`
	Text               string          `json:"text" yaml:"text"`
	Type               QuestionType    `json:"type" yaml:"type"`
	Instructions       string          `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Scoring            QuestionScoring `json:"scoring" yaml:"scoring"`
	Options            []Option        `json:"options,omitempty" yaml:"options,omitempty"`
	Pairs              []BinaryPair    `json:"pairs,omitempty" yaml:"pairs,omitempty"`
	RequiredSelections int             `json:"requiredSelections,omitempty" yaml:"requiredSelections,omitempty"`
	DisplayCount       int             `json:"displayCount,omitempty" yaml:"displayCount,omitempty"`
	Scale              *Scale          `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// OptionByText finds an option by its label.
func (q Question) OptionByText(text string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.Text == text {
			return opt, true
		}
	}
	return Option{}, false
}

// OptionAt returns the option at index i, if any.
func (q Question) OptionAt(i int) (Option, bool) {
	if i < 0 || i >= len(q.Options) {
		return Option{}, false
	}
	return q.Options[i], true
}

// Thresholds are the global selection parameters. Nil fields take their defaults.
type Thresholds struct {
	MinThreshold         *float64 `json:"minThreshold,omitempty" yaml:"minThreshold,omitempty"`
	SingleDominanceRatio *float64 `json:"singleDominanceRatio,omitempty" yaml:"singleDominanceRatio,omitempty"`
	DualInclusionRatio   *float64 `json:"dualInclusionRatio,omitempty" yaml:"dualInclusionRatio,omitempty"`
	TripleInclusionRatio *float64 `json:"tripleInclusionRatio,omitempty" yaml:"tripleInclusionRatio,omitempty"`
}

// ScoringConfig groups the quiz-wide scoring parameters.
type ScoringConfig struct {
	Thresholds       Thresholds `json:"thresholds" yaml:"thresholds"`
	RankCeiling      *int       `json:"rankCeiling,omitempty" yaml:"rankCeiling,omitempty"`
	BinaryPairPoints *float64   `json:"binaryPairPoints,omitempty" yaml:"binaryPairPoints,omitempty"`
}

// Strength labels a reported archetype by rank.
type Strength string

const (
	Dominant  Strength = "dominant"
	Primary   Strength = "primary"
	Secondary Strength = "secondary"
	Tertiary  Strength = "tertiary"
)

// Result is one entry of a scored quiz.
type Result struct {
	Archetype  string   `json:"archetype"`
	Percentage int      `json:"percentage"`
	Strength   Strength `json:"strength"`
}

// Float is a helper for building optional numeric fields.
func Float(v float64) *float64 { return &v }

// Int is a helper for building optional integer fields.
func Int(v int) *int { return &v }
