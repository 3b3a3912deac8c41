package domain

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// AnswerValue is the type-specific payload of an Answer. The set of
// implementations is closed: Ranking, BinaryChoices, Choice, Selections,
// Ratings and Unknown.
type AnswerValue interface {
	answerValue()
}

// Ranking is the rankWithCutoff answer. Only AboveTheLine is ordered and scored.
type Ranking struct {
	AboveTheLine []string `json:"aboveTheLine" yaml:"aboveTheLine"`
	BelowTheLine []string `json:"belowTheLine" yaml:"belowTheLine"`
}

// Side picks one half of a binary pair.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// BinaryChoices maps a pair index to the chosen side.
type BinaryChoices map[int]Side

// Choice is the selected option index of a singleChoice question.
type Choice int

// Selections are the selected option indices of a multiSelect or negativeSelect question.
type Selections []int

// Ratings maps an option label to its rating on a dynamicMatrix question.
type Ratings map[string]float64

// Unknown holds the value of an answer whose type tag is not recognised.
type Unknown struct {
	Raw any
}

func (Ranking) answerValue()       {}
func (BinaryChoices) answerValue() {}
func (Choice) answerValue()        {}
func (Selections) answerValue()    {}
func (Ratings) answerValue()       {}
func (Unknown) answerValue()       {}

// MarshalJSON writes the raw value back out unchanged.
func (u Unknown) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Raw)
}

// Answer pairs a question with the respondent's value for it.
type Answer struct {
	QuestionID string       `json:"questionId"`
	Type       QuestionType `json:"type"`
	Value      AnswerValue  `json:"value"`
}

// newValue returns a pointer to the zero value matching t.
func newValue(t QuestionType) any {
	switch t {
	case RankWithCutoff:
		return &Ranking{}
	case Binary:
		return &BinaryChoices{}
	case SingleChoice:
		var c Choice
		return &c
	case MultiSelect, NegativeSelect:
		return &Selections{}
	case DynamicMatrix:
		return &Ratings{}
	}
	var raw any
	return &raw
}

func derefValue(t QuestionType, v any) AnswerValue {
	switch val := v.(type) {
	case *Ranking:
		return *val
	case *BinaryChoices:
		return *val
	case *Choice:
		return *val
	case *Selections:
		return *val
	case *Ratings:
		return *val
	case *any:
		return Unknown{Raw: *val}
	}
	return Unknown{Raw: v}
}

// UnmarshalJSON decodes the value according to the answer's type tag.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var wire struct {
		QuestionID string          `json:"questionId"`
		Type       QuestionType    `json:"type"`
		Value      json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	a.QuestionID = wire.QuestionID
	a.Type = wire.Type
	a.Value = nil
	if len(wire.Value) == 0 || string(wire.Value) == "null" {
		return nil
	}
	target := newValue(wire.Type)
	if err := json.Unmarshal(wire.Value, target); err != nil {
		return fmt.Errorf("answer %s: decode %s value: %w", wire.QuestionID, wire.Type, err)
	}
	a.Value = derefValue(wire.Type, target)
	return nil
}

// UnmarshalYAML decodes the value according to the answer's type tag.
func (a *Answer) UnmarshalYAML(node *yaml.Node) error {
	var wire struct {
		QuestionID string       `yaml:"questionId"`
		Type       QuestionType `yaml:"type"`
		Value      yaml.Node    `yaml:"value"`
	}
	if err := node.Decode(&wire); err != nil {
		return err
	}
	a.QuestionID = wire.QuestionID
	a.Type = wire.Type
	a.Value = nil
	if wire.Value.Kind == 0 || wire.Value.Tag == "!!null" {
		return nil
	}
	target := newValue(wire.Type)
	if err := wire.Value.Decode(target); err != nil {
		return fmt.Errorf("answer %s: decode %s value: %w", wire.QuestionID, wire.Type, err)
	}
	a.Value = derefValue(wire.Type, target)
	return nil
}

// Upsert returns answers with a replacing any existing answer for the same
// question, preserving the original position. The input slice is not modified.
func Upsert(answers []Answer, a Answer) []Answer {
	out := make([]Answer, len(answers), len(answers)+1)
	copy(out, answers)
	for i := range out {
		if out[i].QuestionID == a.QuestionID {
			out[i] = a
			return out
		}
	}
	return append(out, a)
}
