// Package catalog ships the built-in brand archetype quiz.
package catalog

import (
	_ "embed"
	"fmt"

	"archetype-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

// DefaultQuizID identifies the built-in quiz.
const DefaultQuizID = "brand-archetypes"

//go:embed brand-archetypes.yaml
var brandArchetypesYAML []byte

// Default decodes the built-in quiz definition.
func Default() (domain.Definition, error) {
	var def domain.Definition
	if err := yaml.Unmarshal(brandArchetypesYAML, &def); err != nil {
		return domain.Definition{}, fmt.Errorf("decode built-in definition: %w", err)
	}
	return def, nil
}

// Definitions returns the built-in quizzes keyed by id.
func Definitions() (map[string]domain.Definition, error) {
	def, err := Default()
	if err != nil {
		return nil, err
	}
	return map[string]domain.Definition{def.ID: def}, nil
}
