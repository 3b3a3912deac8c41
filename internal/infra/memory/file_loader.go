package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"archetype-quiz-service/internal/domain"
	"gopkg.in/yaml.v3"
)

var definitionExtensions = []string{".yaml", ".yml", ".json"}

// FileLoader reads definitions from {dir}/{quizID}.yaml|.yml|.json.
type FileLoader struct {
	dir string
}

func NewFileLoader(dir string) *FileLoader {
	return &FileLoader{dir: dir}
}

func (l *FileLoader) LoadDefinition(_ context.Context, quizID string) (domain.Definition, error) {
	if quizID == "" || quizID != filepath.Base(quizID) {
		return domain.Definition{}, domain.ErrDefinitionNotFound
	}
	for _, ext := range definitionExtensions {
		def, err := ReadDefinitionFile(filepath.Join(l.dir, quizID+ext))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Definition{}, err
		}
		if def.ID == "" {
			def.ID = quizID
		}
		return def, nil
	}
	return domain.Definition{}, domain.ErrDefinitionNotFound
}

// ReadDefinitionFile decodes a YAML or JSON definition file.
func ReadDefinitionFile(path string) (domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Definition{}, err
	}
	var def domain.Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return domain.Definition{}, fmt.Errorf("decode definition %s: %w", path, err)
	}
	return def, nil
}
