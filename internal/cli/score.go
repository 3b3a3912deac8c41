package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/catalog"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/infra/memory"
	"archetype-quiz-service/internal/scoring"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const barWidth = 20

// NewScoreCmd scores an answers file offline.
func NewScoreCmd() *cobra.Command {
	var definitionPath, answersPath string
	var share bool
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score an answers file against a quiz definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition(definitionPath)
			if err != nil {
				return err
			}
			answers, err := readAnswersFile(answersPath)
			if err != nil {
				return err
			}
			scorer, err := scoring.New(def, scoring.WithLogger(log.New(cmd.ErrOrStderr(), "score: ", 0)))
			if err != nil {
				return err
			}
			results := scorer.Score(answers)
			renderResults(cmd.OutOrStdout(), def, results)
			if share {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), app.ShareText(def, results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&definitionPath, "definition", "", "definition file (YAML or JSON); built-in quiz when empty")
	cmd.Flags().StringVar(&answersPath, "answers", "", "answers file (YAML or JSON list of answers)")
	cmd.Flags().BoolVar(&share, "share", false, "also print the shareable summary")
	_ = cmd.MarkFlagRequired("answers")
	return cmd
}

func loadDefinition(path string) (domain.Definition, error) {
	if path == "" {
		return catalog.Default()
	}
	return memory.ReadDefinitionFile(path)
}

func readAnswersFile(path string) ([]domain.Answer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var answers []domain.Answer
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("decode answers %s: %w", path, err)
	}
	return answers, nil
}

func renderResults(w io.Writer, def domain.Definition, results []domain.Result) {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	views := app.Views(def, results)
	if len(views) == 0 {
		fmt.Fprintln(w, dim.Render("Result undetermined: no archetype reached the minimum threshold."))
		return
	}

	bold := lipgloss.NewStyle().Bold(true)
	nameWidth := 0
	for _, v := range views {
		nameWidth = max(nameWidth, lipgloss.Width(v.Name))
	}

	fmt.Fprintln(w, bold.Render(def.ID))
	for _, v := range views {
		name := lipgloss.NewStyle().Foreground(lipgloss.Color(v.Color)).Bold(true).Width(nameWidth + 2)
		filled := max(0, min(barWidth, v.Percentage*barWidth/100))
		bar := strings.Repeat("█", filled) + dim.Render(strings.Repeat("░", barWidth-filled))
		fmt.Fprintf(w, "%s %s %3d%%  %s\n", name.Render(v.Name), bar, v.Percentage, dim.Render(string(v.Strength)))
	}
}
