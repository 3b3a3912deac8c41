package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// NewValidateCmd reports configuration problems in a quiz definition.
func NewValidateCmd() *cobra.Command {
	var definitionPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a quiz definition for configuration errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := loadDefinition(definitionPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := def.Validate(); err != nil {
				red := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
				for _, problem := range unwrapJoined(err) {
					fmt.Fprintln(out, red.Render("✗ "+problem.Error()))
				}
				return fmt.Errorf("definition %s is invalid", def.ID)
			}
			green := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
			fmt.Fprintln(out, green.Render(fmt.Sprintf("✓ %s: %d archetypes, %d questions", def.ID, len(def.Archetypes), len(def.Questions))))
			return nil
		},
	}
	cmd.Flags().StringVar(&definitionPath, "definition", "", "definition file (YAML or JSON); built-in quiz when empty")
	return cmd
}

func unwrapJoined(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
