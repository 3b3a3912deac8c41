package cli

import (
	"context"
	"fmt"
	"log"

	"archetype-quiz-service/internal/catalog"
	"archetype-quiz-service/internal/config"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/infra/memory"
	pgloader "archetype-quiz-service/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedCmd stores quiz definitions in Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var definitionFiles []string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Store quiz definitions in Postgres (built-in quiz when no file is given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, definitionFiles)
		},
	}
	cmd.Flags().StringSliceVar(&definitionFiles, "definition", nil, "definition file (YAML or JSON), repeatable")
	return cmd
}

func runSeed(ctx context.Context, configPath string, files []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	defs, err := seedDefinitions(files)
	if err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	loader := pgloader.NewDefinitionLoader(pool)
	for _, def := range defs {
		if err := loader.SaveDefinition(ctx, def); err != nil {
			return err
		}
		log.Printf("seeded quiz definition %s", def.ID)
	}
	return nil
}

func seedDefinitions(files []string) ([]domain.Definition, error) {
	if len(files) == 0 {
		def, err := catalog.Default()
		if err != nil {
			return nil, err
		}
		return []domain.Definition{def}, nil
	}
	defs := make([]domain.Definition, 0, len(files))
	for _, path := range files {
		def, err := memory.ReadDefinitionFile(path)
		if err != nil {
			return nil, err
		}
		if def.ID == "" {
			return nil, fmt.Errorf("definition %s has no id", path)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("definition %s: %w", path, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}
