package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"archetype-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// DefinitionLoader loads quiz definition JSONB from Postgres.
type DefinitionLoader struct {
	pool *pgxpool.Pool
}

func NewDefinitionLoader(pool *pgxpool.Pool) *DefinitionLoader {
	return &DefinitionLoader{pool: pool}
}

func (l *DefinitionLoader) LoadDefinition(ctx context.Context, quizID string) (domain.Definition, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quiz_definitions WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Definition{}, fmt.Errorf("load definition %s: %w", quizID, domain.ErrDefinitionNotFound)
	}
	if err != nil {
		return domain.Definition{}, fmt.Errorf("load definition: %w", err)
	}
	var def domain.Definition
	if err := json.Unmarshal(raw, &def); err != nil {
		return domain.Definition{}, fmt.Errorf("unmarshal definition: %w", err)
	}
	if def.ID == "" {
		def.ID = quizID
	}
	return def, nil
}

// SaveDefinition upserts a definition, keyed by its id.
func (l *DefinitionLoader) SaveDefinition(ctx context.Context, def domain.Definition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("marshal definition: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO quiz_definitions (id, data) VALUES ($1, $2::jsonb)
		 ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		def.ID, string(data))
	if err != nil {
		return fmt.Errorf("save definition %s: %w", def.ID, err)
	}
	return nil
}
