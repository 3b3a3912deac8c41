package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestDefinitionRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)

	loader := &countingLoader{
		DefinitionLoader: memory.NewStaticLoader(map[string]domain.Definition{
			"brand": sampleDefinition(),
		}),
	}
	repo := NewDefinitionRepository(client, loader, time.Minute)

	def, err := repo.GetDefinition(context.Background(), "brand")
	if err != nil {
		t.Fatalf("get definition: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("quiz:brand:definition") {
		t.Fatalf("expected definition cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	cached, err := repo.GetDefinition(context.Background(), "brand")
	if err != nil {
		t.Fatalf("get cached definition: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if cached.Questions[0].Scoring.PointsPerSelection == nil || *cached.Questions[0].Scoring.PointsPerSelection != 5 {
		t.Fatalf("scoring parameters lost in cache round trip: %+v", cached.Questions[0].Scoring)
	}
	if len(cached.Archetypes) != len(def.Archetypes) {
		t.Fatalf("expected %d archetypes, got %d", len(def.Archetypes), len(cached.Archetypes))
	}

	if err := repo.Invalidate(context.Background(), "brand"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = repo.GetDefinition(context.Background(), "brand")
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidation, loader calls=%d", loader.calls)
	}
}

func TestDefinitionRepositoryExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	loader := &countingLoader{
		DefinitionLoader: memory.NewStaticLoader(map[string]domain.Definition{
			"brand": sampleDefinition(),
		}),
	}
	repo := NewDefinitionRepository(newClient(mr), loader, time.Minute)

	_, _ = repo.GetDefinition(context.Background(), "brand")
	mr.FastForward(2 * time.Minute)
	_, _ = repo.GetDefinition(context.Background(), "brand")
	if loader.calls != 2 {
		t.Fatalf("expected reload after expiry, loader calls=%d", loader.calls)
	}
}

func TestDefinitionRepositoryMiss(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	repo := NewDefinitionRepository(newClient(mr), memory.NewStaticLoader(nil), time.Minute)
	if _, err := repo.GetDefinition(context.Background(), "missing"); !errors.Is(err, domain.ErrDefinitionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if mr.Exists("quiz:missing:definition") {
		t.Fatalf("misses must not be cached")
	}
}

type countingLoader struct {
	memory.DefinitionLoader
	calls int
}

func (l *countingLoader) LoadDefinition(ctx context.Context, quizID string) (domain.Definition, error) {
	l.calls++
	return l.DefinitionLoader.LoadDefinition(ctx, quizID)
}

func sampleDefinition() domain.Definition {
	return domain.Definition{
		ID:         "brand",
		Archetypes: []domain.Archetype{{ID: "hero", Name: "The Hero"}, {ID: "sage", Name: "The Sage"}},
		Questions: []domain.Question{
			{
				ID:      "q1",
				Type:    domain.MultiSelect,
				Scoring: domain.QuestionScoring{PointsPerSelection: domain.Float(5)},
				Options: []domain.Option{
					{Text: "Courage", Archetype: "hero"},
					{Text: "Wisdom", Archetype: "sage"},
				},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
