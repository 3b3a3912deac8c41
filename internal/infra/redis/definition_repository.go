package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"archetype-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DefinitionLoader fetches quiz definitions from a backing store (files, Postgres).
type DefinitionLoader interface {
	LoadDefinition(ctx context.Context, quizID string) (domain.Definition, error)
}

// DefinitionRepository caches definitions in Redis and falls back to a loader on cache miss.
// Definitions are stored as JSON: SET quiz:{quizID}:definition {json} EX {ttl}
type DefinitionRepository struct {
	client *redis.Client
	loader DefinitionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex
}

func NewDefinitionRepository(client *redis.Client, loader DefinitionLoader, ttl time.Duration) *DefinitionRepository {
	return &DefinitionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *DefinitionRepository) GetDefinition(ctx context.Context, quizID string) (domain.Definition, error) {
	key := r.definitionKey(quizID)
	if def, ok := r.fromCache(ctx, key); ok {
		return def, nil
	}

	result, err, _ := r.sf.Do(quizID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if def, ok := r.fromCache(ctx, key); ok {
			return def, nil
		}

		def, err := r.loader.LoadDefinition(ctx, quizID)
		if err != nil {
			return domain.Definition{}, err
		}

		data, err := json.Marshal(def)
		if err != nil {
			return domain.Definition{}, err
		}
		if err := r.client.Set(ctx, key, data, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("cache definition %s: %v", quizID, err)
		}
		return def, nil
	})
	if err != nil {
		return domain.Definition{}, err
	}
	return result.(domain.Definition), nil
}

// Invalidate drops the cached definition so the next read reloads it.
func (r *DefinitionRepository) Invalidate(ctx context.Context, quizID string) error {
	return r.client.Del(ctx, r.definitionKey(quizID)).Err()
}

func (r *DefinitionRepository) fromCache(ctx context.Context, key string) (domain.Definition, bool) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil || len(data) == 0 {
		return domain.Definition{}, false
	}
	var def domain.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		log.Printf("discard cached definition %s: %v", key, err)
		return domain.Definition{}, false
	}
	return def, true
}

func (r *DefinitionRepository) definitionKey(quizID string) string {
	return "quiz:" + quizID + ":definition"
}

func (r *DefinitionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
