package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/kristenlee3553/my-trivia/internal/domain"
)

// GameLoader fetches authored game content from a backing store (e.g., Postgres).
type GameLoader interface {
	LoadGame(ctx context.Context, gameID string) (domain.GameAuthor, error)
}

// GameRepository caches authored games as JSON in Redis
// (SET game:{gameID} {json}) and falls back to a loader on cache miss.
type GameRepository struct {
	client *redis.Client
	loader GameLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewGameRepository(client *redis.Client, loader GameLoader, ttl time.Duration) *GameRepository {
	return &GameRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *GameRepository) GetGame(ctx context.Context, gameID string) (domain.GameAuthor, error) {
	key := r.key(gameID)

	if game, ok := r.fromCache(ctx, key); ok {
		return game, nil
	}

	result, err, _ := r.sf.Do(gameID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if game, ok := r.fromCache(ctx, key); ok {
			return game, nil
		}

		game, err := r.loader.LoadGame(ctx, gameID)
		if err != nil {
			return domain.GameAuthor{}, err
		}

		payload, err := json.Marshal(game)
		if err != nil {
			return domain.GameAuthor{}, err
		}
		_ = r.client.Set(ctx, key, payload, r.ttlWithJitter()).Err()

		return game, nil
	})
	if err != nil {
		return domain.GameAuthor{}, err
	}
	return result.(domain.GameAuthor), nil
}

func (r *GameRepository) fromCache(ctx context.Context, key string) (domain.GameAuthor, bool) {
	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		return domain.GameAuthor{}, false
	}
	var game domain.GameAuthor
	if err := json.Unmarshal(payload, &game); err != nil {
		// A corrupt cache entry falls through to the loader.
		return domain.GameAuthor{}, false
	}
	return game, true
}

func (r *GameRepository) key(gameID string) string {
	return "game:" + gameID
}

func (r *GameRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
