package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kristenlee3553/my-trivia/internal/domain"
)

type countingLoader struct {
	calls int
	games map[string]domain.GameAuthor
}

func (l *countingLoader) LoadGame(_ context.Context, gameID string) (domain.GameAuthor, error) {
	l.calls++
	game, ok := l.games[gameID]
	if !ok {
		return domain.GameAuthor{}, domain.ErrGameNotFound
	}
	return game, nil
}

func TestGameRepositoryCachesLoads(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loader := &countingLoader{games: map[string]domain.GameAuthor{
		"g1": {
			Name: "capitals",
			Questions: []domain.QuestionAuthor{{
				Display: domain.Display{Type: domain.DisplayText, PromptText: "Capital of France?"},
				Answer:  &domain.SingleSpec{Options: []string{"Paris", "Lyon"}, Correct: "Paris"},
			}},
		},
	}}
	repo := NewGameRepository(client, loader, time.Minute)

	ctx := context.Background()
	first, err := repo.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("first get: %v", err)
	}
	second, err := repo.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("second get: %v", err)
	}

	if loader.calls != 1 {
		t.Fatalf("expected one loader call, got %d", loader.calls)
	}
	if first.Name != second.Name || len(second.Questions) != 1 {
		t.Fatalf("cached game differs from loaded game")
	}
	if _, ok := second.Questions[0].Answer.(*domain.SingleSpec); !ok {
		t.Fatalf("answer spec lost its concrete type through the cache: %T", second.Questions[0].Answer)
	}
	if !mr.Exists("game:g1") {
		t.Fatalf("expected cache key in redis")
	}
}

func TestGameRepositoryPropagatesNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	loader := &countingLoader{games: map[string]domain.GameAuthor{}}
	repo := NewGameRepository(client, loader, time.Minute)

	if _, err := repo.GetGame(context.Background(), "missing"); err != domain.ErrGameNotFound {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
}
