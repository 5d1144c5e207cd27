package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kristenlee3553/my-trivia/internal/domain"
)

func TestGameRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		GameLoader: NewStaticGameLoader(map[string]domain.GameAuthor{
			"intro": sampleGame(),
		}),
	}
	repo := NewGameRepository(loader, time.Minute)

	if _, err := repo.GetGame(context.Background(), "intro"); err != nil {
		t.Fatalf("get game: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetGame(context.Background(), "intro"); err != nil {
		t.Fatalf("get game 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestGameRepositoryUnknownGame(t *testing.T) {
	repo := NewGameRepository(NewStaticGameLoader(nil), time.Minute)
	if _, err := repo.GetGame(context.Background(), "nope"); !errors.Is(err, domain.ErrGameNotFound) {
		t.Fatalf("expected game-not-found, got %v", err)
	}
}

type countingLoader struct {
	GameLoader
	calls int
}

func (l *countingLoader) LoadGame(ctx context.Context, gameID string) (domain.GameAuthor, error) {
	l.calls++
	return l.GameLoader.LoadGame(ctx, gameID)
}

func sampleGame() domain.GameAuthor {
	return domain.GameAuthor{
		Name: "intro",
		Questions: []domain.QuestionAuthor{
			{
				Display: domain.Display{Type: domain.DisplayText, PromptText: "What is 2 + 2?"},
				Answer:  &domain.SingleSpec{Options: []string{"3", "4", "5"}, Correct: "4"},
			},
		},
	}
}
