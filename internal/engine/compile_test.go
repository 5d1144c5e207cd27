package engine_test

import (
	"errors"
	"testing"

	"github.com/kristenlee3553/my-trivia/internal/domain"
	"github.com/kristenlee3553/my-trivia/internal/engine"
)

func authoredGame() domain.GameAuthor {
	return domain.GameAuthor{
		Name:             "intro",
		DefaultTimeLimit: 20,
		Questions: []domain.QuestionAuthor{
			{
				Display: domain.Display{Type: domain.DisplayText, PromptText: "Capital of France?"},
				Answer:  &domain.SingleSpec{Options: []string{"Paris", "Rome"}, Correct: "Paris"},
			},
			{
				Display:   domain.Display{Type: domain.DisplayText, PromptText: "Pick the primes"},
				Answer:    &domain.MultiSpec{Options: []string{"2", "3", "4"}, Correct: []string{"2", "3"}},
				TimeLimit: 45,
			},
			{
				Display:      domain.Display{Type: domain.DisplayText, PromptText: "Draw a cat"},
				Answer:       &domain.DrawSpec{},
				DoublePoints: true,
			},
		},
	}
}

func TestCompileResolvesQuestions(t *testing.T) {
	runtime, err := engine.Compile(authoredGame())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(runtime.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(runtime.Questions))
	}

	seen := map[string]bool{}
	for i, q := range runtime.Questions {
		if q.ID == "" {
			t.Fatalf("question %d has no id", i)
		}
		if seen[q.ID] {
			t.Fatalf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = true
		if q.PlayerAnswers == nil || len(q.PlayerAnswers) != 0 {
			t.Fatalf("question %d should start with an empty answer map", i)
		}
	}

	// Question limit beats game default; game default fills the gap.
	if runtime.Questions[0].TimeLimit != 20 {
		t.Fatalf("question 0 time limit = %d, want game default 20", runtime.Questions[0].TimeLimit)
	}
	if runtime.Questions[1].TimeLimit != 45 {
		t.Fatalf("question 1 time limit = %d, want own 45", runtime.Questions[1].TimeLimit)
	}
	if !runtime.Questions[2].DoublePoints {
		t.Fatalf("question 2 should keep its double points flag")
	}
}

func TestCompileFallsBackToEngineDefault(t *testing.T) {
	g := domain.GameAuthor{
		Name: "bare",
		Questions: []domain.QuestionAuthor{{
			Display: domain.Display{Type: domain.DisplayText, PromptText: "?"},
			Answer:  &domain.SingleSpec{Options: []string{"x", "y"}, Correct: "x"},
		}},
	}
	runtime, err := engine.Compile(g)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if runtime.Questions[0].TimeLimit != engine.DefaultTimeLimitSec {
		t.Fatalf("time limit = %d, want engine default %d", runtime.Questions[0].TimeLimit, engine.DefaultTimeLimitSec)
	}
}

func TestCompileValidation(t *testing.T) {
	cases := []struct {
		name string
		game domain.GameAuthor
	}{
		{
			name: "no questions",
			game: domain.GameAuthor{Name: "empty"},
		},
		{
			name: "missing answer spec",
			game: domain.GameAuthor{Name: "g", Questions: []domain.QuestionAuthor{{
				Display: domain.Display{Type: domain.DisplayText},
			}}},
		},
		{
			name: "single correct answer not an option",
			game: domain.GameAuthor{Name: "g", Questions: []domain.QuestionAuthor{{
				Display: domain.Display{Type: domain.DisplayText},
				Answer:  &domain.SingleSpec{Options: []string{"a", "b"}, Correct: "c"},
			}}},
		},
		{
			name: "matching cardinality mismatch",
			game: domain.GameAuthor{Name: "g", Questions: []domain.QuestionAuthor{{
				Display: domain.Display{Type: domain.DisplayText},
				Answer: &domain.MatchingSpec{
					Left:    []string{"Cat", "Dog"},
					Right:   []string{"Meow"},
					Correct: map[string]string{"Cat": "Meow", "Dog": "Woof"},
				},
			}}},
		},
		{
			name: "ranking order shorter than options",
			game: domain.GameAuthor{Name: "g", Questions: []domain.QuestionAuthor{{
				Display: domain.Display{Type: domain.DisplayText},
				Answer:  &domain.RankingSpec{Options: []string{"a", "b", "c"}, Correct: []string{"a", "b"}},
			}}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := engine.Compile(tc.game); !errors.Is(err, domain.ErrInvalidGame) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
