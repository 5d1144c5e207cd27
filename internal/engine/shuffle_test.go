package engine_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/kristenlee3553/my-trivia/internal/domain"
	"github.com/kristenlee3553/my-trivia/internal/engine"
)

func shuffleFixture(t *testing.T) domain.GameRuntime {
	t.Helper()
	runtime, err := engine.Compile(domain.GameAuthor{
		Name: "shuffle-me",
		Questions: []domain.QuestionAuthor{
			{
				Display: domain.Display{Type: domain.DisplayText, PromptText: "single"},
				Answer:  &domain.SingleSpec{Options: []string{"a", "b", "c", "d"}, Correct: "b"},
			},
			{
				Display: domain.Display{Type: domain.DisplayText, PromptText: "multi"},
				Answer:  &domain.MultiSpec{Options: []string{"a", "b", "c", "d"}, Correct: []string{"a", "d"}},
			},
			{
				Display: domain.Display{Type: domain.DisplayText, PromptText: "matching"},
				Answer: &domain.MatchingSpec{
					Left:    []string{"Cat", "Dog", "Cow"},
					Right:   []string{"Meow", "Woof", "Moo"},
					Correct: map[string]string{"Cat": "Meow", "Dog": "Woof", "Cow": "Moo"},
				},
			},
			{
				Display: domain.Display{Type: domain.DisplayText, PromptText: "ranking"},
				Answer:  &domain.RankingSpec{Options: []string{"1", "2", "3"}, Correct: []string{"1", "2", "3"}},
			},
			{
				Display: domain.Display{Type: domain.DisplayText, PromptText: "short"},
				Answer:  &domain.ShortAnswerSpec{Expected: "anything"},
			},
		},
	})
	if err != nil {
		t.Fatalf("compile fixture: %v", err)
	}
	return runtime
}

func TestPrepareGameShufflesQuestionOrder(t *testing.T) {
	g := shuffleFixture(t)
	rnd := rand.New(rand.NewSource(7))

	prepared := engine.PrepareGame(g, domain.GameOptions{ShuffleQuestions: true}, rnd)
	if len(prepared.Questions) != len(g.Questions) {
		t.Fatalf("question count changed: %d != %d", len(prepared.Questions), len(g.Questions))
	}

	var originalIDs, shuffledIDs []string
	for i := range g.Questions {
		originalIDs = append(originalIDs, g.Questions[i].ID)
		shuffledIDs = append(shuffledIDs, prepared.Questions[i].ID)
	}
	sort.Strings(originalIDs)
	sorted := append([]string(nil), shuffledIDs...)
	sort.Strings(sorted)
	for i := range originalIDs {
		if originalIDs[i] != sorted[i] {
			t.Fatalf("shuffle changed the question set: %v vs %v", originalIDs, sorted)
		}
	}
}

func TestPrepareGameDoesNotMutateInput(t *testing.T) {
	g := shuffleFixture(t)
	originalFirst := g.Questions[0].ID
	originalOptions := append([]string(nil), g.Questions[0].Answer.(*domain.SingleSpec).Options...)

	rnd := rand.New(rand.NewSource(3))
	_ = engine.PrepareGame(g, domain.GameOptions{ShuffleQuestions: true, ShuffleAnswers: true}, rnd)

	if g.Questions[0].ID != originalFirst {
		t.Fatalf("input question order mutated")
	}
	got := g.Questions[0].Answer.(*domain.SingleSpec).Options
	for i := range originalOptions {
		if got[i] != originalOptions[i] {
			t.Fatalf("input options mutated: %v", got)
		}
	}
}

// Shuffling is a presentation-only transform: grading the original correct
// answer against a prepared question must give the same accuracy as against
// the unshuffled one.
func TestPrepareGamePreservesGrading(t *testing.T) {
	g := shuffleFixture(t)
	rnd := rand.New(rand.NewSource(99))
	prepared := engine.PrepareGame(g, domain.GameOptions{ShuffleAnswers: true}, rnd)

	submissions := map[string]domain.Answer{
		"single":   domain.SingleAnswer("b"),
		"multi":    domain.MultiAnswer{"a", "d"},
		"matching": domain.MatchingAnswer{"Cat": "Meow", "Dog": "Woof", "Cow": "Moo"},
		"ranking":  domain.RankingAnswer{"1", "2", "3"},
	}

	for i := range g.Questions {
		prompt := g.Questions[i].Display.PromptText
		submitted, ok := submissions[prompt]
		if !ok {
			continue
		}
		before, err := engine.Accuracy(g.Questions[i].Answer, submitted)
		if err != nil {
			t.Fatalf("%s before: %v", prompt, err)
		}
		after, err := engine.Accuracy(prepared.Questions[i].Answer, submitted)
		if err != nil {
			t.Fatalf("%s after: %v", prompt, err)
		}
		if before != after {
			t.Fatalf("%s grading changed after shuffle: %v -> %v", prompt, before, after)
		}
		if before != 1 {
			t.Fatalf("%s expected full accuracy, got %v", prompt, before)
		}
	}
}

func TestPrepareGameShufflesOptionsOnly(t *testing.T) {
	g := shuffleFixture(t)
	rnd := rand.New(rand.NewSource(42))
	prepared := engine.PrepareGame(g, domain.GameOptions{ShuffleAnswers: true}, rnd)

	for i := range prepared.Questions {
		switch before := g.Questions[i].Answer.(type) {
		case *domain.SingleSpec:
			after := prepared.Questions[i].Answer.(*domain.SingleSpec)
			if after.Correct != before.Correct {
				t.Fatalf("single correct answer mutated: %q -> %q", before.Correct, after.Correct)
			}
			assertSameSet(t, before.Options, after.Options)
		case *domain.RankingSpec:
			after := prepared.Questions[i].Answer.(*domain.RankingSpec)
			for j := range before.Correct {
				if after.Correct[j] != before.Correct[j] {
					t.Fatalf("ranking correct order mutated: %v", after.Correct)
				}
			}
			assertSameSet(t, before.Options, after.Options)
		case *domain.MatchingSpec:
			after := prepared.Questions[i].Answer.(*domain.MatchingSpec)
			for k, v := range before.Correct {
				if after.Correct[k] != v {
					t.Fatalf("matching correct mapping mutated for %q", k)
				}
			}
			assertSameSet(t, before.Left, after.Left)
			assertSameSet(t, before.Right, after.Right)
		}
	}
}

func assertSameSet(t *testing.T, a, b []string) {
	t.Helper()
	if len(a) != len(b) {
		t.Fatalf("option sets differ in size: %v vs %v", a, b)
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			t.Fatalf("option sets differ: %v vs %v", a, b)
		}
	}
}
