package engine

import (
	"math/rand"

	"github.com/kristenlee3553/my-trivia/internal/domain"
)

// PrepareGame readies a compiled game for a lobby: a Fisher-Yates shuffle of
// question order when requested, and a per-type shuffle of option
// presentation order. Correct answers are content-addressed (values, sets,
// or a left-to-right mapping), so shuffling never touches them; grading a
// prepared question gives the same result as grading the original.
func PrepareGame(g domain.GameRuntime, opts domain.GameOptions, rnd *rand.Rand) domain.GameRuntime {
	out := g
	out.Questions = make([]domain.QuestionRuntime, len(g.Questions))
	copy(out.Questions, g.Questions)

	if opts.ShuffleQuestions {
		rnd.Shuffle(len(out.Questions), func(i, j int) {
			out.Questions[i], out.Questions[j] = out.Questions[j], out.Questions[i]
		})
	}
	if opts.ShuffleAnswers {
		for i := range out.Questions {
			out.Questions[i].Answer = shuffledSpec(out.Questions[i].Answer, rnd)
		}
	}
	return out
}

func shuffledSpec(spec domain.AnswerSpec, rnd *rand.Rand) domain.AnswerSpec {
	switch s := spec.(type) {
	case *domain.SingleSpec:
		c := *s
		c.Options = shuffledStrings(s.Options, rnd)
		return &c
	case *domain.MultiSpec:
		c := *s
		c.Options = shuffledStrings(s.Options, rnd)
		return &c
	case *domain.RankingSpec:
		c := *s
		c.Options = shuffledStrings(s.Options, rnd)
		return &c
	case *domain.MatchingSpec:
		// Left and right columns shuffle independently; the correct mapping
		// pairs values, not positions.
		c := *s
		c.Left = shuffledStrings(s.Left, rnd)
		c.Right = shuffledStrings(s.Right, rnd)
		return &c
	case *domain.DrawSpec, *domain.ShortAnswerSpec:
		// No options to permute.
		return spec
	}
	return spec
}

func shuffledStrings(xs []string, rnd *rand.Rand) []string {
	out := make([]string, len(xs))
	copy(out, xs)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
