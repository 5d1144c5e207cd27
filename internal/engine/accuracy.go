package engine

import (
	"fmt"
	"strings"

	"github.com/kristenlee3553/my-trivia/internal/domain"
)

// Accuracy grades a submitted answer against a question's answer spec and
// returns a value in [0,1]. The switch is exhaustive over the spec union; a
// submitted value of the wrong concrete type fails fast with ErrAnswerShape
// instead of silently miscomputing.
func Accuracy(spec domain.AnswerSpec, submitted domain.Answer) (float64, error) {
	switch s := spec.(type) {
	case *domain.SingleSpec:
		a, ok := submitted.(domain.SingleAnswer)
		if !ok {
			return 0, shapeError(spec, submitted)
		}
		return singleAccuracy(s, a), nil
	case *domain.MultiSpec:
		a, ok := submitted.(domain.MultiAnswer)
		if !ok {
			return 0, shapeError(spec, submitted)
		}
		return multiAccuracy(s, a), nil
	case *domain.MatchingSpec:
		a, ok := submitted.(domain.MatchingAnswer)
		if !ok {
			return 0, shapeError(spec, submitted)
		}
		return matchingAccuracy(s, a), nil
	case *domain.RankingSpec:
		a, ok := submitted.(domain.RankingAnswer)
		if !ok {
			return 0, shapeError(spec, submitted)
		}
		return rankingAccuracy(s, a), nil
	case *domain.DrawSpec:
		if _, ok := submitted.(domain.DrawAnswer); !ok {
			return 0, shapeError(spec, submitted)
		}
		// Graded by the host afterwards; full marks as the placeholder.
		return 1, nil
	case *domain.ShortAnswerSpec:
		if _, ok := submitted.(domain.ShortTextAnswer); !ok {
			return 0, shapeError(spec, submitted)
		}
		return 1, nil
	}
	return 0, fmt.Errorf("%w: unhandled answer spec %T", domain.ErrAnswerShape, spec)
}

// AccuracyForPlayer grades the answer a player recorded on a question, or 0
// if the player never submitted.
func AccuracyForPlayer(q domain.QuestionRuntime, uid string) (float64, error) {
	pa, ok := q.PlayerAnswers[uid]
	if !ok || pa.Answer == nil {
		return 0, nil
	}
	return Accuracy(q.Answer, pa.Answer)
}

func singleAccuracy(s *domain.SingleSpec, a domain.SingleAnswer) float64 {
	submitted := strings.ToLower(strings.TrimSpace(string(a)))
	correct := strings.ToLower(strings.TrimSpace(s.Correct))
	if submitted == correct {
		return 1
	}
	return 0
}

// multiAccuracy rewards correct picks and penalizes wrong picks
// symmetrically: (hits - misses) / |correct|, clamped at zero. Selecting
// every option therefore scores worse than selecting only correct ones.
func multiAccuracy(s *domain.MultiSpec, a domain.MultiAnswer) float64 {
	correct := make(map[string]struct{}, len(s.Correct))
	for _, c := range s.Correct {
		correct[c] = struct{}{}
	}
	hits, misses := 0, 0
	for _, choice := range a {
		if _, ok := correct[choice]; ok {
			hits++
		} else {
			misses++
		}
	}
	score := float64(hits-misses) / float64(len(s.Correct))
	if score < 0 {
		return 0
	}
	return score
}

func matchingAccuracy(s *domain.MatchingSpec, a domain.MatchingAnswer) float64 {
	matches := 0
	for left, right := range s.Correct {
		if a[left] == right {
			matches++
		}
	}
	return float64(matches) / float64(len(s.Correct))
}

// rankingAccuracy is purely positional: credit only for items in exactly the
// right slot, no credit for near misses.
func rankingAccuracy(s *domain.RankingSpec, a domain.RankingAnswer) float64 {
	hits := 0
	for i, want := range s.Correct {
		if i < len(a) && a[i] == want {
			hits++
		}
	}
	return float64(hits) / float64(len(s.Correct))
}

func shapeError(spec domain.AnswerSpec, submitted domain.Answer) error {
	got := "nil"
	if submitted != nil {
		got = string(submitted.AnswerType())
	}
	return fmt.Errorf("%w: question is %s, got %s", domain.ErrAnswerShape, spec.AnswerType(), got)
}
