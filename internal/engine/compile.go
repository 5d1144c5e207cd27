// Package engine is the pure scoring and answer-evaluation core: compiling
// authored games into runtime games, grading submitted answers, converting
// accuracy into points, and folding question outcomes into player stats. It
// performs no I/O and holds no state; lobby orchestration lives in the app
// package.
package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kristenlee3553/my-trivia/internal/domain"
)

// DefaultTimeLimitSec is the engine-level time limit used when neither the
// question nor the game supplies one.
const DefaultTimeLimitSec = 30

// Compile resolves an authored game into a runtime game: every question gets
// a generated id, a resolved time limit and double-points flag, and an empty
// player-answer map. Validation failures are fatal to the authoring attempt.
func Compile(g domain.GameAuthor) (domain.GameRuntime, error) {
	if len(g.Questions) == 0 {
		return domain.GameRuntime{}, fmt.Errorf("%w: game %q has no questions", domain.ErrInvalidGame, g.Name)
	}
	if g.DefaultTimeLimit < 0 {
		return domain.GameRuntime{}, fmt.Errorf("%w: negative default time limit", domain.ErrInvalidGame)
	}

	out := domain.GameRuntime{
		Name:             g.Name,
		DefaultTimeLimit: g.DefaultTimeLimit,
		Questions:        make([]domain.QuestionRuntime, 0, len(g.Questions)),
	}
	for i, q := range g.Questions {
		if q.Answer == nil {
			return domain.GameRuntime{}, fmt.Errorf("%w: question %d has no answer spec", domain.ErrInvalidGame, i+1)
		}
		if err := q.Answer.Validate(); err != nil {
			return domain.GameRuntime{}, fmt.Errorf("question %d: %w", i+1, err)
		}
		if q.TimeLimit < 0 {
			return domain.GameRuntime{}, fmt.Errorf("%w: question %d has a negative time limit", domain.ErrInvalidGame, i+1)
		}
		out.Questions = append(out.Questions, domain.QuestionRuntime{
			ID:                   uuid.NewString(),
			Display:              q.Display,
			Answer:               q.Answer,
			TimeLimit:            ResolveTimeLimit(q.TimeLimit, g.DefaultTimeLimit),
			DoublePoints:         q.DoublePoints,
			CorrectAnswerDisplay: q.CorrectAnswerDisplay,
			PlayerAnswers:        make(map[string]domain.PlayerAnswer),
		})
	}
	return out, nil
}

// ResolveTimeLimit is the single fallback policy for time limits:
// question value, then game default, then the engine default.
func ResolveTimeLimit(question, gameDefault int) int {
	if question > 0 {
		return question
	}
	if gameDefault > 0 {
		return gameDefault
	}
	return DefaultTimeLimitSec
}
