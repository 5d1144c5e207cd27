package engine

import "github.com/kristenlee3553/my-trivia/internal/domain"

// correctThreshold is the accuracy at or above which a question counts as
// answered correctly for streak and stat purposes.
const correctThreshold = 0.5

// QuestionCorrect reports whether an accuracy counts as a correct answer.
func QuestionCorrect(accuracy float64) bool {
	return accuracy >= correctThreshold
}

// UpdatedPlayer folds a completed question's outcome into a player's
// cumulative stats and returns the new player record. A player with no
// recorded answer is returned unchanged. Pure and non-mutating; the caller
// owns the exactly-once-per-question guarantee, since a second fold would
// double-count the score.
func UpdatedPlayer(q domain.QuestionRuntime, p domain.Player) domain.Player {
	answer, ok := q.PlayerAnswers[p.UID]
	if !ok {
		return p
	}

	p.Score += answer.ScoreEarned
	p.NumAnswered++
	if QuestionCorrect(answer.Accuracy) {
		p.Streak++
		p.NumCorrect++
	} else {
		p.Streak = 0
	}
	return p
}
