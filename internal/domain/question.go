package domain

import (
	"encoding/json"
	"fmt"
)

// DisplayType governs prompt media only; it is orthogonal to AnswerType and
// irrelevant to scoring.
type DisplayType string

const (
	DisplayText  DisplayType = "text"
	DisplayVideo DisplayType = "video"
	DisplayImage DisplayType = "image"
)

// Display is a question prompt: text, a video clip, or an image, each with
// optional prompt text.
type Display struct {
	Type       DisplayType `json:"type"`
	PromptText string      `json:"promptText,omitempty"`
	VideoURL   string      `json:"videoUrl,omitempty"`
	StartTime  float64     `json:"startTime,omitempty"`
	EndTime    float64     `json:"endTime,omitempty"`
	Loop       bool        `json:"loop,omitempty"`
	ImageURL   string      `json:"imageUrl,omitempty"`
}

// QuestionAuthor is a question as written by the game author. TimeLimit and
// DoublePoints may be left unset and inherit the game-level defaults when
// the game is compiled.
type QuestionAuthor struct {
	Display              Display
	Answer               AnswerSpec
	TimeLimit            int // seconds; 0 inherits the game default
	DoublePoints         bool
	CorrectAnswerDisplay *Display // optional alternate reveal media
}

// QuestionRuntime is a question after compilation: a stable id, a resolved
// time limit and double-points flag, and the per-player answer map.
type QuestionRuntime struct {
	ID                   string
	Display              Display
	Answer               AnswerSpec
	TimeLimit            int // seconds, always resolved
	DoublePoints         bool
	CorrectAnswerDisplay *Display
	PlayerAnswers        map[string]PlayerAnswer
}

// PlayerAnswer records one player's submission for one question. It is
// written once at submission time and rewritten only by an explicit host
// override. StreakAtStart is captured so overrides can replay the scoring
// formula without depending on the player's live streak.
type PlayerAnswer struct {
	Answer        Answer  `json:"answer"`
	TimeTakenMs   int64   `json:"timeTaken"`
	ScoreEarned   int     `json:"scoreEarned"`
	Accuracy      float64 `json:"accuracy"`
	StreakAtStart int     `json:"streakAtStart"`
}

type questionEnvelope struct {
	ID                   string                        `json:"id,omitempty"`
	AnswerType           AnswerType                    `json:"answerType"`
	Display              Display                       `json:"display"`
	Options              json.RawMessage               `json:"options,omitempty"`
	CorrectAnswer        json.RawMessage               `json:"correctAnswer,omitempty"`
	TimeLimit            int                           `json:"timeLimit,omitempty"`
	DoublePoints         bool                          `json:"doublePoints,omitempty"`
	CorrectAnswerDisplay *Display                      `json:"correctAnswerDisplay,omitempty"`
	PlayerAnswers        map[string]playerAnswerRawish `json:"playerAnswers,omitempty"`
}

// playerAnswerRawish defers the answer value so it can be decoded with the
// question's answerType in hand; the raw shape alone is ambiguous.
type playerAnswerRawish struct {
	Answer        json.RawMessage `json:"answer"`
	TimeTakenMs   int64           `json:"timeTaken"`
	ScoreEarned   int             `json:"scoreEarned"`
	Accuracy      float64         `json:"accuracy"`
	StreakAtStart int             `json:"streakAtStart"`
}

func marshalSpecField(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func (q QuestionAuthor) MarshalJSON() ([]byte, error) {
	if q.Answer == nil {
		return nil, fmt.Errorf("%w: question has no answer spec", ErrInvalidGame)
	}
	options, correct := encodeSpec(q.Answer)
	rawOptions, err := marshalSpecField(options)
	if err != nil {
		return nil, err
	}
	rawCorrect, err := marshalSpecField(correct)
	if err != nil {
		return nil, err
	}
	return json.Marshal(questionEnvelope{
		AnswerType:           q.Answer.AnswerType(),
		Display:              q.Display,
		Options:              rawOptions,
		CorrectAnswer:        rawCorrect,
		TimeLimit:            q.TimeLimit,
		DoublePoints:         q.DoublePoints,
		CorrectAnswerDisplay: q.CorrectAnswerDisplay,
	})
}

func (q *QuestionAuthor) UnmarshalJSON(data []byte) error {
	var env questionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	spec, err := decodeSpec(env.AnswerType, env.Options, env.CorrectAnswer)
	if err != nil {
		return err
	}
	q.Display = env.Display
	q.Answer = spec
	q.TimeLimit = env.TimeLimit
	q.DoublePoints = env.DoublePoints
	q.CorrectAnswerDisplay = env.CorrectAnswerDisplay
	return nil
}

func (q QuestionRuntime) MarshalJSON() ([]byte, error) {
	if q.Answer == nil {
		return nil, fmt.Errorf("%w: question %s has no answer spec", ErrInvalidGame, q.ID)
	}
	options, correct := encodeSpec(q.Answer)
	rawOptions, err := marshalSpecField(options)
	if err != nil {
		return nil, err
	}
	rawCorrect, err := marshalSpecField(correct)
	if err != nil {
		return nil, err
	}
	var answers map[string]playerAnswerRawish
	if len(q.PlayerAnswers) > 0 {
		answers = make(map[string]playerAnswerRawish, len(q.PlayerAnswers))
		for uid, pa := range q.PlayerAnswers {
			rawAnswer, err := json.Marshal(pa.Answer)
			if err != nil {
				return nil, fmt.Errorf("marshal answer for player %s: %w", uid, err)
			}
			answers[uid] = playerAnswerRawish{
				Answer:        rawAnswer,
				TimeTakenMs:   pa.TimeTakenMs,
				ScoreEarned:   pa.ScoreEarned,
				Accuracy:      pa.Accuracy,
				StreakAtStart: pa.StreakAtStart,
			}
		}
	}
	return json.Marshal(questionEnvelope{
		ID:                   q.ID,
		AnswerType:           q.Answer.AnswerType(),
		Display:              q.Display,
		Options:              rawOptions,
		CorrectAnswer:        rawCorrect,
		TimeLimit:            q.TimeLimit,
		DoublePoints:         q.DoublePoints,
		CorrectAnswerDisplay: q.CorrectAnswerDisplay,
		PlayerAnswers:        answers,
	})
}

func (q *QuestionRuntime) UnmarshalJSON(data []byte) error {
	var env questionEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	spec, err := decodeSpec(env.AnswerType, env.Options, env.CorrectAnswer)
	if err != nil {
		return err
	}
	answers := make(map[string]PlayerAnswer, len(env.PlayerAnswers))
	for uid, raw := range env.PlayerAnswers {
		var answer Answer
		if len(raw.Answer) > 0 && string(raw.Answer) != "null" {
			answer, err = DecodeAnswer(env.AnswerType, raw.Answer)
			if err != nil {
				return fmt.Errorf("player %s: %w", uid, err)
			}
		}
		answers[uid] = PlayerAnswer{
			Answer:        answer,
			TimeTakenMs:   raw.TimeTakenMs,
			ScoreEarned:   raw.ScoreEarned,
			Accuracy:      raw.Accuracy,
			StreakAtStart: raw.StreakAtStart,
		}
	}
	q.ID = env.ID
	q.Display = env.Display
	q.Answer = spec
	q.TimeLimit = env.TimeLimit
	q.DoublePoints = env.DoublePoints
	q.CorrectAnswerDisplay = env.CorrectAnswerDisplay
	q.PlayerAnswers = answers
	return nil
}
