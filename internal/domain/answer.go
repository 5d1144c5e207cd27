package domain

import (
	"encoding/json"
	"fmt"
)

// AnswerType discriminates the shape of a question's options, its correct
// answer, and the answers players submit.
type AnswerType string

const (
	AnswerSingle      AnswerType = "single"
	AnswerMulti       AnswerType = "multi"
	AnswerMatching    AnswerType = "matching"
	AnswerRanking     AnswerType = "ranking"
	AnswerDraw        AnswerType = "draw"
	AnswerShortAnswer AnswerType = "shortAnswer"
)

// Subjective reports whether correctness is decided by the host rather than
// computed. Subjective types are exempt from time decay.
func (t AnswerType) Subjective() bool {
	return t == AnswerDraw || t == AnswerShortAnswer
}

// Answer is a submitted answer value. Exactly one concrete type exists per
// AnswerType; the evaluator rejects values whose type does not match the
// question's declared AnswerType.
type Answer interface {
	AnswerType() AnswerType
}

// SingleAnswer is the chosen option text for a single-select question.
type SingleAnswer string

// MultiAnswer is the set of chosen option texts for a multi-select question.
type MultiAnswer []string

// MatchingAnswer maps left-side labels to the right-side values the player paired them with.
type MatchingAnswer map[string]string

// RankingAnswer is the player's ordering of the options.
type RankingAnswer []string

// DrawAnswer is a free-form drawing, graded by the host.
type DrawAnswer []Stroke

// ShortTextAnswer is a free-text response, graded by the host.
type ShortTextAnswer string

func (SingleAnswer) AnswerType() AnswerType    { return AnswerSingle }
func (MultiAnswer) AnswerType() AnswerType     { return AnswerMulti }
func (MatchingAnswer) AnswerType() AnswerType  { return AnswerMatching }
func (RankingAnswer) AnswerType() AnswerType   { return AnswerRanking }
func (DrawAnswer) AnswerType() AnswerType      { return AnswerDraw }
func (ShortTextAnswer) AnswerType() AnswerType { return AnswerShortAnswer }

// Stroke is one brush stroke of a drawn answer.
type Stroke struct {
	Points      []Point `json:"points"`
	BrushColor  string  `json:"brushColor"`
	BrushRadius int     `json:"brushRadius"`
}

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DecodeAnswer parses a raw JSON answer value into the concrete Answer type
// for the given AnswerType. The raw shapes are ambiguous on their own
// (multi and ranking are both string arrays), so the question's tag decides.
func DecodeAnswer(t AnswerType, raw json.RawMessage) (Answer, error) {
	switch t {
	case AnswerSingle:
		var a SingleAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode single answer: %w", err)
		}
		return a, nil
	case AnswerMulti:
		var a MultiAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode multi answer: %w", err)
		}
		return a, nil
	case AnswerMatching:
		var a MatchingAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode matching answer: %w", err)
		}
		return a, nil
	case AnswerRanking:
		var a RankingAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode ranking answer: %w", err)
		}
		return a, nil
	case AnswerDraw:
		var a DrawAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode draw answer: %w", err)
		}
		return a, nil
	case AnswerShortAnswer:
		var a ShortTextAnswer
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("decode short answer: %w", err)
		}
		return a, nil
	}
	return nil, fmt.Errorf("%w: unknown answer type %q", ErrInvalidGame, t)
}
