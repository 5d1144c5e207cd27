package domain

import (
	"encoding/json"
	"fmt"
)

// AnswerSpec couples a question's presented options with its canonical
// correct answer. One concrete type exists per AnswerType; adding a new
// answer type means adding a type here and handling it everywhere the
// union is switched on.
type AnswerSpec interface {
	AnswerType() AnswerType
	// Validate checks the options/correct-answer shape at authoring-compile
	// time so scoring never has to.
	Validate() error
}

// SingleSpec is a single-select question: one correct option.
type SingleSpec struct {
	Options []string
	Correct string
}

// MultiSpec is a multi-select question: a set of correct options.
type MultiSpec struct {
	Options []string
	Correct []string
}

// MatchingSpec pairs left-side labels with right-side values. Correct maps
// each left label to its right value; Left and Right are presentation sets.
type MatchingSpec struct {
	Left    []string
	Right   []string
	Correct map[string]string
}

// RankingSpec is an ordering question. Correct is the options in their
// correct order.
type RankingSpec struct {
	Options []string
	Correct []string
}

// DrawSpec has no options; the host judges submissions.
type DrawSpec struct{}

// ShortAnswerSpec has no options. Expected, if set, is shown to the host
// at reveal time to help grading; it is never auto-compared.
type ShortAnswerSpec struct {
	Expected string
}

func (*SingleSpec) AnswerType() AnswerType      { return AnswerSingle }
func (*MultiSpec) AnswerType() AnswerType       { return AnswerMulti }
func (*MatchingSpec) AnswerType() AnswerType    { return AnswerMatching }
func (*RankingSpec) AnswerType() AnswerType     { return AnswerRanking }
func (*DrawSpec) AnswerType() AnswerType        { return AnswerDraw }
func (*ShortAnswerSpec) AnswerType() AnswerType { return AnswerShortAnswer }

func (s *SingleSpec) Validate() error {
	if len(s.Options) < 2 {
		return fmt.Errorf("%w: single question needs at least 2 options", ErrInvalidGame)
	}
	if s.Correct == "" {
		return fmt.Errorf("%w: single question missing correct answer", ErrInvalidGame)
	}
	if !contains(s.Options, s.Correct) {
		return fmt.Errorf("%w: correct answer %q is not an option", ErrInvalidGame, s.Correct)
	}
	return nil
}

func (s *MultiSpec) Validate() error {
	if len(s.Options) < 2 {
		return fmt.Errorf("%w: multi question needs at least 2 options", ErrInvalidGame)
	}
	if len(s.Correct) == 0 {
		return fmt.Errorf("%w: multi question missing correct answers", ErrInvalidGame)
	}
	for _, c := range s.Correct {
		if !contains(s.Options, c) {
			return fmt.Errorf("%w: correct answer %q is not an option", ErrInvalidGame, c)
		}
	}
	return nil
}

func (s *MatchingSpec) Validate() error {
	if len(s.Correct) == 0 {
		return fmt.Errorf("%w: matching question missing correct pairs", ErrInvalidGame)
	}
	if len(s.Left) != len(s.Correct) || len(s.Right) != len(s.Correct) {
		return fmt.Errorf("%w: matching options and correct pairs must have the same cardinality", ErrInvalidGame)
	}
	for left, right := range s.Correct {
		if !contains(s.Left, left) {
			return fmt.Errorf("%w: matching key %q is not a left option", ErrInvalidGame, left)
		}
		if !contains(s.Right, right) {
			return fmt.Errorf("%w: matching value %q is not a right option", ErrInvalidGame, right)
		}
	}
	return nil
}

func (s *RankingSpec) Validate() error {
	if len(s.Options) < 2 {
		return fmt.Errorf("%w: ranking question needs at least 2 options", ErrInvalidGame)
	}
	if len(s.Correct) != len(s.Options) {
		return fmt.Errorf("%w: ranking order and options must have the same length", ErrInvalidGame)
	}
	for _, c := range s.Correct {
		if !contains(s.Options, c) {
			return fmt.Errorf("%w: ranked item %q is not an option", ErrInvalidGame, c)
		}
	}
	return nil
}

func (*DrawSpec) Validate() error        { return nil }
func (*ShortAnswerSpec) Validate() error { return nil }

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

// matchingOptionsJSON is the wire shape of a matching question's options.
type matchingOptionsJSON struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

// encodeSpec splits an AnswerSpec into the options/correctAnswer values the
// JSON envelope carries next to the answerType tag.
func encodeSpec(spec AnswerSpec) (options, correct any) {
	switch s := spec.(type) {
	case *SingleSpec:
		return s.Options, s.Correct
	case *MultiSpec:
		return s.Options, s.Correct
	case *MatchingSpec:
		return matchingOptionsJSON{Left: s.Left, Right: s.Right}, s.Correct
	case *RankingSpec:
		return s.Options, s.Correct
	case *DrawSpec:
		return nil, nil
	case *ShortAnswerSpec:
		if s.Expected == "" {
			return nil, nil
		}
		return nil, s.Expected
	}
	return nil, nil
}

// decodeSpec rebuilds the AnswerSpec union from the envelope fields.
func decodeSpec(t AnswerType, options, correct json.RawMessage) (AnswerSpec, error) {
	switch t {
	case AnswerSingle:
		s := &SingleSpec{}
		if err := unmarshalSpecField(options, &s.Options); err != nil {
			return nil, fmt.Errorf("decode single options: %w", err)
		}
		if err := unmarshalSpecField(correct, &s.Correct); err != nil {
			return nil, fmt.Errorf("decode single correct answer: %w", err)
		}
		return s, nil
	case AnswerMulti:
		s := &MultiSpec{}
		if err := unmarshalSpecField(options, &s.Options); err != nil {
			return nil, fmt.Errorf("decode multi options: %w", err)
		}
		if err := unmarshalSpecField(correct, &s.Correct); err != nil {
			return nil, fmt.Errorf("decode multi correct answer: %w", err)
		}
		return s, nil
	case AnswerMatching:
		var opts matchingOptionsJSON
		if err := unmarshalSpecField(options, &opts); err != nil {
			return nil, fmt.Errorf("decode matching options: %w", err)
		}
		s := &MatchingSpec{Left: opts.Left, Right: opts.Right}
		if err := unmarshalSpecField(correct, &s.Correct); err != nil {
			return nil, fmt.Errorf("decode matching correct answer: %w", err)
		}
		return s, nil
	case AnswerRanking:
		s := &RankingSpec{}
		if err := unmarshalSpecField(options, &s.Options); err != nil {
			return nil, fmt.Errorf("decode ranking options: %w", err)
		}
		if err := unmarshalSpecField(correct, &s.Correct); err != nil {
			return nil, fmt.Errorf("decode ranking correct answer: %w", err)
		}
		return s, nil
	case AnswerDraw:
		return &DrawSpec{}, nil
	case AnswerShortAnswer:
		s := &ShortAnswerSpec{}
		if err := unmarshalSpecField(correct, &s.Expected); err != nil {
			return nil, fmt.Errorf("decode short answer: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w: unknown answer type %q", ErrInvalidGame, t)
}

func unmarshalSpecField(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}
