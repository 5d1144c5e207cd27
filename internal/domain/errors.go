package domain

import "errors"

var (
	// ErrInvalidGame is returned when an authored game fails compile-time validation.
	ErrInvalidGame = errors.New("invalid game definition")
	// ErrAnswerShape is returned when a submitted answer's type does not match the question's answer type.
	ErrAnswerShape = errors.New("answer shape does not match question answer type")
	// ErrGameNotFound indicates the authored game could not be loaded.
	ErrGameNotFound = errors.New("game not found")
	// ErrLobbyNotFound is returned when a lobby code does not resolve to a live lobby.
	ErrLobbyNotFound = errors.New("lobby not found")
	// ErrLobbyCodeTaken is returned by stores when a generated code collides.
	ErrLobbyCodeTaken = errors.New("lobby code already in use")
	// ErrPlayerNotFound is returned when a user acts before joining.
	ErrPlayerNotFound = errors.New("player not found in lobby")
	// ErrQuestionNotFound indicates the lobby's question cursor is broken or a question id is stale.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrAlreadyAnswered rejects a second submission for the same question.
	ErrAlreadyAnswered = errors.New("player already answered this question")
	// ErrNoAnswer is returned when a host override targets a player who never submitted.
	ErrNoAnswer = errors.New("player has no recorded answer")
	// ErrWrongPhase rejects an action the current lobby phase does not allow.
	ErrWrongPhase = errors.New("action not allowed in current lobby phase")
	// ErrNotHost rejects host-only actions from non-hosts.
	ErrNotHost = errors.New("only the host may do this")
)
