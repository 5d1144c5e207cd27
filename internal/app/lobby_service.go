package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/kristenlee3553/my-trivia/internal/domain"
	"github.com/kristenlee3553/my-trivia/internal/engine"
)

// LobbyRepository abstracts how live lobbies are stored (in-memory, Redis, etc).
type LobbyRepository interface {
	// Create registers a new lobby, failing with domain.ErrLobbyCodeTaken on
	// a code collision so the service can retry with a fresh code.
	Create(session *LobbySession) error
	Get(code string) (*LobbySession, bool)
	Delete(code string)
	// Touch persists the lobby's current snapshot and refreshes its
	// staleness marker. Best effort; stores that keep no snapshot no-op.
	Touch(session *LobbySession)
}

// GameRepository loads authored game content (from cache/backing store).
type GameRepository interface {
	GetGame(ctx context.Context, gameID string) (domain.GameAuthor, error)
}

const (
	// Lobby codes come from an alphabet without 0/O and 1/I so they read
	// unambiguously on a shared screen.
	lobbyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	lobbyCodeLength   = 4
	lobbyCodeRetries  = 5
	// After repeated collisions an extended code is effectively unique.
	lobbyCodeExtendedLength = 8
)

// LobbyService contains the lobby use cases: creating lobbies from authored
// games, joining, answering, host moderation, and phase advancement.
type LobbyService struct {
	lobbies LobbyRepository
	games   GameRepository
	now     func() time.Time

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewLobbyService(lobbies LobbyRepository, games GameRepository) *LobbyService {
	return NewLobbyServiceWithClock(lobbies, games, time.Now)
}

// NewLobbyServiceWithClock allows deterministic timestamps in tests.
func NewLobbyServiceWithClock(lobbies LobbyRepository, games GameRepository, now func() time.Time) *LobbyService {
	return &LobbyService{
		lobbies: lobbies,
		games:   games,
		now:     now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateLobby compiles and prepares the authored game, allocates a join
// code, and registers the lobby. Colliding codes are regenerated a few
// times before falling back to an extended code.
func (s *LobbyService) CreateLobby(ctx context.Context, hostID, gameID string, opts domain.GameOptions) (*LobbySession, error) {
	author, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	runtime, err := engine.Compile(author)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	runtime = engine.PrepareGame(runtime, opts, s.rnd)
	s.mu.Unlock()

	order := make([]string, len(runtime.Questions))
	for i := range runtime.Questions {
		order[i] = runtime.Questions[i].ID
	}

	lobby := domain.Lobby{
		HostID:            hostID,
		Players:           make(map[string]domain.Player),
		LobbyStatus:       domain.StatusNotStarted,
		GameData:          runtime,
		CurrentQuestionID: order[0],
		QuestionOrder:     order,
		CurrentIndex:      0,
		GameOptions:       opts,
		LastUpdated:       s.now().UTC().Format(time.RFC3339),
	}

	for attempt := 0; attempt <= lobbyCodeRetries; attempt++ {
		length := lobbyCodeLength
		if attempt == lobbyCodeRetries {
			length = lobbyCodeExtendedLength
		}
		lobby.LobbyCode = s.randomCode(length)

		session := newLobbySessionWithClock(lobby, s.now)
		if err := s.lobbies.Create(session); err != nil {
			if errors.Is(err, domain.ErrLobbyCodeTaken) {
				continue
			}
			return nil, err
		}
		s.lobbies.Touch(session)
		return session, nil
	}
	return nil, fmt.Errorf("could not allocate a lobby code after %d attempts", lobbyCodeRetries+1)
}

// Join registers or refreshes a player in a lobby.
func (s *LobbyService) Join(_ context.Context, code, uid, nickname, avatarKey string) (LobbyUpdate, error) {
	session, ok := s.lobbies.Get(code)
	if !ok {
		return LobbyUpdate{}, domain.ErrLobbyNotFound
	}
	update := session.join(uid, nickname, avatarKey)
	s.lobbies.Touch(session)
	return update, nil
}

// SubmitAnswer grades and records a player's answer for the current
// question. A second submission for the same question is rejected with
// domain.ErrAlreadyAnswered; the recorded answer is never silently
// overwritten.
func (s *LobbyService) SubmitAnswer(_ context.Context, code, uid string, answer domain.Answer, timeTakenMs int64) (domain.PlayerAnswer, error) {
	session, ok := s.lobbies.Get(code)
	if !ok {
		return domain.PlayerAnswer{}, domain.ErrLobbyNotFound
	}
	recorded, err := session.submitAnswer(uid, answer, timeTakenMs)
	if err != nil {
		return domain.PlayerAnswer{}, err
	}
	s.lobbies.Touch(session)
	return recorded, nil
}

// AnswerOverride is a host moderation request against one recorded answer.
type AnswerOverride struct {
	// Accuracy replaces the recorded accuracy, e.g. marking a drawing
	// correct or wrong.
	Accuracy *float64
	// ManualScore sets the award literally, skipping the formula.
	ManualScore *int
	// BasePoints feeds the formula recompute as a custom base pool;
	// 0 keeps the question's double-points-derived default.
	BasePoints int
}

// OverrideAnswer rewrites a player's recorded answer during the show-answer
// phase, before the fold runs. Formula recomputes always use the streak
// captured at submission time, never the player's live streak.
func (s *LobbyService) OverrideAnswer(_ context.Context, code, hostID, uid string, ov AnswerOverride) (domain.PlayerAnswer, error) {
	session, ok := s.lobbies.Get(code)
	if !ok {
		return domain.PlayerAnswer{}, domain.ErrLobbyNotFound
	}
	updated, err := session.overrideAnswer(hostID, uid, ov)
	if err != nil {
		return domain.PlayerAnswer{}, err
	}
	s.lobbies.Touch(session)
	return updated, nil
}

// Advance moves the lobby to its next phase at the host's request. The
// show-answer to leaderboard transition folds every player's question
// outcome exactly once; phases only move forward, which is what keeps the
// fold single-shot.
func (s *LobbyService) Advance(_ context.Context, code, hostID string) (LobbyUpdate, error) {
	session, ok := s.lobbies.Get(code)
	if !ok {
		return LobbyUpdate{}, domain.ErrLobbyNotFound
	}
	update, err := session.advance(hostID)
	if err != nil {
		return LobbyUpdate{}, err
	}
	s.lobbies.Touch(session)
	return update, nil
}

// CurrentAnswerType reports the answer family of the lobby's current
// question. Transports need it to decode raw answer payloads, whose JSON
// shapes are ambiguous on their own.
func (s *LobbyService) CurrentAnswerType(_ context.Context, code string) (domain.AnswerType, error) {
	session, ok := s.lobbies.Get(code)
	if !ok {
		return "", domain.ErrLobbyNotFound
	}
	snapshot := session.Snapshot()
	question := snapshot.CurrentQuestion()
	if question == nil {
		return "", domain.ErrQuestionNotFound
	}
	return question.Answer.AnswerType(), nil
}

// Subscribe returns a channel that receives lobby updates.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *LobbyService) Subscribe(_ context.Context, code string) (<-chan LobbyUpdate, func(), error) {
	session, ok := s.lobbies.Get(code)
	if !ok {
		return nil, nil, domain.ErrLobbyNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave removes a player and drops the lobby once the roster is empty.
func (s *LobbyService) Leave(_ context.Context, code, uid string) {
	session, ok := s.lobbies.Get(code)
	if !ok {
		return
	}
	session.leave(uid)
	if session.IsEmpty() {
		s.lobbies.Delete(code)
		return
	}
	s.lobbies.Touch(session)
}

func (s *LobbyService) randomCode(length int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := make([]byte, length)
	for i := range b {
		b[i] = lobbyCodeAlphabet[s.rnd.Intn(len(lobbyCodeAlphabet))]
	}
	return string(b)
}
