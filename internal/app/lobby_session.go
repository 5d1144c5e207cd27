package app

import (
	"sort"
	"sync"
	"time"

	"github.com/kristenlee3553/my-trivia/internal/domain"
	"github.com/kristenlee3553/my-trivia/internal/engine"
)

// LeaderboardEntry is a broadcast-friendly view of a player.
type LeaderboardEntry struct {
	UID       string `json:"uid"`
	Nickname  string `json:"nickname"`
	Score     int    `json:"score"`
	Streak    int    `json:"streak"`
	AvatarKey string `json:"avatarKey,omitempty"`
}

// LobbyUpdate is the state snapshot pushed to subscribers on every change.
type LobbyUpdate struct {
	LobbyCode     string             `json:"lobbyCode"`
	Status        domain.LobbyStatus `json:"lobbyStatus"`
	QuestionID    string             `json:"currentQuestion,omitempty"`
	QuestionIndex int                `json:"currentIndex"`
	QuestionCount int                `json:"questionCount"`
	AnswerCount   int                `json:"answerCount"`
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// LobbySession is the in-memory live state of one lobby. All game mutations
// flow through it under its lock; repositories persist snapshots of it.
type LobbySession struct {
	mu          sync.RWMutex
	now         func() time.Time
	lobby       domain.Lobby
	subscribers map[chan LobbyUpdate]struct{}
}

// NewLobbySession is exported for infrastructure layers that rebuild
// sessions from persisted snapshots.
func NewLobbySession(lobby domain.Lobby) *LobbySession {
	return newLobbySessionWithClock(lobby, time.Now)
}

func newLobbySessionWithClock(lobby domain.Lobby, now func() time.Time) *LobbySession {
	if lobby.Players == nil {
		lobby.Players = make(map[string]domain.Player)
	}
	return &LobbySession{
		now:         now,
		lobby:       lobby,
		subscribers: make(map[chan LobbyUpdate]struct{}),
	}
}

// Code returns the lobby's join code.
func (s *LobbySession) Code() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lobby.LobbyCode
}

// IsEmpty reports whether no players remain.
func (s *LobbySession) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lobby.Players) == 0
}

// Snapshot returns a deep copy of the lobby record, safe to serialize after
// the lock is released.
func (s *LobbySession) Snapshot() domain.Lobby {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.lobby
	out.Players = make(map[string]domain.Player, len(s.lobby.Players))
	for uid, p := range s.lobby.Players {
		out.Players[uid] = p
	}
	out.QuestionOrder = append([]string(nil), s.lobby.QuestionOrder...)
	out.GameData.Questions = make([]domain.QuestionRuntime, len(s.lobby.GameData.Questions))
	copy(out.GameData.Questions, s.lobby.GameData.Questions)
	for i := range out.GameData.Questions {
		src := out.GameData.Questions[i].PlayerAnswers
		answers := make(map[string]domain.PlayerAnswer, len(src))
		for uid, pa := range src {
			answers[uid] = pa
		}
		out.GameData.Questions[i].PlayerAnswers = answers
	}
	return out
}

func (s *LobbySession) join(uid, nickname, avatarKey string) LobbyUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if player, ok := s.lobby.Players[uid]; ok {
		player.Nickname = nickname
		if avatarKey != "" {
			player.AvatarKey = avatarKey
		}
		s.lobby.Players[uid] = player
	} else {
		s.lobby.Players[uid] = domain.Player{
			UID:       uid,
			Nickname:  nickname,
			JoinDate:  s.now().UTC().Format(time.RFC3339),
			AvatarKey: avatarKey,
		}
	}
	s.touchLocked()
	return s.broadcastLocked()
}

func (s *LobbySession) leave(uid string) LobbyUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobby.Players, uid)
	s.touchLocked()
	return s.broadcastLocked()
}

func (s *LobbySession) submitAnswer(uid string, answer domain.Answer, timeTakenMs int64) (domain.PlayerAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lobby.LobbyStatus != domain.StatusAnswering {
		return domain.PlayerAnswer{}, domain.ErrWrongPhase
	}
	player, ok := s.lobby.Players[uid]
	if !ok {
		return domain.PlayerAnswer{}, domain.ErrPlayerNotFound
	}
	question := s.lobby.CurrentQuestion()
	if question == nil {
		return domain.PlayerAnswer{}, domain.ErrQuestionNotFound
	}
	if _, exists := question.PlayerAnswers[uid]; exists {
		return domain.PlayerAnswer{}, domain.ErrAlreadyAnswered
	}

	accuracy, err := engine.Accuracy(question.Answer, answer)
	if err != nil {
		return domain.PlayerAnswer{}, err
	}
	subjective := question.Answer.AnswerType().Subjective()
	points := engine.Points(engine.PointsInput{
		Accuracy:        accuracy,
		DoublePoints:    question.DoublePoints,
		Streak:          player.Streak,
		TimeTakenMs:     timeTakenMs,
		TimeLimitSec:    question.TimeLimit,
		IgnoreTimeDecay: subjective,
	})

	recorded := domain.PlayerAnswer{
		Answer:        answer,
		TimeTakenMs:   timeTakenMs,
		ScoreEarned:   points,
		Accuracy:      accuracy,
		StreakAtStart: player.Streak,
	}
	question.PlayerAnswers[uid] = recorded
	s.touchLocked()
	s.broadcastLocked()
	return recorded, nil
}

func (s *LobbySession) overrideAnswer(hostID, uid string, ov AnswerOverride) (domain.PlayerAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hostID != s.lobby.HostID {
		return domain.PlayerAnswer{}, domain.ErrNotHost
	}
	if s.lobby.LobbyStatus != domain.StatusShowAnswer {
		return domain.PlayerAnswer{}, domain.ErrWrongPhase
	}
	question := s.lobby.CurrentQuestion()
	if question == nil {
		return domain.PlayerAnswer{}, domain.ErrQuestionNotFound
	}
	recorded, ok := question.PlayerAnswers[uid]
	if !ok {
		return domain.PlayerAnswer{}, domain.ErrNoAnswer
	}

	if ov.Accuracy != nil {
		recorded.Accuracy = *ov.Accuracy
	}
	if ov.ManualScore != nil {
		recorded.ScoreEarned = *ov.ManualScore
	} else {
		// Replay the formula from the streak captured at submission time so
		// intervening overrides never compound.
		recorded.ScoreEarned = engine.Points(engine.PointsInput{
			Accuracy:           recorded.Accuracy,
			DoublePoints:       question.DoublePoints,
			Streak:             recorded.StreakAtStart,
			TimeTakenMs:        recorded.TimeTakenMs,
			TimeLimitSec:       question.TimeLimit,
			IgnoreTimeDecay:    question.Answer.AnswerType().Subjective(),
			BasePointsOverride: ov.BasePoints,
		})
	}

	question.PlayerAnswers[uid] = recorded
	s.touchLocked()
	s.broadcastLocked()
	return recorded, nil
}

func (s *LobbySession) advance(hostID string) (LobbyUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if hostID != s.lobby.HostID {
		return LobbyUpdate{}, domain.ErrNotHost
	}

	switch s.lobby.LobbyStatus {
	case domain.StatusNotStarted:
		s.lobby.LobbyStatus = domain.StatusPreview
	case domain.StatusPreview:
		s.lobby.LobbyStatus = domain.StatusAnswering
	case domain.StatusAnswering:
		s.lobby.LobbyStatus = domain.StatusShowAnswer
	case domain.StatusShowAnswer:
		if err := s.foldLocked(); err != nil {
			return LobbyUpdate{}, err
		}
		s.lobby.LobbyStatus = domain.StatusLeaderboard
	case domain.StatusLeaderboard:
		if s.lobby.CurrentIndex+1 < len(s.lobby.QuestionOrder) {
			s.lobby.CurrentIndex++
			s.lobby.CurrentQuestionID = s.lobby.QuestionOrder[s.lobby.CurrentIndex]
			s.lobby.LobbyStatus = domain.StatusPreview
		} else {
			s.lobby.LobbyStatus = domain.StatusFinalScore
		}
	case domain.StatusFinalScore:
		s.lobby.LobbyStatus = domain.StatusCompleted
	default:
		return LobbyUpdate{}, domain.ErrWrongPhase
	}

	s.touchLocked()
	return s.broadcastLocked(), nil
}

// foldLocked applies the current question's outcome to every player. Runs
// exactly once per question because the phase machine never revisits the
// show-answer state for the same question.
func (s *LobbySession) foldLocked() error {
	question := s.lobby.CurrentQuestion()
	if question == nil {
		return domain.ErrQuestionNotFound
	}
	for uid, player := range s.lobby.Players {
		s.lobby.Players[uid] = engine.UpdatedPlayer(*question, player)
	}
	return nil
}

func (s *LobbySession) subscribe() (<-chan LobbyUpdate, func()) {
	ch := make(chan LobbyUpdate, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *LobbySession) touchLocked() {
	s.lobby.LastUpdated = s.now().UTC().Format(time.RFC3339)
}

func (s *LobbySession) broadcastLocked() LobbyUpdate {
	update := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- update:
		default:
			// Drop the stale update so a slow client never blocks the rest.
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
	return update
}

func (s *LobbySession) snapshotLocked() LobbyUpdate {
	entries := make([]LeaderboardEntry, 0, len(s.lobby.Players))
	for _, player := range s.lobby.Players {
		entries = append(entries, LeaderboardEntry{
			UID:       player.UID,
			Nickname:  player.Nickname,
			Score:     player.Score,
			Streak:    player.Streak,
			AvatarKey: player.AvatarKey,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Nickname < entries[j].Nickname
	})

	answerCount := 0
	if question := s.lobby.CurrentQuestion(); question != nil {
		answerCount = len(question.PlayerAnswers)
	}

	return LobbyUpdate{
		LobbyCode:     s.lobby.LobbyCode,
		Status:        s.lobby.LobbyStatus,
		QuestionID:    s.lobby.CurrentQuestionID,
		QuestionIndex: s.lobby.CurrentIndex,
		QuestionCount: len(s.lobby.QuestionOrder),
		AnswerCount:   answerCount,
		Leaderboard:   entries,
		UpdatedAt:     s.now(),
	}
}
