package redis

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kristenlee3553/my-trivia/internal/app"
	"github.com/kristenlee3553/my-trivia/internal/domain"
)

// LobbyStore is a Redis-aware implementation of app.LobbyRepository.
// Notes:
//   - It keeps a local in-memory map of sessions to reuse the in-process
//     broadcast logic; Redis holds the JSON snapshot of each lobby plus a
//     staleness index (sorted set scored by lastUpdated).
//   - SetNX on create makes code collisions visible across instances, not
//     just within this process.
//   - The snapshot is what the staleness sweep and any future projector
//     read; for true distribution you'd pair this with pub/sub fan-out.
type LobbyStore struct {
	client   *redis.Client
	ttl      time.Duration
	mu       sync.RWMutex
	sessions map[string]*app.LobbySession
}

const staleIndexKey = "lobby:index"

func NewLobbyStore(client *redis.Client, ttl time.Duration) *LobbyStore {
	return &LobbyStore{
		client:   client,
		ttl:      ttl,
		sessions: make(map[string]*app.LobbySession),
	}
}

func (s *LobbyStore) Create(session *app.LobbySession) error {
	code := session.Code()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[code]; ok {
		return domain.ErrLobbyCodeTaken
	}

	snapshot := session.Snapshot()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	set, err := s.client.SetNX(context.Background(), s.key(code), payload, s.ttl).Result()
	if err != nil {
		return err
	}
	if !set {
		return domain.ErrLobbyCodeTaken
	}
	s.sessions[code] = session
	s.indexLobby(code, snapshot.LastUpdated)
	return nil
}

func (s *LobbyStore) Get(code string) (*app.LobbySession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[code]
	return session, ok
}

func (s *LobbyStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, code)
	ctx := context.Background()
	_ = s.client.Del(ctx, s.key(code)).Err()
	_ = s.client.ZRem(ctx, staleIndexKey, code).Err()
}

// Touch persists the lobby snapshot and refreshes its position in the
// staleness index. Best effort: a write failure leaves the previous
// snapshot in place.
func (s *LobbyStore) Touch(session *app.LobbySession) {
	snapshot := session.Snapshot()
	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.Printf("marshal lobby %s snapshot: %v", snapshot.LobbyCode, err)
		return
	}
	if err := s.client.Set(context.Background(), s.key(snapshot.LobbyCode), payload, s.ttl).Err(); err != nil {
		log.Printf("persist lobby %s snapshot: %v", snapshot.LobbyCode, err)
		return
	}
	s.indexLobby(snapshot.LobbyCode, snapshot.LastUpdated)
}

// SweepStale deletes lobbies whose lastUpdated is older than the cutoff and
// returns how many were removed. Intended to run periodically (or via the
// sweep CLI command) with a 24h horizon.
func (s *LobbyStore) SweepStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := float64(time.Now().Add(-olderThan).Unix())
	codes, err := s.client.ZRangeByScore(ctx, staleIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: formatScore(cutoff),
	}).Result()
	if err != nil {
		return 0, err
	}

	for _, code := range codes {
		s.mu.Lock()
		delete(s.sessions, code)
		s.mu.Unlock()
		if err := s.client.Del(ctx, s.key(code)).Err(); err != nil {
			return 0, err
		}
		if err := s.client.ZRem(ctx, staleIndexKey, code).Err(); err != nil {
			return 0, err
		}
	}
	return len(codes), nil
}

// Restore rebuilds a live session from the persisted snapshot, for lobbies
// created before a process restart.
func (s *LobbyStore) Restore(ctx context.Context, code string) (*app.LobbySession, error) {
	payload, err := s.client.Get(ctx, s.key(code)).Bytes()
	if err == redis.Nil {
		return nil, domain.ErrLobbyNotFound
	}
	if err != nil {
		return nil, err
	}
	var lobby domain.Lobby
	if err := json.Unmarshal(payload, &lobby); err != nil {
		return nil, err
	}
	session := app.NewLobbySession(lobby)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[code]; ok {
		return existing, nil
	}
	s.sessions[code] = session
	return session, nil
}

func (s *LobbyStore) indexLobby(code, lastUpdated string) {
	score := float64(time.Now().Unix())
	if ts, err := time.Parse(time.RFC3339, lastUpdated); err == nil {
		score = float64(ts.Unix())
	}
	if err := s.client.ZAdd(context.Background(), staleIndexKey, redis.Z{Score: score, Member: code}).Err(); err != nil {
		log.Printf("index lobby %s: %v", code, err)
	}
}

func (s *LobbyStore) key(code string) string {
	return "lobby:" + code
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
