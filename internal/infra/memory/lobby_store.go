package memory

import (
	"sync"

	"github.com/kristenlee3553/my-trivia/internal/app"
	"github.com/kristenlee3553/my-trivia/internal/domain"
)

// LobbyStore is an in-memory implementation of app.LobbyRepository.
type LobbyStore struct {
	mu      sync.RWMutex
	lobbies map[string]*app.LobbySession
}

func NewLobbyStore() *LobbyStore {
	return &LobbyStore{
		lobbies: make(map[string]*app.LobbySession),
	}
}

func (s *LobbyStore) Create(session *app.LobbySession) error {
	code := session.Code()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lobbies[code]; ok {
		return domain.ErrLobbyCodeTaken
	}
	s.lobbies[code] = session
	return nil
}

func (s *LobbyStore) Get(code string) (*app.LobbySession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.lobbies[code]
	return session, ok
}

func (s *LobbyStore) Delete(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lobbies, code)
}

// Touch is a no-op: the session itself is the store of record here, and its
// LastUpdated field already moved under the session lock.
func (s *LobbyStore) Touch(*app.LobbySession) {}
