package session

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps sessions for the life of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: map[string][]byte{}}
}

func (s *MemoryStore) Save(_ context.Context, sid string, u User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[sid] = data
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sid string) (User, error) {
	s.mu.RLock()
	data, ok := s.users[sid]
	s.mu.RUnlock()
	if !ok {
		return User{}, ErrNotFound
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, sid)
	return nil
}
