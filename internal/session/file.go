package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// FileStore persists sessions as one JSON object on disk, rewritten on every change.
type FileStore struct {
	path  string
	mu    sync.Mutex
	users map[string]User
}

// NewFileStore loads path if it exists. A missing file starts empty.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, users: map[string]User{}}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("loading sessions from %s: %w", path, err)
	}
	return s, nil
}

func (s *FileStore) Save(_ context.Context, sid string, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, had := s.users[sid]
	s.users[sid] = u
	if err := s.save(); err != nil {
		if had {
			s.users[sid] = prev
		} else {
			delete(s.users, sid)
		}
		return err
	}
	return nil
}

func (s *FileStore) Load(_ context.Context, sid string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[sid]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *FileStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.users[sid]
	if !ok {
		return nil
	}
	delete(s.users, sid)
	if err := s.save(); err != nil {
		s.users[sid] = prev
		return err
	}
	return nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, &s.users)
}

func (s *FileStore) save() error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("writing sessions to %s: %w", s.path, err)
	}
	return nil
}
