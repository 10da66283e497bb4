package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryUserStore keeps users in memory. Used by tests and the example
// app; production deployments use the pg store.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*User
}

func NewMemoryUserStore(users ...*User) *MemoryUserStore {
	s := &MemoryUserStore{users: make(map[string]*User)}
	for _, u := range users {
		copied := *u
		s.users[u.ID] = &copied
	}
	return s
}

func (s *MemoryUserStore) Add(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *u
	s.users[u.ID] = &copied
}

func (s *MemoryUserStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, ErrUserNotFound
}

func (s *MemoryUserStore) FindByUsername(_ context.Context, username string) (*User, error) {
	return s.findBy(func(u *User) bool { return u.Username == username })
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*User, error) {
	return s.findBy(func(u *User) bool { return u.Email == email })
}

func (s *MemoryUserStore) RecordFailure(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Faults++
	return nil
}

func (s *MemoryUserStore) RecordSuccess(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Faults = 0
	u.PwReset = nil
	u.LastLoginAt = &at
	return nil
}

func (s *MemoryUserStore) findBy(match func(*User) bool) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

// MemoryTokenStore keeps remember-me tokens in memory.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*RememberMeToken
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]*RememberMeToken)}
}

func (s *MemoryTokenStore) Create(_ context.Context, t *RememberMeToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *t
	s.tokens[t.ID] = &copied
	return nil
}

func (s *MemoryTokenStore) Find(_ context.Context, token string) (*RememberMeToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.Token == token {
			copied := *t
			return &copied, nil
		}
	}
	return nil, ErrTokenNotFound
}

func (s *MemoryTokenStore) Rotate(_ context.Context, id, token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[id]
	if !ok {
		return ErrTokenNotFound
	}
	t.Token = token
	t.CreatedAt = at
	return nil
}

func (s *MemoryTokenStore) DeleteOtherByUser(_ context.Context, userID, keepID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tokens {
		if t.UserID == userID && id != keepID {
			delete(s.tokens, id)
		}
	}
	return nil
}

func (s *MemoryTokenStore) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.tokens {
		if t.UserID == userID {
			delete(s.tokens, id)
		}
	}
	return nil
}

func (s *MemoryTokenStore) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, t := range s.tokens {
		if t.CreatedAt.Before(cutoff) {
			delete(s.tokens, id)
			n++
		}
	}
	return n, nil
}

// CountByUser returns how many tokens a user holds. Test helper.
func (s *MemoryTokenStore) CountByUser(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}
