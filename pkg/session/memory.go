package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store for tests and development. Sessions do
// not survive a restart.
type MemoryStore struct {
	mu    sync.Mutex
	byTok map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byTok: make(map[string]*Session)}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.byTok[s.Token] = &cp
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byTok[token]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok, existing := range m.byTok {
		if existing.ID == s.ID {
			if tok != s.Token {
				delete(m.byTok, tok)
			}
			cp := *s
			m.byTok[s.Token] = &cp
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok, s := range m.byTok {
		if s.ID == id {
			delete(m.byTok, tok)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteOtherByUser(_ context.Context, userID, keepID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tok, s := range m.byTok {
		if s.UserID != nil && *s.UserID == userID && s.ID != keepID {
			delete(m.byTok, tok)
		}
	}
	return nil
}

func (m *MemoryStore) DeleteStartedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for tok, s := range m.byTok {
		if s.StartedAt.Before(cutoff) {
			delete(m.byTok, tok)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) Touch(_ context.Context, id string, startedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byTok {
		if s.ID == id {
			s.StartedAt = startedAt
			return nil
		}
	}
	return ErrNotFound
}

// Len reports the number of live sessions. Test helper.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byTok)
}
