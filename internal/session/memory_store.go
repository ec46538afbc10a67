package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Used by tests and
// single-instance deployments. Expired sessions are deleted lazily on
// lookup; Sweep can additionally run periodically.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration

	clock func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		clock:    time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("session: missing user_id")
	}

	token, err := GenerateToken()
	if err != nil {
		return "", err
	}

	now := m.clock()
	m.mu.Lock()
	m.sessions[token] = Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	m.mu.Unlock()

	return token, nil
}

func (m *MemoryStore) Lookup(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}

	if !m.clock().Before(s.ExpiresAt) {
		delete(m.sessions, token)
		return nil, nil
	}

	return &s, nil
}

func (m *MemoryStore) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// StartSweep removes expired sessions every interval until ctx is done.
// It runs off the request path and never blocks request serving.
func (m *MemoryStore) StartSweep(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sweep()
			}
		}
	}()
}

func (m *MemoryStore) sweep() {
	now := m.clock()
	m.mu.Lock()
	for token, s := range m.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(m.sessions, token)
		}
	}
	m.mu.Unlock()
}
