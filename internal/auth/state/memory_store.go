package state

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps pending authorization requests in process memory.
// Suitable for tests and single-instance deployments.
type MemoryStore struct {
	mu   sync.Mutex
	reqs map[string]*Request
	ttl  time.Duration

	clock func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		reqs:  make(map[string]*Request),
		ttl:   ttl,
		clock: time.Now,
	}
}

func (m *MemoryStore) Issue(_ context.Context) (*Request, error) {
	req, err := newRequest(m.ttl)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.reqs[req.State] = req
	m.mu.Unlock()

	return req, nil
}

func (m *MemoryStore) Consume(_ context.Context, state string) (*Request, error) {
	if state == "" {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.reqs[state]
	if !ok {
		return nil, nil
	}
	delete(m.reqs, state)

	if !m.clock().Before(req.ExpiresAt) {
		return nil, nil // expired while pending
	}

	return req, nil
}
