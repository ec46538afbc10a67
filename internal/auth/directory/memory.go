package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/FahimJadid/revamp-app/internal/auth"

	"github.com/google/uuid"
)

// MemoryDirectory keeps users in process memory. Used by tests.
type MemoryDirectory struct {
	mu        sync.Mutex
	bySubject map[string]*User
	byID      map[string]*User
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{
		bySubject: make(map[string]*User),
		byID:      make(map[string]*User),
	}
}

func subjectKey(provider, providerID string) string {
	return provider + "\x00" + providerID
}

func (m *MemoryDirectory) ResolveOrCreate(
	_ context.Context,
	profile *auth.Profile,
) (*User, error) {

	if profile == nil || profile.ProviderID == "" {
		return nil, errors.New("directory: profile missing provider subject")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := subjectKey(profile.Provider, profile.ProviderID)
	if user, ok := m.bySubject[key]; ok {
		return user, nil
	}

	user := &User{
		ID:          uuid.NewString(),
		Provider:    profile.Provider,
		ProviderID:  profile.ProviderID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
		CreatedAt:   time.Now(),
	}
	m.bySubject[key] = user
	m.byID[user.ID] = user

	return user, nil
}

func (m *MemoryDirectory) ByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}
