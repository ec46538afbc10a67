package directory

import (
	"context"
	"time"

	"github.com/FahimJadid/revamp-app/internal/auth"
)

// User is the local account an external identity resolves to.
type User struct {
	ID          string
	Provider    string
	ProviderID  string
	DisplayName string
	Email       string
	CreatedAt   time.Time
}

// Directory maps external profiles to local users. It is the ONLY place
// where identity-to-user mapping logic lives.
type Directory interface {
	// ResolveOrCreate returns the user for the profile's provider subject,
	// creating one on first login. Idempotent per (provider, providerID):
	// repeat logins never duplicate and never overwrite the stored
	// display name or email.
	ResolveOrCreate(ctx context.Context, profile *auth.Profile) (*User, error)

	// ByID returns the user with the given id, or nil if absent.
	ByID(ctx context.Context, id string) (*User, error)
}
