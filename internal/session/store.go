package session

import (
	"context"
	"time"
)

// Session represents an authenticated user session.
// It intentionally stores only identity pointers, not auth state.
// The token is the only session-identifying value that ever reaches
// the client.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store defines how sessions are stored and retrieved.
//
// Lookup returns nil for unknown, revoked, and expired tokens alike;
// callers cannot distinguish the three. Revoke is idempotent.
type Store interface {
	Create(ctx context.Context, userID string) (token string, err error)
	Lookup(ctx context.Context, token string) (*Session, error)
	Revoke(ctx context.Context, token string) error
}
