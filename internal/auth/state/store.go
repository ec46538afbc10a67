package state

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// Request is an in-flight authorization request, created when a login is
// initiated and consumed exactly once when the provider calls back.
type Request struct {
	State        string    `json:"state"`
	CodeVerifier string    `json:"code_verifier"`
	RequestedAt  time.Time `json:"requested_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Store records pending authorization requests keyed by their state value.
// Consume must be atomic: concurrent callbacks replaying the same state
// must observe at most one successful consumption.
type Store interface {
	// Issue records a fresh Request and returns it.
	Issue(ctx context.Context) (*Request, error)

	// Consume removes and returns the Request for the given state, or
	// nil if the state is unknown, expired, or already consumed.
	Consume(ctx context.Context, state string) (*Request, error)
}

// newRequest generates the state and PKCE verifier values. 32 bytes each,
// 256 bits of entropy.
func newRequest(ttl time.Duration) (*Request, error) {
	state, err := randomValue()
	if err != nil {
		return nil, fmt.Errorf("state: failed to generate state: %w", err)
	}

	verifier, err := randomValue()
	if err != nil {
		return nil, fmt.Errorf("state: failed to generate verifier: %w", err)
	}

	now := time.Now()
	return &Request{
		State:        state,
		CodeVerifier: verifier,
		RequestedAt:  now,
		ExpiresAt:    now.Add(ttl),
	}, nil
}

func randomValue() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// S256Challenge computes the PKCE code challenge for a verifier.
func S256Challenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}
