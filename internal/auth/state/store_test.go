package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueGeneratesDistinctRequests(t *testing.T) {
	store := NewMemoryStore(5 * time.Minute)

	a, err := store.Issue(context.Background())
	require.NoError(t, err)
	b, err := store.Issue(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, a.State)
	assert.NotEmpty(t, a.CodeVerifier)
	assert.NotEqual(t, a.State, b.State)
	assert.NotEqual(t, a.CodeVerifier, b.CodeVerifier)
	assert.True(t, a.ExpiresAt.After(a.RequestedAt))
}

func TestConsumeIsSingleUse(t *testing.T) {
	store := NewMemoryStore(5 * time.Minute)

	req, err := store.Issue(context.Background())
	require.NoError(t, err)

	first, err := store.Consume(context.Background(), req.State)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, req.CodeVerifier, first.CodeVerifier)

	replay, err := store.Consume(context.Background(), req.State)
	require.NoError(t, err)
	assert.Nil(t, replay)
}

func TestConsumeUnknownState(t *testing.T) {
	store := NewMemoryStore(5 * time.Minute)

	req, err := store.Consume(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Nil(t, req)

	req, err = store.Consume(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, req)
}

func TestConsumeExpiredState(t *testing.T) {
	store := NewMemoryStore(5 * time.Minute)

	req, err := store.Issue(context.Background())
	require.NoError(t, err)

	store.clock = func() time.Time { return req.ExpiresAt }

	consumed, err := store.Consume(context.Background(), req.State)
	require.NoError(t, err)
	assert.Nil(t, consumed)
}

func TestConcurrentConsumeOnlyOneWins(t *testing.T) {
	store := NewMemoryStore(5 * time.Minute)

	req, err := store.Issue(context.Background())
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	wins := make(chan *Request, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := store.Consume(context.Background(), req.State)
			if err == nil && got != nil {
				wins <- got
			}
		}()
	}
	wg.Wait()
	close(wins)

	assert.Len(t, wins, 1)
}

func TestS256Challenge(t *testing.T) {
	// RFC 7636 appendix B test vector.
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	assert.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", S256Challenge(verifier))
}
