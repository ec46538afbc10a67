package provider

import (
	"context"
	"testing"

	"github.com/FahimJadid/revamp-app/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct{ name string }

func (f fakeProvider) Name() string                        { return f.name }
func (f fakeProvider) AuthCodeURL(state, challenge string) string { return "https://example.com" }
func (f fakeProvider) Exchange(ctx context.Context, code, verifier string) (*auth.Profile, error) {
	return nil, nil
}

func TestRegistryGet(t *testing.T) {
	registry := NewRegistry(fakeProvider{name: "google"})

	p, err := registry.Get("google")
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())

	_, err = registry.Get("github")
	assert.Error(t, err)
}
