package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGoogle serves just enough of the OIDC surface for the provider:
// discovery, token endpoint, and userinfo endpoint.
type fakeGoogle struct {
	srv *httptest.Server

	tokenStatus int
	userinfo    map[string]any
	lastToken   *url.Values
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()

	f := &fakeGoogle{
		tokenStatus: http.StatusOK,
		userinfo: map[string]any{
			"sub":   "10769150350006150715113082367",
			"name":  "Jane Doe",
			"email": "jane@example.com",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 f.srv.URL,
			"authorization_endpoint": f.srv.URL + "/o/oauth2/v2/auth",
			"token_endpoint":         f.srv.URL + "/token",
			"userinfo_endpoint":      f.srv.URL + "/userinfo",
			"jwks_uri":               f.srv.URL + "/certs",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		form := r.PostForm
		f.lastToken = &form
		if f.tokenStatus != http.StatusOK {
			http.Error(w, "exchange rejected", f.tokenStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-access-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-access-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(f.userinfo)
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func newTestProvider(t *testing.T, f *fakeGoogle) *Provider {
	t.Helper()
	p, err := NewWithIssuer(
		context.Background(),
		f.srv.URL,
		"client-id",
		"client-secret",
		"https://app.example.com/auth/google/callback",
	)
	require.NoError(t, err)
	return p
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(context.Background(), "", "secret", "https://cb")
	assert.Error(t, err)
}

func TestAuthCodeURL(t *testing.T) {
	f := newFakeGoogle(t)
	p := newTestProvider(t, f)

	raw := p.AuthCodeURL("state-1", "challenge-1")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "challenge-1", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Contains(t, q.Get("scope"), "openid")
}

func TestExchangeFetchesProfile(t *testing.T) {
	f := newFakeGoogle(t)
	p := newTestProvider(t, f)

	profile, err := p.Exchange(context.Background(), "auth-code", "verifier-1")
	require.NoError(t, err)

	assert.Equal(t, "google", profile.Provider)
	assert.Equal(t, "10769150350006150715113082367", profile.ProviderID)
	assert.Equal(t, "Jane Doe", profile.DisplayName)
	assert.Equal(t, "jane@example.com", profile.Email)

	require.NotNil(t, f.lastToken)
	assert.Equal(t, "auth-code", f.lastToken.Get("code"))
	assert.Equal(t, "verifier-1", f.lastToken.Get("code_verifier"))
}

func TestExchangeProviderFailure(t *testing.T) {
	f := newFakeGoogle(t)
	p := newTestProvider(t, f)

	f.tokenStatus = http.StatusInternalServerError

	_, err := p.Exchange(context.Background(), "auth-code", "verifier-1")
	assert.Error(t, err)
}

func TestExchangeMissingSubject(t *testing.T) {
	f := newFakeGoogle(t)
	p := newTestProvider(t, f)

	f.userinfo = map[string]any{"name": "No Subject"}

	_, err := p.Exchange(context.Background(), "auth-code", "verifier-1")
	assert.Error(t, err)
}
