package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FahimJadid/revamp-app/internal/auth"
	"github.com/FahimJadid/revamp-app/internal/auth/directory"
	"github.com/FahimJadid/revamp-app/internal/session"
)

func authedRequest(t *testing.T, store session.Store, dir directory.Directory) (*http.Request, *directory.User) {
	t.Helper()

	user, err := dir.ResolveOrCreate(context.Background(), &auth.Profile{
		Provider:   "google",
		ProviderID: "subject-123",
	})
	require.NoError(t, err)

	token, err := store.Create(context.Background(), user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	return req, user
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	dir := directory.NewMemoryDirectory()
	mw := NewAuthMiddleware(store, dir)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("downstream handler must not run")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	mw.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireAuthAttachesUser(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	dir := directory.NewMemoryDirectory()
	mw := NewAuthMiddleware(store, dir)

	req, want := authedRequest(t, store, dir)

	var got *directory.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		got = user
	})

	rec := httptest.NewRecorder()
	mw.RequireAuth(next).ServeHTTP(rec, req)

	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
}

func TestRequireAuthRejectsRevokedSession(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	dir := directory.NewMemoryDirectory()
	mw := NewAuthMiddleware(store, dir)

	req, _ := authedRequest(t, store, dir)

	cookie, err := req.Cookie(session.CookieName)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), cookie.Value))

	rec := httptest.NewRecorder()
	mw.RequireAuth(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCurrentUser(t *testing.T) {
	store := session.NewMemoryStore(time.Hour)
	dir := directory.NewMemoryDirectory()
	mw := NewAuthMiddleware(store, dir)

	anon := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, mw.CurrentUser(anon))

	req, want := authedRequest(t, store, dir)
	got := mw.CurrentUser(req)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
}
