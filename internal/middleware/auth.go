package middleware

import (
	"context"
	"net/http"

	"github.com/FahimJadid/revamp-app/internal/auth/directory"
	"github.com/FahimJadid/revamp-app/internal/session"
)

// unexported, collision-proof context key
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (*directory.User, bool) {
	user, ok := ctx.Value(userKey).(*directory.User)
	return user, ok
}

type AuthMiddleware struct {
	Store     session.Store
	Directory directory.Directory

	// LoginPath is where unauthenticated requests are redirected.
	LoginPath string
}

func NewAuthMiddleware(store session.Store, dir directory.Directory) *AuthMiddleware {
	return &AuthMiddleware{
		Store:     store,
		Directory: dir,
		LoginPath: "/",
	}
}

// CurrentUser returns the user on this request, or nil. It never writes
// a response; view code uses it to vary anonymous vs authenticated
// content.
func (a *AuthMiddleware) CurrentUser(r *http.Request) *directory.User {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	sess, err := a.Store.Lookup(r.Context(), cookie.Value)
	if err != nil || sess == nil {
		return nil
	}

	user, err := a.Directory.ByID(r.Context(), sess.UserID)
	if err != nil {
		return nil
	}
	return user
}

// RequireAuth gates protected routes: a valid session attaches the user
// to the request context, anything else redirects to the login entry
// page.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := a.CurrentUser(r)
		if user == nil {
			http.Redirect(w, r, a.LoginPath, http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
