package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FahimJadid/revamp-app/internal/auth"
	"github.com/FahimJadid/revamp-app/internal/auth/directory"
	"github.com/FahimJadid/revamp-app/internal/auth/provider"
	"github.com/FahimJadid/revamp-app/internal/auth/state"
	"github.com/FahimJadid/revamp-app/internal/logger"
	"github.com/FahimJadid/revamp-app/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	// entryPath is the public page unauthenticated outcomes land on.
	entryPath = "/"
	// landingPath is the protected page a successful login lands on.
	landingPath = "/dashboard"

	// exchangeTimeout bounds the server-to-server token and profile
	// calls; a slower provider is treated as a provider failure.
	exchangeTimeout = 10 * time.Second
)

type Handler struct {
	providers *provider.Registry
	states    state.Store
	sessions  session.Store
	directory directory.Directory
}

func NewHandler(
	registry *provider.Registry,
	states state.Store,
	sessions session.Store,
	dir directory.Directory,
) *Handler {
	return &Handler{
		providers: registry,
		states:    states,
		sessions:  sessions,
		directory: dir,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/:provider", h.login)
	r.GET("/auth/:provider/callback", h.callback)
	r.POST("/auth/logout", h.Logout)
}

// login initiates the authorization-code flow: record a pending
// authorization request and send the browser to the provider.
func (h *Handler) login(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.Redirect(http.StatusFound, entryPath)
		return
	}

	req, err := h.states.Issue(c.Request.Context())
	if err != nil {
		logger.Error("failed to record authorization request", "error", err.Error())
		c.Redirect(http.StatusFound, entryPath)
		return
	}

	authURL := p.AuthCodeURL(req.State, state.S256Challenge(req.CodeVerifier))
	c.Redirect(http.StatusFound, authURL)
}

// callback finishes the flow. Every outcome is a redirect; the failure
// class only decides the log level, no detail reaches the browser.
func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")

	err := h.completeCallback(c, providerName)
	if err == nil {
		c.Redirect(http.StatusFound, landingPath)
		return
	}

	switch {
	case errors.Is(err, auth.ErrDenied):
		// Expected outcome, the user changed their mind.
		logger.Info("oauth consent denied", "provider", providerName)
	case errors.Is(err, auth.ErrStateMismatch):
		// Forged, replayed, or expired callback.
		logger.Warn("oauth state mismatch",
			"provider", providerName,
			"ip", c.ClientIP(),
		)
	default:
		// Provider or directory fault. Not retried; the user re-initiates.
		logger.Error("login failed", "provider", providerName, "error", err.Error())
	}

	c.Redirect(http.StatusFound, entryPath)
}

// completeCallback validates the callback, exchanges the code, resolves
// the user, and establishes the session. On success the session cookie
// has been set.
func (h *Handler) completeCallback(c *gin.Context, providerName string) error {
	p, err := h.providers.Get(providerName)
	if err != nil {
		return fmt.Errorf("%w: %v", auth.ErrStateMismatch, err)
	}

	stateValue := c.Query("state")

	// Provider reported an error instead of a code. The pending request
	// is still consumed: state values are single use on every
	// completion path.
	if errParam := c.Query("error"); errParam != "" {
		_, _ = h.states.Consume(c.Request.Context(), stateValue)
		return fmt.Errorf("%w: %s", auth.ErrDenied, errParam)
	}

	req, err := h.states.Consume(c.Request.Context(), stateValue)
	if err != nil {
		return fmt.Errorf("authorization request lookup: %w", err)
	}
	if req == nil {
		return auth.ErrStateMismatch
	}

	code := c.Query("code")
	if code == "" {
		return fmt.Errorf("%w: callback carried neither code nor error", auth.ErrProvider)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), exchangeTimeout)
	defer cancel()

	profile, err := p.Exchange(ctx, code, req.CodeVerifier)
	if err != nil {
		return fmt.Errorf("%w: %v", auth.ErrProvider, err)
	}

	user, err := h.directory.ResolveOrCreate(ctx, profile)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	token, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	// Session-scoped cookie: no Expires attribute, the server-side
	// expiry is authoritative.
	session.SetCookie(c.Writer, token, time.Time{}, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	logger.Info("login succeeded",
		"provider", providerName,
		"user_id", user.ID,
		"ip", c.ClientIP(),
	)

	return nil
}

// Logout clears the session. Best effort: it succeeds from the user's
// perspective even when the cookie is absent or invalid.
func (h *Handler) Logout(c *gin.Context) {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Revoke(c.Request.Context(), cookie.Value); err != nil {
			logger.Error("failed to revoke session", "error", err.Error())
		}
	}

	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, entryPath)
}
