package app

import (
	"context"
	"net/http"

	"github.com/FahimJadid/revamp-app/internal/auth/directory"
	"github.com/FahimJadid/revamp-app/internal/auth/handler"
	"github.com/FahimJadid/revamp-app/internal/auth/provider"
	"github.com/FahimJadid/revamp-app/internal/auth/provider/google"
	"github.com/FahimJadid/revamp-app/internal/auth/state"
	"github.com/FahimJadid/revamp-app/internal/config"
	"github.com/FahimJadid/revamp-app/internal/middleware"
	"github.com/FahimJadid/revamp-app/internal/session"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	sessionStore := session.NewRedisStore(infra.Redis.Client, cfg.SessionTTL)
	stateStore := state.NewRedisStore(infra.Redis.Client, cfg.StateTTL)
	userDirectory := directory.NewPostgresDirectory(infra.DB)

	googleProvider, err := google.New(
		ctx,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(googleProvider)

	authHandler := handler.NewHandler(
		registry,
		stateStore,
		sessionStore,
		userDirectory,
	)

	authMiddleware := middleware.NewAuthMiddleware(sessionStore, userDirectory)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/", func(c *gin.Context) {
		if user := authMiddleware.CurrentUser(c.Request); user != nil {
			c.String(http.StatusOK, "Signed in as %s. Visit /dashboard.", user.DisplayName)
			return
		}
		c.String(http.StatusOK, "Welcome. Sign in at /auth/google.")
	})

	// ----------------------------
	// Protected Web Routes
	// ----------------------------

	web := router.Group("/")
	web.Use(middleware.GinRequireAuth(authMiddleware))

	web.GET("/dashboard", func(c *gin.Context) {
		user, _ := middleware.UserFromContext(c.Request.Context())
		c.String(http.StatusOK, "Dashboard for %s (%s)", user.DisplayName, user.Email)
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
