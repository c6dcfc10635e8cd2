// Package server is the composition root: it wires the store into services,
// services into handlers, and handlers into routes, then runs the HTTP server
// until its context is cancelled.
//
//	Store (sqlite | postgres) → services → handlers → chi router
//
// The server does not own the store; whoever opened it closes it.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/affirmations/internal/auth"
	"github.com/sakif/affirmations/internal/calendar"
	"github.com/sakif/affirmations/internal/handler"
	"github.com/sakif/affirmations/internal/media"
	"github.com/sakif/affirmations/internal/middleware"
	"github.com/sakif/affirmations/internal/repository"
	"github.com/sakif/affirmations/internal/service"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	defaultJanitorInterval = time.Hour
)

// Config holds what the server needs beyond its dependencies.
type Config struct {
	Port            int
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	JanitorInterval time.Duration
	JWTSecret       string
	Session         auth.SessionConfig
}

// Deps are the collaborators the server is built from. Media, Calendar and
// Passwords fall back to defaults when nil.
type Deps struct {
	Store     repository.Store
	Media     media.Resolver
	Calendar  *calendar.Calendar
	Passwords *auth.PasswordService
}

type Server struct {
	router   *chi.Mux
	config   Config
	logger   *slog.Logger
	sessions *auth.SessionManager
}

// New wires every layer and registers the routes.
func New(cfg Config, deps Deps, logger *slog.Logger) (*Server, error) {
	if deps.Store == nil {
		return nil, errors.New("server: a store is required")
	}
	if deps.Media == nil {
		deps.Media = media.Noop{}
	}
	if deps.Calendar == nil {
		deps.Calendar = calendar.New(nil)
	}
	if deps.Passwords == nil {
		deps.Passwords = auth.NewPasswordService()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = defaultJanitorInterval
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		sessions: auth.NewSessionManager(deps.Store.Sessions(), tokens, cfg.Session, logger),
	}
	s.setupRoutes(deps)
	return s, nil
}

// Handler exposes the router, for tests and for embedding in another server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes registers middleware and endpoints.
//
// Middleware order: RequestID → RealIP → Logger → Recoverer → CORS. The
// logger sits outside Recoverer so recovered panics are logged as 500s.
func (s *Server) setupRoutes(deps Deps) {
	st := deps.Store

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authSvc := service.NewAuthService(st.Users(), st.Categories(), s.sessions, deps.Passwords, s.logger)
	userSvc := service.NewUserService(st.Users(), st.Categories(), s.logger)
	affSvc := service.NewAffirmationService(st.Affirmations(), st.Categories(), st.Favorites(), deps.Media, s.logger)
	moodSvc := service.NewMoodService(st.Moods(), deps.Calendar, s.logger)
	favSvc := service.NewFavoriteService(st.Favorites(), st.Affirmations(), deps.Media, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, userSvc, s.sessions, s.logger)
	userHandler := handler.NewUserHandler(userSvc, s.logger)
	affHandler := handler.NewAffirmationHandler(affSvc, s.logger)
	moodHandler := handler.NewMoodHandler(moodSvc, s.logger)
	favHandler := handler.NewFavoriteHandler(favSvc, s.logger)
	healthHandler := handler.NewHealthHandler(st, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/affirmations", affHandler.HandleList)
		r.Get("/affirmations/category/{name}", affHandler.HandleByCategory)
		r.Get("/categories", affHandler.HandleCategories)

		r.With(auth.OptionalAuth(s.sessions)).Get("/affirmations/daily", affHandler.HandleDaily)

		// Signed in
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.sessions))

			r.Post("/logout", authHandler.HandleLogout)
			r.Get("/user", authHandler.HandleMe)
			r.Patch("/user/preferences", userHandler.HandlePreferences)
			r.Patch("/user/streak", userHandler.HandleStreak)

			r.Post("/moods", moodHandler.HandleRecord)
			r.Get("/moods", moodHandler.HandleHistory)
			r.Get("/moods/today", moodHandler.HandleToday)

			r.Post("/favorites", favHandler.HandleAdd)
			r.Get("/favorites", favHandler.HandleList)
			r.Delete("/favorites/{affirmationId}", favHandler.HandleRemove)
		})
	})
}

// Start serves HTTP and sweeps expired sessions until ctx is cancelled, then
// drains in-flight requests within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.sessions.RunJanitor(janitorCtx, s.config.JanitorInterval)
	}()
	defer func() {
		stopJanitor()
		wg.Wait()
	}()

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}
	return nil
}
