// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the wiring layer: it connects handlers, middleware, and
// routes, and it owns the storage handle so it can close it on shutdown.
// cmd/server builds the services and hands them over through Deps.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/config"
	"github.com/sakif/snipshare/internal/handler"
	"github.com/sakif/snipshare/internal/middleware"
	"github.com/sakif/snipshare/internal/service"
)

// Deps are the services the routes are built on.
// Tokens may be nil, in which case only anonymous read routes are served.
type Deps struct {
	Sessions *service.SessionManager
	Snippets *service.SnippetService
	Social   *service.SocialService
	Tokens   *auth.TokenService
	Closer   io.Closer // closed once the server has stopped; may be nil
}

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config config.ServerConfig
	deps   Deps
	logger *slog.Logger
}

func New(cfg config.ServerConfig, deps Deps, logger *slog.Logger) (*Server, error) {
	if deps.Sessions == nil || deps.Snippets == nil || deps.Social == nil {
		return nil, errors.New("server: sessions, snippets and social services are required")
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		deps:   deps,
		logger: logger,
	}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all middleware and route handlers.
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns unique ID to each request (read by the logger)
// 2. RealIP: extracts real client IP from proxy headers
// 3. Logger: logs each request with timing info
// 4. Recoverer: catches panics and returns 500 instead of crashing
func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	snippetHandler := handler.NewSnippetHandler(s.deps.Snippets, s.logger)
	userHandler := handler.NewUserHandler(s.deps.Social, s.deps.Snippets, s.deps.Sessions, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		if s.deps.Tokens == nil {
			s.logger.Warn("no JWT secret configured; serving read-only API")
			s.readRoutes(r, snippetHandler, userHandler)
			return
		}

		authService := service.NewAuthService(s.deps.Sessions, s.deps.Tokens, s.logger)
		authHandler := handler.NewAuthHandler(authService, s.deps.Sessions, s.logger)

		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(s.deps.Tokens, s.deps.Sessions))
			s.readRoutes(r, snippetHandler, userHandler)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.deps.Tokens, s.deps.Sessions))

			r.Post("/auth/logout", authHandler.HandleLogout)

			r.Get("/me", authHandler.HandleMe)
			r.Delete("/me", authHandler.HandleDeleteAccount)
			r.Put("/me/username", authHandler.HandleChangeUsername)
			r.Put("/me/password", authHandler.HandleChangePassword)
			r.Put("/me/bio", authHandler.HandleChangeBio)
			r.Put("/me/profile-pic", authHandler.HandleChangeProfilePic)

			r.Post("/snippets", snippetHandler.HandleCreate)
			r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
			r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
			r.Post("/snippets/{id}/like", snippetHandler.HandleToggleLike)
			r.Post("/snippets/{id}/comments", snippetHandler.HandleAddComment)
			r.Delete("/comments/{id}", snippetHandler.HandleDeleteComment)

			r.Post("/users/{id}/follow", userHandler.HandleToggleFollow)
			r.Put("/users/{id}/role", userHandler.HandleChangeRole)
		})
	})
}

func (s *Server) readRoutes(r chi.Router, snippets *handler.SnippetHandler, users *handler.UserHandler) {
	r.Get("/snippets", snippets.HandleList)
	r.Get("/snippets/{id}", snippets.HandleGet)
	r.Get("/snippets/{id}/comments", snippets.HandleListComments)

	r.Get("/users/{id}", users.HandleProfile)
	r.Get("/users/{id}/snippets", users.HandleSnippets)
	r.Get("/users/{id}/likes", users.HandleLikes)
	r.Get("/users/{id}/followers", users.HandleFollowers)
	r.Get("/users/{id}/following", users.HandleFollowing)
}

// Start starts the HTTP server and blocks until it fails or receives
// SIGINT/SIGTERM, in which case in-flight requests get 30 seconds to finish.
// The storage handle is closed on the way out.
func (s *Server) Start() error {
	if s.deps.Closer != nil {
		defer func() {
			if err := s.deps.Closer.Close(); err != nil {
				s.logger.Error("closing storage", slog.String("error", err.Error()))
			}
		}()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

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

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
