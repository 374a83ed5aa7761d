// Package app builds the snipshare object graph from a Config. Both the HTTP
// server and the CLI start here, so they share one storage file and one
// persisted session.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/config"
	"github.com/sakif/snipshare/internal/service"
	"github.com/sakif/snipshare/internal/storage"
	"github.com/sakif/snipshare/internal/store"
)

// App holds the wired services. The caller must call Close when done.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Storage  *storage.Storage
	Store    *store.Store
	Sessions *service.SessionManager
	Snippets *service.SnippetService
	Social   *service.SocialService
	Tokens   *auth.TokenService // nil when no JWT secret is configured
}

// New opens storage, seeds it on first run and restores the persisted session.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...store.Option) (*App, error) {
	st, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("app: opening storage: %w", err)
	}

	s := store.New(st, logger, opts...)
	sessions := service.NewSessionManager(s, auth.NewHasher(cfg.Auth), logger)

	if err := sessions.Bootstrap(ctx, cfg.Seed); err != nil {
		st.Close()
		return nil, fmt.Errorf("app: seeding: %w", err)
	}
	sessions.Init(ctx)

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Storage:  st,
		Store:    s,
		Sessions: sessions,
		Snippets: service.NewSnippetService(s, logger),
		Social:   service.NewSocialService(s, logger),
	}

	if cfg.Auth.JWTSecret != "" {
		tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("app: creating token service: %w", err)
		}
		a.Tokens = tokens
	}

	return a, nil
}

func (a *App) Close() error {
	return a.Storage.Close()
}
