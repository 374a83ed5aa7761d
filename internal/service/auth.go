package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/model"
)

// AuthService pairs the session manager with token issuance for the HTTP API.
type AuthService struct {
	sessions *SessionManager
	tokens   *auth.TokenService
	logger   *slog.Logger
}

func NewAuthService(sessions *SessionManager, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{sessions: sessions, tokens: tokens, logger: logger}
}

// AuthResult is what the HTTP layer needs after a successful login: the
// user to render and the token to put in the cookie.
type AuthResult struct {
	User  model.PublicUser
	Token string
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	u, err := s.sessions.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	u, err := s.sessions.Register(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Logout(ctx)
}

func (s *AuthService) issue(u *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(u.ID)
	if err != nil {
		s.logger.Error("failed to issue token",
			slog.String("user_id", u.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service: issuing token: %w", err)
	}
	return &AuthResult{User: u.Public(), Token: token}, nil
}

// TokenTTL is how long issued tokens stay valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
