// Package service holds the business rules that sit between the callers
// (HTTP handlers, the CLI) and the entity store.
//
//	Handler / CLI   → parses input, renders output
//	Service         → validates, checks permissions, orchestrates
//	Store           → reads and writes collections
//
// Services accept plain values, never HTTP types, and return apperror
// values the callers translate into status codes or messages.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/config"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/store"
)

const MinPasswordLength = 6

// SessionManager tracks the single logged-in user.
//
// The session is an explicit value held here: Init loads it from the store,
// Login and Register replace it, Logout clears it. Every change is written
// through to the store so another process (or a restart) sees it too.
type SessionManager struct {
	store  *store.Store
	hasher auth.PasswordHasher
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *model.Session
}

func NewSessionManager(st *store.Store, hasher auth.PasswordHasher, logger *slog.Logger) *SessionManager {
	return &SessionManager{
		store:  st,
		hasher: hasher,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Init loads the persisted session. A session pointing at a user that no
// longer exists is dropped.
func (m *SessionManager) Init(ctx context.Context) {
	sess := m.store.LoadSession(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if sess != nil && m.store.UserByID(ctx, sess.UserID) == nil {
		m.logger.Warn("dropping session for missing user", slog.String("user_id", sess.UserID))
		if err := m.store.ClearSession(ctx); err != nil {
			m.logger.Error("clearing stale session", slog.String("error", err.Error()))
		}
		sess = nil
	}
	m.current = sess
}

// Bootstrap seeds the admin account and example snippets on first run.
func (m *SessionManager) Bootstrap(ctx context.Context, cfg config.SeedConfig) error {
	if !cfg.Enabled {
		return nil
	}
	// The admin is only created into an empty store; skip the hash otherwise.
	var password string
	if len(m.store.Users(ctx)) == 0 {
		hashed, err := m.hasher.Hash(cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("service: hashing seed password: %w", err)
		}
		password = hashed
	}
	return m.store.Seed(ctx, store.SeedOptions{
		AdminUsername: cfg.AdminUsername,
		AdminPassword: password,
		AdminRole:     model.RoleAdmin,
	})
}

// Login checks the credentials and makes username the active session.
func (m *SessionManager) Login(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "username and password are required")
	}

	u := m.store.UserByUsername(ctx, username)
	if u == nil || m.hasher.Verify(u.Password, password) != nil {
		m.logger.Info("login rejected", slog.String("username", username))
		return nil, apperror.Unauthenticated("invalid username or password")
	}

	sess := model.Session{
		UserID:    u.ID,
		Username:  u.Username,
		Role:      u.Role,
		LoginTime: m.now(),
	}
	if err := m.store.SaveSession(ctx, sess); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.current = &sess
	m.mu.Unlock()

	m.logger.Info("user logged in", slog.String("user_id", u.ID), slog.String("username", u.Username))
	return u, nil
}

// Register creates an account and logs it in.
func (m *SessionManager) Register(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, apperror.ValidationFailed("username", "username and password are required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if !model.ValidUsername(username) {
		return nil, apperror.ValidationFailed("username", "username may only contain letters, digits, and underscores")
	}

	stored, err := m.hasher.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", apperror.MessageOf(err))
	}
	if _, err := m.store.CreateUser(ctx, model.NewUser{Username: username, Password: stored}); err != nil {
		return nil, err
	}

	return m.Login(ctx, username, password)
}

// Logout ends the session. It succeeds when nobody is logged in.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.ClearSession(ctx); err != nil {
		return err
	}
	if m.current != nil {
		m.logger.Info("user logged out", slog.String("user_id", m.current.UserID))
	}
	m.current = nil
	return nil
}

// Session returns a copy of the active session, or nil.
func (m *SessionManager) Session() *model.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return nil
	}
	sess := *m.current
	return &sess
}

// ActiveUserID is the id of the logged-in user, or "".
func (m *SessionManager) ActiveUserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.UserID
}

// CurrentUser resolves the session to the live user record. It returns nil
// when nobody is logged in or the user has since been deleted.
func (m *SessionManager) CurrentUser(ctx context.Context) *model.User {
	id := m.ActiveUserID()
	if id == "" {
		return nil
	}
	return m.store.UserByID(ctx, id)
}

func (m *SessionManager) IsLoggedIn(ctx context.Context) bool {
	return m.CurrentUser(ctx) != nil
}

func (m *SessionManager) IsAdmin(ctx context.Context) bool {
	u := m.CurrentUser(ctx)
	return u != nil && u.Role == model.RoleAdmin
}

// IsModerator is true for moderators and admins.
func (m *SessionManager) IsModerator(ctx context.Context) bool {
	u := m.CurrentUser(ctx)
	return u != nil && (u.Role == model.RoleModerator || u.Role == model.RoleAdmin)
}

// ChangePassword replaces userID's password after checking the current one.
func (m *SessionManager) ChangePassword(ctx context.Context, userID, current, next string) error {
	if current == "" || next == "" {
		return apperror.ValidationFailed("password", "current and new password are required")
	}
	if len(next) < MinPasswordLength {
		return apperror.ValidationFailed("password",
			fmt.Sprintf("new password must be at least %d characters", MinPasswordLength))
	}

	u := m.store.UserByID(ctx, userID)
	if u == nil {
		return apperror.NotFound("user", userID)
	}
	if err := m.hasher.Verify(u.Password, current); err != nil {
		return apperror.ValidationFailed("currentPassword", "current password is incorrect")
	}

	stored, err := m.hasher.Hash(next)
	if err != nil {
		return apperror.ValidationFailed("password", apperror.MessageOf(err))
	}
	if _, err := m.store.UpdateUser(ctx, userID, model.UserPatch{Password: &stored}); err != nil {
		return err
	}

	m.logger.Info("password changed", slog.String("user_id", userID))
	return nil
}

// ChangeUsername renames userID. The store rewrites author snapshots in the
// same commit; the session is patched when userID is logged in.
func (m *SessionManager) ChangeUsername(ctx context.Context, userID, username string) (*model.User, error) {
	if username == "" {
		return nil, apperror.ValidationFailed("username", "new username is required")
	}
	if !model.ValidUsername(username) {
		return nil, apperror.ValidationFailed("username", "username may only contain letters, digits, and underscores")
	}

	u, err := m.store.UpdateUser(ctx, userID, model.UserPatch{Username: &username})
	if err != nil {
		return nil, err
	}
	if err := m.patchSession(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (m *SessionManager) ChangeProfilePic(ctx context.Context, userID, url string) (*model.User, error) {
	return m.store.UpdateUser(ctx, userID, model.UserPatch{ProfilePic: &url})
}

func (m *SessionManager) ChangeBio(ctx context.Context, userID, bio string) (*model.User, error) {
	return m.store.UpdateUser(ctx, userID, model.UserPatch{Bio: &bio})
}

// ChangeUserRole sets userID's role. Only an admin may do this.
func (m *SessionManager) ChangeUserRole(ctx context.Context, actorID, userID string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperror.ValidationFailed("role", fmt.Sprintf("invalid role %q", role))
	}
	actor := m.store.UserByID(ctx, actorID)
	if actor == nil || actor.Role != model.RoleAdmin {
		return nil, apperror.Forbidden("only admins can change roles")
	}

	u, err := m.store.UpdateUser(ctx, userID, model.UserPatch{Role: &role})
	if err != nil {
		return nil, err
	}
	if err := m.patchSession(ctx, u); err != nil {
		return nil, err
	}

	m.logger.Info("role changed",
		slog.String("actor_id", actorID),
		slog.String("user_id", userID),
		slog.String("role", string(role)),
	)
	return u, nil
}

// DeleteAccount removes userID and everything they own after checking the
// password, then logs them out if they were the active user.
func (m *SessionManager) DeleteAccount(ctx context.Context, userID, password string) error {
	if password == "" {
		return apperror.ValidationFailed("password", "password is required")
	}
	u := m.store.UserByID(ctx, userID)
	if u == nil {
		return apperror.NotFound("user", userID)
	}
	if err := m.hasher.Verify(u.Password, password); err != nil {
		return apperror.ValidationFailed("password", "password is incorrect")
	}

	if err := m.store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	if m.ActiveUserID() == userID {
		return m.Logout(ctx)
	}
	return nil
}

// patchSession copies u's username and role into the session when u is the
// logged-in user.
func (m *SessionManager) patchSession(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.UserID != u.ID {
		return nil
	}
	next := *m.current
	next.Username = u.Username
	next.Role = u.Role
	if err := m.store.SaveSession(ctx, next); err != nil {
		return err
	}
	m.current = &next
	return nil
}

// RequireUser returns the live logged-in user or an Unauthenticated error.
func (m *SessionManager) RequireUser(ctx context.Context) (*model.User, error) {
	u := m.CurrentUser(ctx)
	if u == nil {
		return nil, apperror.Unauthenticated("you must be logged in")
	}
	return u, nil
}
