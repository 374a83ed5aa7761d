package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/snipshare/internal/apperror"
	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/service"
)

// AuthHandler covers login state and the logged-in user's own account.
//
//   - HandleRegister / HandleLogin → start a session, set the token cookie
//   - HandleLogout                 → end the session, clear the cookie
//   - HandleMe and the /api/me/*   → read and change the caller's account
type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionManager
	logger   *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, sessions *service.SessionManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     authService,
		sessions: sessions,
		logger:   logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type meResponse struct {
	User    model.PublicUser `json:"user"`
	Session model.Session    `json:"session"`
}

// HandleRegister creates an account and logs it in.
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"username": "alice", "password": "secret1"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetTokenCookie(w, res.Token, h.auth.TokenTTL())
	writeJSON(w, http.StatusCreated, res.User)
}

// HandleLogin checks credentials and replaces the active session.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	auth.SetTokenCookie(w, res.Token, h.auth.TokenTTL())
	writeJSON(w, http.StatusOK, res.User)
}

// HandleLogout ends the session. Because tokens are only honoured for the
// active session user, every outstanding token stops working too.
//
// HTTP: POST /api/auth/logout (requires auth)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	auth.ClearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the logged-in user and their session.
//
// HTTP: GET /api/me (requires auth)
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.sessions.RequireUser(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	sess := h.sessions.Session()
	if sess == nil {
		writeError(w, apperror.Unauthenticated("you must be logged in"))
		return
	}
	writeJSON(w, http.StatusOK, meResponse{User: u.Public(), Session: *sess})
}

type usernameRequest struct {
	Username string `json:"username"`
}

// HTTP: PUT /api/me/username
func (h *AuthHandler) HandleChangeUsername(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.sessions.ChangeUsername(r.Context(), callerID(r), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Public())
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// HTTP: PUT /api/me/password
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.sessions.ChangePassword(r.Context(), callerID(r), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bioRequest struct {
	Bio string `json:"bio"`
}

// HTTP: PUT /api/me/bio
func (h *AuthHandler) HandleChangeBio(w http.ResponseWriter, r *http.Request) {
	var req bioRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.sessions.ChangeBio(r.Context(), callerID(r), req.Bio)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Public())
}

type profilePicRequest struct {
	ProfilePic string `json:"profilePic"`
}

// HTTP: PUT /api/me/profile-pic
// The picture is a URL or a data URI.
func (h *AuthHandler) HandleChangeProfilePic(w http.ResponseWriter, r *http.Request) {
	var req profilePicRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.sessions.ChangeProfilePic(r.Context(), callerID(r), req.ProfilePic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Public())
}

type deleteAccountRequest struct {
	Password string `json:"password"`
}

// HandleDeleteAccount removes the caller and everything they own.
//
// HTTP: DELETE /api/me
func (h *AuthHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req deleteAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.sessions.DeleteAccount(r.Context(), callerID(r), req.Password); err != nil {
		writeError(w, err)
		return
	}
	auth.ClearTokenCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// callerID is the authenticated user id, or "" for anonymous requests.
func callerID(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
