package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/service"
)

// UserHandler serves profiles and the follow graph.
type UserHandler struct {
	social   *service.SocialService
	snippets *service.SnippetService
	sessions *service.SessionManager
	logger   *slog.Logger
}

func NewUserHandler(social *service.SocialService, snippets *service.SnippetService, sessions *service.SessionManager, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		social:   social,
		snippets: snippets,
		sessions: sessions,
		logger:   logger,
	}
}

// HandleProfile returns a user with follower, snippet and like totals.
//
// HTTP: GET /api/users/{id}
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.social.Profile(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HTTP: GET /api/users/{id}/snippets
func (h *UserHandler) HandleSnippets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if _, err := h.social.Profile(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.snippets.UserSnippets(ctx, callerID(r), id))
}

// HTTP: GET /api/users/{id}/likes
func (h *UserHandler) HandleLikes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	if _, err := h.social.Profile(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.snippets.LikedSnippets(ctx, callerID(r), id))
}

// HTTP: GET /api/users/{id}/followers
func (h *UserHandler) HandleFollowers(w http.ResponseWriter, r *http.Request) {
	followers, err := h.social.Followers(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, followers)
}

// HTTP: GET /api/users/{id}/following
func (h *UserHandler) HandleFollowing(w http.ResponseWriter, r *http.Request) {
	following, err := h.social.Following(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, following)
}

type followResponse struct {
	Following bool `json:"following"`
	Followers int  `json:"followers"`
}

// HandleToggleFollow follows or unfollows the user in the path.
//
// HTTP: POST /api/users/{id}/follow
func (h *UserHandler) HandleToggleFollow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	following, err := h.social.ToggleFollow(ctx, callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.social.Profile(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, followResponse{Following: following, Followers: p.FollowerCount})
}

type roleRequest struct {
	Role model.Role `json:"role"`
}

// HandleChangeRole sets another user's role. Admin only.
//
// HTTP: PUT /api/users/{id}/role
func (h *UserHandler) HandleChangeRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.sessions.ChangeUserRole(r.Context(), callerID(r), r.PathValue("id"), req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u.Public())
}
