package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/snipshare/internal/model"
	"github.com/sakif/snipshare/internal/service"
)

// SnippetHandler serves snippets and the likes and comments hanging off them.
//
// Read routes are mounted behind OptionalAuth: anonymous callers get the
// public feed, a logged-in caller additionally sees their own private
// snippets. Write routes sit behind RequireAuth.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// HandleList returns the feed.
//
// HTTP: GET /api/snippets?language=go
//
// RESPONSE FORMAT:
//
//	[
//	  {"id":"abc","title":"hello","language":"Go","code":"...","likes":2,"comments":1,...},
//	  ...
//	]
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	feed := h.snippets.Feed(r.Context(), callerID(r), r.URL.Query().Get("language"))
	writeJSON(w, http.StatusOK, feed)
}

// HandleGet returns one snippet.
//
// HTTP: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sn, err := h.snippets.Get(r.Context(), callerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sn)
}

type createSnippetRequest struct {
	Title       string `json:"title"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

// HandleCreate stores a new snippet authored by the caller.
//
// HTTP: POST /api/snippets
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createSnippetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sn, err := h.snippets.Create(r.Context(), callerID(r), model.NewSnippet{
		Title:       req.Title,
		Language:    req.Language,
		Code:        req.Code,
		Description: req.Description,
		Private:     req.Private,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("snippet created",
		slog.String("id", sn.ID),
		slog.String("author", sn.Author),
	)
	writeJSON(w, http.StatusCreated, sn)
}

// updateSnippetRequest uses pointers so an omitted field is left alone
// while an explicit "" or false is applied.
type updateSnippetRequest struct {
	Title       *string `json:"title"`
	Language    *string `json:"language"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
	Private     *bool   `json:"private"`
}

// HandleUpdate patches a snippet.
//
// HTTP: PUT /api/snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateSnippetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sn, err := h.snippets.Update(r.Context(), callerID(r), r.PathValue("id"), model.SnippetPatch{
		Title:       req.Title,
		Language:    req.Language,
		Code:        req.Code,
		Description: req.Description,
		Private:     req.Private,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sn)
}

// HandleDelete removes a snippet with its likes and comments.
//
// HTTP: DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.snippets.Delete(r.Context(), callerID(r), id); err != nil {
		writeError(w, err)
		return
	}
	h.logger.Info("snippet deleted", slog.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}

type likeResponse struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// HandleToggleLike likes or unlikes a snippet and reports the new state.
//
// HTTP: POST /api/snippets/{id}/like
func (h *SnippetHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	liked, err := h.snippets.ToggleLike(ctx, callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	sn, err := h.snippets.Get(ctx, callerID(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, likeResponse{Liked: liked, Likes: sn.Likes})
}

// HTTP: GET /api/snippets/{id}/comments
func (h *SnippetHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.snippets.Comments(r.Context(), callerID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

type commentRequest struct {
	Text string `json:"text"`
}

// HTTP: POST /api/snippets/{id}/comments
func (h *SnippetHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	c, err := h.snippets.AddComment(r.Context(), callerID(r), r.PathValue("id"), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HTTP: DELETE /api/comments/{id}
func (h *SnippetHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.snippets.DeleteComment(r.Context(), callerID(r), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
