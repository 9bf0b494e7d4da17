package handlers

import (
	"context"
	"net/http"

	"projection/internal/auth"
	"projection/internal/result"
	"projection/models"
	"projection/services/flags"
)

type flagsService interface {
	AddLike(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}]
	RemoveLike(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}]
	CheckIsLiked(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool
	GetUserLikes(ctx context.Context, userID string) result.Result[[]models.LibraryItem]

	MarkAsWatched(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}]
	UnmarkAsWatched(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}]
	CheckIsWatched(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool
	GetUserWatched(ctx context.Context, userID string) result.Result[[]models.LibraryItem]

	AddToWatchlist(ctx context.Context, userID string, tmdbID int64, ct models.ContentType, notes string) result.Result[struct{}]
	RemoveFromWatchlist(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}]
	CheckIsInWatchlist(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool
	GetUserWatchlist(ctx context.Context, userID string) result.Result[[]models.LibraryItem]
}

var _ flagsService = (*flags.Service)(nil)

// FlagsHandler serves the three per-user content flags: likes, watched
// marks, and the watchlist. Toggle endpoints read the current state first
// and flip it, so double-clicks converge instead of erroring.
type FlagsHandler struct {
	Flags flagsService
}

func NewFlagsHandler(flagsSvc flagsService) *FlagsHandler {
	return &FlagsHandler{Flags: flagsSvc}
}

// toggleResponse reports the state after a flip.
type toggleResponse struct {
	Active bool `json:"active"`
}

// ToggleLike handles POST /api/users/me/likes/{mediaType}/{id}/toggle.
func (h *FlagsHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Flags.CheckIsLiked, h.Flags.AddLike, h.Flags.RemoveLike)
}

// ToggleWatched handles POST /api/users/me/watched/{mediaType}/{id}/toggle.
func (h *FlagsHandler) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.Flags.CheckIsWatched, h.Flags.MarkAsWatched, h.Flags.UnmarkAsWatched)
}

// ToggleWatchlist handles POST /api/users/me/watchlist/{mediaType}/{id}/toggle.
func (h *FlagsHandler) ToggleWatchlist(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r,
		h.Flags.CheckIsInWatchlist,
		func(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}] {
			var body struct {
				Notes string `json:"notes"`
			}
			decodeBody(r, &body) // optional body; absent notes are fine
			return h.Flags.AddToWatchlist(ctx, userID, tmdbID, ct, body.Notes)
		},
		h.Flags.RemoveFromWatchlist,
	)
}

type checkFn func(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool
type flipFn func(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}]

func (h *FlagsHandler) toggle(w http.ResponseWriter, r *http.Request, check checkFn, add, remove flipFn) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	ct, tmdbID, err := contentParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	ctx := r.Context()
	if check(ctx, user.ID, tmdbID, ct) {
		if res := remove(ctx, user.ID, tmdbID, ct); !res.OK() {
			writeJSON(w, http.StatusBadGateway, res)
			return
		}
		writeJSON(w, http.StatusOK, result.Ok(toggleResponse{Active: false}))
		return
	}

	if res := add(ctx, user.ID, tmdbID, ct); !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, result.Ok(toggleResponse{Active: true}))
}

// GetLikes handles GET /api/users/me/likes.
func (h *FlagsHandler) GetLikes(w http.ResponseWriter, r *http.Request) {
	h.collection(w, r, h.Flags.GetUserLikes)
}

// GetWatched handles GET /api/users/me/watched.
func (h *FlagsHandler) GetWatched(w http.ResponseWriter, r *http.Request) {
	h.collection(w, r, h.Flags.GetUserWatched)
}

// GetWatchlist handles GET /api/users/me/watchlist.
func (h *FlagsHandler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	h.collection(w, r, h.Flags.GetUserWatchlist)
}

func (h *FlagsHandler) collection(w http.ResponseWriter, r *http.Request, fetch func(ctx context.Context, userID string) result.Result[[]models.LibraryItem]) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	res := fetch(r.Context(), user.ID)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
