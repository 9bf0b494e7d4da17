package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/sourcegraph/conc"

	"projection/internal/auth"
	"projection/internal/result"
	"projection/models"
	authsvc "projection/services/auth"
	"projection/services/flags"
	"projection/services/ratings"
	"projection/services/sessions"
)

type profileService interface {
	UpdateProfile(ctx context.Context, userID string, update authsvc.ProfileUpdate) result.Result[models.SessionUser]
	ChangePassword(ctx context.Context, userID string, change authsvc.PasswordChange) result.Result[struct{}]
	UploadProfilePicture(ctx context.Context, userID, filename string, data []byte) result.Result[models.SessionUser]
	GetUserStats(ctx context.Context, userID string) result.Result[models.UserStats]
}

var _ profileService = (*authsvc.Service)(nil)

type libraryService interface {
	GetUserLikes(ctx context.Context, userID string) result.Result[[]models.LibraryItem]
	GetUserWatched(ctx context.Context, userID string) result.Result[[]models.LibraryItem]
	GetUserWatchlist(ctx context.Context, userID string) result.Result[[]models.LibraryItem]
}

var _ libraryService = (*flags.Service)(nil)

type ratingHistoryService interface {
	GetUserRatings(ctx context.Context, token, userID string) result.Result[[]models.Rating]
}

var _ ratingHistoryService = (*ratings.Service)(nil)

type sessionUpdater interface {
	UpdateUser(user models.SessionUser) int
}

var _ sessionUpdater = (*sessions.Service)(nil)

// maxAvatarUploadBytes caps the request body read for avatar uploads.
const maxAvatarUploadBytes = 10 << 20 // 10 MiB

// ProfileHandler serves the profile page bundle and account maintenance.
type ProfileHandler struct {
	Profile  profileService
	Library  libraryService
	Ratings  ratingHistoryService
	Sessions sessionUpdater
}

func NewProfileHandler(profile profileService, library libraryService, ratingsSvc ratingHistoryService, sessionsSvc sessionUpdater) *ProfileHandler {
	return &ProfileHandler{Profile: profile, Library: library, Ratings: ratingsSvc, Sessions: sessionsSvc}
}

// ProfileBundleResponse is the combined payload returned by
// GET /api/users/me/profile. Each section degrades independently; a failed
// fetch leaves its section empty rather than failing the page.
type ProfileBundleResponse struct {
	User      models.SessionUser   `json:"user"`
	Stats     *models.UserStats    `json:"stats,omitempty"`
	Likes     []models.LibraryItem `json:"likes"`
	Watched   []models.LibraryItem `json:"watched"`
	Watchlist []models.LibraryItem `json:"watchlist"`
	Ratings   []models.Rating      `json:"ratings"`
}

// GetProfileBundle returns all profile-page data in a single response.
func (h *ProfileHandler) GetProfileBundle(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	session, _ := auth.SessionFrom(r)

	ctx := r.Context()
	resp := ProfileBundleResponse{User: user}

	var wg conc.WaitGroup
	wg.Go(func() {
		if res := h.Profile.GetUserStats(ctx, user.ID); res.OK() {
			stats := res.Data()
			resp.Stats = &stats
		}
	})
	wg.Go(func() {
		if res := h.Library.GetUserLikes(ctx, user.ID); res.OK() {
			resp.Likes = res.Data()
		}
	})
	wg.Go(func() {
		if res := h.Library.GetUserWatched(ctx, user.ID); res.OK() {
			resp.Watched = res.Data()
		}
	})
	wg.Go(func() {
		if res := h.Library.GetUserWatchlist(ctx, user.ID); res.OK() {
			resp.Watchlist = res.Data()
		}
	})
	wg.Go(func() {
		if res := h.Ratings.GetUserRatings(ctx, session.BackendToken, user.ID); res.OK() {
			resp.Ratings = res.Data()
		}
	})
	wg.Wait()

	if resp.Likes == nil {
		resp.Likes = []models.LibraryItem{}
	}
	if resp.Watched == nil {
		resp.Watched = []models.LibraryItem{}
	}
	if resp.Watchlist == nil {
		resp.Watchlist = []models.LibraryItem{}
	}
	if resp.Ratings == nil {
		resp.Ratings = []models.Rating{}
	}

	writeJSON(w, http.StatusOK, resp)
}

// UpdateProfile handles PUT /api/users/me/profile. On success the stored
// session identity is refreshed so subsequent requests see the new fields.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var update authsvc.ProfileUpdate
	if err := decodeBody(r, &update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.Profile.UpdateProfile(r.Context(), user.ID, update)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}

	h.Sessions.UpdateUser(res.Data())
	writeJSON(w, http.StatusOK, res)
}

// ChangePassword handles PUT /api/users/me/password. The backend verifies
// the current password; a mismatch comes back in the failure envelope.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var change authsvc.PasswordChange
	if err := decodeBody(r, &change); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if change.CurrentPassword == "" || change.NewPassword == "" {
		writeJSON(w, http.StatusBadRequest, result.Fail[struct{}](result.Error{
			Message:          "Validation failed",
			ValidationErrors: map[string]string{"password": "Both current and new password are required"},
		}))
		return
	}
	if len(change.NewPassword) < 6 {
		writeJSON(w, http.StatusBadRequest, result.Fail[struct{}](result.Error{
			Message:          "Validation failed",
			ValidationErrors: map[string]string{"newPassword": "Password must be at least 6 characters long"},
		}))
		return
	}

	res := h.Profile.ChangePassword(r.Context(), user.ID, change)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// UploadAvatar handles POST /api/users/me/avatar as a multipart form with
// an "image" part.
func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	res := h.Profile.UploadProfilePicture(r.Context(), user.ID, header.Filename, data)
	if !res.OK() {
		// Validation failures carry field errors; everything else is upstream.
		status := http.StatusBadGateway
		if res.Err().ValidationErrors != nil {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, res)
		return
	}

	h.Sessions.UpdateUser(res.Data())
	writeJSON(w, http.StatusOK, res)
}
