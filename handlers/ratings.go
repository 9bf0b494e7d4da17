package handlers

import (
	"context"
	"net/http"

	"projection/internal/auth"
	"projection/internal/result"
	"projection/models"
	"projection/services/ratings"
)

type ratingsService interface {
	AddOrUpdateRating(ctx context.Context, token, userID string, tmdbID int64, ct models.ContentType, rating float64) result.Result[models.Rating]
	RemoveRating(ctx context.Context, token, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}]
	CheckUserRating(ctx context.Context, token, userID string, tmdbID int64, ct models.ContentType) result.Result[models.RatingStatus]
	GetUserRatings(ctx context.Context, token, userID string) result.Result[[]models.Rating]
	GetContentRatingStats(ctx context.Context, tmdbID int64, ct models.ContentType) result.Result[models.RatingStats]
}

var _ ratingsService = (*ratings.Service)(nil)

// RatingsHandler serves the star-rating endpoints. Range validation lives
// here, at the HTTP boundary; the service layer passes values through.
type RatingsHandler struct {
	Ratings ratingsService
}

func NewRatingsHandler(ratingsSvc ratingsService) *RatingsHandler {
	return &RatingsHandler{Ratings: ratingsSvc}
}

// SetRating handles PUT /api/users/me/ratings/{mediaType}/{id}. A rating of
// zero removes the existing rating.
func (h *RatingsHandler) SetRating(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	session, _ := auth.SessionFrom(r)

	ct, tmdbID, err := contentParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	var body struct {
		Rating float64 `json:"rating"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !models.ValidRatingValue(body.Rating) {
		writeJSON(w, http.StatusBadRequest, result.Fail[models.Rating](result.Error{
			Message:          "Validation failed",
			ValidationErrors: map[string]string{"rating": "Rating must be 0, or between 0.5 and 5.0 in half-star steps"},
		}))
		return
	}

	res := h.Ratings.AddOrUpdateRating(r.Context(), session.BackendToken, user.ID, tmdbID, ct, body.Rating)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// RemoveRating handles DELETE /api/users/me/ratings/{mediaType}/{id}.
func (h *RatingsHandler) RemoveRating(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.SessionUserFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	session, _ := auth.SessionFrom(r)

	ct, tmdbID, err := contentParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	res := h.Ratings.RemoveRating(r.Context(), session.BackendToken, user.ID, tmdbID, ct)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetRatingStatus handles GET /api/users/me/ratings/{mediaType}/{id}.
// Anonymous callers get {hasRated:false} without backend traffic.
func (h *RatingsHandler) GetRatingStatus(w http.ResponseWriter, r *http.Request) {
	ct, tmdbID, err := contentParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	var userID, token string
	if user, ok := auth.SessionUserFrom(r); ok {
		userID = user.ID
		if session, ok := auth.SessionFrom(r); ok {
			token = session.BackendToken
		}
	}

	res := h.Ratings.CheckUserRating(r.Context(), token, userID, tmdbID, ct)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetRatingStats handles GET /api/content/{mediaType}/{id}/rating-stats, a
// public endpoint.
func (h *RatingsHandler) GetRatingStats(w http.ResponseWriter, r *http.Request) {
	ct, tmdbID, err := contentParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	res := h.Ratings.GetContentRatingStats(r.Context(), tmdbID, ct)
	if !res.OK() {
		writeJSON(w, http.StatusBadGateway, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
