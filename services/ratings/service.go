// Package ratings wraps the star-rating resource family. These endpoints
// require bearer-token authorization; the token travels with each call.
//
// Range validation (0, or 0.5–5.0 stepped by 0.5) is the caller's job;
// this layer passes values through verbatim.
package ratings

import (
	"context"
	"fmt"
	"log"

	"projection/internal/rest"
	"projection/internal/result"
	"projection/models"
)

// Service wraps the /ratings resource family.
type Service struct {
	api *rest.Client
}

// NewService creates a ratings service over the shared backend client.
func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

// AddOrUpdateRating sets the user's rating for content. A rating of 0 is
// the designated remove signal and is passed through to the backend, which
// clears the record.
func (s *Service) AddOrUpdateRating(ctx context.Context, token, userID string, tmdbID int64, ct models.ContentType, rating float64) result.Result[models.Rating] {
	body := struct {
		TMDBID      int64              `json:"tmdbId"`
		ContentType models.ContentType `json:"contentType"`
		Rating      float64            `json:"rating"`
	}{tmdbID, ct, rating}

	var updated models.Rating
	if err := s.api.WithBearer(token).Post(ctx, "/ratings/"+userID, body, &updated); err != nil {
		log.Printf("[ratings] upsert failed user=%s tmdbId=%d rating=%.1f: %v", userID, tmdbID, rating, err)
		return result.Fail[models.Rating](rest.FailureFrom(err, "Failed to update rating"))
	}
	return result.Ok(updated)
}

// RemoveRating explicitly deletes the user's rating for content.
func (s *Service) RemoveRating(ctx context.Context, token, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}] {
	path := fmt.Sprintf("/ratings/%s/%d/%s", userID, tmdbID, ct)
	if err := s.api.WithBearer(token).Delete(ctx, path, nil, nil); err != nil {
		log.Printf("[ratings] remove failed user=%s tmdbId=%d: %v", userID, tmdbID, err)
		return result.Fail[struct{}](rest.FailureFrom(err, "Failed to remove rating"))
	}
	return result.Ok(struct{}{})
}

// CheckUserRating reports whether the user has rated content and with what
// value. An anonymous caller (empty userID) resolves {hasRated:false}
// without contacting the backend.
func (s *Service) CheckUserRating(ctx context.Context, token, userID string, tmdbID int64, ct models.ContentType) result.Result[models.RatingStatus] {
	if userID == "" {
		return result.Ok(models.RatingStatus{HasRated: false})
	}

	var status models.RatingStatus
	path := fmt.Sprintf("/ratings/check/%s/%d/%s", userID, tmdbID, ct)
	if err := s.api.WithBearer(token).Get(ctx, path, nil, &status); err != nil {
		log.Printf("[ratings] check failed user=%s tmdbId=%d: %v", userID, tmdbID, err)
		return result.Fail[models.RatingStatus](rest.FailureFrom(err, "Failed to check rating"))
	}
	return result.Ok(status)
}

// GetUserRatings lists everything the user has rated.
func (s *Service) GetUserRatings(ctx context.Context, token, userID string) result.Result[[]models.Rating] {
	var ratings []models.Rating
	if err := s.api.WithBearer(token).Get(ctx, "/ratings/user/"+userID, nil, &ratings); err != nil {
		log.Printf("[ratings] list failed user=%s: %v", userID, err)
		return result.Fail[[]models.Rating](rest.FailureFrom(err, "Failed to fetch user ratings"))
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	return result.Ok(ratings)
}

// GetContentRatingStats fetches the community average for content. This is
// a public endpoint; no token is required.
func (s *Service) GetContentRatingStats(ctx context.Context, tmdbID int64, ct models.ContentType) result.Result[models.RatingStats] {
	var stats models.RatingStats
	path := fmt.Sprintf("/ratings/average/%d/%s", tmdbID, ct)
	if err := s.api.Get(ctx, path, nil, &stats); err != nil {
		log.Printf("[ratings] stats failed tmdbId=%d: %v", tmdbID, err)
		return result.Fail[models.RatingStats](rest.FailureFrom(err, "Failed to fetch rating stats"))
	}
	return result.Ok(stats)
}
