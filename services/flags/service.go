// Package flags wraps the three per-user boolean flag families: likes
// (favorites), watched state, and the watchlist. The three flags are
// independent; toggling one never touches the others, and add/remove calls
// are passed through verbatim with no client-side dedup.
package flags

import (
	"context"
	"log"
	"net/url"
	"strconv"

	"projection/internal/rest"
	"projection/internal/result"
	"projection/models"
)

// Backend resource names for the three flag families.
const (
	resourceFavorites = "favorites"
	resourceWatched   = "watched"
	resourceWatchlist = "watchlist"
)

// Service wraps the favorites, watched and watchlist resource families.
type Service struct {
	api *rest.Client
}

// NewService creates a flags service over the shared backend client.
func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

type flagUpsert struct {
	TMDBID      int64              `json:"tmdbId"`
	ContentType models.ContentType `json:"contentType"`
	Notes       string             `json:"notes,omitempty"`
}

// AddLike marks content as liked.
func (s *Service) AddLike(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}] {
	return s.add(ctx, resourceFavorites, userID, flagUpsert{TMDBID: tmdbID, ContentType: ct}, "Failed to like content")
}

// RemoveLike clears the liked flag.
func (s *Service) RemoveLike(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}] {
	return s.remove(ctx, resourceFavorites, userID, tmdbID, ct, "Failed to unlike content")
}

// CheckIsLiked reports whether content is liked. Fail-safe-closed: any
// failure reads as false, never as true and never as an error.
func (s *Service) CheckIsLiked(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool {
	return s.check(ctx, resourceFavorites, "isFavorite", userID, tmdbID, ct)
}

// GetUserLikes lists everything the user has liked.
func (s *Service) GetUserLikes(ctx context.Context, userID string) result.Result[[]models.LibraryItem] {
	return s.items(ctx, resourceFavorites, userID, "Failed to fetch likes")
}

// MarkAsWatched marks content as watched.
func (s *Service) MarkAsWatched(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}] {
	return s.add(ctx, resourceWatched, userID, flagUpsert{TMDBID: tmdbID, ContentType: ct}, "Failed to mark as watched")
}

// UnmarkAsWatched clears the watched flag.
func (s *Service) UnmarkAsWatched(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}] {
	return s.remove(ctx, resourceWatched, userID, tmdbID, ct, "Failed to unmark as watched")
}

// CheckIsWatched reports whether content is watched, false on any failure.
func (s *Service) CheckIsWatched(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool {
	return s.check(ctx, resourceWatched, "isWatched", userID, tmdbID, ct)
}

// GetUserWatched lists everything the user has marked watched.
func (s *Service) GetUserWatched(ctx context.Context, userID string) result.Result[[]models.LibraryItem] {
	return s.items(ctx, resourceWatched, userID, "Failed to fetch watched content")
}

// AddToWatchlist puts content on the watchlist with optional notes.
func (s *Service) AddToWatchlist(ctx context.Context, userID string, tmdbID int64, ct models.ContentType, notes string) result.Result[struct{}] {
	return s.add(ctx, resourceWatchlist, userID, flagUpsert{TMDBID: tmdbID, ContentType: ct, Notes: notes}, "Failed to add to watchlist")
}

// RemoveFromWatchlist takes content off the watchlist.
func (s *Service) RemoveFromWatchlist(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) result.Result[struct{}] {
	return s.remove(ctx, resourceWatchlist, userID, tmdbID, ct, "Failed to remove from watchlist")
}

// CheckIsInWatchlist reports watchlist membership, false on any failure.
func (s *Service) CheckIsInWatchlist(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool {
	return s.check(ctx, resourceWatchlist, "isInWatchlist", userID, tmdbID, ct)
}

// GetUserWatchlist lists the user's watchlist.
func (s *Service) GetUserWatchlist(ctx context.Context, userID string) result.Result[[]models.LibraryItem] {
	return s.items(ctx, resourceWatchlist, userID, "Failed to fetch watchlist")
}

func (s *Service) add(ctx context.Context, resource, userID string, body flagUpsert, fallback string) result.Result[struct{}] {
	if err := s.api.Post(ctx, "/"+resource+"/"+url.PathEscape(userID), body, nil); err != nil {
		log.Printf("[flags] add %s failed user=%s tmdbId=%d: %v", resource, userID, body.TMDBID, err)
		return result.Fail[struct{}](rest.FailureFrom(err, fallback))
	}
	return result.Ok(struct{}{})
}

func (s *Service) remove(ctx context.Context, resource, userID string, tmdbID int64, ct models.ContentType, fallback string) result.Result[struct{}] {
	if err := s.api.Delete(ctx, "/"+resource+"/"+url.PathEscape(userID), contentKeyQuery(tmdbID, ct), nil); err != nil {
		log.Printf("[flags] remove %s failed user=%s tmdbId=%d: %v", resource, userID, tmdbID, err)
		return result.Fail[struct{}](rest.FailureFrom(err, fallback))
	}
	return result.Ok(struct{}{})
}

func (s *Service) check(ctx context.Context, resource, field, userID string, tmdbID int64, ct models.ContentType) bool {
	var resp map[string]bool
	path := "/" + resource + "/" + url.PathEscape(userID) + "/check"
	if err := s.api.Get(ctx, path, contentKeyQuery(tmdbID, ct), &resp); err != nil {
		log.Printf("[flags] check %s failed user=%s tmdbId=%d: %v", resource, userID, tmdbID, err)
		return false
	}
	return resp[field]
}

func (s *Service) items(ctx context.Context, resource, userID string, fallback string) result.Result[[]models.LibraryItem] {
	var items []models.LibraryItem
	if err := s.api.Get(ctx, "/"+resource+"/"+url.PathEscape(userID), nil, &items); err != nil {
		log.Printf("[flags] list %s failed user=%s: %v", resource, userID, err)
		return result.Fail[[]models.LibraryItem](rest.FailureFrom(err, fallback))
	}
	if items == nil {
		items = []models.LibraryItem{}
	}
	return result.Ok(items)
}

func contentKeyQuery(tmdbID int64, ct models.ContentType) url.Values {
	q := url.Values{}
	q.Set("tmdbId", strconv.FormatInt(tmdbID, 10))
	q.Set("contentType", string(ct))
	return q
}
