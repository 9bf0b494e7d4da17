// Package lists wraps the custom curated-list resource family. Lists belong
// to exactly one user; membership is a plain set relation keyed by
// (listId, tmdbId, contentType).
package lists

import (
	"context"
	"log"
	"net/url"
	"strconv"

	"projection/internal/rest"
	"projection/internal/result"
	"projection/models"
)

// CreateRequest carries the fields for a new custom list.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

// Service wraps the /lists resource family.
type Service struct {
	api *rest.Client
}

// NewService creates a lists service over the shared backend client.
func NewService(api *rest.Client) *Service {
	return &Service{api: api}
}

// GetUserLists fetches all custom lists owned by the user.
func (s *Service) GetUserLists(ctx context.Context, userID string) result.Result[[]models.CustomList] {
	var lists []models.CustomList
	if err := s.api.Get(ctx, "/lists/"+url.PathEscape(userID), nil, &lists); err != nil {
		log.Printf("[lists] list fetch failed user=%s: %v", userID, err)
		return result.Fail[[]models.CustomList](rest.FailureFrom(err, "Failed to fetch lists"))
	}
	if lists == nil {
		lists = []models.CustomList{}
	}
	return result.Ok(lists)
}

// CreateList creates a new custom list for the user.
func (s *Service) CreateList(ctx context.Context, userID string, req CreateRequest) result.Result[models.CustomList] {
	var created models.CustomList
	if err := s.api.Post(ctx, "/lists/"+url.PathEscape(userID), req, &created); err != nil {
		log.Printf("[lists] create failed user=%s name=%q: %v", userID, req.Name, err)
		return result.Fail[models.CustomList](rest.FailureFrom(err, "Failed to create list"))
	}
	return result.Ok(created)
}

// DeleteList deletes a list the user owns. Deleting a foreign or missing
// list is a backend rejection surfaced through the envelope.
func (s *Service) DeleteList(ctx context.Context, userID string, listID int64) result.Result[struct{}] {
	path := "/lists/" + url.PathEscape(userID) + "/" + strconv.FormatInt(listID, 10)
	if err := s.api.Delete(ctx, path, nil, nil); err != nil {
		log.Printf("[lists] delete failed user=%s list=%d: %v", userID, listID, err)
		return result.Fail[struct{}](rest.FailureFrom(err, "Failed to delete list"))
	}
	return result.Ok(struct{}{})
}

// GetListItems fetches the items of one list.
func (s *Service) GetListItems(ctx context.Context, userID string, listID int64) result.Result[[]models.ListItem] {
	var items []models.ListItem
	path := "/lists/" + url.PathEscape(userID) + "/" + strconv.FormatInt(listID, 10) + "/items"
	if err := s.api.Get(ctx, path, nil, &items); err != nil {
		log.Printf("[lists] items fetch failed user=%s list=%d: %v", userID, listID, err)
		return result.Fail[[]models.ListItem](rest.FailureFrom(err, "Failed to fetch list items"))
	}
	if items == nil {
		items = []models.ListItem{}
	}
	return result.Ok(items)
}

// AddToList puts content into a list with optional notes.
func (s *Service) AddToList(ctx context.Context, userID string, listID, tmdbID int64, ct models.ContentType, notes string) result.Result[models.ListItem] {
	body := struct {
		TMDBID      int64              `json:"tmdbId"`
		ContentType models.ContentType `json:"contentType"`
		Notes       string             `json:"notes,omitempty"`
	}{tmdbID, ct, notes}

	var item models.ListItem
	path := "/lists/" + url.PathEscape(userID) + "/" + strconv.FormatInt(listID, 10) + "/items"
	if err := s.api.Post(ctx, path, body, &item); err != nil {
		log.Printf("[lists] add item failed user=%s list=%d tmdbId=%d: %v", userID, listID, tmdbID, err)
		return result.Fail[models.ListItem](rest.FailureFrom(err, "Failed to add to list"))
	}
	return result.Ok(item)
}

// RemoveFromList removes content from a list.
func (s *Service) RemoveFromList(ctx context.Context, userID string, listID, tmdbID int64, ct models.ContentType) result.Result[struct{}] {
	q := url.Values{}
	q.Set("tmdbId", strconv.FormatInt(tmdbID, 10))
	q.Set("contentType", string(ct))
	path := "/lists/" + url.PathEscape(userID) + "/" + strconv.FormatInt(listID, 10) + "/items"
	if err := s.api.Delete(ctx, path, q, nil); err != nil {
		log.Printf("[lists] remove item failed user=%s list=%d tmdbId=%d: %v", userID, listID, tmdbID, err)
		return result.Fail[struct{}](rest.FailureFrom(err, "Failed to remove from list"))
	}
	return result.Ok(struct{}{})
}

// CheckContentInLists reports which of the user's lists contain the content.
// Any failure yields an empty map: "in no lists", never an error.
func (s *Service) CheckContentInLists(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) map[int64]bool {
	q := url.Values{}
	q.Set("tmdbId", strconv.FormatInt(tmdbID, 10))
	q.Set("contentType", string(ct))

	var raw map[string]bool
	if err := s.api.Get(ctx, "/lists/"+url.PathEscape(userID)+"/check", q, &raw); err != nil {
		log.Printf("[lists] membership check failed user=%s tmdbId=%d: %v", userID, tmdbID, err)
		return map[int64]bool{}
	}

	membership := make(map[int64]bool, len(raw))
	for key, inList := range raw {
		listID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		membership[listID] = inList
	}
	return membership
}
