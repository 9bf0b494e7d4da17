package models

import "time"

// LibraryItem is one entry in a per-user flag collection (likes, watched,
// watchlist). Notes is only populated for watchlist entries.
type LibraryItem struct {
	TMDBID      int64       `json:"tmdbId"`
	ContentType ContentType `json:"contentType"`
	Notes       string      `json:"notes,omitempty"`
	AddedAt     time.Time   `json:"addedAt,omitempty"`
}

// CustomList is a user-owned curated list.
type CustomList struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPublic    bool   `json:"isPublic"`
	ItemCount   int    `json:"itemCount"`
}

// ListItem is a membership record inside a custom list, keyed by
// (listId, tmdbId, contentType).
type ListItem struct {
	TMDBID      int64       `json:"tmdbId"`
	ContentType ContentType `json:"contentType"`
	Notes       string      `json:"notes,omitempty"`
	AddedAt     time.Time   `json:"addedAt,omitempty"`
}
