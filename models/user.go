package models

import "time"

// SessionUser is the identity record created on successful authentication.
// At most one is active per session; absence means the caller is anonymous.
type SessionUser struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Email             string `json:"email"`
	Bio               string `json:"bio,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// UserStats is the aggregate profile counters served by the backend.
type UserStats struct {
	LikeCount      int      `json:"likeCount"`
	WatchedCount   int      `json:"watchedCount"`
	WatchlistCount int      `json:"watchlistCount"`
	ListCount      int      `json:"listCount"`
	RatingCount    int      `json:"ratingCount"`
	AverageRating  *float64 `json:"averageRating,omitempty"`
}

// Session binds a token to a signed-in user and the backend bearer token the
// rating endpoints require.
type Session struct {
	Token        string      `json:"token"`
	User         SessionUser `json:"user"`
	BackendToken string      `json:"backendToken,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

// Expired reports whether the session's lifetime has elapsed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
