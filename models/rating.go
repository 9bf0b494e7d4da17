package models

import "time"

// RatingRemoveSignal is the designated rating value meaning "remove my rating".
const RatingRemoveSignal = 0

// Rating is a user's star rating for one piece of content.
// Valid values are 0.5 through 5.0 in half-star steps.
type Rating struct {
	TMDBID      int64       `json:"tmdbId"`
	ContentType ContentType `json:"contentType"`
	Rating      float64     `json:"rating"`
	UpdatedAt   time.Time   `json:"updatedAt,omitempty"`
}

// RatingStatus reports whether a user has rated content, and with what value.
type RatingStatus struct {
	HasRated bool    `json:"hasRated"`
	Rating   float64 `json:"rating,omitempty"`
}

// RatingStats is the community-wide average for one piece of content.
// AverageRating is nil when nobody has rated it.
type RatingStats struct {
	AverageRating *float64 `json:"averageRating"`
	RatingCount   int      `json:"ratingCount"`
}

// ValidRatingValue reports whether v is an acceptable rating input: the
// remove signal, or 0.5–5.0 stepped by 0.5.
func ValidRatingValue(v float64) bool {
	if v == RatingRemoveSignal {
		return true
	}
	if v < 0.5 || v > 5.0 {
		return false
	}
	doubled := v * 2
	return doubled == float64(int64(doubled))
}
