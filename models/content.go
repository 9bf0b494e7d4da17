package models

import (
	"fmt"
	"strings"
)

// ContentType distinguishes a movie entity from a television series. It is
// threaded through nearly every per-user key alongside the TMDB id.
type ContentType string

const (
	ContentTypeMovie ContentType = "MOVIE"
	ContentTypeTV    ContentType = "TV"
)

// ParseContentType normalizes user-supplied media type values ("movie", "tv",
// "MOVIE", "series") into a ContentType.
func ParseContentType(value string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "movie":
		return ContentTypeMovie, nil
	case "tv", "series", "show":
		return ContentTypeTV, nil
	}
	return "", fmt.Errorf("unknown content type %q", value)
}

// Valid reports whether the content type is one of the two known values.
func (c ContentType) Valid() bool {
	return c == ContentTypeMovie || c == ContentTypeTV
}

// Genre is a TMDB genre tag attached to a title.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Title is the unified detail record for a movie or series. Movie-only and
// series-only fields are omitted from JSON when empty.
type Title struct {
	TMDBID       int64       `json:"tmdbId"`
	ContentType  ContentType `json:"contentType"`
	Title        string      `json:"title"`
	Tagline      string      `json:"tagline,omitempty"`
	Overview     string      `json:"overview,omitempty"`
	PosterURL    string      `json:"posterUrl,omitempty"`
	BackdropURL  string      `json:"backdropUrl,omitempty"`
	ReleaseDate  string      `json:"releaseDate,omitempty"`
	Status       string      `json:"status,omitempty"`
	Homepage     string      `json:"homepage,omitempty"`
	Genres       []Genre     `json:"genres"`
	VoteAverage  float64     `json:"voteAverage"`
	VoteCount    int64       `json:"voteCount"`
	Popularity   float64     `json:"popularity,omitempty"`
	OriginalLang string      `json:"originalLanguage,omitempty"`

	// Movie only.
	Runtime int   `json:"runtime,omitempty"`
	Budget  int64 `json:"budget,omitempty"`
	Revenue int64 `json:"revenue,omitempty"`

	// Series only.
	SeasonCount  int `json:"seasonCount,omitempty"`
	EpisodeCount int `json:"episodeCount,omitempty"`
}

// FirstGenreID returns the id of the first listed genre, or 0 when the title
// carries none. The recommendation fallback keys off this value.
func (t *Title) FirstGenreID() int64 {
	if t == nil || len(t.Genres) == 0 {
		return 0
	}
	return t.Genres[0].ID
}

// TitleSummary is the lightweight card record used for recommendation and
// discover rows.
type TitleSummary struct {
	TMDBID      int64       `json:"tmdbId"`
	ContentType ContentType `json:"contentType"`
	Title       string      `json:"title"`
	PosterURL   string      `json:"posterUrl,omitempty"`
	ReleaseDate string      `json:"releaseDate,omitempty"`
	VoteAverage float64     `json:"voteAverage"`
	Popularity  float64     `json:"popularity,omitempty"`
}

// CastMember is a single acting credit on a title.
type CastMember struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Character  string `json:"character,omitempty"`
	ProfileURL string `json:"profileUrl,omitempty"`
	Order      int    `json:"order"`
}

// CrewMember is a single non-acting credit on a title.
type CrewMember struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits bundles the cast and crew listings for a title.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Review is a single published review of a title.
type Review struct {
	ID        string   `json:"id"`
	Author    string   `json:"author"`
	Content   string   `json:"content"`
	Rating    *float64 `json:"rating,omitempty"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
	URL       string   `json:"url,omitempty"`
}

// WatchProvider is a single streaming/rental/purchase offering.
type WatchProvider struct {
	ProviderID int64  `json:"providerId"`
	Name       string `json:"name"`
	LogoURL    string `json:"logoUrl,omitempty"`
	// SearchURL deep-links into the provider's own search for the title,
	// when a mapping is known.
	SearchURL string `json:"searchUrl,omitempty"`
}

// ProviderRegion holds the provider offerings for one region code.
type ProviderRegion struct {
	Link     string          `json:"link,omitempty"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
	Rent     []WatchProvider `json:"rent,omitempty"`
	Buy      []WatchProvider `json:"buy,omitempty"`
}

// Empty reports whether the region carries no offerings at all.
func (p ProviderRegion) Empty() bool {
	return len(p.Flatrate) == 0 && len(p.Rent) == 0 && len(p.Buy) == 0
}
