// Package metadata wraps the external TMDB-shaped provider. Snapshots are
// fetched fresh on every page view and never cached or merged across
// requests.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"projection/models"
)

var errNotFound = errors.New("title not found")

// IsNotFound reports whether err means the provider has no such title.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// Service exposes the metadata operations the page orchestrators consume.
type Service struct {
	tmdb *tmdbClient
}

// NewService constructs a metadata service talking to the given TMDB-shaped
// endpoint. Pass httpc nil for a default client.
func NewService(baseURL, bearerToken, language string, httpc *http.Client) *Service {
	return &Service{
		tmdb: newTMDBClient(baseURL, bearerToken, language, httpc),
	}
}

// mediaPath maps a content type onto the provider's URL segment.
func mediaPath(ct models.ContentType) string {
	if ct == models.ContentTypeTV {
		return "tv"
	}
	return "movie"
}

// Details fetches the full detail record for one title.
func (s *Service) Details(ctx context.Context, ct models.ContentType, tmdbID int64) (*models.Title, error) {
	if tmdbID <= 0 {
		return nil, fmt.Errorf("tmdb id required")
	}

	path := fmt.Sprintf("/%s/%d", mediaPath(ct), tmdbID)
	if ct == models.ContentTypeTV {
		var raw tmdbTV
		if err := s.tmdb.get(ctx, path, nil, &raw); err != nil {
			return nil, err
		}
		return tvToTitle(raw), nil
	}

	var raw tmdbMovie
	if err := s.tmdb.get(ctx, path, nil, &raw); err != nil {
		return nil, err
	}
	return movieToTitle(raw), nil
}

// Credits fetches the cast and crew listings for one title.
func (s *Service) Credits(ctx context.Context, ct models.ContentType, tmdbID int64) (models.Credits, error) {
	var raw tmdbCredits
	path := fmt.Sprintf("/%s/%d/credits", mediaPath(ct), tmdbID)
	if err := s.tmdb.get(ctx, path, nil, &raw); err != nil {
		return models.Credits{}, err
	}

	credits := models.Credits{
		Cast: make([]models.CastMember, 0, len(raw.Cast)),
		Crew: make([]models.CrewMember, 0, len(raw.Crew)),
	}
	for _, c := range raw.Cast {
		credits.Cast = append(credits.Cast, models.CastMember{
			ID:         c.ID,
			Name:       c.Name,
			Character:  c.Character,
			ProfileURL: imageURL(c.ProfilePath, tmdbProfileSize),
			Order:      c.Order,
		})
	}
	for _, c := range raw.Crew {
		credits.Crew = append(credits.Crew, models.CrewMember{ID: c.ID, Name: c.Name, Job: c.Job})
	}
	return credits, nil
}

// Reviews fetches the first page of published reviews for one title.
func (s *Service) Reviews(ctx context.Context, ct models.ContentType, tmdbID int64) ([]models.Review, error) {
	var raw tmdbReviewPage
	path := fmt.Sprintf("/%s/%d/reviews", mediaPath(ct), tmdbID)
	query := url.Values{}
	query.Set("page", "1")
	if err := s.tmdb.get(ctx, path, query, &raw); err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(raw.Results))
	for _, r := range raw.Results {
		reviews = append(reviews, models.Review{
			ID:        r.ID,
			Author:    r.Author,
			Content:   r.Content,
			Rating:    r.AuthorDetails.Rating,
			AvatarURL: imageURL(r.AuthorDetails.AvatarPath, tmdbProfileSize),
			CreatedAt: r.CreatedAt,
			URL:       r.URL,
		})
	}
	return reviews, nil
}

// Recommendations fetches the provider's direct recommendations for one
// title. An empty slice is a valid response; the caller owns the fallback.
func (s *Service) Recommendations(ctx context.Context, ct models.ContentType, tmdbID int64) ([]models.TitleSummary, error) {
	var raw tmdbSummaryPage
	path := fmt.Sprintf("/%s/%d/recommendations", mediaPath(ct), tmdbID)
	query := url.Values{}
	query.Set("page", "1")
	if err := s.tmdb.get(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	return summariesToModels(raw.Results, ct), nil
}

// DiscoverByGenre fetches titles of the given genre sorted by descending
// popularity. Used as the best-effort recommendation fallback.
func (s *Service) DiscoverByGenre(ctx context.Context, ct models.ContentType, genreID int64) ([]models.TitleSummary, error) {
	if genreID <= 0 {
		return nil, fmt.Errorf("genre id required")
	}
	var raw tmdbSummaryPage
	query := url.Values{}
	query.Set("with_genres", strconv.FormatInt(genreID, 10))
	query.Set("sort_by", "popularity.desc")
	query.Set("page", "1")
	if err := s.tmdb.get(ctx, "/discover/"+mediaPath(ct), query, &raw); err != nil {
		return nil, err
	}
	return summariesToModels(raw.Results, ct), nil
}

// WatchProviders fetches the per-region provider offerings for one title.
// The map is keyed by region code ("US", "GB", ...).
func (s *Service) WatchProviders(ctx context.Context, ct models.ContentType, tmdbID int64) (map[string]models.ProviderRegion, error) {
	var raw tmdbProviderResponse
	path := fmt.Sprintf("/%s/%d/watch/providers", mediaPath(ct), tmdbID)
	if err := s.tmdb.get(ctx, path, nil, &raw); err != nil {
		return nil, err
	}

	regions := make(map[string]models.ProviderRegion, len(raw.Results))
	for code, region := range raw.Results {
		regions[code] = models.ProviderRegion{
			Link:     region.Link,
			Flatrate: providersToModels(region.Flatrate),
			Rent:     providersToModels(region.Rent),
			Buy:      providersToModels(region.Buy),
		}
	}
	if len(regions) == 0 {
		log.Printf("[metadata] no provider regions for %s %d", mediaPath(ct), tmdbID)
	}
	return regions, nil
}

func movieToTitle(raw tmdbMovie) *models.Title {
	return &models.Title{
		TMDBID:       raw.ID,
		ContentType:  models.ContentTypeMovie,
		Title:        raw.Title,
		Tagline:      raw.Tagline,
		Overview:     raw.Overview,
		PosterURL:    imageURL(raw.PosterPath, tmdbPosterSize),
		BackdropURL:  imageURL(raw.BackdropPath, tmdbBackdropSize),
		ReleaseDate:  raw.ReleaseDate,
		Status:       raw.Status,
		Homepage:     raw.Homepage,
		Genres:       genresToModels(raw.Genres),
		VoteAverage:  raw.VoteAverage,
		VoteCount:    raw.VoteCount,
		Popularity:   raw.Popularity,
		OriginalLang: raw.OriginalLanguage,
		Runtime:      raw.Runtime,
		Budget:       raw.Budget,
		Revenue:      raw.Revenue,
	}
}

func tvToTitle(raw tmdbTV) *models.Title {
	return &models.Title{
		TMDBID:       raw.ID,
		ContentType:  models.ContentTypeTV,
		Title:        raw.Name,
		Tagline:      raw.Tagline,
		Overview:     raw.Overview,
		PosterURL:    imageURL(raw.PosterPath, tmdbPosterSize),
		BackdropURL:  imageURL(raw.BackdropPath, tmdbBackdropSize),
		ReleaseDate:  raw.FirstAirDate,
		Status:       raw.Status,
		Homepage:     raw.Homepage,
		Genres:       genresToModels(raw.Genres),
		VoteAverage:  raw.VoteAverage,
		VoteCount:    raw.VoteCount,
		Popularity:   raw.Popularity,
		OriginalLang: raw.OriginalLanguage,
		SeasonCount:  raw.NumberOfSeasons,
		EpisodeCount: raw.NumberOfEpisodes,
	}
}

func genresToModels(raw []tmdbGenre) []models.Genre {
	genres := make([]models.Genre, 0, len(raw))
	for _, g := range raw {
		genres = append(genres, models.Genre{ID: g.ID, Name: g.Name})
	}
	return genres
}

func summariesToModels(raw []tmdbSummary, ct models.ContentType) []models.TitleSummary {
	summaries := make([]models.TitleSummary, 0, len(raw))
	for _, s := range raw {
		title := s.Title
		if title == "" {
			title = s.Name
		}
		date := s.ReleaseDate
		if date == "" {
			date = s.FirstAirDate
		}
		summaries = append(summaries, models.TitleSummary{
			TMDBID:      s.ID,
			ContentType: ct,
			Title:       title,
			PosterURL:   imageURL(s.PosterPath, tmdbPosterSize),
			ReleaseDate: date,
			VoteAverage: s.VoteAverage,
			Popularity:  s.Popularity,
		})
	}
	return summaries
}

func providersToModels(raw []tmdbProvider) []models.WatchProvider {
	if len(raw) == 0 {
		return nil
	}
	providers := make([]models.WatchProvider, 0, len(raw))
	for _, p := range raw {
		providers = append(providers, models.WatchProvider{
			ProviderID: p.ProviderID,
			Name:       p.Name,
			LogoURL:    imageURL(p.LogoPath, tmdbProviderLogoSiz),
		})
	}
	return providers
}
