package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc"

	"projection/internal/auth"
	"projection/internal/result"
	"projection/models"
	"projection/services/flags"
	"projection/services/metadata"
	"projection/services/ratings"
)

type pageMetadataService interface {
	Details(ctx context.Context, ct models.ContentType, tmdbID int64) (*models.Title, error)
	Credits(ctx context.Context, ct models.ContentType, tmdbID int64) (models.Credits, error)
	Reviews(ctx context.Context, ct models.ContentType, tmdbID int64) ([]models.Review, error)
	Recommendations(ctx context.Context, ct models.ContentType, tmdbID int64) ([]models.TitleSummary, error)
	DiscoverByGenre(ctx context.Context, ct models.ContentType, genreID int64) ([]models.TitleSummary, error)
	WatchProviders(ctx context.Context, ct models.ContentType, tmdbID int64) (map[string]models.ProviderRegion, error)
}

var _ pageMetadataService = (*metadata.Service)(nil)

type flagCheckService interface {
	CheckIsLiked(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool
	CheckIsWatched(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool
	CheckIsInWatchlist(ctx context.Context, userID string, tmdbID int64, ct models.ContentType) bool
}

var _ flagCheckService = (*flags.Service)(nil)

type ratingCheckService interface {
	CheckUserRating(ctx context.Context, token, userID string, tmdbID int64, ct models.ContentType) result.Result[models.RatingStatus]
	GetContentRatingStats(ctx context.Context, tmdbID int64, ct models.ContentType) result.Result[models.RatingStats]
}

var _ ratingCheckService = (*ratings.Service)(nil)

// Row caps for the page payload.
const (
	maxCastMembers = 15
	maxReviews     = 8
	// maxRecommendations caps the recommendation row, fallback included.
	maxRecommendations = 6
)

// DetailHandler serves the combined detail-page payload so the frontend
// opens a title with a single round-trip. All sub-fetches run concurrently.
type DetailHandler struct {
	Metadata pageMetadataService
	Flags    flagCheckService
	Ratings  ratingCheckService

	// Region is the preferred watch-provider region code.
	Region string
}

func NewDetailHandler(meta pageMetadataService, flagsSvc flagCheckService, ratingsSvc ratingCheckService) *DetailHandler {
	return &DetailHandler{Metadata: meta, Flags: flagsSvc, Ratings: ratingsSvc, Region: "US"}
}

// userContentState is the signed-in user's relationship with the title.
// Every field is false/absent for anonymous visitors.
type userContentState struct {
	IsLiked       bool                `json:"isLiked"`
	IsWatched     bool                `json:"isWatched"`
	IsInWatchlist bool                `json:"isInWatchlist"`
	Rating        models.RatingStatus `json:"rating"`
}

// DetailPageResponse is the combined payload returned by
// GET /api/pages/{mediaType}/{id}.
type DetailPageResponse struct {
	Title           *models.Title          `json:"title"`
	Credits         models.Credits         `json:"credits"`
	Director        string                 `json:"director,omitempty"`
	Writers         string                 `json:"writers,omitempty"`
	Reviews         []models.Review        `json:"reviews"`
	Recommendations []models.TitleSummary  `json:"recommendations"`
	ProviderRegion  *models.ProviderRegion `json:"providerRegion,omitempty"`
	RegionCode      string                 `json:"regionCode,omitempty"`
	RatingStats     *models.RatingStats    `json:"ratingStats,omitempty"`
	UserState       userContentState       `json:"userState"`
}

// GetDetailPage returns all detail-page data in a single response.
func (h *DetailHandler) GetDetailPage(w http.ResponseWriter, r *http.Request) {
	ct, tmdbID, err := contentParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid media type or id")
		return
	}

	ctx := r.Context()
	resp := DetailPageResponse{}
	var mu sync.Mutex

	// Primary fetch: the title itself plus credits and reviews. Credits and
	// reviews degrade to empty on failure; a missing title is fatal.
	var wg conc.WaitGroup
	wg.Go(func() {
		title, err := h.Metadata.Details(ctx, ct, tmdbID)
		if err != nil {
			if !metadata.IsNotFound(err) {
				log.Printf("[detail] details error for %s %d: %v", ct, tmdbID, err)
			}
			return
		}
		mu.Lock()
		resp.Title = title
		mu.Unlock()
	})
	wg.Go(func() {
		credits, err := h.Metadata.Credits(ctx, ct, tmdbID)
		if err != nil {
			log.Printf("[detail] credits error for %s %d: %v", ct, tmdbID, err)
			return
		}
		mu.Lock()
		resp.Credits = credits
		mu.Unlock()
	})
	wg.Go(func() {
		reviews, err := h.Metadata.Reviews(ctx, ct, tmdbID)
		if err != nil {
			log.Printf("[detail] reviews error for %s %d: %v", ct, tmdbID, err)
			return
		}
		mu.Lock()
		resp.Reviews = reviews
		mu.Unlock()
	})
	wg.Wait()

	if resp.Title == nil {
		writeError(w, http.StatusNotFound, "title not found")
		return
	}

	resp.Director = firstDirector(resp.Credits.Crew)
	resp.Writers = writerLine(resp.Credits.Crew)
	if len(resp.Credits.Cast) > maxCastMembers {
		resp.Credits.Cast = resp.Credits.Cast[:maxCastMembers]
	}
	if len(resp.Reviews) > maxReviews {
		resp.Reviews = resp.Reviews[:maxReviews]
	}

	// Secondary fetch: rows that need the resolved title, the community
	// rating, and the signed-in user's own relationship with it.
	user, signedIn := auth.SessionUserFrom(r)
	session, _ := auth.SessionFrom(r)

	var secondary conc.WaitGroup
	secondary.Go(func() {
		recs := h.recommendationsWithFallback(ctx, ct, resp.Title)
		mu.Lock()
		resp.Recommendations = recs
		mu.Unlock()
	})
	secondary.Go(func() {
		region, code := h.providerRegion(ctx, ct, tmdbID)
		if region != nil {
			metadata.AttachProviderLinks(region, resp.Title.Title)
		}
		mu.Lock()
		resp.ProviderRegion = region
		resp.RegionCode = code
		mu.Unlock()
	})
	secondary.Go(func() {
		stats := h.Ratings.GetContentRatingStats(ctx, tmdbID, ct)
		if !stats.OK() {
			return
		}
		s := stats.Data()
		mu.Lock()
		resp.RatingStats = &s
		mu.Unlock()
	})

	// Anonymous visitors get the zero state with no backend traffic.
	if signedIn {
		secondary.Go(func() {
			liked := h.Flags.CheckIsLiked(ctx, user.ID, tmdbID, ct)
			mu.Lock()
			resp.UserState.IsLiked = liked
			mu.Unlock()
		})
		secondary.Go(func() {
			watched := h.Flags.CheckIsWatched(ctx, user.ID, tmdbID, ct)
			mu.Lock()
			resp.UserState.IsWatched = watched
			mu.Unlock()
		})
		secondary.Go(func() {
			inList := h.Flags.CheckIsInWatchlist(ctx, user.ID, tmdbID, ct)
			mu.Lock()
			resp.UserState.IsInWatchlist = inList
			mu.Unlock()
		})
		secondary.Go(func() {
			status := h.Ratings.CheckUserRating(ctx, session.BackendToken, user.ID, tmdbID, ct)
			if !status.OK() {
				return
			}
			mu.Lock()
			resp.UserState.Rating = status.Data()
			mu.Unlock()
		})
	}
	secondary.Wait()

	// Nil slices render as empty arrays.
	if resp.Credits.Cast == nil {
		resp.Credits.Cast = []models.CastMember{}
	}
	if resp.Credits.Crew == nil {
		resp.Credits.Crew = []models.CrewMember{}
	}
	if resp.Reviews == nil {
		resp.Reviews = []models.Review{}
	}
	if resp.Recommendations == nil {
		resp.Recommendations = []models.TitleSummary{}
	}

	writeJSON(w, http.StatusOK, resp)
}

// recommendationsWithFallback returns the recommendation row. When the
// direct lookup fails or comes back empty, exactly one discover query keyed
// on the title's first genre fills the gap. The current title never
// recommends itself and the row is capped at maxRecommendations.
func (h *DetailHandler) recommendationsWithFallback(ctx context.Context, ct models.ContentType, title *models.Title) []models.TitleSummary {
	recs, err := h.Metadata.Recommendations(ctx, ct, title.TMDBID)
	if err != nil {
		log.Printf("[detail] recommendations error for %s %d: %v", ct, title.TMDBID, err)
	}

	if len(recs) == 0 {
		genreID := title.FirstGenreID()
		if genreID == 0 {
			return nil
		}
		recs, err = h.Metadata.DiscoverByGenre(ctx, ct, genreID)
		if err != nil {
			log.Printf("[detail] discover fallback error for %s genre %d: %v", ct, genreID, err)
			return nil
		}
	}

	filtered := recs[:0]
	for _, rec := range recs {
		if rec.TMDBID == title.TMDBID {
			continue
		}
		filtered = append(filtered, rec)
		if len(filtered) == maxRecommendations {
			break
		}
	}
	return filtered
}

// providerRegion picks the region to display: the preferred region when
// present, otherwise the first region in code order, otherwise none.
func (h *DetailHandler) providerRegion(ctx context.Context, ct models.ContentType, tmdbID int64) (*models.ProviderRegion, string) {
	regions, err := h.Metadata.WatchProviders(ctx, ct, tmdbID)
	if err != nil {
		log.Printf("[detail] providers error for %s %d: %v", ct, tmdbID, err)
		return nil, ""
	}
	if len(regions) == 0 {
		return nil, ""
	}

	preferred := h.Region
	if preferred == "" {
		preferred = "US"
	}
	if region, ok := regions[preferred]; ok && !region.Empty() {
		return &region, preferred
	}

	codes := make([]string, 0, len(regions))
	for code := range regions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if region := regions[code]; !region.Empty() {
			return &region, code
		}
	}
	return nil, ""
}

// firstDirector returns the name of the first crew member credited as
// Director.
func firstDirector(crew []models.CrewMember) string {
	for _, member := range crew {
		if member.Job == "Director" {
			return member.Name
		}
	}
	return ""
}

// writerLine joins up to two writing credits (Writer, Screenplay, Story)
// into a display line.
func writerLine(crew []models.CrewMember) string {
	var names []string
	for _, member := range crew {
		switch member.Job {
		case "Writer", "Screenplay", "Story":
			names = append(names, member.Name)
		}
		if len(names) == 2 {
			break
		}
	}
	return strings.Join(names, ", ")
}
