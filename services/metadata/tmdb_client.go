package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Minimal TMDB v3 client (bearer auth, the detail/credit/review/discover
// endpoints the detail pages need).

const (
	tmdbImageBaseURL    = "https://image.tmdb.org/t/p"
	tmdbPosterSize      = "w500"
	tmdbBackdropSize    = "w1280"
	tmdbProfileSize     = "w185"
	tmdbProviderLogoSiz = "w92"
)

type tmdbClient struct {
	baseURL  string
	token    string
	language string
	httpc    *http.Client
	limiter  *rate.Limiter
}

func newTMDBClient(baseURL, token, language string, httpc *http.Client) *tmdbClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	return &tmdbClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		language: normalizeLanguage(language),
		httpc:    httpc,
		// TMDB allows ~50 req/s per key; stay comfortably below it.
		limiter: rate.NewLimiter(rate.Limit(20), 10),
	}
}

func (c *tmdbClient) isConfigured() bool {
	return c != nil && c.token != ""
}

// get performs a throttled authorized GET and decodes the JSON body into out.
func (c *tmdbClient) get(ctx context.Context, path string, query url.Values, out any) error {
	if !c.isConfigured() {
		return fmt.Errorf("tmdb client not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	if query == nil {
		query = url.Values{}
	}
	if query.Get("language") == "" {
		query.Set("language", c.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build tmdb request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("tmdb %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tmdb %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb %s: %w", path, err)
	}
	return nil
}

// normalizeLanguage coerces loose language inputs into TMDB's ll-CC form.
func normalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return "en-US"
	}
	lang = strings.ReplaceAll(lang, "_", "-")
	parts := strings.SplitN(lang, "-", 2)
	code := strings.ToLower(parts[0])
	if len(parts) == 2 && parts[1] != "" {
		return code + "-" + strings.ToUpper(parts[1])
	}
	switch code {
	case "en", "es":
		return code + "-US"
	default:
		return code
	}
}

// imageURL builds a full image URL from a TMDB image path, or "" when the
// path is empty.
func imageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return tmdbImageBaseURL + "/" + size + path
}
