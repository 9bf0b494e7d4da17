package metadata

import (
	"fmt"
	"net/url"

	"projection/models"
)

// providerSearchTemplates maps known TMDB provider ids onto the provider's
// own title search. The %s placeholder receives the URL-escaped title.
var providerSearchTemplates = map[int64]string{
	2:   "https://tv.apple.com/search?term=%s",
	3:   "https://play.google.com/store/search?q=%s&c=movies",
	7:   "https://www.vudu.com/content/movies/search?searchString=%s",
	8:   "https://www.netflix.com/search?q=%s",
	9:   "https://www.amazon.com/s?k=%s&i=instant-video",
	10:  "https://www.amazon.com/s?k=%s&i=instant-video",
	15:  "https://www.hulu.com/search?q=%s",
	68:  "https://www.microsoft.com/en-us/search/shop/movies?q=%s",
	100: "https://www.youtube.com/results?search_query=%s",
	119: "https://www.amazon.com/s?k=%s&i=instant-video",
	192: "https://www.youtube.com/results?search_query=%s",
	337: "https://www.disneyplus.com/search/%s",
	350: "https://tv.apple.com/search?term=%s",
	384: "https://play.max.com/search?q=%s",
	386: "https://www.peacocktv.com/search?q=%s",
	531: "https://www.paramountplus.com/search/%s/",
}

// ProviderSearchURL returns a deep link into the provider's own search for
// the given title, or "" when no mapping is known.
func ProviderSearchURL(providerID int64, title string) string {
	template, ok := providerSearchTemplates[providerID]
	if !ok || title == "" {
		return ""
	}
	return fmt.Sprintf(template, url.QueryEscape(title))
}

// AttachProviderLinks fills in SearchURL for every provider in the region.
// Called once the title is known, since providers and details resolve
// concurrently.
func AttachProviderLinks(region *models.ProviderRegion, title string) {
	if region == nil {
		return
	}
	for _, group := range [][]models.WatchProvider{region.Flatrate, region.Rent, region.Buy} {
		for i := range group {
			group[i].SearchURL = ProviderSearchURL(group[i].ProviderID, title)
		}
	}
}
