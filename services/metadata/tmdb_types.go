package metadata

// Raw TMDB response shapes. Only the fields the detail pages consume are
// declared; everything else in the payload is ignored.

type tmdbGenre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type tmdbMovie struct {
	ID               int64       `json:"id"`
	Title            string      `json:"title"`
	Tagline          string      `json:"tagline"`
	Overview         string      `json:"overview"`
	PosterPath       string      `json:"poster_path"`
	BackdropPath     string      `json:"backdrop_path"`
	ReleaseDate      string      `json:"release_date"`
	Runtime          int         `json:"runtime"`
	Status           string      `json:"status"`
	Homepage         string      `json:"homepage"`
	Budget           int64       `json:"budget"`
	Revenue          int64       `json:"revenue"`
	Genres           []tmdbGenre `json:"genres"`
	VoteAverage      float64     `json:"vote_average"`
	VoteCount        int64       `json:"vote_count"`
	Popularity       float64     `json:"popularity"`
	OriginalLanguage string      `json:"original_language"`
}

type tmdbTV struct {
	ID               int64       `json:"id"`
	Name             string      `json:"name"`
	Tagline          string      `json:"tagline"`
	Overview         string      `json:"overview"`
	PosterPath       string      `json:"poster_path"`
	BackdropPath     string      `json:"backdrop_path"`
	FirstAirDate     string      `json:"first_air_date"`
	NumberOfSeasons  int         `json:"number_of_seasons"`
	NumberOfEpisodes int         `json:"number_of_episodes"`
	Status           string      `json:"status"`
	Homepage         string      `json:"homepage"`
	Genres           []tmdbGenre `json:"genres"`
	VoteAverage      float64     `json:"vote_average"`
	VoteCount        int64       `json:"vote_count"`
	Popularity       float64     `json:"popularity"`
	OriginalLanguage string      `json:"original_language"`
}

type tmdbCredits struct {
	Cast []struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
		Order       int    `json:"order"`
	} `json:"cast"`
	Crew []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
		Job  string `json:"job"`
	} `json:"crew"`
}

type tmdbReviewPage struct {
	Results []struct {
		ID            string `json:"id"`
		Author        string `json:"author"`
		Content       string `json:"content"`
		CreatedAt     string `json:"created_at"`
		URL           string `json:"url"`
		AuthorDetails struct {
			Rating     *float64 `json:"rating"`
			AvatarPath string   `json:"avatar_path"`
		} `json:"author_details"`
	} `json:"results"`
}

type tmdbSummary struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
}

type tmdbSummaryPage struct {
	Results []tmdbSummary `json:"results"`
}

type tmdbProvider struct {
	ProviderID int64  `json:"provider_id"`
	Name       string `json:"provider_name"`
	LogoPath   string `json:"logo_path"`
}

type tmdbProviderRegion struct {
	Link     string         `json:"link"`
	Flatrate []tmdbProvider `json:"flatrate"`
	Rent     []tmdbProvider `json:"rent"`
	Buy      []tmdbProvider `json:"buy"`
}

type tmdbProviderResponse struct {
	Results map[string]tmdbProviderRegion `json:"results"`
}
