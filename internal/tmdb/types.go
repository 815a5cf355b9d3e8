package tmdb

import (
	"math"
	"time"
)

const releaseDateLayout = "2006-01-02"

// Movie is the list representation returned by /movie/popular and
// /search/movie.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	Adult            bool    `json:"adult"`
	GenreIDs         []int   `json:"genre_ids"`
}

// Genre names a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MovieDetails mirrors /movie/{id}.
type MovieDetails struct {
	Movie
	Genres   []Genre `json:"genres"`
	Runtime  int     `json:"runtime"`
	Status   string  `json:"status"`
	Tagline  string  `json:"tagline"`
	Budget   int64   `json:"budget"`
	Revenue  int64   `json:"revenue"`
	Homepage string  `json:"homepage"`
	IMDbID   string  `json:"imdb_id"`
}

// AsMovie flattens the detail record into its list form. Genre ids are taken
// from Genres.
func (d MovieDetails) AsMovie() Movie {
	m := d.Movie
	m.GenreIDs = make([]int, 0, len(d.Genres))
	for _, g := range d.Genres {
		m.GenreIDs = append(m.GenreIDs, g.ID)
	}
	return m
}

// GenreNames returns the genre names in API order.
func (d MovieDetails) GenreNames() []string {
	names := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		names = append(names, g.Name)
	}
	return names
}

// Page is one page of a paginated TMDB listing.
type Page[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// ParsedReleaseDate returns the release date, or the zero time when it is
// missing or malformed.
func (m Movie) ParsedReleaseDate() time.Time {
	if m.ReleaseDate == "" {
		return time.Time{}
	}
	t, err := time.Parse(releaseDateLayout, m.ReleaseDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Year returns the release year or an empty string.
func (m Movie) Year() string {
	t := m.ParsedReleaseDate()
	if t.IsZero() {
		return ""
	}
	return t.Format("2006")
}

// Rating returns the vote average rounded to one decimal place.
func (m Movie) Rating() float64 {
	return RoundRating(m.VoteAverage)
}

// RoundRating rounds a vote average to one decimal place.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
