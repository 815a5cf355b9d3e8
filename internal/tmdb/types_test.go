package tmdb

import "testing"

func TestMovieHelpers(t *testing.T) {
	m := Movie{ReleaseDate: "1999-03-30", VoteAverage: 8.216}
	if m.Year() != "1999" {
		t.Fatalf("Year = %q, want 1999", m.Year())
	}
	if m.Rating() != 8.2 {
		t.Fatalf("Rating = %v, want 8.2", m.Rating())
	}
	if (Movie{ReleaseDate: "soon"}).Year() != "" {
		t.Fatalf("Year on malformed date should be empty")
	}
	if !(Movie{}).ParsedReleaseDate().IsZero() {
		t.Fatalf("ParsedReleaseDate on empty date should be zero")
	}
}

func TestRoundRating(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{7.25, 7.3},
		{7.24, 7.2},
		{0, 0},
		{10, 10},
	}
	for _, tt := range tests {
		if got := RoundRating(tt.in); got != tt.want {
			t.Fatalf("RoundRating(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMovieDetails_GenreNames(t *testing.T) {
	d := MovieDetails{Genres: []Genre{{ID: 18, Name: "Drama"}, {ID: 80, Name: "Crime"}}}
	names := d.GenreNames()
	if len(names) != 2 || names[0] != "Drama" || names[1] != "Crime" {
		t.Fatalf("GenreNames = %v", names)
	}
	if ids := (MovieDetails{}).AsMovie().GenreIDs; ids == nil || len(ids) != 0 {
		t.Fatalf("AsMovie on no genres = %#v, want empty slice", ids)
	}
}
