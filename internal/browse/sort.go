package browse

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/marquee/internal/tmdb"
)

// SortOrder orders the favorites listing.
type SortOrder string

const (
	SortTitleAsc   SortOrder = "title-asc"
	SortTitleDesc  SortOrder = "title-desc"
	SortRatingDesc SortOrder = "rating-desc"
	SortRatingAsc  SortOrder = "rating-asc"

	DefaultSort = SortTitleAsc
)

var sortOrders = []SortOrder{SortTitleAsc, SortTitleDesc, SortRatingDesc, SortRatingAsc}

// ParseSortOrder accepts the canonical names case-insensitively.
func ParseSortOrder(s string) (SortOrder, bool) {
	candidate := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(sortOrders, candidate) {
		return candidate, true
	}
	return DefaultSort, false
}

// Next cycles to the following order.
func (o SortOrder) Next() SortOrder {
	idx := slices.Index(sortOrders, o)
	return sortOrders[(idx+1)%len(sortOrders)]
}

// Label is the human-readable name.
func (o SortOrder) Label() string {
	switch o {
	case SortTitleAsc:
		return "Title (A-Z)"
	case SortTitleDesc:
		return "Title (Z-A)"
	case SortRatingDesc:
		return "Rating (High to Low)"
	case SortRatingAsc:
		return "Rating (Low to High)"
	default:
		return string(o)
	}
}

// SortMovies returns a sorted copy of movies. Titles compare with the
// collation rules of tag.
func SortMovies(movies []tmdb.Movie, order SortOrder, tag language.Tag) []tmdb.Movie {
	out := slices.Clone(movies)
	switch order {
	case SortTitleAsc, SortTitleDesc:
		col := collate.New(tag)
		slices.SortStableFunc(out, func(a, b tmdb.Movie) int {
			c := col.CompareString(a.Title, b.Title)
			if order == SortTitleDesc {
				return -c
			}
			return c
		})
	case SortRatingDesc:
		slices.SortStableFunc(out, func(a, b tmdb.Movie) int {
			return cmp.Compare(b.VoteAverage, a.VoteAverage)
		})
	case SortRatingAsc:
		slices.SortStableFunc(out, func(a, b tmdb.Movie) int {
			return cmp.Compare(a.VoteAverage, b.VoteAverage)
		})
	}
	return out
}

// LanguageTag parses a TMDB language code such as "en-US", falling back to
// English.
func LanguageTag(code string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return language.English
	}
	return tag
}
