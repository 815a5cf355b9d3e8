// Package slug builds and parses the human-readable movie paths used by the
// browser and the JSON API: /movie/{slug}-{base36 id}.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MoviePathPrefix is the route prefix for movie detail paths.
const MoviePathPrefix = "/movie/"

var (
	specialRe    = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	hyphensRe    = regexp.MustCompile(`-+`)
)

// Slugify lowercases text, strips accents and punctuation, and joins the
// remaining words with single hyphens.
func Slugify(text string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn))),
		strings.ToLower(text),
	)
	if err != nil {
		stripped = strings.ToLower(text)
	}
	s := strings.TrimSpace(stripped)
	s = specialRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = hyphensRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// EncodeID renders a movie id as lowercase base 36.
func EncodeID(id int) string {
	return strconv.FormatInt(int64(id), 36)
}

// DecodeID parses the leading base-36 digits of hash. It reports false when
// hash does not start with a base-36 digit or the value overflows.
func DecodeID(hash string) (int, bool) {
	hash = strings.TrimLeftFunc(hash, unicode.IsSpace)
	end := 0
	for end < len(hash) && isBase36Digit(hash[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	id, err := strconv.ParseInt(hash[:end], 36, 0)
	if err != nil {
		return 0, false
	}
	return int(id), true
}

// MovieURL returns the detail path for a movie.
func MovieURL(id int, title string) string {
	return MoviePathPrefix + Slugify(title) + "-" + EncodeID(id)
}

// ExtractMovieID recovers the movie id from a "{slug}-{hash}" path parameter.
// The last hyphen-delimited segment is tried first, then the last two joined.
func ExtractMovieID(param string) (int, bool) {
	param = strings.TrimPrefix(param, MoviePathPrefix)
	if param == "" {
		return 0, false
	}
	parts := strings.Split(param, "-")
	if len(parts) < 2 {
		return 0, false
	}
	if id, ok := DecodeID(parts[len(parts)-1]); ok {
		return id, true
	}
	return DecodeID(strings.Join(parts[len(parts)-2:], "-"))
}

func isBase36Digit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
