package browse

import (
	"regexp"
	"strings"

	"github.com/dustin/go-humanize"
)

// Span is a run of text that either matches the highlighted term or not.
type Span struct {
	Text  string
	Match bool
}

// Highlight splits text around case-insensitive literal occurrences of term.
// A blank term yields the whole text as one unmatched span.
func Highlight(text, term string) []Span {
	term = strings.TrimSpace(term)
	if term == "" || text == "" {
		return []Span{{Text: text}}
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	var spans []Span
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			spans = append(spans, Span{Text: text[last:loc[0]]})
		}
		spans = append(spans, Span{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// ResultCount renders the search result count line.
func ResultCount(n int) string {
	if n == 1 {
		return "1 movie found"
	}
	return humanize.Comma(int64(n)) + " movies found"
}
