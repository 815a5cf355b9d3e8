package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/slug"
	"github.com/five82/marquee/internal/tmdb"
)

// renderDetail renders the detail view for the opened movie.
func (m Model) renderDetail() string {
	contentHeight := max(m.height-2, 3)
	snap := m.details.Snapshot()
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()

	title := "Details"
	var content string
	switch snap.Phase {
	case paging.PhaseLoading, paging.PhaseIdle:
		content = m.spinner.View() + bg.Space() + bg.Render("Loading movie...", styles.MutedText)
	case paging.PhaseFailed:
		if errors.Is(snap.Err, tmdb.ErrNotFound) {
			content = bg.Render("Movie not found", styles.DangerText) + "\n\n" +
				bg.Render("Press esc to go back", styles.MutedText)
		} else {
			content = m.renderErrorPanel(snap.Err, m.width-4, bg)
		}
	default:
		if snap.Movie != nil {
			title = truncate(snap.Movie.Title, 60)
		}
		content = m.detailViewport.View()
	}

	return m.renderTitledBox(title, content, m.width, contentHeight, true)
}

func (m *Model) resizeDetailViewport() {
	m.detailViewport.Width = max(m.width-2, 1)
	m.detailViewport.Height = max(m.height-4, 1)
}

// updateDetailViewport rebuilds the detail text for the loaded movie.
func (m *Model) updateDetailViewport() {
	snap := m.details.Snapshot()
	if snap.Movie == nil {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.detailContent(*snap.Movie, max(m.width-4, 20)))
}

// detailContent renders a movie's full record.
func (m Model) detailContent(d tmdb.MovieDetails, width int) string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	label := func(s string) string {
		return bg.Render(padRight(s, 12), styles.MutedText)
	}

	var lines []string
	add := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		lines = append(lines, label(name)+bg.Render(value, styles.Text))
	}

	lines = append(lines, bg.Render(movieLabel(d.Title, d.Year()), styles.Text.Bold(true)))
	if tagline := strings.TrimSpace(d.Tagline); tagline != "" {
		lines = append(lines, bg.Render(tagline, styles.MutedText.Italic(true)))
	}
	lines = append(lines, "")

	if m.favs.Contains(d.ID) {
		lines = append(lines, bg.Render("★ In favorites", styles.StarText))
	} else {
		lines = append(lines, bg.Render("☆ Not in favorites", styles.FaintText))
	}
	lines = append(lines, "")

	if d.VoteCount > 0 {
		rating := bg.Render(fmt.Sprintf("%.1f/10", d.Rating()), styles.RatingStyle(d.Rating()))
		votes := bg.Render(fmt.Sprintf("(%s votes)", humanize.Comma(int64(d.VoteCount))), styles.FaintText)
		lines = append(lines, label("Rating")+rating+bg.Space()+votes)
	}
	if released := d.ParsedReleaseDate(); !released.IsZero() {
		add("Released", released.Format("January 2, 2006"))
	}
	add("Runtime", formatRuntime(d.Runtime))
	add("Genres", strings.Join(d.GenreNames(), ", "))
	add("Status", d.Status)
	if d.OriginalTitle != "" && d.OriginalTitle != d.Title {
		add("Original", d.OriginalTitle)
	}
	add("Language", strings.ToUpper(d.OriginalLanguage))
	if d.Budget > 0 {
		add("Budget", "$"+humanize.Comma(d.Budget))
	}
	if d.Revenue > 0 {
		add("Revenue", "$"+humanize.Comma(d.Revenue))
	}

	lines = append(lines, "")
	overview := strings.TrimSpace(d.Overview)
	if overview == "" {
		overview = "No overview available."
	}
	for _, line := range wrapText(overview, width) {
		lines = append(lines, bg.Render(line, styles.Text))
	}

	lines = append(lines, "")
	add("Link", slug.MovieURL(d.ID, d.Title))
	add("Poster", m.imageURL(d.PosterPath, "w500"))
	if d.BackdropPath != "" {
		add("Backdrop", m.imageURL(d.BackdropPath, "original"))
	}
	add("Homepage", d.Homepage)
	if d.IMDbID != "" {
		add("IMDb", "https://www.imdb.com/title/"+d.IMDbID)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
