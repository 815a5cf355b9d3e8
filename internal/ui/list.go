package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/browse"
	"github.com/five82/marquee/internal/paging"
	"github.com/five82/marquee/internal/tmdb"
)

// renderList renders a list view: the movie list, plus an overview pane of
// the selected movie on wide terminals.
func (m Model) renderList(view View) string {
	contentHeight := max(m.height-2, 3) // header + command bar
	snap := m.listState(view)

	listWidth := m.width
	wide := m.width >= LayoutOverviewWidth
	if wide {
		listWidth = m.width * 55 / 100
	}

	body := m.renderListBody(view, snap, listWidth-2, contentHeight-2)
	listPane := m.renderTitledBox(m.listTitle(view, snap), body, listWidth, contentHeight, true)
	if !wide {
		return listPane
	}

	overviewWidth := m.width - listWidth
	overview := m.renderOverview(overviewWidth - 4)
	overviewPane := m.renderTitledBox("Overview", overview, overviewWidth, contentHeight, false)
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, overviewPane)
}

// listTitle returns the list pane title.
func (m Model) listTitle(view View, snap paging.Snapshot[tmdb.Movie]) string {
	switch view {
	case ViewPopular:
		return fmt.Sprintf("Popular (%d)", len(snap.Items))
	case ViewSearch:
		if snap.Query == "" {
			return "Search"
		}
		return "Search: " + truncate(snap.Query, 30)
	case ViewFavorites:
		return fmt.Sprintf("Favorites (%d) · %s", len(snap.Items), m.sortOrder.Label())
	default:
		return ""
	}
}

// renderListBody renders the loading, error, empty or content state of a
// list.
func (m Model) renderListBody(view View, snap paging.Snapshot[tmdb.Movie], width, height int) string {
	bgColor := m.theme.FocusBg
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	if len(snap.Items) == 0 {
		switch snap.Phase {
		case paging.PhaseLoading:
			return m.spinner.View() + bg.Space() + bg.Render("Loading movies...", styles.MutedText)
		case paging.PhaseFailed:
			return m.renderErrorPanel(snap.Err, width, bg)
		case paging.PhaseIdle:
			if view == ViewSearch {
				return bg.Render("Press / to search for movies", styles.MutedText)
			}
			return ""
		default:
			return bg.Render(m.emptyMessage(view, snap), styles.MutedText)
		}
	}

	var header []string
	if view == ViewSearch {
		header = append(header, bg.Render(browse.ResultCount(snap.TotalResults), styles.FaintText))
	}
	footer := m.renderListFooter(view, snap, width, bg)

	rows := max(height-len(header)-1, 1)
	selected := m.selected[view]
	start := 0
	if selected >= rows {
		start = selected - rows + 1
	}
	end := min(start+rows, len(snap.Items))

	term := ""
	if view == ViewSearch {
		term = snap.Query
	}

	lines := append([]string{}, header...)
	for i := start; i < end; i++ {
		rowBg := bgColor
		if i == selected {
			rowBg = m.theme.SelectionBg
		}
		content := m.formatMovieRow(snap.Items[i], width, rowBg, i == selected, term)
		lines = append(lines, lipgloss.NewStyle().
			Background(lipgloss.Color(rowBg)).
			Width(width).
			Render(content))
	}
	lines = append(lines, footer)
	return strings.Join(lines, "\n")
}

// renderErrorPanel shows the raw failure message with a retry hint.
func (m Model) renderErrorPanel(err error, width int, bg BgStyle) string {
	styles := m.theme.Styles()
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return strings.Join([]string{
		bg.Render("Something went wrong", styles.DangerText),
		bg.Render(truncate(msg, width), styles.Text),
		"",
		bg.Render("Press r to retry", styles.MutedText),
	}, "\n")
}

func (m Model) emptyMessage(view View, snap paging.Snapshot[tmdb.Movie]) string {
	switch view {
	case ViewSearch:
		return fmt.Sprintf("No movies found for %q", snap.Query)
	case ViewFavorites:
		return "No favorites yet. Press f on a movie to add it."
	default:
		return "No movies found"
	}
}

// renderListFooter reports paging progress below the rows.
func (m Model) renderListFooter(view View, snap paging.Snapshot[tmdb.Movie], width int, bg BgStyle) string {
	styles := m.theme.Styles()
	switch {
	case snap.Phase == paging.PhaseLoading:
		return m.spinner.View() + bg.Space() + bg.Render("Loading more...", styles.MutedText)
	case snap.Phase == paging.PhaseFailed:
		msg := "Failed to load more: " + snap.Err.Error()
		return bg.Render(truncate(msg, max(width-16, 10)), styles.DangerText) +
			bg.Render(" (r to retry)", styles.MutedText)
	case view != ViewFavorites && snap.HasMore():
		return bg.Render(fmt.Sprintf("Page %d of %d", snap.Page, snap.TotalPages), styles.FaintText)
	default:
		return bg.Render("End of list", styles.FaintText)
	}
}

// formatMovieRow formats a movie row with inline colors.
// Format: "★ Title            2024  7.9"
// When selected is true, uses SelectionText color for all text to ensure contrast.
func (m Model) formatMovieRow(movie tmdb.Movie, width int, bgColor string, selected bool, term string) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	star := "☆"
	starStyle := styles.FaintText
	if m.favs.Contains(movie.ID) {
		star = "★"
		starStyle = styles.StarText
	}

	compact := width < LayoutCompactWidth
	suffixWidth := 0
	if !compact {
		suffixWidth = 11 // " 2024  7.9"
	}
	titleWidth := max(width-2-suffixWidth, 10)
	title := truncate(movieTitle(movie), titleWidth)

	textStyle := styles.Text
	yearStyle := styles.MutedText
	ratingStyle := styles.RatingStyle(movie.Rating())
	if selected {
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		textStyle, yearStyle, ratingStyle, starStyle = selText, selText, selText, selText
	}

	var b strings.Builder
	b.WriteString(bg.Render(star, starStyle))
	b.WriteString(bg.Space())
	b.WriteString(bg.RenderSpans(browse.Highlight(title, term), textStyle, styles.Match))
	if pad := titleWidth - lipgloss.Width(title); pad > 0 {
		b.WriteString(bg.Spaces(pad))
	}
	if compact {
		return b.String()
	}

	year := padRight(movie.Year(), 4)
	rating := " -"
	if movie.VoteCount > 0 {
		rating = fmt.Sprintf("%4.1f", movie.Rating())
	} else {
		ratingStyle = styles.FaintText
	}
	b.WriteString(bg.Space())
	b.WriteString(bg.Render(year, yearStyle))
	b.WriteString(bg.Spaces(2))
	b.WriteString(bg.Render(rating, ratingStyle))
	return b.String()
}

// renderOverview renders the selected movie's synopsis for the side pane.
func (m Model) renderOverview(width int) string {
	movie, ok := m.selectedMovie()
	if !ok {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.Muted)).
			Background(lipgloss.Color(m.theme.SurfaceAlt)).
			Render("Select a movie")
	}
	bg := NewBgStyle(m.theme.SurfaceAlt)
	styles := m.theme.Styles()

	lines := []string{
		bg.Render(truncate(movieLabel(movieTitle(movie), movie.Year()), width), styles.Text.Bold(true)),
		"",
	}
	if movie.VoteCount > 0 {
		lines = append(lines,
			bg.Render(fmt.Sprintf("Rating %.1f/10", movie.Rating()), styles.RatingStyle(movie.Rating())),
			"",
		)
	}
	overview := strings.TrimSpace(movie.Overview)
	if overview == "" {
		overview = "No overview available."
	}
	for _, line := range wrapText(overview, width) {
		lines = append(lines, bg.Render(line, styles.Text))
	}
	lines = append(lines, "", bg.Render("Press enter for details", styles.FaintText))
	return strings.Join(lines, "\n")
}

// movieTitle prefers the localized title over the original one.
func movieTitle(movie tmdb.Movie) string {
	if strings.TrimSpace(movie.Title) != "" {
		return movie.Title
	}
	if strings.TrimSpace(movie.OriginalTitle) != "" {
		return movie.OriginalTitle
	}
	return "Untitled"
}

// renderTitledBox renders content in a box with the title embedded in the top border.
// Frame style: ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderColor := lipgloss.Color(borderColorStr)
	bgColor := lipgloss.Color(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(borderColor)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	// Build the top border with embedded title
	innerWidth := max(width-2, 4)
	title = truncate(title, innerWidth-4)
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	var paddedLines []string
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
