package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders line 1: logo, view tabs and the status line.
func (m Model) renderHeader() string {
	bg := NewBgStyle(m.theme.Surface)
	styles := m.theme.Styles()

	parts := []string{bg.Render("MARQUEE", styles.Logo)}

	tabs := []struct {
		view  View
		label string
	}{
		{ViewPopular, "1 Popular"},
		{ViewSearch, "2 Search"},
		{ViewFavorites, fmt.Sprintf("3 Favorites (%d)", m.favs.Len())},
	}
	active := m.listView()
	for _, tab := range tabs {
		style := styles.MutedText
		if tab.view == active {
			style = styles.AccentText.Bold(true)
		}
		parts = append(parts, bg.Render(tab.label, style))
	}

	left := bg.Join(parts, "  ")

	var right string
	switch {
	case m.favs.LastSaveError() != nil:
		right = bg.Render("favorites may not be saved", styles.WarningText)
	case m.statusMsg != "":
		right = bg.Render(truncate(m.statusMsg, 60), styles.InfoText)
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	line := bg.Space() + left + bg.Spaces(gap) + right + bg.Space()
	return bg.FillLine(line, m.width)
}

// renderCommandBar renders line 2: the search box in the search view,
// otherwise the key hints for the current view.
func (m Model) renderCommandBar() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()

	if m.currentView == ViewSearch {
		input := m.searchInput.View()
		hint := "enter search · esc done"
		if !m.searchFocused {
			hint = "/ edit search"
		}
		line := bg.Space() + input + bg.Spaces(2) + bg.Render(hint, styles.FaintText)
		return bg.FillLine(line, m.width)
	}

	var hints [][2]string
	switch m.currentView {
	case ViewDetail:
		hints = [][2]string{{"esc", "back"}, {"f", "favorite"}, {"j/k", "scroll"}, {"r", "retry"}}
	case ViewFavorites:
		hints = [][2]string{{"enter", "details"}, {"f", "unfavorite"}, {"s", "sort"}, {"r", "retry"}}
	default:
		hints = [][2]string{{"enter", "details"}, {"f", "favorite"}, {"/", "search"}, {"r", "refresh"}}
	}
	hints = append(hints, [2]string{"h", "help"}, [2]string{"q", "quit"})

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, bg.Render(h[0], styles.WarningText)+bg.Space()+bg.Render(h[1], styles.MutedText))
	}
	line := bg.Space() + strings.Join(parts, bg.Spaces(3))
	return bg.FillLine(line, m.width)
}
