package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// focusSearch moves keyboard input to the search box.
func (m *Model) focusSearch() tea.Cmd {
	m.searchFocused = true
	return m.searchInput.Focus()
}

func (m *Model) blurSearch() {
	m.searchFocused = false
	m.searchInput.Blur()
}

// handleSearchInputKey processes keys while the search box has focus.
func (m Model) handleSearchInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		m.blurSearch()
		cmd := m.submitSearch(m.searchInput.Value())
		return m, cmd
	case "esc":
		m.blurSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// submitSearch runs query. A blank query clears the results without a
// request.
func (m *Model) submitSearch(query string) tea.Cmd {
	req, ok := m.search.Submit(query)
	if !ok {
		m.clampSelection(ViewSearch)
		return nil
	}
	m.selected[ViewSearch] = 0
	return m.fetchPage(ViewSearch, req)
}
