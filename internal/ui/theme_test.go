package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		if th.Name != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, th.Name)
		}
		if th.Star == "" || th.Highlight == "" {
			t.Fatalf("GetTheme(%s) missing star/highlight colors", name)
		}
	}
	if unknown := GetTheme("Unknown"); unknown.Name != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", unknown.Name)
	}
}

func TestRatingStyleThresholds(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles()
	cases := []struct {
		rating float64
		want   string
	}{
		{8.1, th.Success},
		{7.0, th.Success},
		{6.9, th.Warning},
		{5.0, th.Warning},
		{4.9, th.Danger},
	}
	for _, tc := range cases {
		got := styles.RatingStyle(tc.rating).GetForeground()
		if got != lipgloss.Color(tc.want) {
			t.Fatalf("RatingStyle(%v) foreground = %v, want %v", tc.rating, got, tc.want)
		}
	}
}
