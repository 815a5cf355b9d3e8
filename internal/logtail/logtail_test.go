package logtail

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "marquee.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v, want nil, nil", got, err)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		line  string
		ok    bool
		level slog.Level
		rest  string
	}{
		{line: "2025-10-08 21:01:05 INF popular page loaded page=2", ok: true, level: slog.LevelInfo, rest: "popular page loaded page=2"},
		{line: "2025-10-08 21:01:05 WRN save favorites failed", ok: true, level: slog.LevelWarn, rest: "save favorites failed"},
		{line: "2025-10-08 21:01:05 ERR+2 boom", ok: true, level: slog.LevelError, rest: "boom"},
		{line: "2025-10-08 21:01:05 DBG", ok: true, level: slog.LevelDebug},
		{line: "    continuation", ok: false},
		{line: "2025-10-08 21:01:05 NOPE x", ok: false},
		{line: "", ok: false},
	}
	for _, tt := range tests {
		rec, ok := Parse(tt.line)
		if ok != tt.ok {
			t.Fatalf("Parse(%q) ok = %v, want %v", tt.line, ok, tt.ok)
		}
		if !ok {
			continue
		}
		if rec.Level != tt.level || rec.Rest != tt.rest || rec.Time != "2025-10-08 21:01:05" {
			t.Fatalf("Parse(%q) = %+v", tt.line, rec)
		}
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		"2025-10-08 21:01:05 DBG fetch page=1",
		"2025-10-08 21:01:06 INF loaded",
		"2025-10-08 21:01:07 WRN slow",
		"  detail of slow",
		"2025-10-08 21:01:08 DBG fetch page=2",
		"  detail of fetch",
		"2025-10-08 21:01:09 ERR failed",
	}
	got := Filter(lines, slog.LevelWarn)
	want := []string{lines[2], lines[3], lines[6]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Filter() = %v, want %v", got, want)
	}
}

func TestLastSession(t *testing.T) {
	lines := []string{
		"2025-10-08 21:00:00 INF start session=aaa",
		"2025-10-08 21:00:01 INF stop session=aaa",
		"2025-10-08 21:01:00 INF start session=bbb",
		"  continuation",
		"2025-10-08 21:01:01 WRN slow session=bbb",
	}
	got := LastSession(lines)
	if !reflect.DeepEqual(got, lines[2:]) {
		t.Fatalf("LastSession() = %v, want %v", got, lines[2:])
	}

	plain := []string{"a", "b"}
	if got := LastSession(plain); !reflect.DeepEqual(got, plain) {
		t.Fatalf("LastSession() without sessions = %v, want unchanged", got)
	}
}

func TestColorizerKeepsText(t *testing.T) {
	c := NewColorizer(lipgloss.NewRenderer(&bytes.Buffer{}))
	line := "2025-10-08 21:01:05 WRN save favorites failed count=3"
	got := c.Line(line)
	for _, part := range []string{"2025-10-08 21:01:05", "WRN", "save favorites failed count=3"} {
		if !strings.Contains(got, part) {
			t.Fatalf("Line() = %q, missing %q", got, part)
		}
	}
	if got := c.Line("  continuation"); got != "  continuation" {
		t.Fatalf("Line() on unparsed = %q, want unchanged", got)
	}
	if got := c.Lines([]string{"x", "y"}); len(got) != 2 {
		t.Fatalf("Lines() len = %d, want 2", len(got))
	}
}
