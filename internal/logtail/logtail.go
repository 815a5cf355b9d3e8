package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, idx := 0, 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Record is one parsed log line in the text format written by
// logging.OpenFile: "2006-01-02 15:04:05 INF message key=value ...".
type Record struct {
	Time  string
	Level slog.Level
	Rest  string
}

var levelTokens = map[string]slog.Level{
	"DBG": slog.LevelDebug,
	"INF": slog.LevelInfo,
	"WRN": slog.LevelWarn,
	"ERR": slog.LevelError,
}

// Parse splits a log line. ok is false for lines that do not start with a
// timestamp and level, such as wrapped continuation lines.
func Parse(line string) (Record, bool) {
	fields := strings.SplitN(line, " ", 4)
	if len(fields) < 3 || len(fields[0]) != len("2006-01-02") || len(fields[1]) != len("15:04:05") {
		return Record{}, false
	}
	token := fields[2]
	if i := strings.IndexAny(token, "+-"); i > 0 {
		token = token[:i]
	}
	level, ok := levelTokens[token]
	if !ok {
		return Record{}, false
	}
	rec := Record{Time: fields[0] + " " + fields[1], Level: level}
	if len(fields) == 4 {
		rec.Rest = fields[3]
	}
	return rec, true
}

// Filter keeps lines at or above min. Unparsed lines follow the decision
// made for the line before them.
func Filter(lines []string, min slog.Level) []string {
	out := make([]string, 0, len(lines))
	keep := true
	for _, line := range lines {
		if rec, ok := Parse(line); ok {
			keep = rec.Level >= min
		}
		if keep {
			out = append(out, line)
		}
	}
	return out
}

// LastSession keeps the lines written by the most recent program run,
// identified by the session attribute every record carries. Lines are
// returned unchanged when no session attribute is present.
func LastSession(lines []string) []string {
	session := ""
	for i := len(lines) - 1; i >= 0 && session == ""; i-- {
		session = sessionOf(lines[i])
	}
	if session == "" {
		return lines
	}
	start := len(lines)
	for i := len(lines) - 1; i >= 0; i-- {
		s := sessionOf(lines[i])
		if s != "" && s != session {
			break
		}
		start = i
	}
	return lines[start:]
}

func sessionOf(line string) string {
	const attr = "session="
	i := strings.Index(line, attr)
	if i < 0 {
		return ""
	}
	value := line[i+len(attr):]
	if end := strings.IndexByte(value, ' '); end >= 0 {
		value = value[:end]
	}
	return value
}

// Colorizer styles log lines for a terminal.
type Colorizer struct {
	time  lipgloss.Style
	rest  lipgloss.Style
	level map[slog.Level]lipgloss.Style
}

// NewColorizer builds a Colorizer bound to r. Colors degrade with the
// renderer's color profile.
func NewColorizer(r *lipgloss.Renderer) Colorizer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Colorizer{
		time: r.NewStyle().Foreground(lipgloss.Color("#808080")),
		rest: r.NewStyle(),
		level: map[slog.Level]lipgloss.Style{
			slog.LevelDebug: r.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true),
			slog.LevelInfo:  r.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true),
			slog.LevelWarn:  r.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
			slog.LevelError: r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		},
	}
}

// Line styles one line. Lines that do not parse are returned unchanged.
func (c Colorizer) Line(line string) string {
	rec, ok := Parse(line)
	if !ok {
		return line
	}
	level := strings.SplitN(line, " ", 4)[2]
	out := c.time.Render(rec.Time) + " " + c.level[rec.Level].Render(level)
	if rec.Rest != "" {
		out += " " + c.rest.Render(rec.Rest)
	}
	return out
}

// Lines styles every line.
func (c Colorizer) Lines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = c.Line(line)
	}
	return out
}
