package segmenter

import (
	"strings"
	"unicode"

	"stepkit/internal/port"
)

const fenceMarker = "```"

// jsonSection accumulates the lines of one JSON candidate and tracks its
// brace depth.
type jsonSection struct {
	lines   []string
	depth   int
	started bool
}

// add appends a line and reports whether the candidate just closed. A
// candidate closes when its depth returns to zero after opening with '{'.
func (s *jsonSection) add(line string, tracker port.BraceTracker) bool {
	s.lines = append(s.lines, line)
	if !s.started {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return false
		}
		if !strings.HasPrefix(trimmed, "{") {
			// Braces still count; only fence close or end of input can end it.
			s.depth += tracker.Delta(line)
			return false
		}
		s.started = true
	}
	s.depth += tracker.Delta(line)
	return s.started && s.depth <= 0
}

func (s *jsonSection) text() string {
	return strings.TrimSpace(strings.Join(s.lines, "\n"))
}

// closed appends the braces a truncated candidate is missing.
func (s *jsonSection) closed() string {
	if s.depth <= 0 {
		return s.text()
	}
	return s.text() + "\n" + strings.Repeat("}", s.depth)
}

// fence reports whether trimmed is a fence line and returns its language tag.
func fence(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, fenceMarker) {
		return "", false
	}
	tag := strings.TrimSpace(strings.TrimLeft(trimmed, "`"))
	if fields := strings.Fields(tag); len(fields) > 0 {
		tag = fields[0]
	}
	return strings.ToLower(tag), true
}

// fenceState tracks whether the scanner is inside a code fence and whether
// that fence is JSON-typed.
type fenceState struct {
	open bool
	json bool
}

// opaque reports whether the scanner is inside a non-JSON fence, where
// lines are never treated as JSON.
func (f fenceState) opaque() bool {
	return f.open && !f.json
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func startsObject(trimmed string) bool {
	return strings.HasPrefix(trimmed, "{")
}

// trimBlock drops trailing whitespace and leading blank lines while keeping
// the indentation of the first content line.
func trimBlock(s string) string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	for {
		idx := strings.IndexByte(s, '\n')
		if idx < 0 || strings.TrimSpace(s[:idx]) != "" {
			break
		}
		s = s[idx+1:]
	}
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}
