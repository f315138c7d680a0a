package source

import (
	"bufio"
	"context"
	"io"
	"strings"

	"stepkit/internal/port"
)

// LineSource reads a stream line by line. Each line is returned with its
// trailing newline so the caller can rebuild the buffer verbatim. Bytes
// read before a failed read are held back and prefixed to the next line.
type LineSource struct {
	r       *bufio.Reader
	partial strings.Builder
}

var _ port.StreamSource = (*LineSource)(nil)

func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: bufio.NewReader(r)}
}

func (s *LineSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := s.r.ReadString('\n')
	if s.partial.Len() > 0 {
		line = s.partial.String() + line
		s.partial.Reset()
	}

	switch {
	case err == nil:
		return line, nil
	case err == io.EOF:
		if line != "" {
			return line, nil
		}
		return "", io.EOF
	default:
		s.partial.WriteString(line)
		return "", err
	}
}

// StaticSource replays a fixed set of lines, mostly for tests and replay.
type StaticSource struct {
	lines []string
	pos   int
}

var _ port.StreamSource = (*StaticSource)(nil)

// FromText splits text after each newline.
func FromText(text string) *StaticSource {
	return &StaticSource{lines: strings.SplitAfter(text, "\n")}
}

func (s *StaticSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for s.pos < len(s.lines) {
		line := s.lines[s.pos]
		s.pos++
		if line != "" {
			return line, nil
		}
	}
	return "", io.EOF
}
