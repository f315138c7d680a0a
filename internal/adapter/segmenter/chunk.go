package segmenter

import (
	"log/slog"
	"strings"

	"stepkit/internal/domain"
	"stepkit/internal/logging"
	"stepkit/internal/port"
)

// ChunkSegmenter splits an assistant message into ordered text and step
// chunks.
type ChunkSegmenter struct {
	tracker  port.BraceTracker
	repairer port.Repairer
	logger   *slog.Logger
}

func NewChunkSegmenter(tracker port.BraceTracker, repairer port.Repairer, logger *slog.Logger) *ChunkSegmenter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ChunkSegmenter{
		tracker:  tracker,
		repairer: repairer,
		logger:   logger,
	}
}

func (s *ChunkSegmenter) Segment(text string) []domain.AssistantChunk {
	var (
		chunks  []domain.AssistantChunk
		pending []string
		current *jsonSection
		fences  fenceState
	)

	flushText := func() {
		if len(pending) > 0 {
			chunks = append(chunks, domain.TextChunk(strings.Join(pending, "\n")))
			pending = nil
		}
	}
	closeJSON := func() {
		if chunk, ok := s.resolve(current); ok {
			chunks = append(chunks, chunk)
		}
		current = nil
	}

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)

		if lang, ok := fence(trimmed); ok {
			if fences.open {
				wasJSON := fences.json
				fences = fenceState{}
				if wasJSON {
					if current != nil {
						closeJSON()
					}
					continue
				}
				pending = append(pending, line)
				continue
			}
			if current != nil {
				closeJSON()
			}
			fences.open = true
			if lang == "json" {
				fences.json = true
				flushText()
				current = &jsonSection{}
				continue
			}
			pending = append(pending, line)
			continue
		}

		if current != nil {
			if current.add(line, s.tracker) {
				closeJSON()
			}
			continue
		}

		if startsObject(trimmed) && !fences.opaque() {
			flushText()
			current = &jsonSection{}
			if current.add(line, s.tracker) {
				closeJSON()
			}
			continue
		}

		pending = append(pending, line)
	}

	if current != nil {
		closeJSON()
	}
	flushText()

	return coalesce(chunks)
}

// resolve runs a closed candidate through the repairer. Irrecoverable
// candidates come back as text so nothing is dropped.
func (s *ChunkSegmenter) resolve(section *jsonSection) (domain.AssistantChunk, bool) {
	raw := section.text()
	if raw == "" {
		return domain.AssistantChunk{}, false
	}
	result, err := s.repairer.Repair(raw)
	if err != nil {
		s.logger.Debug("json candidate kept as text", "error", err)
		return domain.TextChunk(raw), true
	}
	return domain.JSONChunk(result.Step, raw, result.Tier), true
}

// coalesce trims text chunks, drops empty ones and merges neighbours.
func coalesce(chunks []domain.AssistantChunk) []domain.AssistantChunk {
	out := make([]domain.AssistantChunk, 0, len(chunks))
	for _, c := range chunks {
		if c.Kind != domain.ChunkText {
			out = append(out, c)
			continue
		}
		text := trimBlock(c.Text)
		if text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Kind == domain.ChunkText {
			out[n-1].Text += "\n" + text
			continue
		}
		out = append(out, domain.TextChunk(text))
	}
	return out
}
