package port

import "stepkit/internal/domain"

// BraceTracker returns the net brace delta of a single line.
type BraceTracker interface {
	Delta(line string) int
}

type ChunkSegmenter interface {
	Segment(text string) []domain.AssistantChunk
}

type DocumentSegmenter interface {
	Parse(text string) domain.ParsedDocument
}
