package usecase

import (
	"encoding/json"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"stepkit/internal/domain"
	"stepkit/internal/port"
)

type ReplayOptions struct {
	Diffs bool
}

// ReplayReport summarizes how segmentation evolved over a transcript
// replayed one line at a time.
type ReplayReport struct {
	Snapshots  int
	Revisions  int
	Idempotent bool
	Final      []domain.AssistantChunk
	Diffs      []string
}

// Replay re-segments every line prefix of content. A revision is a chunk
// that was followed by another chunk in one snapshot and differs in the
// next one; the last chunk of a snapshot is still growing and does not
// count.
func Replay(seg port.ChunkSegmenter, content string, opts ReplayOptions) ReplayReport {
	var (
		report   ReplayReport
		buf      strings.Builder
		previous []domain.AssistantChunk
		render   string
		dmp      = diffmatchpatch.New()
	)

	for _, line := range strings.SplitAfter(content, "\n") {
		if line == "" {
			continue
		}
		buf.WriteString(line)
		chunks := seg.Segment(buf.String())
		report.Snapshots++

		for i := 0; i < len(previous)-1; i++ {
			if i >= len(chunks) || !previous[i].Equal(chunks[i]) {
				report.Revisions++
			}
		}

		if opts.Diffs {
			next := renderChunks(chunks)
			if report.Snapshots > 1 && next != render {
				diffs := dmp.DiffMain(render, next, false)
				report.Diffs = append(report.Diffs, dmp.DiffPrettyText(dmp.DiffCleanupSemantic(diffs)))
			}
			render = next
		}
		previous = chunks
	}

	report.Final = seg.Segment(content)
	report.Idempotent = chunksEqual(report.Final, seg.Segment(content+"\n\n"))
	return report
}

func renderChunks(chunks []domain.AssistantChunk) string {
	var b strings.Builder
	for _, c := range chunks {
		data, err := json.Marshal(c)
		if err != nil {
			continue
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	return b.String()
}
