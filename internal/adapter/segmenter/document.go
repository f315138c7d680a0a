package segmenter

import (
	"log/slog"
	"regexp"
	"strings"

	"stepkit/internal/domain"
	"stepkit/internal/logging"
	"stepkit/internal/port"
)

type field int

const (
	fieldGoal field = iota
	fieldInputs
	fieldOutputs
	fieldPlan
)

var (
	headerPattern = regexp.MustCompile(`(?i)^#{1,6}\s*(goal|inputs?|outputs?|plan)\b\s*:?\s*(.*?)\s*$`)
	planPattern   = regexp.MustCompile(`^\s*(\d+\.|[-*])(\s*)(.*\S)\s*$`)
)

// matchHeader reports the field a header line opens and any content that
// follows the field name on the same line.
func matchHeader(trimmed string) (field, string, bool) {
	m := headerPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, "", false
	}
	switch strings.ToLower(m[1]) {
	case "goal":
		return fieldGoal, m[2], true
	case "input", "inputs":
		return fieldInputs, m[2], true
	case "output", "outputs":
		return fieldOutputs, m[2], true
	default:
		return fieldPlan, m[2], true
	}
}

// planEntry strips a bullet or number marker from line. A marker glued to
// its text still counts, except where that would turn a rule (---), bold
// text (**x**) or a decimal (1.5) into an entry.
func planEntry(line string) (string, bool) {
	m := planPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	marker, gap, text := m[1], m[2], m[3]
	if gap == "" {
		if marker == "-" || marker == "*" {
			if text[0] == '-' || text[0] == '*' {
				return "", false
			}
		} else if text[0] >= '0' && text[0] <= '9' {
			return "", false
		}
	}
	return text, true
}

type markdownSection struct {
	field field
	lines []string
}

type DocumentOptions struct {
	// TruncationClose appends missing closing braces to a JSON section left
	// open at end of input before the regular repair attempt.
	TruncationClose bool
	// PlanContinuations folds indented lines into the preceding plan entry.
	PlanContinuations bool
}

// DocumentSegmenter splits a workflow document into its named markdown
// fields and the ordered step records between them.
type DocumentSegmenter struct {
	tracker  port.BraceTracker
	repairer port.Repairer
	opts     DocumentOptions
	logger   *slog.Logger
}

func NewDocumentSegmenter(tracker port.BraceTracker, repairer port.Repairer, opts DocumentOptions, logger *slog.Logger) *DocumentSegmenter {
	if logger == nil {
		logger = logging.Nop()
	}
	return &DocumentSegmenter{
		tracker:  tracker,
		repairer: repairer,
		opts:     opts,
		logger:   logger,
	}
}

func (s *DocumentSegmenter) Parse(text string) domain.ParsedDocument {
	doc := domain.ParsedDocument{Steps: []domain.StepRecord{}}

	var (
		md     *markdownSection
		js     *jsonSection
		fences fenceState
	)
	// A header that cut off an open JSON fence leaves its closing marker
	// behind.
	strayClose := false

	closeMarkdown := func() {
		if md != nil {
			s.applyMarkdown(&doc.Markdown, md)
			md = nil
		}
	}
	closeJSON := func(atEOF bool) {
		if js != nil {
			if step, ok := s.resolve(js, atEOF); ok {
				doc.Steps = append(doc.Steps, step)
			}
			js = nil
		}
	}

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)

		if !fences.opaque() {
			if f, inline, ok := matchHeader(trimmed); ok {
				closeMarkdown()
				closeJSON(false)
				if fences.open {
					strayClose = true
				}
				fences = fenceState{}
				md = &markdownSection{field: f}
				if inline != "" {
					md.lines = append(md.lines, inline)
				}
				continue
			}
		}

		if lang, ok := fence(trimmed); ok {
			if strayClose {
				strayClose = false
				if !fences.open && lang == "" {
					continue
				}
			}
			if fences.open {
				wasJSON := fences.json
				fences = fenceState{}
				if wasJSON {
					closeJSON(false)
					continue
				}
				if md != nil {
					md.lines = append(md.lines, line)
				}
				continue
			}
			closeJSON(false)
			fences.open = true
			if lang == "json" {
				fences.json = true
				closeMarkdown()
				js = &jsonSection{}
				continue
			}
			if md != nil {
				md.lines = append(md.lines, line)
			}
			continue
		}

		if js != nil {
			if js.add(line, s.tracker) {
				closeJSON(false)
			}
			continue
		}

		if startsObject(trimmed) && !fences.opaque() {
			closeMarkdown()
			js = &jsonSection{}
			if js.add(line, s.tracker) {
				closeJSON(false)
			}
			continue
		}

		if md != nil {
			md.lines = append(md.lines, line)
		}
	}

	closeMarkdown()
	closeJSON(true)

	return doc
}

// resolve repairs a closed JSON section. A section still open at end of
// input was cut off by the stream, so it first gets its missing braces.
func (s *DocumentSegmenter) resolve(section *jsonSection, atEOF bool) (domain.StepRecord, bool) {
	raw := section.text()
	if raw == "" {
		return domain.StepRecord{}, false
	}
	if atEOF && s.opts.TruncationClose && section.depth > 0 {
		if result, err := s.repairer.Repair(section.closed()); err == nil {
			return result.Step, true
		}
	}
	result, err := s.repairer.Repair(raw)
	if err != nil {
		s.logger.Debug("dropping unrecoverable step", "error", err)
		return domain.StepRecord{}, false
	}
	return result.Step, true
}

func (s *DocumentSegmenter) applyMarkdown(fields *domain.MarkdownFields, md *markdownSection) {
	if md.field == fieldPlan {
		fields.Plan = append(fields.Plan, s.planEntries(md.lines)...)
		return
	}

	content := trimBlock(strings.Join(md.lines, "\n"))
	if content == "" {
		return
	}
	var target *string
	switch md.field {
	case fieldGoal:
		target = &fields.Goal
	case fieldInputs:
		target = &fields.Inputs
	default:
		target = &fields.Outputs
	}
	if *target != "" {
		*target += "\n" + content
	} else {
		*target = content
	}
}

func (s *DocumentSegmenter) planEntries(lines []string) []string {
	var entries []string
	continuable := false
	for _, line := range lines {
		if entry, ok := planEntry(line); ok {
			entries = append(entries, entry)
			continuable = true
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continuable = false
			continue
		}
		indented := strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
		if s.opts.PlanContinuations && continuable && indented {
			entries[len(entries)-1] += " " + trimmed
		}
	}
	return entries
}
