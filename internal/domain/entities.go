package domain

import (
	"encoding/json"
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type ParamSpec struct {
	Type        PrimitiveType `json:"type"`
	Description string        `json:"description"`
}

// Params keeps parameter declarations in source order.
type Params = orderedmap.OrderedMap[string, ParamSpec]

func NewParams() *Params {
	return orderedmap.New[string, ParamSpec]()
}

type StepRecord struct {
	Name    string  `json:"name"`
	Service string  `json:"service"`
	Method  string  `json:"method"`
	Goal    string  `json:"goal"`
	Params  *Params `json:"params"`
	Returns *Params `json:"returns"`
}

// Equal compares two records field by field, including parameter order.
func (s StepRecord) Equal(other StepRecord) bool {
	if s.Name != other.Name || s.Service != other.Service || s.Method != other.Method || s.Goal != other.Goal {
		return false
	}
	return paramsEqual(s.Params, other.Params) && paramsEqual(s.Returns, other.Returns)
}

func paramsEqual(a, b *Params) bool {
	if paramsLen(a) != paramsLen(b) {
		return false
	}
	if paramsLen(a) == 0 {
		return true
	}
	pb := b.Oldest()
	for pa := a.Oldest(); pa != nil; pa = pa.Next() {
		if pb == nil || pa.Key != pb.Key || pa.Value != pb.Value {
			return false
		}
		pb = pb.Next()
	}
	return true
}

func paramsLen(p *Params) int {
	if p == nil {
		return 0
	}
	return p.Len()
}

type ChunkKind string

const (
	ChunkText ChunkKind = "text"
	ChunkJSON ChunkKind = "json"
)

// AssistantChunk is either free text or one structured step.
type AssistantChunk struct {
	Kind ChunkKind
	Text string
	Step *StepRecord
	Raw  string
	Tier Tier
}

func TextChunk(content string) AssistantChunk {
	return AssistantChunk{Kind: ChunkText, Text: content}
}

func JSONChunk(step StepRecord, raw string, tier Tier) AssistantChunk {
	return AssistantChunk{Kind: ChunkJSON, Step: &step, Raw: raw, Tier: tier}
}

func (c AssistantChunk) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ChunkText:
		return json.Marshal(struct {
			Type    ChunkKind `json:"type"`
			Content string    `json:"content"`
		}{c.Kind, c.Text})
	case ChunkJSON:
		return json.Marshal(struct {
			Type    ChunkKind   `json:"type"`
			Content *StepRecord `json:"content"`
			Tier    string      `json:"tier,omitempty"`
		}{c.Kind, c.Step, c.Tier.String()})
	default:
		return nil, fmt.Errorf("unknown chunk kind %q", c.Kind)
	}
}

// Equal reports whether two chunks carry the same content.
func (c AssistantChunk) Equal(other AssistantChunk) bool {
	if c.Kind != other.Kind {
		return false
	}
	if c.Kind == ChunkText {
		return c.Text == other.Text
	}
	if c.Step == nil || other.Step == nil {
		return c.Step == other.Step
	}
	return c.Raw == other.Raw && c.Step.Equal(*other.Step)
}

type MarkdownFields struct {
	Goal    string   `json:"goal,omitempty"`
	Inputs  string   `json:"inputs,omitempty"`
	Outputs string   `json:"outputs,omitempty"`
	Plan    []string `json:"plan,omitempty"`
}

type ParsedDocument struct {
	Markdown MarkdownFields `json:"markdown"`
	Steps    []StepRecord   `json:"steps"`
}

// Tier identifies the repair stage that produced a value.
type Tier int

const (
	TierNone Tier = iota
	TierStrict
	TierHeuristic
	TierCoerce
)

func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierHeuristic:
		return "heuristic"
	case TierCoerce:
		return "coerce"
	default:
		return ""
	}
}

type Transcript struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	ImportedAt time.Time `json:"imported_at"`
	Content    string    `json:"content"`
}
