package usecase

import (
	"testing"

	"stepkit/config"
	"stepkit/internal/domain"
)

const stepJSON = `{"name":"LoadData","service":"io","method":"read_csv","goal":"Load","params":{"path":{"type":"string","description":"File"}},"returns":{}}`

func TestExtractor_Chunks(t *testing.T) {
	e := NewExtractor(config.DefaultConfig(), nil)

	chunks := e.Chunks("Plan:\n```json\n" + stepJSON + "\n```\nThat's it.")
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[1].Kind != domain.ChunkJSON || chunks[1].Step.Name != "LoadData" {
		t.Errorf("unexpected json chunk: %+v", chunks[1])
	}
	if chunks[1].Tier != domain.TierStrict {
		t.Errorf("expected strict tier, got %s", chunks[1].Tier)
	}
}

func TestExtractor_ChunksCached(t *testing.T) {
	e := NewExtractor(config.DefaultConfig(), nil)

	e.Chunks("hello")
	e.Chunks("hello")
	e.Chunks("world")
	if got := e.chunkCache.Size(); got != 2 {
		t.Errorf("expected 2 cached buffers, got %d", got)
	}
}

func TestExtractor_CacheDisabled(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Cache.Enabled = false
	e := NewExtractor(cfg, nil)

	if e.chunkCache != nil || e.docCache != nil {
		t.Fatal("expected no caches when caching is disabled")
	}
	doc := e.Document("### Goal\nShip it\n")
	if doc.Markdown.Goal != "Ship it" {
		t.Errorf("expected goal 'Ship it', got %q", doc.Markdown.Goal)
	}
}

func TestExtractor_Document(t *testing.T) {
	e := NewExtractor(nil, nil)

	doc := e.Document("### Goal\nLoad the data\n### Plan\n- read\n- clean\n" + stepJSON + "\n")
	if doc.Markdown.Goal != "Load the data" {
		t.Errorf("unexpected goal %q", doc.Markdown.Goal)
	}
	if len(doc.Markdown.Plan) != 2 {
		t.Errorf("expected 2 plan entries, got %v", doc.Markdown.Plan)
	}
	if len(doc.Steps) != 1 || doc.Steps[0].Service != "io" {
		t.Errorf("unexpected steps: %+v", doc.Steps)
	}
}

func TestExtractor_RepairAndNormalize(t *testing.T) {
	e := NewExtractor(nil, nil)

	result, err := e.Repair(`{"name": "x",}`)
	if err != nil {
		t.Fatalf("repair failed: %v", err)
	}
	if result.Tier != domain.TierHeuristic {
		t.Errorf("expected heuristic tier, got %s", result.Tier)
	}

	step, _ := e.Normalize([]byte(`{"name":"load data","service":"nope"}`))
	if step.Name != "LoadData" || step.Service != domain.DefaultService {
		t.Errorf("unexpected normalized step: %+v", step)
	}
}
