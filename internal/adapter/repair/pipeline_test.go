package repair

import (
	"encoding/json"
	"errors"
	"testing"

	"stepkit/internal/adapter/schema"
	"stepkit/internal/domain"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(DefaultOptions())
}

func TestRepairStrictCanonical(t *testing.T) {
	original := domain.StepRecord{
		Name:    "FetchUser",
		Service: "io",
		Method:  "fetch_user",
		Goal:    "Load a user",
		Params:  domain.NewParams(),
		Returns: domain.NewParams(),
	}
	original.Params.Set("id", domain.ParamSpec{Type: domain.TypeNumber, Description: "user id"})
	original.Returns.Set("user", domain.ParamSpec{Type: domain.TypeObject, Description: "the user"})

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	result, err := newTestPipeline().Repair(string(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tier != domain.TierStrict {
		t.Errorf("expected strict tier, got %s", result.Tier)
	}
	if result.Normalized {
		t.Error("canonical input should not be normalized")
	}
	if !result.Step.Equal(original) {
		t.Errorf("round trip mismatch for %s", data)
	}
}

func TestRepairTrailingComma(t *testing.T) {
	result, err := newTestPipeline().Repair(`{"name": "X",}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tier != domain.TierHeuristic {
		t.Errorf("expected heuristic tier, got %s", result.Tier)
	}
	if result.Value["name"] != "X" {
		t.Errorf("expected repaired name X, got %v", result.Value["name"])
	}
	if result.Step.Name != "X" {
		t.Errorf("expected step name X, got %q", result.Step.Name)
	}
	if len(result.Notes) == 0 || !errors.Is(result.Notes[0], ErrMalformedJSON) {
		t.Errorf("expected malformed json note, got %v", result.Notes)
	}
}

func TestRepairTruncated(t *testing.T) {
	result, err := newTestPipeline().Repair(`{"name": "Load", "service": "io", "method": "load", "goal": "g", "params": {}, "returns": {}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tier != domain.TierHeuristic {
		t.Errorf("expected heuristic tier, got %s", result.Tier)
	}
	if result.Step.Name != "Load" || result.Step.Service != "io" {
		t.Errorf("unexpected step: %+v", result.Step)
	}
}

func TestRepairNormalizesUnshaped(t *testing.T) {
	result, err := newTestPipeline().Repair(`{"name": "my workflow", "service": "bogus"}`)
	if err != nil {
		t.Fatal(err)
	}
	if result.Tier != domain.TierStrict {
		t.Errorf("expected strict tier, got %s", result.Tier)
	}
	if !result.Normalized {
		t.Error("expected normalization")
	}
	if result.Step.Name != "MyWorkflow" || result.Step.Service != "extract" {
		t.Errorf("unexpected step: %+v", result.Step)
	}
	found := false
	for _, n := range result.Notes {
		if errors.Is(n, schema.ErrUnknownService) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unknown service note, got %v", result.Notes)
	}
}

func TestRepairExhausted(t *testing.T) {
	for _, candidate := range []string{"", "   ", "this is just prose"} {
		_, err := newTestPipeline().Repair(candidate)
		if !errors.Is(err, ErrRepairExhausted) {
			t.Errorf("expected exhausted for %q, got %v", candidate, err)
			continue
		}
		var exhausted *ExhaustedError
		if !errors.As(err, &exhausted) {
			t.Errorf("expected *ExhaustedError for %q", candidate)
			continue
		}
		if exhausted.Raw != candidate {
			t.Errorf("expected raw %q, got %q", candidate, exhausted.Raw)
		}
		if !errors.Is(err, ErrMalformedJSON) {
			t.Errorf("expected strict failure recorded for %q", candidate)
		}
	}
}

func TestRepairCoercionDisabled(t *testing.T) {
	p := NewPipeline(Options{Heuristic: true, Coerce: false})
	_, err := p.Repair(`{"name": "X"}`)
	if !errors.Is(err, ErrRepairExhausted) {
		t.Errorf("expected exhausted without coercion, got %v", err)
	}
	if !errors.Is(err, ErrUnrepairedJSON) {
		t.Errorf("expected unrepaired note, got %v", err)
	}
}

type fakeStrategy struct {
	tier  domain.Tier
	calls int
	err   error
	data  string
}

func (f *fakeStrategy) Tier() domain.Tier { return f.tier }

func (f *fakeStrategy) Attempt(string) (Attempt, error) {
	f.calls++
	if f.err != nil {
		return Attempt{}, f.err
	}
	return Attempt{Data: []byte(f.data)}, nil
}

func TestPipelineStopsAtFirstSuccess(t *testing.T) {
	first := &fakeStrategy{tier: domain.TierStrict, err: ErrMalformedJSON}
	second := &fakeStrategy{tier: domain.TierHeuristic, data: `{"name": "a b"}`}
	third := &fakeStrategy{tier: domain.TierCoerce, err: ErrRepairExhausted}

	p := NewPipelineWith(true, nil, first, second, third)
	result, err := p.Repair("ignored")
	if err != nil {
		t.Fatal(err)
	}
	if first.calls != 1 || second.calls != 1 || third.calls != 0 {
		t.Errorf("unexpected call counts %d/%d/%d", first.calls, second.calls, third.calls)
	}
	if result.Tier != domain.TierHeuristic || result.Step.Name != "AB" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestCoerceStrategy(t *testing.T) {
	attempt, err := Coerce{}.Attempt(`{"name": "half done", "params": {"q": {"type": "str`)
	if err != nil {
		t.Fatal(err)
	}
	if attempt.Step == nil || attempt.Step.Name != "HalfDone" {
		t.Errorf("unexpected attempt: %+v", attempt)
	}
}
