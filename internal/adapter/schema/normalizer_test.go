package schema

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/buger/jsonparser"
	"stepkit/internal/domain"
)

func TestPascalCase(t *testing.T) {
	cases := map[string]string{
		"my workflow":       "MyWorkflow",
		"  fetch   USER data ": "FetchUserData",
		"":                  "",
		"already":           "Already",
	}
	for in, want := range cases {
		if got := PascalCase(in); got != want {
			t.Errorf("PascalCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"Fetch User":  "fetch_user",
		"process":     "process",
		" a  b  c ":   "a_b_c",
	}
	for in, want := range cases {
		if got := SnakeCase(in); got != want {
			t.Errorf("SnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeDefaults(t *testing.T) {
	step, report := Normalize([]byte(`{}`))

	if step.Name != domain.DefaultName {
		t.Errorf("expected name %q, got %q", domain.DefaultName, step.Name)
	}
	if step.Service != domain.DefaultService {
		t.Errorf("expected service %q, got %q", domain.DefaultService, step.Service)
	}
	if step.Method != domain.DefaultMethod {
		t.Errorf("expected method %q, got %q", domain.DefaultMethod, step.Method)
	}
	if step.Goal != domain.DefaultGoal {
		t.Errorf("expected goal %q, got %q", domain.DefaultGoal, step.Goal)
	}
	if step.Params.Len() != 0 || step.Returns.Len() != 0 {
		t.Error("expected empty params and returns")
	}
	if len(report.Found) != 0 {
		t.Errorf("expected nothing found, got %v", report.Found)
	}
	if len(report.Defaulted) != 6 {
		t.Errorf("expected 6 defaulted fields, got %v", report.Defaulted)
	}
}

func TestNormalizeServiceAndName(t *testing.T) {
	step, report := Normalize([]byte(`{"name": "my workflow", "service": "bogus"}`))

	if step.Name != "MyWorkflow" {
		t.Errorf("expected MyWorkflow, got %q", step.Name)
	}
	if step.Service != "extract" {
		t.Errorf("expected extract, got %q", step.Service)
	}
	found := false
	for _, n := range report.Notes {
		if errors.Is(n, ErrUnknownService) {
			found = true
		}
	}
	if !found {
		t.Error("expected unknown service note")
	}
}

func TestNormalizeServiceCase(t *testing.T) {
	step, report := Normalize([]byte(`{"service": " Validate "}`))
	if step.Service != "validate" {
		t.Errorf("expected validate, got %q", step.Service)
	}
	if len(report.Notes) != 0 {
		t.Errorf("expected no notes, got %v", report.Notes)
	}
}

func TestNormalizeInterfaceAndAliases(t *testing.T) {
	data := `{
  "interface": {
    "name": "load config",
    "module": "io",
    "function": "Read File",
    "goal": "Read the config",
    "params": {"path": {"type": "string", "description": "file path"}},
    "returns": {"config": {"type": "object"}}
  }
}`
	step, _ := Normalize([]byte(data))

	if step.Name != "LoadConfig" {
		t.Errorf("expected LoadConfig, got %q", step.Name)
	}
	if step.Service != "io" {
		t.Errorf("expected io, got %q", step.Service)
	}
	if step.Method != "read_file" {
		t.Errorf("expected read_file, got %q", step.Method)
	}
	if step.Goal != "Read the config" {
		t.Errorf("unexpected goal %q", step.Goal)
	}
	path, ok := step.Params.Get("path")
	if !ok || path.Type != domain.TypeString || path.Description != "file path" {
		t.Errorf("unexpected path param: %+v", path)
	}
	cfg, ok := step.Returns.Get("config")
	if !ok || cfg.Type != domain.TypeObject || cfg.Description != "Description for config" {
		t.Errorf("unexpected config return: %+v", cfg)
	}
}

func TestNormalizeTopLevelWins(t *testing.T) {
	step, _ := Normalize([]byte(`{"name": "top", "interface": {"name": "nested"}}`))
	if step.Name != "Top" {
		t.Errorf("expected Top, got %q", step.Name)
	}
}

func TestNormalizeParamVariants(t *testing.T) {
	data := `{"params": {"a": "number", "b": "the b value", "c": 3, "d": {"type": "weird"}, "": {"type": "string"}}}`
	step, _ := Normalize([]byte(data))

	keys := []string{}
	for p := step.Params.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	if len(keys) != 4 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" || keys[3] != "d" {
		t.Fatalf("unexpected keys %v", keys)
	}

	a, _ := step.Params.Get("a")
	if a.Type != domain.TypeNumber || a.Description != "Description for a" {
		t.Errorf("unexpected a: %+v", a)
	}
	b, _ := step.Params.Get("b")
	if b.Type != domain.TypeString || b.Description != "the b value" {
		t.Errorf("unexpected b: %+v", b)
	}
	c, _ := step.Params.Get("c")
	if c.Type != domain.TypeString || c.Description != "Description for c" {
		t.Errorf("unexpected c: %+v", c)
	}
	d, _ := step.Params.Get("d")
	if d.Type != domain.TypeString {
		t.Errorf("expected unknown type to default to string, got %q", d.Type)
	}
}

func TestNormalizeParamArrays(t *testing.T) {
	data := `{"params": ["query", {"name": "limit", "type": "number", "description": "max rows"}, 7]}`
	step, _ := Normalize([]byte(data))

	if step.Params.Len() != 2 {
		t.Fatalf("expected 2 params, got %d", step.Params.Len())
	}
	q, _ := step.Params.Get("query")
	if q.Type != domain.TypeString || q.Description != "Description for query" {
		t.Errorf("unexpected query: %+v", q)
	}
	l, _ := step.Params.Get("limit")
	if l.Type != domain.TypeNumber || l.Description != "max rows" {
		t.Errorf("unexpected limit: %+v", l)
	}
}

func TestNormalizeTruncated(t *testing.T) {
	step, report := Normalize([]byte(`{"name": "partial step", "service": "parse", "goal": "Read`))

	if step.Name != "PartialStep" {
		t.Errorf("expected PartialStep, got %q", step.Name)
	}
	if step.Service != "parse" {
		t.Errorf("expected parse, got %q", step.Service)
	}
	if len(report.Found) < 2 {
		t.Errorf("expected at least name and service found, got %v", report.Found)
	}
}

func TestNormalizeValue(t *testing.T) {
	step, _, err := NormalizeValue(map[string]any{"name": "x y", "method": "Do It"})
	if err != nil {
		t.Fatal(err)
	}
	if step.Name != "XY" || step.Method != "do_it" {
		t.Errorf("unexpected step: %+v", step)
	}
}

func TestCanonical(t *testing.T) {
	data := `{"name":"FetchUser","service":"io","method":"fetch_user","goal":"g","params":{"id":{"type":"number","description":"user id"}},"returns":{}}`
	step, ok := Canonical([]byte(data))
	if !ok {
		t.Fatal("expected canonical step")
	}
	if step.Name != "FetchUser" || step.Method != "fetch_user" {
		t.Errorf("canonical decode changed values: %+v", step)
	}
	id, _ := step.Params.Get("id")
	if id.Type != domain.TypeNumber || id.Description != "user id" {
		t.Errorf("unexpected id param: %+v", id)
	}
}

func TestCanonicalRejects(t *testing.T) {
	cases := []string{
		`{"name": "X"}`,
		`{"name":"A","service":"bogus","method":"m","goal":"g","params":{},"returns":{}}`,
		`{"name":"A","service":"io","method":"m","goal":"g","params":{"p":{"type":"string"}},"returns":{}}`,
		`{"name":"A","service":"io","method":"m","goal":"g","params":{"p":{"type":"uuid","description":"d"}},"returns":{}}`,
		`[1, 2]`,
		`{"name":"A","service":"io"`,
	}
	for _, c := range cases {
		if _, ok := Canonical([]byte(c)); ok {
			t.Errorf("expected %s to be rejected", c)
		}
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	original := domain.StepRecord{
		Name:    "BuildReport",
		Service: "format",
		Method:  "build_report",
		Goal:    "Render the \"final\" report",
		Params:  domain.NewParams(),
		Returns: domain.NewParams(),
	}
	original.Params.Set("zeta", domain.ParamSpec{Type: domain.TypeArray, Description: "rows"})
	original.Params.Set("alpha", domain.ParamSpec{Type: domain.TypeBoolean, Description: "flag"})
	original.Returns.Set("report", domain.ParamSpec{Type: domain.TypeString, Description: "text"})

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}
	decoded, ok := Canonical(data)
	if !ok {
		t.Fatalf("expected canonical decode of %s", data)
	}
	if !decoded.Equal(original) {
		t.Errorf("round trip mismatch: %s", data)
	}
}

func TestNormalizeParamsNonContainer(t *testing.T) {
	params := NormalizeParams([]byte(`"x"`), jsonparser.String)
	if params.Len() != 0 {
		t.Errorf("expected empty params, got %d", params.Len())
	}
}

func TestStepSchema(t *testing.T) {
	data, err := json.Marshal(StepSchema())
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	props, ok := decoded["properties"].(map[string]any)
	if !ok {
		t.Fatalf("expected properties in %s", data)
	}
	service, ok := props["service"].(map[string]any)
	if !ok {
		t.Fatal("expected service property")
	}
	enum, _ := service["enum"].([]any)
	if len(enum) != len(domain.Services) {
		t.Errorf("expected %d services in enum, got %d", len(domain.Services), len(enum))
	}
}
