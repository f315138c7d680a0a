package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"stepkit/config"
	"stepkit/internal/usecase"
)

const testStep = `{"name":"LoadData","service":"io","method":"read_csv","goal":"Load","params":{},"returns":{}}`

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--dir", t.TempDir()}, args...))
	err := rootCmd.Execute()
	rootDir = ""
	return out.String(), err
}

func TestChunksCommand(t *testing.T) {
	out, err := runCLI(t, "Intro\n```json\n"+testStep+"\n```\n", "chunks")
	if err != nil {
		t.Fatalf("chunks failed: %v", err)
	}

	var chunks []map[string]any
	if err := json.Unmarshal([]byte(out), &chunks); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, out)
	}
	if len(chunks) != 2 || chunks[1]["type"] != "json" {
		t.Errorf("unexpected chunks: %v", chunks)
	}
}

func TestRepairCommand(t *testing.T) {
	out, err := runCLI(t, `{"name": "x",}`, "repair")
	if err != nil {
		t.Fatalf("repair failed: %v", err)
	}
	if !strings.Contains(out, `"tier": "heuristic"`) {
		t.Errorf("expected heuristic tier in output, got %s", out)
	}

	if _, err := runCLI(t, "just prose", "repair"); err == nil {
		t.Error("expected repair of prose to fail")
	}
}

func TestDocCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wf.md")
	if err := os.WriteFile(path, []byte("### Goal\nLoad it\n"+testStep+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "", "doc", path)
	if err != nil {
		t.Fatalf("doc failed: %v", err)
	}
	if !strings.Contains(out, `"goal": "Load it"`) || !strings.Contains(out, `"name": "LoadData"`) {
		t.Errorf("unexpected doc output: %s", out)
	}
}

func TestMCPHandlers(t *testing.T) {
	ext := usecase.NewExtractor(config.DefaultConfig(), nil)

	req := mcp.CallToolRequest{}
	req.Params.Name = "segment_chunks"
	req.Params.Arguments = map[string]any{"text": "hello"}

	result, err := segmentChunksHandler(ext)(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok || !strings.Contains(text.Text, `"content":"hello"`) {
		t.Errorf("unexpected tool output: %+v", result.Content)
	}

	missing := mcp.CallToolRequest{}
	missing.Params.Arguments = map[string]any{}
	result, err = repairStepHandler(ext)(context.Background(), missing)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected missing argument to produce a tool error")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[string]string{
		"<1s":  formatDuration(0),
		"42s":  formatDuration(42e9),
		"2m5s": formatDuration(125e9),
	}
	for want, got := range cases {
		if got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}
