package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalker_IncludesAndExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.md"), "a")
	writeFile(t, filepath.Join(root, "logs", "run.log"), "b")
	writeFile(t, filepath.Join(root, "logs", "image.png"), "c")
	writeFile(t, filepath.Join(root, ".git", "notes.md"), "d")

	w := NewWalker([]string{"**/*.md", "**/*.log"}, []string{"**/.git/**"}, 0)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
	if filepath.Base(files[0].Path) != "run.log" || filepath.Base(files[1].Path) != "top.md" {
		t.Errorf("unexpected files: %v", files)
	}
	if files[1].Size != 1 {
		t.Errorf("expected size 1, got %d", files[1].Size)
	}
}

func TestWalker_DefaultIncludesTranscriptFormats(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "x")
	writeFile(t, filepath.Join(root, "b", "c.jsonl"), "y")
	writeFile(t, filepath.Join(root, "b", "d.bin"), "z")
	writeFile(t, filepath.Join(root, "main.go"), "package main")

	files, err := NewWalker(nil, nil, 0).Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("expected only transcript files, got %v", files)
	}
}

func TestWalker_SkipsOversizedFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.md"), "ok")
	writeFile(t, filepath.Join(root, "big.md"), "0123456789")

	files, err := NewWalker(nil, nil, 5).Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0].Path) != "small.md" {
		t.Errorf("expected only small.md, got %v", files)
	}
}

func TestWalker_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.md")
	writeFile(t, target, "x")
	if err := os.Symlink(target, filepath.Join(root, "link.md")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := NewWalker(nil, nil, 0).Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0].Path) != "real.md" {
		t.Errorf("expected only the regular file, got %v", files)
	}
}

func TestReadTranscript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.md")
	writeFile(t, path, "hello")

	got, err := ReadTranscript(path)
	if err != nil || got != "hello" {
		t.Errorf("expected hello, got %q (%v)", got, err)
	}

	binary := filepath.Join(dir, "b.log")
	writeFile(t, binary, "ab\x00cd")
	if _, err := ReadTranscript(binary); !errors.Is(err, ErrNotText) {
		t.Errorf("expected ErrNotText, got %v", err)
	}
}
