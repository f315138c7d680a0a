package fs

import (
	"bytes"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"stepkit/internal/port"
)

// DefaultIncludes matches the transcript formats picked up when no include
// patterns are configured.
var DefaultIncludes = []string{"**/*.txt", "**/*.md", "**/*.log", "**/*.jsonl"}

var ErrNotText = errors.New("not a text transcript")

// Walker finds transcript files under a root. Patterns are doublestar globs
// matched against slash-separated paths relative to the root.
type Walker struct {
	includes []string
	excludes []string
	maxBytes int64
}

var _ port.FileWalker = (*Walker)(nil)

// NewWalker builds a walker. Files larger than maxBytes are skipped unless
// maxBytes is 0.
func NewWalker(includes, excludes []string, maxBytes int64) *Walker {
	if len(includes) == 0 {
		includes = DefaultIncludes
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
		maxBytes: maxBytes,
	}
}

// Walk returns the matching regular files under root, sorted by path.
// Symlinks are not followed.
func (w *Walker) Walk(root string) ([]port.FileInfo, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var transcripts []port.FileInfo
	err = filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.IsDir():
			if rel != "." && matchAny(w.excludes, rel+"/") {
				return filepath.SkipDir
			}
			return nil
		case !d.Type().IsRegular():
			return nil
		case !matchAny(w.includes, rel) || matchAny(w.excludes, rel):
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if w.maxBytes > 0 && info.Size() > w.maxBytes {
			return nil
		}
		transcripts = append(transcripts, port.FileInfo{
			Path:    path,
			ModTime: info.ModTime().Unix(),
			Size:    info.Size(),
		})
		return nil
	})

	sort.Slice(transcripts, func(i, j int) bool { return transcripts[i].Path < transcripts[j].Path })
	return transcripts, err
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ReadTranscript reads a transcript file. Content with NUL bytes or invalid
// UTF-8 is rejected with ErrNotText.
func ReadTranscript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotText, path)
	}
	return string(data), nil
}
