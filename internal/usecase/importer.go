package usecase

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"stepkit/internal/adapter/fs"
	"stepkit/internal/domain"
	"stepkit/internal/logging"
	"stepkit/internal/port"
)

var transcriptNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("stepkit/transcript"))

// TranscriptID derives a stable ID from a transcript's source and content,
// so importing an unchanged file is a no-op.
func TranscriptID(source, content string) string {
	return uuid.NewSHA1(transcriptNamespace, []byte(source+"\x00"+content)).String()
}

type ImportUseCase struct {
	store  port.TranscriptStore
	walker port.FileWalker
	logger *slog.Logger
	now    func() time.Time
}

func NewImportUseCase(store port.TranscriptStore, walker port.FileWalker, logger *slog.Logger) *ImportUseCase {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ImportUseCase{
		store:  store,
		walker: walker,
		logger: logger,
		now:    time.Now,
	}
}

type ImportResult struct {
	Imported  int
	Unchanged int
	Errors    []string
}

type ProgressFunc func(processed, total int, current string)

// Import stores every matching file under root as a transcript.
func (u *ImportUseCase) Import(root string, progress ProgressFunc) (*ImportResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, file := range files {
		if progress != nil {
			progress(i, len(files), file.Path)
		}

		imported, err := u.importFile(absRoot, file)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to import %s: %v", file.Path, err))
			continue
		}
		if imported {
			result.Imported++
		} else {
			result.Unchanged++
		}
	}
	if progress != nil {
		progress(len(files), len(files), "")
	}

	u.logger.Info("import finished", "root", absRoot, "imported", result.Imported, "unchanged", result.Unchanged, "errors", len(result.Errors))
	return result, nil
}

func (u *ImportUseCase) importFile(root string, file port.FileInfo) (bool, error) {
	content, err := fs.ReadTranscript(file.Path)
	if err != nil {
		return false, fmt.Errorf("failed to read file: %w", err)
	}

	id := TranscriptID(file.Path, content)
	if _, err := u.store.GetTranscript(id); err == nil {
		return false, nil
	}

	name, err := filepath.Rel(root, file.Path)
	if err != nil {
		name = filepath.Base(file.Path)
	}

	t := domain.Transcript{
		ID:         id,
		Name:       filepath.ToSlash(name),
		Source:     file.Path,
		ImportedAt: u.now(),
		Content:    content,
	}
	if err := u.store.PutTranscript(t); err != nil {
		return false, fmt.Errorf("failed to store transcript: %w", err)
	}
	u.logger.Debug("transcript imported", "id", id, "name", t.Name)
	return true, nil
}
