package memstore

import (
	"fmt"
	"sort"
	"sync"

	"stepkit/internal/domain"
	"stepkit/internal/port"
)

// MemoryStore keeps transcripts in memory. It backs the wasm build and
// tests where no database file is available.
type MemoryStore struct {
	mu          sync.RWMutex
	transcripts map[string]domain.Transcript
	sources     map[string]string
}

var _ port.TranscriptStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transcripts: make(map[string]domain.Transcript),
		sources:     make(map[string]string),
	}
}

func (s *MemoryStore) PutTranscript(t domain.Transcript) error {
	if t.ID == "" {
		return fmt.Errorf("transcript id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Source != "" {
		if prev, ok := s.sources[t.Source]; ok && prev != t.ID {
			delete(s.transcripts, prev)
		}
		s.sources[t.Source] = t.ID
	}
	s.transcripts[t.ID] = t
	return nil
}

func (s *MemoryStore) GetTranscript(id string) (domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transcripts[id]
	if !ok {
		return domain.Transcript{}, fmt.Errorf("transcript not found: %s", id)
	}
	return t, nil
}

func (s *MemoryStore) DeleteTranscript(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transcripts[id]
	if !ok {
		return fmt.Errorf("transcript not found: %s", id)
	}
	if s.sources[t.Source] == id {
		delete(s.sources, t.Source)
	}
	delete(s.transcripts, id)
	return nil
}

func (s *MemoryStore) ListTranscripts() ([]domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transcript, 0, len(s.transcripts))
	for _, t := range s.transcripts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ImportedAt.Equal(out[j].ImportedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].ImportedAt.After(out[j].ImportedAt)
	})
	return out, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
