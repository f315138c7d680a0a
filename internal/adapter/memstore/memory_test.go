package memstore

import (
	"testing"
	"time"

	"stepkit/internal/domain"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	s := NewMemoryStore()

	if err := s.PutTranscript(domain.Transcript{ID: "a", Content: "hi"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetTranscript("a")
	if err != nil || got.Content != "hi" {
		t.Errorf("expected content hi, got %q (%v)", got.Content, err)
	}
	if err := s.DeleteTranscript("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetTranscript("a"); err == nil {
		t.Error("expected error after delete")
	}
}

func TestMemoryStore_SourceReplacement(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()

	s.PutTranscript(domain.Transcript{ID: "v1", Source: "/a", ImportedAt: now})
	s.PutTranscript(domain.Transcript{ID: "v2", Source: "/a", ImportedAt: now.Add(time.Second)})
	s.PutTranscript(domain.Transcript{ID: "b", Source: "/b", ImportedAt: now})

	list, _ := s.ListTranscripts()
	if len(list) != 2 {
		t.Fatalf("expected 2 transcripts, got %d", len(list))
	}
	if list[0].ID != "v2" {
		t.Errorf("expected newest first, got %s", list[0].ID)
	}
}
