package port

import "stepkit/internal/domain"

type TranscriptStore interface {
	PutTranscript(t domain.Transcript) error

	GetTranscript(id string) (domain.Transcript, error)

	DeleteTranscript(id string) error

	ListTranscripts() ([]domain.Transcript, error)

	Close() error
}
