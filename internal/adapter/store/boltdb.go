package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"
	"stepkit/internal/domain"
)

var (
	bucketTranscripts = []byte("transcripts")
	bucketSources     = []byte("sources")
	bucketMeta        = []byte("meta")
)

var ErrNotFound = errors.New("transcript not found")

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketTranscripts, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &BoltStore{db: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

type transcriptRecord struct {
	Name       string `json:"name"`
	Source     string `json:"source"`
	ImportedAt int64  `json:"imported_at"`
	Content    string `json:"content"`
}

// PutTranscript stores t, replacing any transcript with the same ID. The
// source path is indexed so re-importing a changed file replaces the old
// version.
func (s *BoltStore) PutTranscript(t domain.Transcript) error {
	if t.ID == "" {
		return fmt.Errorf("transcript id is required")
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(transcriptRecord{
			Name:       t.Name,
			Source:     t.Source,
			ImportedAt: t.ImportedAt.Unix(),
			Content:    t.Content,
		})
		if err != nil {
			return err
		}

		sources := tx.Bucket(bucketSources)
		if t.Source != "" && sources != nil {
			if prev := sources.Get([]byte(t.Source)); prev != nil && string(prev) != t.ID {
				if err := tx.Bucket(bucketTranscripts).Delete(prev); err != nil {
					return err
				}
			}
			if err := sources.Put([]byte(t.Source), []byte(t.ID)); err != nil {
				return err
			}
		}

		return tx.Bucket(bucketTranscripts).Put([]byte(t.ID), data)
	})
}

func (s *BoltStore) GetTranscript(id string) (domain.Transcript, error) {
	var t domain.Transcript
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketTranscripts).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		var err error
		t, err = decodeTranscript(id, data)
		return err
	})
	return t, err
}

func (s *BoltStore) DeleteTranscript(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketTranscripts)
		data := b.Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		var rec transcriptRecord
		if err := json.Unmarshal(data, &rec); err == nil && rec.Source != "" {
			if sources := tx.Bucket(bucketSources); sources != nil {
				if string(sources.Get([]byte(rec.Source))) == id {
					if err := sources.Delete([]byte(rec.Source)); err != nil {
						return err
					}
				}
			}
		}
		return b.Delete([]byte(id))
	})
}

// ListTranscripts returns all transcripts, newest first.
func (s *BoltStore) ListTranscripts() ([]domain.Transcript, error) {
	var out []domain.Transcript
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketTranscripts).ForEach(func(k, v []byte) error {
			t, err := decodeTranscript(string(k), v)
			if err != nil {
				return err
			}
			out = append(out, t)
			return nil
		})
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ImportedAt.After(out[j].ImportedAt)
	})
	return out, err
}

func decodeTranscript(id string, data []byte) (domain.Transcript, error) {
	var rec transcriptRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Transcript{}, err
	}
	return domain.Transcript{
		ID:         id,
		Name:       rec.Name,
		Source:     rec.Source,
		ImportedAt: time.Unix(rec.ImportedAt, 0),
		Content:    rec.Content,
	}, nil
}
