package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"stepkit/internal/domain"
	"stepkit/internal/port"
)

type FollowOptions struct {
	Every      int           // Re-segment after this many lines
	MaxRetries int           // Consecutive read errors tolerated before giving up
	Backoff    time.Duration // Wait between retries
}

// Update is one rendering of the buffer read so far.
type Update struct {
	Lines  int
	Chunks []domain.AssistantChunk
	Final  bool
}

// Follow reads src until EOF, re-segmenting the whole buffer as it grows.
// onUpdate is called whenever the chunk sequence changes and once more
// with Final set when the stream ends. An error from onUpdate stops the
// loop.
func Follow(ctx context.Context, src port.StreamSource, seg port.ChunkSegmenter, opts FollowOptions, onUpdate func(Update) error) (Update, error) {
	if opts.Every <= 0 {
		opts.Every = 1
	}

	var (
		buf      strings.Builder
		lines    int
		pending  int
		retries  int
		previous []domain.AssistantChunk
	)

	emit := func(final bool) (Update, error) {
		chunks := seg.Segment(buf.String())
		update := Update{Lines: lines, Chunks: chunks, Final: final}
		if !final && chunksEqual(previous, chunks) {
			return update, nil
		}
		previous = chunks
		if onUpdate != nil {
			if err := onUpdate(update); err != nil {
				return update, err
			}
		}
		return update, nil
	}

	for {
		line, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return emit(true)
			}
			if ctx.Err() != nil {
				return Update{Lines: lines, Chunks: previous}, ctx.Err()
			}
			retries++
			if retries > opts.MaxRetries {
				return Update{Lines: lines, Chunks: previous}, fmt.Errorf("stream read failed after %d retries: %w", opts.MaxRetries, err)
			}
			if err := wait(ctx, opts.Backoff); err != nil {
				return Update{Lines: lines, Chunks: previous}, err
			}
			continue
		}
		retries = 0

		buf.WriteString(line)
		lines++
		pending++
		if pending < opts.Every {
			continue
		}
		pending = 0
		if _, err := emit(false); err != nil {
			return Update{Lines: lines, Chunks: previous}, err
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func chunksEqual(a, b []domain.AssistantChunk) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
