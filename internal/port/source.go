package port

import "context"

// StreamSource yields the model's output one line at a time. Next returns
// io.EOF once the stream is complete.
type StreamSource interface {
	Next(ctx context.Context) (string, error)
}
