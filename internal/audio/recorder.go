package audio

import (
	"context"
	"sync"
)

// Recorder is an in-memory Device. It keeps every buffer it is given
// and returns immediately, or waits on Hold when set.
type Recorder struct {
	Err  error
	Hold chan struct{}

	mu      sync.Mutex
	played  []*Buffer
	playing bool
	closed  bool
}

func (r *Recorder) Play(ctx context.Context, b *Buffer) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.playing {
		r.mu.Unlock()
		return ErrBusy
	}
	r.playing = true
	r.played = append(r.played, b)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.playing = false
		r.mu.Unlock()
	}()

	if r.Hold != nil {
		select {
		case <-r.Hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return r.Err
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Played returns the buffers played so far.
func (r *Recorder) Played() []*Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Buffer(nil), r.played...)
}

// Closed reports whether Close was called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
