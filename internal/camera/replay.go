package camera

import (
	"context"
)

// Replay is a FrameSource backed by a fixed slice of frames. Used in tests
// and for processing prerecorded footage.
type Replay struct {
	frames [][]byte
	pos    int
}

// NewReplay creates a source that yields the given frames in order and then
// reports ErrSourceExhausted.
func NewReplay(frames [][]byte) *Replay {
	return &Replay{frames: frames}
}

func (r *Replay) Next(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.pos >= len(r.frames) {
		return nil, ErrSourceExhausted
	}
	frame := r.frames[r.pos]
	r.pos++
	return frame, nil
}

func (r *Replay) Close() error {
	return nil
}
