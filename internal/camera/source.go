// Package camera provides frame acquisition for scanning sessions, either
// from a live webcam or from prerecorded frames.
package camera

import (
	"context"
	"errors"
)

// ErrSourceExhausted is returned by Next when the source has no further
// frames to deliver. The session controller treats it as a cancellation.
var ErrSourceExhausted = errors.New("frame source exhausted")

// FrameSource delivers encoded JPEG frames one at a time.
type FrameSource interface {
	// Next blocks until the next frame is available or ctx is done.
	Next(ctx context.Context) ([]byte, error)
	Close() error
}
