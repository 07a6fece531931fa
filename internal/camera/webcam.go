package camera

import (
	"context"
	"fmt"

	"gocv.io/x/gocv"
)

// Webcam captures frames from a local video device and encodes them as JPEG.
type Webcam struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// OpenWebcam opens the video device with the given index (0 is the default
// camera on most systems).
func OpenWebcam(device int) (*Webcam, error) {
	capture, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open video device %d: %w", device, err)
	}
	return &Webcam{
		capture: capture,
		mat:     gocv.NewMat(),
	}, nil
}

// Next grabs one frame. Dropped frames are retried until the context is
// cancelled; a closed device reads as exhausted.
func (w *Webcam) Next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !w.capture.Read(&w.mat) {
			return nil, ErrSourceExhausted
		}
		if w.mat.Empty() {
			continue
		}

		buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.mat)
		if err != nil {
			return nil, fmt.Errorf("failed to encode frame: %w", err)
		}
		frame := make([]byte, len(buf.GetBytes()))
		copy(frame, buf.GetBytes())
		buf.Close()

		return frame, nil
	}
}

// Close releases the device and frame buffer.
func (w *Webcam) Close() error {
	if err := w.mat.Close(); err != nil {
		return err
	}
	return w.capture.Close()
}
