// Package gallery builds the in-memory face gallery from enrollment-keyed
// photos and matches probe embeddings against it.
package gallery

import (
	"context"

	"github.com/classmark/classmark/internal/recognizer"
)

// Entry is one enrolled identity in the gallery. Embedding is the face
// embedding computed from the student's reference photo.
type Entry struct {
	Enrollment string
	Name       string
	Photo      string // file name within the gallery directory
	Embedding  []float32
}

// FaceDetector detects faces and computes embeddings for one image.
// *recognizer.Client satisfies this; tests substitute a fake.
type FaceDetector interface {
	DetectFaces(ctx context.Context, imageData []byte) (*recognizer.DetectResult, error)
}
