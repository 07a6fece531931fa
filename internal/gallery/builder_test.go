package gallery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/classmark/classmark/internal/database"
	"github.com/classmark/classmark/internal/database/mock"
	"github.com/classmark/classmark/internal/recognizer"
)

// fakeDetector returns canned embeddings keyed by image content and counts
// calls so cache behavior can be asserted.
type fakeDetector struct {
	results map[string]*recognizer.DetectResult
	err     error
	calls   int
}

func (f *fakeDetector) DetectFaces(_ context.Context, imageData []byte) (*recognizer.DetectResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.results[string(imageData)]; ok {
		return r, nil
	}
	return &recognizer.DetectResult{FacesCount: 0, Faces: []recognizer.Face{}}, nil
}

func oneFace(embedding []float32) *recognizer.DetectResult {
	return &recognizer.DetectResult{
		FacesCount: 1,
		Faces:      []recognizer.Face{{FaceIndex: 0, Dim: len(embedding), Embedding: embedding, DetScore: 0.99}},
		Model:      "test",
	}
}

func writeFile(t *testing.T, dir, name string, content []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
}

func TestBuilder_Build(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "CS102.jpg", []byte("photo-b"))
	writeFile(t, dir, "cs101.png", []byte("photo-a"))
	writeFile(t, dir, "notes.txt", []byte("not a photo"))
	writeFile(t, dir, "NOFACE.jpeg", []byte("photo-empty"))

	detector := &fakeDetector{results: map[string]*recognizer.DetectResult{
		"photo-a": oneFace([]float32{1, 0}),
		"photo-b": oneFace([]float32{0, 1}),
	}}

	roster := mock.NewRoster()
	if err := roster.Create(context.Background(), &database.StudentRecord{Enrollment: "CS101", Name: "Anita Rao"}); err != nil {
		t.Fatalf("roster setup failed: %v", err)
	}

	builder := NewBuilder(detector, roster, nil)
	builder.Warnf = func(string, ...any) {}

	entries, err := builder.Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Enrollment != "CS101" || entries[1].Enrollment != "CS102" {
		t.Errorf("expected entries ordered by enrollment, got %s, %s", entries[0].Enrollment, entries[1].Enrollment)
	}
	if entries[0].Name != "Anita Rao" {
		t.Errorf("expected roster name for CS101, got %q", entries[0].Name)
	}
	if entries[1].Name != "Unknown" {
		t.Errorf("expected Unknown for unrostered CS102, got %q", entries[1].Name)
	}
	if entries[0].Photo != "cs101.png" {
		t.Errorf("expected original file name, got %q", entries[0].Photo)
	}
}

func TestBuilder_Build_EmptyDirectory(t *testing.T) {
	builder := NewBuilder(&fakeDetector{}, nil, nil)

	entries, err := builder.Build(context.Background(), t.TempDir())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty gallery, got %d entries", len(entries))
	}
}

func TestBuilder_Build_MissingDirectory(t *testing.T) {
	builder := NewBuilder(&fakeDetector{}, nil, nil)

	if _, err := builder.Build(context.Background(), "/nonexistent/gallery"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestBuilder_Build_DetectorError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "CS101.jpg", []byte("photo-a"))

	detector := &fakeDetector{err: errors.New("sidecar down")}
	builder := NewBuilder(detector, nil, nil)

	if _, err := builder.Build(context.Background(), dir); err == nil {
		t.Error("expected detector failure to surface")
	}
}

func TestBuilder_Build_PicksHighestScoringFace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "CS101.jpg", []byte("group"))

	detector := &fakeDetector{results: map[string]*recognizer.DetectResult{
		"group": {
			FacesCount: 2,
			Faces: []recognizer.Face{
				{FaceIndex: 0, Embedding: []float32{1, 0}, DetScore: 0.40},
				{FaceIndex: 1, Embedding: []float32{0, 1}, DetScore: 0.95},
			},
		},
	}}

	builder := NewBuilder(detector, nil, nil)
	entries, err := builder.Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Embedding[1] != 1 {
		t.Error("expected embedding from the highest scoring detection")
	}
}

func TestBuilder_Build_UsesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "CS101.jpg", []byte("photo-a"))

	detector := &fakeDetector{results: map[string]*recognizer.DetectResult{
		"photo-a": oneFace([]float32{1, 0}),
	}}
	cache := mock.NewEmbeddingCache()
	builder := NewBuilder(detector, nil, cache)

	if _, err := builder.Build(context.Background(), dir); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if detector.calls != 1 || cache.Puts != 1 {
		t.Fatalf("expected one detector call and one cache store, got %d/%d", detector.calls, cache.Puts)
	}

	// Second build over the unchanged photo must hit the cache.
	if _, err := builder.Build(context.Background(), dir); err != nil {
		t.Fatalf("second Build failed: %v", err)
	}
	if detector.calls != 1 {
		t.Errorf("expected cache hit to skip the detector, got %d calls", detector.calls)
	}

	// Changing the photo invalidates the entry.
	writeFile(t, dir, "CS101.jpg", []byte("photo-a"))
	writeFile(t, dir, "CS101.jpg", []byte("photo-a2"))
	detector.results["photo-a2"] = oneFace([]float32{0, 1})
	if _, err := builder.Build(context.Background(), dir); err != nil {
		t.Fatalf("third Build failed: %v", err)
	}
	if detector.calls != 2 {
		t.Errorf("expected changed photo to be recomputed, got %d calls", detector.calls)
	}
}

func TestBuilder_Build_CacheFailureFallsBackToDetector(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "CS101.jpg", []byte("photo-a"))

	detector := &fakeDetector{results: map[string]*recognizer.DetectResult{
		"photo-a": oneFace([]float32{1, 0}),
	}}
	cache := mock.NewEmbeddingCache()
	cache.GetError = errors.New("cache down")
	cache.PutError = errors.New("cache down")

	builder := NewBuilder(detector, nil, cache)
	builder.Warnf = func(string, ...any) {}

	// A broken cache degrades to recomputation, never a failed build.
	entries, err := builder.Build(context.Background(), dir)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if detector.calls != 1 {
		t.Errorf("expected embedding to be recomputed, got %d detector calls", detector.calls)
	}
	if entries[0].Embedding[0] != 1 {
		t.Error("expected embedding from the detector")
	}
}
