package gallery

import (
	"fmt"
	"math"
	"testing"

	"github.com/classmark/classmark/internal/database"
)

func TestMatcher_Match(t *testing.T) {
	entries := []Entry{
		{Enrollment: "CS101", Name: "Anita Rao", Embedding: []float32{1, 0, 0}},
		{Enrollment: "CS102", Name: "Rahul Mehta", Embedding: []float32{0, 1, 0}},
	}
	matcher := NewMatcher(entries, database.DefaultTolerance)

	// Probe close to CS101.
	match, ok := matcher.Match([]float32{0.95, 0.1, 0})
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Entry.Enrollment != "CS101" {
		t.Errorf("expected CS101, got %s", match.Entry.Enrollment)
	}
	if match.Distance < 0 || match.Distance > database.DefaultTolerance {
		t.Errorf("distance %f outside expected range", match.Distance)
	}
}

func TestMatcher_Match_BeyondTolerance(t *testing.T) {
	entries := []Entry{
		{Enrollment: "CS101", Embedding: []float32{1, 0, 0}},
	}
	matcher := NewMatcher(entries, database.DefaultTolerance)

	// Orthogonal probe, distance 1.0.
	if _, ok := matcher.Match([]float32{0, 0, 1}); ok {
		t.Error("expected no match beyond tolerance")
	}
}

func TestMatcher_Match_PicksClosest(t *testing.T) {
	entries := []Entry{
		{Enrollment: "CS101", Embedding: []float32{1, 0}},
		{Enrollment: "CS102", Embedding: []float32{0.9, 0.1}},
	}
	matcher := NewMatcher(entries, database.DefaultTolerance)

	match, ok := matcher.Match([]float32{0.9, 0.1})
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Entry.Enrollment != "CS102" {
		t.Errorf("expected the closest entry CS102, got %s", match.Entry.Enrollment)
	}
}

func TestMatcher_Match_EmptyGallery(t *testing.T) {
	matcher := NewMatcher(nil, database.DefaultTolerance)
	if _, ok := matcher.Match([]float32{1, 0}); ok {
		t.Error("expected no match against empty gallery")
	}
}

func TestMatcher_Match_HNSWPath(t *testing.T) {
	// Enough entries to trigger index construction.
	n := database.HNSWMinGallerySize + 8
	entries := make([]Entry, n)
	for i := range entries {
		angle := float64(i) / float64(n) * math.Pi / 2
		entries[i] = Entry{
			Enrollment: fmt.Sprintf("CS%03d", i),
			Embedding:  []float32{float32(math.Cos(angle)), float32(math.Sin(angle))},
		}
	}
	matcher := NewMatcher(entries, database.DefaultTolerance)
	if matcher.index == nil {
		t.Fatal("expected HNSW index for large gallery")
	}

	probe := entries[17].Embedding
	match, ok := matcher.Match(probe)
	if !ok {
		t.Fatal("expected a match")
	}
	if match.Entry.Enrollment != "CS017" {
		t.Errorf("expected exact entry CS017, got %s", match.Entry.Enrollment)
	}
	if match.Distance > 1e-6 {
		t.Errorf("expected near-zero distance, got %f", match.Distance)
	}
}

func TestMatcher_Size(t *testing.T) {
	matcher := NewMatcher([]Entry{{Enrollment: "CS101", Embedding: []float32{1}}}, 0)
	if matcher.Size() != 1 {
		t.Errorf("Size() = %d; want 1", matcher.Size())
	}
}
