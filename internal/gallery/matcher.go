package gallery

import (
	"github.com/classmark/classmark/internal/database"
)

// Match is one successful identification.
type Match struct {
	Entry    Entry
	Distance float64
}

// Matcher finds the gallery identity closest to a probe embedding. Small
// galleries are scanned linearly; larger ones get an HNSW index at
// construction time.
type Matcher struct {
	entries   []Entry
	tolerance float64
	index     *hnswIndex
}

// NewMatcher creates a matcher over the given entries. tolerance <= 0 falls
// back to the default.
func NewMatcher(entries []Entry, tolerance float64) *Matcher {
	if tolerance <= 0 {
		tolerance = database.DefaultTolerance
	}
	m := &Matcher{
		entries:   entries,
		tolerance: tolerance,
	}
	if len(entries) >= database.HNSWMinGallerySize {
		m.index = newHNSWIndex(entries)
	}
	return m
}

// Size returns the number of gallery entries.
func (m *Matcher) Size() int {
	return len(m.entries)
}

// Match returns the entry with the smallest cosine distance to probe,
// provided the distance stays within tolerance. ok=false means no enrolled
// identity is close enough.
func (m *Matcher) Match(probe []float32) (Match, bool) {
	if len(m.entries) == 0 {
		return Match{}, false
	}

	if m.index != nil {
		entry, dist, found := m.index.nearest(probe)
		if !found || dist > m.tolerance {
			return Match{}, false
		}
		return Match{Entry: *entry, Distance: dist}, true
	}

	bestIdx := -1
	bestDist := 0.0
	for i := range m.entries {
		dist := database.CosineDistance(probe, m.entries[i].Embedding)
		if bestIdx == -1 || dist < bestDist {
			bestIdx = i
			bestDist = dist
		}
	}

	if bestDist > m.tolerance {
		return Match{}, false
	}
	return Match{Entry: m.entries[bestIdx], Distance: bestDist}, true
}
