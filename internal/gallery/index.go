package gallery

import (
	"sync"

	"github.com/coder/hnsw"

	"github.com/classmark/classmark/internal/database"
)

// hnswIndex wraps an HNSW graph over gallery entries for approximate
// nearest-neighbor search. Keys are positions in the entries slice.
type hnswIndex struct {
	graph   *hnsw.Graph[int]
	entries []Entry
	mu      sync.RWMutex
}

func newHNSWIndex(entries []Entry) *hnswIndex {
	g := hnsw.NewGraph[int]()
	g.M = database.HNSWMaxNeighbors
	g.Ml = 1.0 / float64(database.HNSWMaxNeighbors) // standard HNSW formula
	g.Distance = hnsw.CosineDistance

	for i := range entries {
		if len(entries[i].Embedding) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(i, entries[i].Embedding))
	}

	return &hnswIndex{graph: g, entries: entries}
}

// nearest returns the closest entry to the query and its exact cosine
// distance. The graph gives candidates; the distance reported back is
// recomputed exactly so the tolerance check never depends on graph
// approximation.
func (h *hnswIndex) nearest(query []float32) (*Entry, float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	neighbors := h.graph.Search(query, 1)
	if len(neighbors) == 0 {
		return nil, 0, false
	}

	n := neighbors[0]
	return &h.entries[n.Key], database.CosineDistance(query, n.Value), true
}
