package database

// Attendance timestamp layouts shared across repositories and the session
// controller.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// DefaultTolerance is the maximum cosine distance at which two face
// embeddings are considered the same identity.
const DefaultTolerance = 0.5

// HNSW index parameters for 512-dim face embeddings.
const (
	// HNSWMaxNeighbors (M) is the maximum number of neighbors per node.
	HNSWMaxNeighbors = 16

	// HNSWMinGallerySize is the gallery size below which a linear scan is
	// used instead of building an index.
	HNSWMinGallerySize = 64
)
