package database

import (
	"context"
)

// RosterReader provides read-only access to the student roster.
type RosterReader interface {
	// Lookup resolves an enrollment code to a student name.
	// Returns found=false (not an error) when no roster entry exists.
	Lookup(ctx context.Context, enrollment string) (name string, found bool, err error)
	// List returns all roster entries ordered by enrollment.
	List(ctx context.Context) ([]StudentRecord, error)
}

// RosterWriter provides full CRUD access to the student roster.
type RosterWriter interface {
	RosterReader

	// Create inserts a new student. Enrollment is normalized to upper case.
	// Returns ErrDuplicateStudent if the enrollment code is already taken.
	Create(ctx context.Context, s *StudentRecord) error
	// Update rewrites an existing student row by ID.
	Update(ctx context.Context, s *StudentRecord) error
	// Delete removes a student by ID. Missing rows are not an error.
	Delete(ctx context.Context, id int64) error
}

// ScheduleReader provides read-only access to the timetable.
type ScheduleReader interface {
	// ListWindows returns all schedule windows in insertion order.
	// Resolution policy depends on this order: the first window containing
	// an instant wins.
	ListWindows(ctx context.Context) ([]ScheduleWindow, error)
}

// ScheduleWriter provides full CRUD access to the timetable.
type ScheduleWriter interface {
	ScheduleReader

	AddWindow(ctx context.Context, w *ScheduleWindow) error
	UpdateWindow(ctx context.Context, w *ScheduleWindow) error
	DeleteWindow(ctx context.Context, id int64) error
}

// AttendanceStore records and lists attendance events.
type AttendanceStore interface {
	// Mark inserts one attendance row unless a row with the same
	// (name, date, subject) already exists. Returns inserted=true when a
	// row was written, false when the student was already marked. The
	// check and insert are a single conditional statement backed by a
	// unique index, so concurrent sessions cannot double-mark.
	Mark(ctx context.Context, name, date, timeOfDay, subject string) (inserted bool, err error)
	// List returns all attendance rows, newest first.
	List(ctx context.Context) ([]AttendanceRecord, error)
	// ListByDate returns attendance rows for one calendar day.
	ListByDate(ctx context.Context, date string) ([]AttendanceRecord, error)
}

// EmbeddingCache stores computed gallery photo embeddings keyed by file hash.
// A miss (nil, nil) just means the caller recomputes; the cache is an
// optimization, never a source of truth.
type EmbeddingCache interface {
	// Get returns the cached embedding for an enrollment code if the
	// stored file hash matches, nil otherwise.
	Get(ctx context.Context, enrollment, fileHash string) (*CachedEmbedding, error)
	// Put upserts the cached embedding for an enrollment code.
	Put(ctx context.Context, emb *CachedEmbedding) error
}
