package database

import (
	"time"
)

// StudentRecord is one roster entry. Enrollment codes are stored upper-cased
// and are unique across the roster.
type StudentRecord struct {
	ID         int64
	Enrollment string
	Name       string
	Branch     string
	Photo      string // gallery file name, e.g. "CS101.jpg"
	CreatedAt  time.Time
}

// ScheduleWindow is one timetable row. Start and End are 24-hour "HH:MM"
// local times of day; Day and Branch are informational for the timetable
// collaborator and not consulted when resolving the active subject.
type ScheduleWindow struct {
	ID      int64
	Subject string
	Start   string
	End     string
	Branch  string
	Day     string
}

// AttendanceRecord is one append-only attendance row. Date is "YYYY-MM-DD",
// Time is "HH:MM:SS". At most one row exists per (Name, Date, Subject).
type AttendanceRecord struct {
	ID        int64
	Name      string
	Date      string
	Time      string
	Subject   string
	CreatedAt time.Time
}

// CachedEmbedding is a stored face embedding for one gallery photo, keyed by
// the photo's content hash so a changed photo invalidates the cache entry.
type CachedEmbedding struct {
	Enrollment string
	FileHash   string
	Embedding  []float32
	Dim        int
	Model      string
	CreatedAt  time.Time
}
