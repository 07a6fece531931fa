// Package mock provides in-memory repository implementations for tests.
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/classmark/classmark/internal/database"
)

// Roster is an in-memory RosterWriter.
type Roster struct {
	mu       sync.Mutex
	students []database.StudentRecord
	nextID   int64

	// Error injection for testing error paths.
	LookupError error
	ListError   error
	CreateError error
	UpdateError error
	DeleteError error
}

// NewRoster creates an empty in-memory roster.
func NewRoster() *Roster {
	return &Roster{nextID: 1}
}

func (r *Roster) Lookup(_ context.Context, enrollment string) (string, bool, error) {
	if r.LookupError != nil {
		return "", false, r.LookupError
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	enrollment = database.NormalizeEnrollment(enrollment)
	for _, s := range r.students {
		if s.Enrollment == enrollment {
			return s.Name, true, nil
		}
	}
	return "", false, nil
}

func (r *Roster) List(_ context.Context) ([]database.StudentRecord, error) {
	if r.ListError != nil {
		return nil, r.ListError
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]database.StudentRecord, len(r.students))
	copy(out, r.students)
	return out, nil
}

func (r *Roster) Create(_ context.Context, s *database.StudentRecord) error {
	if r.CreateError != nil {
		return r.CreateError
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Enrollment = database.NormalizeEnrollment(s.Enrollment)
	for _, existing := range r.students {
		if existing.Enrollment == s.Enrollment {
			return database.ErrDuplicateStudent
		}
	}
	s.ID = r.nextID
	r.nextID++
	s.CreatedAt = time.Now()
	r.students = append(r.students, *s)
	return nil
}

func (r *Roster) Update(_ context.Context, s *database.StudentRecord) error {
	if r.UpdateError != nil {
		return r.UpdateError
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.students {
		if r.students[i].ID == s.ID {
			s.Enrollment = database.NormalizeEnrollment(s.Enrollment)
			r.students[i] = *s
			return nil
		}
	}
	return database.ErrNotFound
}

func (r *Roster) Delete(_ context.Context, id int64) error {
	if r.DeleteError != nil {
		return r.DeleteError
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.students {
		if r.students[i].ID == id {
			r.students = append(r.students[:i], r.students[i+1:]...)
			return nil
		}
	}
	return nil
}

// Schedule is an in-memory ScheduleWriter.
type Schedule struct {
	mu      sync.Mutex
	windows []database.ScheduleWindow
	nextID  int64

	ListError error
}

// NewSchedule creates an empty in-memory timetable.
func NewSchedule() *Schedule {
	return &Schedule{nextID: 1}
}

func (s *Schedule) ListWindows(_ context.Context) ([]database.ScheduleWindow, error) {
	if s.ListError != nil {
		return nil, s.ListError
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]database.ScheduleWindow, len(s.windows))
	copy(out, s.windows)
	return out, nil
}

func (s *Schedule) AddWindow(_ context.Context, w *database.ScheduleWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.ID = s.nextID
	s.nextID++
	s.windows = append(s.windows, *w)
	return nil
}

func (s *Schedule) UpdateWindow(_ context.Context, w *database.ScheduleWindow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.windows {
		if s.windows[i].ID == w.ID {
			s.windows[i] = *w
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *Schedule) DeleteWindow(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.windows {
		if s.windows[i].ID == id {
			s.windows = append(s.windows[:i], s.windows[i+1:]...)
			return nil
		}
	}
	return nil
}

// Attendance is an in-memory AttendanceStore enforcing the
// (name, date, subject) uniqueness rule.
type Attendance struct {
	mu      sync.Mutex
	records []database.AttendanceRecord
	nextID  int64

	MarkError error
	ListError error
}

// NewAttendance creates an empty in-memory attendance store.
func NewAttendance() *Attendance {
	return &Attendance{nextID: 1}
}

func (a *Attendance) Mark(_ context.Context, name, date, timeOfDay, subject string) (bool, error) {
	if a.MarkError != nil {
		return false, a.MarkError
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.records {
		if r.Name == name && r.Date == date && r.Subject == subject {
			return false, nil
		}
	}
	a.records = append(a.records, database.AttendanceRecord{
		ID:        a.nextID,
		Name:      name,
		Date:      date,
		Time:      timeOfDay,
		Subject:   subject,
		CreatedAt: time.Now(),
	})
	a.nextID++
	return true, nil
}

func (a *Attendance) List(_ context.Context) ([]database.AttendanceRecord, error) {
	if a.ListError != nil {
		return nil, a.ListError
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]database.AttendanceRecord, len(a.records))
	copy(out, a.records)
	// Newest first, matching the SQL repositories.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (a *Attendance) ListByDate(_ context.Context, date string) ([]database.AttendanceRecord, error) {
	if a.ListError != nil {
		return nil, a.ListError
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []database.AttendanceRecord
	for i := len(a.records) - 1; i >= 0; i-- {
		if a.records[i].Date == date {
			out = append(out, a.records[i])
		}
	}
	return out, nil
}

// EmbeddingCache is an in-memory database.EmbeddingCache. It counts
// operations so tests can assert cache hits.
type EmbeddingCache struct {
	mu      sync.Mutex
	entries map[string]database.CachedEmbedding

	Gets int
	Puts int

	GetError error
	PutError error
}

// NewEmbeddingCache creates an empty in-memory embedding cache.
func NewEmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{entries: make(map[string]database.CachedEmbedding)}
}

func (c *EmbeddingCache) Get(_ context.Context, enrollment, fileHash string) (*database.CachedEmbedding, error) {
	if c.GetError != nil {
		return nil, c.GetError
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gets++
	e, ok := c.entries[enrollment]
	if !ok || e.FileHash != fileHash {
		return nil, nil
	}
	out := e
	return &out, nil
}

func (c *EmbeddingCache) Put(_ context.Context, emb *database.CachedEmbedding) error {
	if c.PutError != nil {
		return c.PutError
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Puts++
	if emb.Enrollment == "" {
		return fmt.Errorf("missing enrollment")
	}
	c.entries[emb.Enrollment] = *emb
	return nil
}
