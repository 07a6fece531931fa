// Package session runs one attendance scanning session from gallery build
// through frame scanning to a single recorded outcome.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/classmark/classmark/internal/camera"
	"github.com/classmark/classmark/internal/database"
	"github.com/classmark/classmark/internal/gallery"
	"github.com/classmark/classmark/internal/schedule"
)

// State tracks session progress. Transitions are strictly forward:
// Init, GalleryBuilt, ScheduleResolved, Scanning, Terminated.
type State int

const (
	StateInit State = iota
	StateGalleryBuilt
	StateScheduleResolved
	StateScanning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateGalleryBuilt:
		return "gallery_built"
	case StateScheduleResolved:
		return "schedule_resolved"
	case StateScanning:
		return "scanning"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Result is the terminal record of one session.
type Result struct {
	ID       uuid.UUID
	Outcome  Outcome
	Name     string // recognized student, empty unless Recorded/AlreadyMarked
	Subject  string // active class, empty for NoActiveClass
	Date     string
	Time     string
	Distance float64 // cosine distance of the winning match
}

// Message returns the operator-facing line for this result.
func (r *Result) Message() string {
	return r.Outcome.Message(r.Name, r.Subject)
}

// Previewer receives the matched frame for operator preview. Failures are
// logged and ignored.
type Previewer interface {
	Save(frame []byte, bbox []float64, label string) error
}

// Controller wires the gallery, timetable, frame source and attendance
// store into one scanning session. All collaborators are injected; tests
// substitute fakes for every one of them.
type Controller struct {
	GalleryDir string
	Builder    *gallery.Builder
	Detector   gallery.FaceDetector
	Schedule   database.ScheduleReader
	Attendance database.AttendanceStore
	Source     camera.FrameSource
	Tolerance  float64

	// Now supplies the session clock. Defaults to time.Now.
	Now func() time.Time
	// Preview is optional; nil disables previews.
	Preview Previewer
	// Logf receives progress lines. Defaults to discarding them.
	Logf func(format string, args ...any)

	state State
}

// State returns the controller's current state.
func (c *Controller) State() State {
	return c.state
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) logf(format string, args ...any) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}

// Run executes one session. It terminates on the first conclusive event: a
// recognized face (new, already marked, or outside any class window), an
// exhausted frame source, or cancellation. Unrecognized faces never
// terminate the session. The clock and timetable are consulted when a face
// is recognized, not at session start, so a session started before a class
// begins can still record students once the window opens.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	result := &Result{ID: uuid.New()}

	c.state = StateInit

	entries, err := c.Builder.Build(ctx, c.GalleryDir)
	if err != nil {
		c.state = StateTerminated
		return nil, fmt.Errorf("failed to build gallery: %w", err)
	}
	matcher := gallery.NewMatcher(entries, c.Tolerance)
	c.state = StateGalleryBuilt
	c.logf("gallery built: %d identities", matcher.Size())

	records, err := c.Schedule.ListWindows(ctx)
	if err != nil {
		c.state = StateTerminated
		return nil, fmt.Errorf("failed to load timetable: %w", err)
	}
	windows, err := schedule.FromRecords(records)
	if err != nil {
		c.state = StateTerminated
		return nil, err
	}
	c.state = StateScheduleResolved

	c.state = StateScanning
	outcome, err := c.scan(ctx, matcher, windows, result)
	c.state = StateTerminated
	if err != nil {
		return nil, err
	}
	result.Outcome = outcome
	if result.Date == "" {
		end := c.now()
		result.Date = end.Format(database.DateLayout)
		result.Time = end.Format(database.TimeLayout)
	}
	return result, nil
}

// scan consumes frames until a conclusive event. Returns the outcome, or an
// error for infrastructure failures.
func (c *Controller) scan(ctx context.Context, matcher *gallery.Matcher, windows []schedule.Window, result *Result) (Outcome, error) {
	for {
		frame, err := c.Source.Next(ctx)
		if errors.Is(err, camera.ErrSourceExhausted) {
			return OutcomeNoFaceDetected, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return OutcomeCancelled, nil
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read frame: %w", err)
		}

		detected, err := c.Detector.DetectFaces(ctx, frame)
		if err != nil {
			return 0, fmt.Errorf("failed to detect faces: %w", err)
		}
		if detected.FacesCount == 0 {
			continue
		}

		for _, face := range detected.Faces {
			match, ok := matcher.Match(face.Embedding)
			if !ok {
				c.savePreview(frame, face.BBox, "Unknown")
				c.logf("face not recognized (index %d)", face.FaceIndex)
				continue
			}

			c.savePreview(frame, face.BBox, match.Entry.Name)

			// The timestamp and the active class belong to the moment of
			// recognition, which may be well after the session started.
			now := c.now()
			result.Date = now.Format(database.DateLayout)
			result.Time = now.Format(database.TimeLayout)
			result.Name = match.Entry.Name
			result.Distance = match.Distance

			subject, active := schedule.Resolve(schedule.ClockFromTime(now), windows)
			if !active {
				return OutcomeNoActiveClass, nil
			}
			result.Subject = subject

			inserted, err := c.Attendance.Mark(ctx, match.Entry.Name, result.Date, result.Time, subject)
			if err != nil {
				return 0, fmt.Errorf("failed to mark attendance: %w", err)
			}
			if inserted {
				return OutcomeRecorded, nil
			}
			return OutcomeAlreadyMarked, nil
		}
	}
}

func (c *Controller) savePreview(frame []byte, bbox []float64, label string) {
	if c.Preview == nil {
		return
	}
	if err := c.Preview.Save(frame, bbox, label); err != nil {
		c.logf("preview save failed: %v", err)
	}
}
