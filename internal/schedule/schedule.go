// Package schedule resolves wall-clock times against a class timetable.
package schedule

import (
	"fmt"
	"time"

	"github.com/classmark/classmark/internal/database"
)

// Clock is a time of day with minute precision, stored as minutes since
// midnight. It carries no date or timezone; callers derive it from their
// local wall clock.
type Clock int

// ParseClock parses a "HH:MM" string in 24-hour format. Hours must be zero
// padded; "9:00" is rejected.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid clock time %q: expected HH:MM", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

// ClockFromTime truncates a full timestamp to its minute of day.
func ClockFromTime(t time.Time) Clock {
	return Clock(t.Hour()*60 + t.Minute())
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Window is a timetable entry with parsed bounds.
type Window struct {
	Subject string
	Start   Clock
	End     Clock
}

// FromRecords converts stored timetable rows into resolvable windows,
// preserving their order. Rows with unparsable bounds are rejected rather
// than silently skipped so a broken timetable surfaces immediately.
func FromRecords(records []database.ScheduleWindow) ([]Window, error) {
	windows := make([]Window, 0, len(records))
	for _, r := range records {
		start, err := ParseClock(r.Start)
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", r.Subject, err)
		}
		end, err := ParseClock(r.End)
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", r.Subject, err)
		}
		windows = append(windows, Window{Subject: r.Subject, Start: start, End: end})
	}
	return windows, nil
}

// Resolve returns the subject whose window contains now. Both bounds are
// inclusive, so a class running 09:00-10:00 still matches at exactly 10:00.
// When windows overlap the first one in timetable order wins.
func Resolve(now Clock, windows []Window) (string, bool) {
	for _, w := range windows {
		if now >= w.Start && now <= w.End {
			return w.Subject, true
		}
	}
	return "", false
}
