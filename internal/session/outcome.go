package session

// Outcome is the terminal result of one scanning session.
type Outcome int

const (
	// OutcomeRecorded means a new attendance row was written.
	OutcomeRecorded Outcome = iota
	// OutcomeAlreadyMarked means the student was recognized but already
	// had a row for this class today.
	OutcomeAlreadyMarked
	// OutcomeNoActiveClass means a student was recognized while no
	// timetable window was active.
	OutcomeNoActiveClass
	// OutcomeNoFaceDetected means the frame source was exhausted before any
	// enrolled student was recognized.
	OutcomeNoFaceDetected
	// OutcomeCancelled means the session context was cancelled.
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRecorded:
		return "recorded"
	case OutcomeAlreadyMarked:
		return "already_marked"
	case OutcomeNoActiveClass:
		return "no_active_class"
	case OutcomeNoFaceDetected:
		return "no_face_detected"
	case OutcomeCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Message returns the operator-facing line for a session result. name and
// subject fill in the recognized student and active class where relevant.
func (o Outcome) Message(name, subject string) string {
	switch o {
	case OutcomeRecorded:
		return "Attendance marked for " + name + " in " + subject
	case OutcomeAlreadyMarked:
		return name + " is already marked for " + subject
	case OutcomeNoActiveClass:
		return "No class is scheduled at this time"
	case OutcomeNoFaceDetected:
		return "No face detected"
	case OutcomeCancelled:
		return "Session cancelled"
	}
	return "Unknown outcome"
}
