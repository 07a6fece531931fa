package handlers

import (
	"net/http"

	"github.com/classmark/classmark/internal/database"
)

type attendanceResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Subject string `json:"subject"`
}

// ListAttendance handles GET /api/attendance. An optional ?date=YYYY-MM-DD
// filters to one day.
func (a *API) ListAttendance(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")

	var (
		records []database.AttendanceRecord
		err     error
	)
	if date != "" {
		records, err = a.Attendance.ListByDate(r.Context(), date)
	} else {
		records, err = a.Attendance.List(r.Context())
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list attendance")
		return
	}

	out := make([]attendanceResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, attendanceResponse{
			ID:      rec.ID,
			Name:    rec.Name,
			Date:    rec.Date,
			Time:    rec.Time,
			Subject: rec.Subject,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// StartSession handles POST /api/sessions. It runs one scanning session to
// completion and returns the outcome. 503 when no camera is wired.
func (a *API) StartSession(w http.ResponseWriter, r *http.Request) {
	if a.RunSession == nil {
		respondError(w, http.StatusServiceUnavailable, "no camera available")
		return
	}

	result, err := a.RunSession(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "session failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":      result.ID.String(),
		"outcome": result.Outcome.String(),
		"message": result.Message(),
		"name":    result.Name,
		"subject": result.Subject,
		"date":    result.Date,
		"time":    result.Time,
	})
}
