package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/classmark/classmark/internal/database"
	"github.com/classmark/classmark/internal/schedule"
)

type windowPayload struct {
	Subject string `json:"subject"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Branch  string `json:"branch"`
	Day     string `json:"day"`
}

type windowResponse struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Branch  string `json:"branch"`
	Day     string `json:"day"`
}

func toWindowResponse(w database.ScheduleWindow) windowResponse {
	return windowResponse{
		ID:      w.ID,
		Subject: w.Subject,
		Start:   w.Start,
		End:     w.End,
		Branch:  w.Branch,
		Day:     w.Day,
	}
}

// validateWindowPayload checks the subject and both clock bounds.
func validateWindowPayload(p windowPayload) string {
	if p.Subject == "" {
		return "subject is required"
	}
	start, err := schedule.ParseClock(p.Start)
	if err != nil {
		return "start must be HH:MM"
	}
	end, err := schedule.ParseClock(p.End)
	if err != nil {
		return "end must be HH:MM"
	}
	if end < start {
		return "end must not precede start"
	}
	return ""
}

// ListWindows handles GET /api/timetable.
func (a *API) ListWindows(w http.ResponseWriter, r *http.Request) {
	windows, err := a.Timetable.ListWindows(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list timetable")
		return
	}

	out := make([]windowResponse, 0, len(windows))
	for _, win := range windows {
		out = append(out, toWindowResponse(win))
	}
	respondJSON(w, http.StatusOK, out)
}

// CurrentWindow handles GET /api/timetable/current. It resolves the active
// subject for the server's local time.
func (a *API) CurrentWindow(w http.ResponseWriter, r *http.Request) {
	records, err := a.Timetable.ListWindows(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list timetable")
		return
	}

	windows, err := schedule.FromRecords(records)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "timetable contains invalid windows")
		return
	}

	now := schedule.ClockFromTime(time.Now())
	subject, ok := schedule.Resolve(now, windows)
	respondJSON(w, http.StatusOK, map[string]any{
		"time":    now.String(),
		"active":  ok,
		"subject": subject,
	})
}

// CreateWindow handles POST /api/timetable.
func (a *API) CreateWindow(w http.ResponseWriter, r *http.Request) {
	var payload windowPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if msg := validateWindowPayload(payload); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	win := database.ScheduleWindow{
		Subject: payload.Subject,
		Start:   payload.Start,
		End:     payload.End,
		Branch:  payload.Branch,
		Day:     payload.Day,
	}
	if err := a.Timetable.AddWindow(r.Context(), &win); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to add timetable window")
		return
	}

	respondJSON(w, http.StatusCreated, toWindowResponse(win))
}

// UpdateWindow handles PUT /api/timetable/{id}.
func (a *API) UpdateWindow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid window id")
		return
	}

	var payload windowPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if msg := validateWindowPayload(payload); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	win := database.ScheduleWindow{
		ID:      id,
		Subject: payload.Subject,
		Start:   payload.Start,
		End:     payload.End,
		Branch:  payload.Branch,
		Day:     payload.Day,
	}
	err = a.Timetable.UpdateWindow(r.Context(), &win)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "timetable window not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update timetable window")
		return
	}

	respondJSON(w, http.StatusOK, toWindowResponse(win))
}

// DeleteWindow handles DELETE /api/timetable/{id}.
func (a *API) DeleteWindow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid window id")
		return
	}

	if err := a.Timetable.DeleteWindow(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete timetable window")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
