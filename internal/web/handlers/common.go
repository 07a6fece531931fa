package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/classmark/classmark/internal/database"
	"github.com/classmark/classmark/internal/session"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// API holds the repositories and session runner behind the HTTP handlers.
type API struct {
	Roster     database.RosterWriter
	Timetable  database.ScheduleWriter
	Attendance database.AttendanceStore

	// RunSession starts one scanning session. nil disables the endpoint,
	// for deployments without a camera attached.
	RunSession func(ctx context.Context) (*session.Result, error)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
