package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/classmark/classmark/internal/database"
)

type studentPayload struct {
	Enrollment string `json:"enrollment"`
	Name       string `json:"name"`
	Branch     string `json:"branch"`
	Photo      string `json:"photo"`
}

type studentResponse struct {
	ID         int64  `json:"id"`
	Enrollment string `json:"enrollment"`
	Name       string `json:"name"`
	Branch     string `json:"branch"`
	Photo      string `json:"photo"`
}

func toStudentResponse(s database.StudentRecord) studentResponse {
	return studentResponse{
		ID:         s.ID,
		Enrollment: s.Enrollment,
		Name:       s.Name,
		Branch:     s.Branch,
		Photo:      s.Photo,
	}
}

// ListStudents handles GET /api/students.
func (a *API) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := a.Roster.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list students")
		return
	}

	out := make([]studentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, toStudentResponse(s))
	}
	respondJSON(w, http.StatusOK, out)
}

// CreateStudent handles POST /api/students.
func (a *API) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var payload studentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if payload.Enrollment == "" || payload.Name == "" {
		respondError(w, http.StatusBadRequest, "enrollment and name are required")
		return
	}

	s := database.StudentRecord{
		Enrollment: payload.Enrollment,
		Name:       payload.Name,
		Branch:     payload.Branch,
		Photo:      payload.Photo,
	}
	err := a.Roster.Create(r.Context(), &s)
	if errors.Is(err, database.ErrDuplicateStudent) {
		respondError(w, http.StatusConflict, "enrollment code already exists")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create student")
		return
	}

	respondJSON(w, http.StatusCreated, toStudentResponse(s))
}

// UpdateStudent handles PUT /api/students/{id}.
func (a *API) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	var payload studentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	s := database.StudentRecord{
		ID:         id,
		Enrollment: payload.Enrollment,
		Name:       payload.Name,
		Branch:     payload.Branch,
		Photo:      payload.Photo,
	}
	err = a.Roster.Update(r.Context(), &s)
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "student not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to update student")
		return
	}

	respondJSON(w, http.StatusOK, toStudentResponse(s))
}

// DeleteStudent handles DELETE /api/students/{id}.
func (a *API) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid student id")
		return
	}

	if err := a.Roster.Delete(r.Context(), id); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to delete student")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
