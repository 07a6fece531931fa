package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/classmark/classmark/internal/database/mock"
	"github.com/classmark/classmark/internal/session"
)

func newTestRouter(api *API) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", HealthCheck)
	r.Route("/api", func(r chi.Router) {
		r.Route("/students", func(r chi.Router) {
			r.Get("/", api.ListStudents)
			r.Post("/", api.CreateStudent)
			r.Put("/{id}", api.UpdateStudent)
			r.Delete("/{id}", api.DeleteStudent)
		})
		r.Route("/timetable", func(r chi.Router) {
			r.Get("/", api.ListWindows)
			r.Get("/current", api.CurrentWindow)
			r.Post("/", api.CreateWindow)
			r.Put("/{id}", api.UpdateWindow)
			r.Delete("/{id}", api.DeleteWindow)
		})
		r.Get("/attendance", api.ListAttendance)
		r.Post("/sessions", api.StartSession)
	})
	return r
}

func newTestAPI() *API {
	return &API{
		Roster:     mock.NewRoster(),
		Timetable:  mock.NewSchedule(),
		Attendance: mock.NewAttendance(),
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(newTestAPI())
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestStudentCRUD(t *testing.T) {
	api := newTestAPI()
	router := newTestRouter(api)

	rec := doJSON(t, router, http.MethodPost, "/api/students/", map[string]string{
		"enrollment": "cs101",
		"name":       "Anita Rao",
		"branch":     "CSE",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	var created studentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Enrollment != "CS101" {
		t.Errorf("expected normalized enrollment, got %q", created.Enrollment)
	}

	// Duplicate enrollment conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/students/", map[string]string{
		"enrollment": "CS101",
		"name":       "Someone Else",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/students/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var students []studentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &students); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(students) != 1 {
		t.Fatalf("expected 1 student, got %d", len(students))
	}

	rec = doJSON(t, router, http.MethodPut, "/api/students/1", map[string]string{
		"enrollment": "CS101",
		"name":       "Anita R. Rao",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPut, "/api/students/999", map[string]string{
		"enrollment": "CS999",
		"name":       "Nobody",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing: expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/students/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}
}

func TestCreateStudent_Validation(t *testing.T) {
	router := newTestRouter(newTestAPI())

	rec := doJSON(t, router, http.MethodPost, "/api/students/", map[string]string{"name": "No Code"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing enrollment, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/students/", bytes.NewBufferString("{broken"))
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for broken JSON, got %d", rec2.Code)
	}
}

func TestTimetableCRUD(t *testing.T) {
	api := newTestAPI()
	router := newTestRouter(api)

	rec := doJSON(t, router, http.MethodPost, "/api/timetable/", map[string]string{
		"subject": "Mathematics",
		"start":   "09:00",
		"end":     "10:00",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	// Malformed bounds are rejected.
	rec = doJSON(t, router, http.MethodPost, "/api/timetable/", map[string]string{
		"subject": "Physics",
		"start":   "9am",
		"end":     "10:00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad start: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/timetable/", map[string]string{
		"subject": "Physics",
		"start":   "11:00",
		"end":     "10:00",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("inverted bounds: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/timetable/", nil)
	var windows []windowResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &windows); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(windows) != 1 || windows[0].Subject != "Mathematics" {
		t.Fatalf("unexpected timetable: %+v", windows)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/timetable/1", map[string]string{
		"subject": "Mathematics",
		"start":   "09:00",
		"end":     "10:30",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("update: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/timetable/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}
}

func TestListAttendance(t *testing.T) {
	api := newTestAPI()
	router := newTestRouter(api)

	ctx := context.Background()
	attendance := api.Attendance.(*mock.Attendance)
	attendance.Mark(ctx, "Anita Rao", "2026-03-09", "09:15:00", "Mathematics")
	attendance.Mark(ctx, "Rahul Mehta", "2026-03-10", "10:15:00", "Physics")

	rec := doJSON(t, router, http.MethodGet, "/api/attendance", nil)
	var all []attendanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(all))
	}
	if all[0].Name != "Rahul Mehta" {
		t.Errorf("expected newest first, got %q", all[0].Name)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/attendance?date=2026-03-09", nil)
	var filtered []attendanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &filtered); err != nil {
		t.Fatalf("failed to decode filtered list: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Name != "Anita Rao" {
		t.Errorf("unexpected filtered rows: %+v", filtered)
	}
}

func TestStartSession(t *testing.T) {
	api := newTestAPI()
	api.RunSession = func(ctx context.Context) (*session.Result, error) {
		return &session.Result{
			ID:      uuid.New(),
			Outcome: session.OutcomeRecorded,
			Name:    "Anita Rao",
			Subject: "Mathematics",
			Date:    "2026-03-09",
			Time:    "09:15:00",
		}, nil
	}
	router := newTestRouter(api)

	rec := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["outcome"] != "recorded" {
		t.Errorf("expected recorded outcome, got %v", body["outcome"])
	}
	if body["message"] != "Attendance marked for Anita Rao in Mathematics" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestStartSession_NoCamera(t *testing.T) {
	router := newTestRouter(newTestAPI())

	rec := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a camera, got %d", rec.Code)
	}
}
