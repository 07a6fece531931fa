package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/classmark/classmark/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	s.router.Get("/health", handlers.HealthCheck)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/students", func(r chi.Router) {
			r.Get("/", s.api.ListStudents)
			r.Post("/", s.api.CreateStudent)
			r.Put("/{id}", s.api.UpdateStudent)
			r.Delete("/{id}", s.api.DeleteStudent)
		})

		r.Route("/timetable", func(r chi.Router) {
			r.Get("/", s.api.ListWindows)
			r.Get("/current", s.api.CurrentWindow)
			r.Post("/", s.api.CreateWindow)
			r.Put("/{id}", s.api.UpdateWindow)
			r.Delete("/{id}", s.api.DeleteWindow)
		})

		r.Get("/attendance", s.api.ListAttendance)
		r.Post("/sessions", s.api.StartSession)
	})
}
