package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/version", s.handleVersion)

		// Account credentials
		r.Route("/account", func(r chi.Router) {
			r.Get("/", s.handleGetAccount)
			r.Put("/", s.handlePutAccount)
			r.Delete("/", s.handleDeleteAccount)
		})

		// Vacation plans
		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.handleListPlans)
			r.Post("/", s.handleCreatePlan)

			r.Route("/{name}", func(r chi.Router) {
				r.Get("/", s.handleGetPlan)
				r.Put("/", s.handleUpdatePlan)
				r.Delete("/", s.handleDeletePlan)

				r.Post("/enable", s.handleEnablePlan)
				r.Post("/disable", s.handleDisablePlan)
				r.Post("/refresh", s.handleRefreshPlan)
				r.Get("/schedule", s.handleSchedulePreview)
				r.Post("/test", s.handleTestPlan)
			})
		})
	})

	return r
}
