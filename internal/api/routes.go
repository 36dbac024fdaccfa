package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func setupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://glow.lumina.app", "http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/trends", h.GetTrends)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/preferences", h.GetPreferences)
			r.Put("/preferences", h.UpdatePreferences)
			r.Post("/preferences/reset", h.ResetPreferences)

			r.Get("/recommendations/products", h.RecommendProducts)
			r.Get("/recommendations/routines", h.RecommendRoutines)
			r.Get("/search", h.SearchProducts)

			r.Post("/analyses", h.CreateAnalysis)
			r.Get("/analyses", h.ListAnalyses)

			r.Post("/chat", h.Chat)

			r.Post("/reminders", h.CreateReminder)
			r.Get("/reminders", h.ListReminders)
			r.Delete("/reminders/{reminderID}", h.CancelReminder)
		})
	})

	return r
}
