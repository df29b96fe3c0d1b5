package advice

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers session and advice routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/meta", h.GetMeta)

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Get("/{id}", h.GetSession)
		r.Delete("/{id}", h.DeleteSession)
		r.Put("/{id}/symptoms", h.SetSymptoms)
		r.Post("/{id}/advice", h.GenerateAdvice)
		r.Post("/{id}/suggestions", h.GenerateSuggestions)
		r.Post("/{id}/suggestions/accept", h.AcceptSuggestion)
		r.Get("/{id}/audio", h.GetAudio)
		r.Get("/{id}/report", h.GetReport)
		r.Get("/{id}/history", h.GetHistory)
	})
}
