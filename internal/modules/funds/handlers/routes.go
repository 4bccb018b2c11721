package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all fund routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/funds", func(r chi.Router) {
		r.Get("/", h.HandleListFunds)
		r.Get("/{id}", h.HandleGetFund)
	})
}
