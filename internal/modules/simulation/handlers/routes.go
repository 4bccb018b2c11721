package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers the simulation route under the portfolio tree
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolios/{id}/simulate", h.HandleSimulate)
}
