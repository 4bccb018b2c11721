package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all portfolio routes.
// Patterns are registered directly so /portfolios/{id}/simulate can live in
// the simulation module.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/portfolios", h.HandleCreatePortfolio)
	r.Get("/portfolios/{id}", h.HandleGetPortfolio)
	r.Get("/portfolios/{id}/allocation", h.HandleGetAllocation) // Allocation progress and exposure
	r.Post("/portfolios/{id}/rebalance", h.HandleRebalance)     // Equal weights

	r.Post("/portfolios/{id}/items", h.HandleAddItem)
	r.Delete("/portfolios/{id}/items", h.HandleClear)
	r.Patch("/portfolios/{id}/items/{itemId}", h.HandleUpdateItem)
	r.Delete("/portfolios/{id}/items/{itemId}", h.HandleRemoveItem)
}
