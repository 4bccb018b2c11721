// Package handlers provides HTTP handlers for the fund catalog.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/atreyakamat/solara-mf/internal/domain"
	"github.com/atreyakamat/solara-mf/internal/modules/funds"
)

// Catalog is the read side of the fund repository
type Catalog interface {
	List(ctx context.Context, filter funds.Filter) ([]domain.Fund, error)
	Get(ctx context.Context, id int64) (*domain.Fund, error)
}

// Handler handles fund HTTP requests
type Handler struct {
	catalog Catalog
	log     zerolog.Logger
}

// NewHandler creates a new fund handler
func NewHandler(catalog Catalog, log zerolog.Logger) *Handler {
	return &Handler{
		catalog: catalog,
		log:     log.With().Str("handler", "funds").Logger(),
	}
}

// HandleListFunds lists the catalog.
// Query parameters: search, category, riskLevel, minRating.
func (h *Handler) HandleListFunds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := funds.Filter{
		Search:    q.Get("search"),
		Category:  q.Get("category"),
		RiskLevel: q.Get("riskLevel"),
	}

	if raw := q.Get("minRating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 0 || rating > 5 {
			h.writeError(w, http.StatusBadRequest, "minRating must be an integer between 0 and 5")
			return
		}
		filter.MinRating = rating
	}

	list, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list funds")
		h.writeError(w, http.StatusInternalServerError, "failed to list funds")
		return
	}

	h.writeJSON(w, http.StatusOK, list)
}

// HandleGetFund returns one fund
func (h *Handler) HandleGetFund(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid fund id")
		return
	}

	fund, err := h.catalog.Get(r.Context(), id)
	if errors.Is(err, domain.ErrFundNotFound) {
		h.writeError(w, http.StatusNotFound, "Fund not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("fund_id", id).Msg("Failed to get fund")
		h.writeError(w, http.StatusInternalServerError, "failed to get fund")
		return
	}

	h.writeJSON(w, http.StatusOK, fund)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
