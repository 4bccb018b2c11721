// Package handlers provides the HTTP surface of the simulation engine.
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
	"github.com/atreyakamat/solara-mf/internal/modules/projection"
	"github.com/atreyakamat/solara-mf/internal/modules/simulation"
)

// Simulator runs a projection for a stored portfolio
type Simulator interface {
	Simulate(ctx context.Context, portfolioID int64, years int) (*simulation.Result, error)
}

// Handler handles simulation HTTP requests
type Handler struct {
	service Simulator
	log     zerolog.Logger
}

// NewHandler creates a new simulation handler
func NewHandler(service Simulator, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "simulation").Logger(),
	}
}

// SimulateRequest is the body of POST /portfolios/{id}/simulate.
// Years is decoded as a number so that fractional horizons can be rejected
// instead of silently truncated.
type SimulateRequest struct {
	Years *float64 `json:"years"`
}

// HandleSimulate projects the portfolio over the requested horizon
func (h *Handler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	portfolioID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || portfolioID <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid portfolio id")
		return
	}

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Years == nil {
		h.writeError(w, http.StatusBadRequest, "years is required")
		return
	}

	years, err := projection.HorizonFromFloat(*req.Years)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Simulate(r.Context(), portfolioID, years)
	if err != nil {
		h.writeSimulationError(w, portfolioID, err)
		return
	}

	h.log.Debug().
		Int64("portfolio_id", portfolioID).
		Int("years", years).
		Str("run_id", result.RunID).
		Int64("projected_value", result.ProjectedValue).
		Msg("Simulation completed")

	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) writeSimulationError(w http.ResponseWriter, portfolioID int64, err error) {
	var allocErr *domain.AllocationError

	switch {
	case errors.Is(err, domain.ErrPortfolioNotFound):
		h.writeError(w, http.StatusNotFound, "Portfolio not found")
	case errors.Is(err, domain.ErrEmptyPortfolio):
		h.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &allocErr):
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": allocErr.Error(),
			"total": allocErr.Total,
		})
	case errors.Is(err, domain.ErrInvalidHorizon):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Int64("portfolio_id", portfolioID).Msg("Simulation failed")
		h.writeError(w, http.StatusInternalServerError, "simulation failed")
	}
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
