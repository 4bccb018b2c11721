// Package handlers provides HTTP handlers for portfolio management.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/atreyakamat/solara-mf/internal/domain"
	"github.com/atreyakamat/solara-mf/internal/modules/allocation"
	"github.com/atreyakamat/solara-mf/internal/modules/diversification"
	"github.com/atreyakamat/solara-mf/internal/modules/portfolio"
)

// Store is the persistence the handlers need
type Store interface {
	Create(ctx context.Context, name string) (*domain.Portfolio, error)
	GetPortfolio(ctx context.Context, id int64) (*domain.Portfolio, error)
	AddItem(ctx context.Context, portfolioID int64, in portfolio.ItemInput) (*domain.PortfolioEntry, error)
	UpdateItem(ctx context.Context, portfolioID, itemID int64, upd portfolio.ItemUpdate) (*domain.PortfolioEntry, error)
	RemoveItem(ctx context.Context, portfolioID, itemID int64) error
	Clear(ctx context.Context, portfolioID int64) error
	Rebalance(ctx context.Context, portfolioID int64) (*domain.Portfolio, error)
}

// Handler handles portfolio HTTP requests
type Handler struct {
	store Store
	log   zerolog.Logger
}

// NewHandler creates a new portfolio handler
func NewHandler(store Store, log zerolog.Logger) *Handler {
	return &Handler{
		store: store,
		log:   log.With().Str("handler", "portfolio").Logger(),
	}
}

// CreateRequest is the body of POST /portfolios
type CreateRequest struct {
	Name string `json:"name"`
}

// AddItemRequest is the body of POST /portfolios/{id}/items.
// Amount is decoded as a number so fractional amounts can be rejected.
type AddItemRequest struct {
	Amount *float64 `json:"amount"`
	Mode   string   `json:"mode"`
	FundID int64    `json:"fundId"`
}

// UpdateItemRequest is the body of PATCH /portfolios/{id}/items/{itemId}
type UpdateItemRequest struct {
	Amount     *float64 `json:"amount"`
	Mode       *string  `json:"mode"`
	Allocation *float64 `json:"allocation"`
}

// AllocationResponse is the allocation summary plus the blended exposure
type AllocationResponse struct {
	allocation.Summary
	Diversification diversification.Breakdown `json:"diversification"`
}

// HandleCreatePortfolio creates an empty portfolio
func (h *Handler) HandleCreatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	// An empty body creates a portfolio with the default name
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.store.Create(r.Context(), req.Name)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.log.Info().Int64("portfolio_id", p.ID).Str("name", p.Name).Msg("Portfolio created")
	h.writeJSON(w, http.StatusCreated, p)
}

// HandleGetPortfolio returns a portfolio with its entries
func (h *Handler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.store.GetPortfolio(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

// HandleAddItem adds a fund to the portfolio or updates the existing entry
func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FundID <= 0 {
		h.writeError(w, http.StatusBadRequest, "fundId is required")
		return
	}
	if req.Amount == nil {
		h.writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	amount, ok := wholeNumber(*req.Amount)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "amount must be a whole number")
		return
	}
	mode, err := domain.ParseContributionMode(req.Mode)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.store.AddItem(r.Context(), id, portfolio.ItemInput{
		FundID: req.FundID,
		Amount: amount,
		Mode:   mode,
	})
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, item)
}

// HandleUpdateItem changes amount, mode or allocation of an entry
func (h *Handler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemId")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var upd portfolio.ItemUpdate
	if req.Amount != nil {
		amount, ok := wholeNumber(*req.Amount)
		if !ok {
			h.writeError(w, http.StatusBadRequest, "amount must be a whole number")
			return
		}
		upd.Amount = &amount
	}
	if req.Allocation != nil {
		pct, ok := wholeNumber(*req.Allocation)
		if !ok {
			h.writeError(w, http.StatusBadRequest, "allocation must be a whole number")
			return
		}
		alloc := int(pct)
		upd.Allocation = &alloc
	}
	if req.Mode != nil {
		mode, err := domain.ParseContributionMode(*req.Mode)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		upd.Mode = &mode
	}

	item, err := h.store.UpdateItem(r.Context(), id, itemID, upd)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, item)
}

// HandleRemoveItem deletes one entry
func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "itemId")
	if !ok {
		return
	}

	if err := h.store.RemoveItem(r.Context(), id, itemID); err != nil {
		h.writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleClear deletes every entry of the portfolio
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.store.Clear(r.Context(), id); err != nil {
		h.writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleRebalance splits the allocation equally across entries
func (h *Handler) HandleRebalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.store.Rebalance(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

// HandleGetAllocation reports allocation progress and blended exposure
func (h *Handler) HandleGetAllocation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.store.GetPortfolio(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, AllocationResponse{
		Summary:         allocation.Summarize(p.Items),
		Diversification: diversification.Aggregate(p.Items),
	})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}

// maxWholeNumber bounds numeric inputs to values float64 holds exactly
const maxWholeNumber = 1 << 53

// wholeNumber converts v to int64 when it has no fractional part
func wholeNumber(v float64) (int64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, false
	}
	if math.Abs(v) > maxWholeNumber {
		return 0, false
	}
	return int64(v), true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPortfolioNotFound):
		h.writeError(w, http.StatusNotFound, "Portfolio not found")
	case errors.Is(err, domain.ErrItemNotFound):
		h.writeError(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, domain.ErrFundNotFound):
		h.writeError(w, http.StatusNotFound, "Fund not found")
	case errors.Is(err, domain.ErrInvalidEntry):
		h.writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Msg("Portfolio operation failed")
		h.writeError(w, http.StatusInternalServerError, "internal error")
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
