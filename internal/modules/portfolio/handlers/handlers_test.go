package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atreyakamat/solara-mf/internal/domain"
	"github.com/atreyakamat/solara-mf/internal/modules/funds"
	"github.com/atreyakamat/solara-mf/internal/modules/portfolio"
	testingpkg "github.com/atreyakamat/solara-mf/internal/testing"
)

func newRouter(t *testing.T) *chi.Mux {
	t.Helper()
	db, cleanup := testingpkg.NewTestDB(t, "fundflow")
	t.Cleanup(cleanup)

	fundRepo := funds.NewRepository(db.Conn(), zerolog.Nop())
	_, err := funds.NewSeeder(fundRepo, "", zerolog.Nop()).SeedIfEmpty(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(portfolio.NewRepository(db.Conn(), zerolog.Nop()), zerolog.Nop()).RegisterRoutes(r)
	return r
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func createPortfolio(t *testing.T, router http.Handler) domain.Portfolio {
	t.Helper()
	rec := do(router, http.MethodPost, "/portfolios", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	return decode[domain.Portfolio](t, rec)
}

func TestRegisterRoutes(t *testing.T) {
	router := newRouter(t)

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/portfolios"},
		{"GET", "/portfolios/1"},
		{"GET", "/portfolios/1/allocation"},
		{"POST", "/portfolios/1/rebalance"},
		{"POST", "/portfolios/1/items"},
		{"DELETE", "/portfolios/1/items"},
		{"PATCH", "/portfolios/1/items/1"},
		{"DELETE", "/portfolios/1/items/1"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := do(router, tc.method, tc.path, "{}")
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
			if rec.Code == http.StatusNotFound {
				// Domain 404s carry a JSON body, unrouted paths do not
				assert.Contains(t, rec.Body.String(), "error")
			}
		})
	}
}

func TestHandleCreatePortfolio(t *testing.T) {
	router := newRouter(t)

	p := createPortfolio(t, router)
	assert.Equal(t, domain.DefaultPortfolioName, p.Name)
	assert.Equal(t, int64(1), p.Revision)

	rec := do(router, http.MethodPost, "/portfolios", `{"name":"Retirement"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Retirement", decode[domain.Portfolio](t, rec).Name)

	rec = do(router, http.MethodPost, "/portfolios", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetPortfolio(t *testing.T) {
	router := newRouter(t)
	p := createPortfolio(t, router)

	rec := do(router, http.MethodGet, "/portfolios/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, p.ID, decode[domain.Portfolio](t, rec).ID)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/portfolios/77", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/portfolios/x", "").Code)
}

func TestHandleAddItem(t *testing.T) {
	router := newRouter(t)
	createPortfolio(t, router)

	rec := do(router, http.MethodPost, "/portfolios/1/items", `{"fundId":2,"amount":5000,"mode":"sip"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decode[domain.PortfolioEntry](t, rec)
	assert.Equal(t, domain.ModeRecurring, item.Mode)
	assert.Equal(t, int64(5000), item.Amount)
	assert.Equal(t, 0, item.Allocation)
	assert.Equal(t, "Parag Parikh Flexi Cap Fund", item.Fund.Name)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"fractional amount", `{"fundId":2,"amount":10.5,"mode":"SIP"}`, http.StatusBadRequest},
		{"missing amount", `{"fundId":2,"mode":"SIP"}`, http.StatusBadRequest},
		{"zero amount", `{"fundId":2,"amount":0,"mode":"SIP"}`, http.StatusBadRequest},
		{"bad mode", `{"fundId":2,"amount":10,"mode":"WEEKLY"}`, http.StatusBadRequest},
		{"missing fund", `{"amount":10,"mode":"SIP"}`, http.StatusBadRequest},
		{"unknown fund", `{"fundId":99,"amount":10,"mode":"SIP"}`, http.StatusNotFound},
		{"malformed", `{"fundId":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, do(router, http.MethodPost, "/portfolios/1/items", tt.body).Code)
		})
	}

	rec = do(router, http.MethodPost, "/portfolios/9/items", `{"fundId":2,"amount":10,"mode":"SIP"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleUpdateAndRemoveItem(t *testing.T) {
	router := newRouter(t)
	createPortfolio(t, router)
	rec := do(router, http.MethodPost, "/portfolios/1/items", `{"fundId":1,"amount":1000,"mode":"SIP"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	item := decode[domain.PortfolioEntry](t, rec)

	path := "/portfolios/1/items/" + strconv.FormatInt(item.ID, 10)
	rec = do(router, http.MethodPatch, path, `{"allocation":100,"mode":"LUMPSUM","amount":200000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[domain.PortfolioEntry](t, rec)
	assert.Equal(t, 100, updated.Allocation)
	assert.Equal(t, domain.ModeOneTime, updated.Mode)
	assert.Equal(t, int64(200000), updated.Amount)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPatch, path, `{"allocation":120}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPatch, path, `{"allocation":33.3}`).Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPatch, "/portfolios/1/items/50", `{"allocation":1}`).Code)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, path, "").Code)
}

func TestHandleRebalanceAllocationAndClear(t *testing.T) {
	router := newRouter(t)
	createPortfolio(t, router)
	for _, body := range []string{
		`{"fundId":1,"amount":1000,"mode":"SIP"}`,
		`{"fundId":3,"amount":1000,"mode":"SIP"}`,
		`{"fundId":4,"amount":1000,"mode":"SIP"}`,
	} {
		require.Equal(t, http.StatusCreated, do(router, http.MethodPost, "/portfolios/1/items", body).Code)
	}

	rec := do(router, http.MethodGet, "/portfolios/1/allocation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	before := decode[AllocationResponse](t, rec)
	assert.Equal(t, 0, before.Total)
	assert.Equal(t, 100, before.Remaining)
	assert.False(t, before.FullyAllocated)
	assert.Empty(t, before.Diversification.Sectors)

	rec = do(router, http.MethodPost, "/portfolios/1/rebalance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[domain.Portfolio](t, rec)
	require.Len(t, p.Items, 3)
	assert.Equal(t, []int{34, 33, 33}, []int{p.Items[0].Allocation, p.Items[1].Allocation, p.Items[2].Allocation})

	rec = do(router, http.MethodGet, "/portfolios/1/allocation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	after := decode[AllocationResponse](t, rec)
	assert.True(t, after.FullyAllocated)
	assert.Equal(t, 100, after.Total)
	assert.NotEmpty(t, after.Diversification.Sectors)
	assert.NotEmpty(t, after.Diversification.MarketCap)

	assert.Equal(t, http.StatusNoContent, do(router, http.MethodDelete, "/portfolios/1/items", "").Code)
	rec = do(router, http.MethodGet, "/portfolios/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[domain.Portfolio](t, rec).Items)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodPost, "/portfolios/5/rebalance", "").Code)
	assert.Equal(t, http.StatusNotFound, do(router, http.MethodDelete, "/portfolios/5/items", "").Code)
}

func TestWholeNumber(t *testing.T) {
	v, ok := wholeNumber(5000)
	assert.True(t, ok)
	assert.Equal(t, int64(5000), v)

	_, ok = wholeNumber(0.5)
	assert.False(t, ok)
	_, ok = wholeNumber(1e300)
	assert.False(t, ok)
}
