package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atreyakamat/solara-mf/internal/scheduler"
	testingpkg "github.com/atreyakamat/solara-mf/internal/testing"
)

type stubJob struct {
	name string
	err  error
	runs int
}

func (j *stubJob) Run() error {
	j.runs++
	return j.err
}

func (j *stubJob) Name() string { return j.name }

func TestSystemHandlers_Status(t *testing.T) {
	s := newTestServer(t)

	rec := request(s, http.MethodGet, "/api/system/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status SystemStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 6, status.FundCount)
	assert.Equal(t, 0, status.Portfolios)
	assert.NotEmpty(t, status.GoVersion)
	assert.Positive(t, status.Goroutines)
}

func TestSystemHandlers_StatusUnhealthy(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "fundflow")
	defer cleanup()
	require.NoError(t, db.Close())

	h := NewSystemHandlers(db, nil, "", zerolog.Nop())
	r := chi.NewRouter()
	r.Get("/status", h.HandleSystemStatus)

	rec := serve(r, http.MethodGet, "/status")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "unhealthy")
}

func TestSystemHandlers_DatabaseStats(t *testing.T) {
	s := newTestServer(t)

	rec := request(s, http.MethodGet, "/api/system/database/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats DatabaseStatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Equal(t, "fundflow", stats.Name)
	assert.Positive(t, stats.PageCount)
	assert.Positive(t, stats.PageSize)
}

func TestSystemHandlers_Jobs(t *testing.T) {
	ok := &stubJob{name: "ok_job"}
	failing := &stubJob{name: "failing_job", err: errors.New("disk full")}

	db, cleanup := testingpkg.NewTestDB(t, "fundflow")
	defer cleanup()
	h := NewSystemHandlers(db, map[string]scheduler.Job{ok.name: ok, failing.name: failing}, "", zerolog.Nop())

	r := chi.NewRouter()
	r.Get("/jobs", h.HandleJobsStatus)
	r.Post("/jobs/{name}", h.HandleTriggerJob)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodPost, "/jobs/ok_job").Code)
	assert.Equal(t, 1, ok.runs)

	rec := serve(r, http.MethodPost, "/jobs/failing_job")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "disk full")

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodPost, "/jobs/missing").Code)

	rec = serve(r, http.MethodGet, "/jobs")
	require.Equal(t, http.StatusOK, rec.Code)
	var status JobsStatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	require.Len(t, status.Jobs, 2)
	assert.Equal(t, "failing_job", status.Jobs[0].Name)
	assert.False(t, status.Jobs[0].Success)
	assert.Equal(t, "disk full", status.Jobs[0].Error)
	assert.Equal(t, "ok_job", status.Jobs[1].Name)
	assert.True(t, status.Jobs[1].Success)
	assert.NotEmpty(t, status.Jobs[1].LastRun)
}

func TestSystemHandlers_TriggerRegisteredJob(t *testing.T) {
	s := newTestServer(t)

	rec := request(s, http.MethodPost, "/api/system/jobs/portfolio_cleanup", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portfolio_cleanup completed")
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
