package server

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sync/singleflight"

	"github.com/atreyakamat/solara-mf/internal/database"
	"github.com/atreyakamat/solara-mf/internal/scheduler"
)

// SystemHandlers handles system status and job trigger requests
type SystemHandlers struct {
	db        *database.DB
	jobs      map[string]scheduler.Job
	dataDir   string
	startedAt time.Time
	log       zerolog.Logger

	// Concurrent status requests share one CPU sample
	statsGroup singleflight.Group

	mu      sync.Mutex
	lastRun map[string]JobInfo
}

// NewSystemHandlers creates system handlers. jobs maps job name to job.
func NewSystemHandlers(db *database.DB, jobs map[string]scheduler.Job, dataDir string, log zerolog.Logger) *SystemHandlers {
	return &SystemHandlers{
		db:        db,
		jobs:      jobs,
		dataDir:   dataDir,
		startedAt: time.Now(),
		log:       log.With().Str("handler", "system").Logger(),
		lastRun:   make(map[string]JobInfo),
	}
}

// SystemStatusResponse represents system status
type SystemStatusResponse struct {
	Status        string  `json:"status"` // "healthy" or "unhealthy"
	Error         string  `json:"error,omitempty"`
	GoVersion     string  `json:"go_version"`
	Uptime        string  `json:"uptime"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskFreeGB    float64 `json:"disk_free_gb,omitempty"`
	Goroutines    int     `json:"goroutines"`
	FundCount     int     `json:"fund_count"`
	Portfolios    int     `json:"portfolios"`
}

// DatabaseStatsResponse represents database statistics
type DatabaseStatsResponse struct {
	database.Stats
	Name        string  `json:"name"`
	Path        string  `json:"path"`
	SizeMB      float64 `json:"size_mb"`
	LastChecked string  `json:"last_checked"`
}

// JobInfo describes a registered job and its last manual run
type JobInfo struct {
	Name    string `json:"name"`
	LastRun string `json:"last_run,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// JobsStatusResponse lists registered jobs
type JobsStatusResponse struct {
	Jobs []JobInfo `json:"jobs"`
}

// HandleSystemStatus returns health, resource usage and record counts
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cpuPercent, memPercent := h.getSystemStats()
	response := SystemStatusResponse{
		Status:        "healthy",
		GoVersion:     runtime.Version(),
		Uptime:        time.Since(h.startedAt).Round(time.Second).String(),
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		Goroutines:    runtime.NumGoroutine(),
	}
	if h.dataDir != "" {
		if usage, err := disk.Usage(h.dataDir); err == nil {
			response.DiskFreeGB = float64(usage.Free) / 1e9
		}
	}

	if err := h.db.HealthCheck(ctx); err != nil {
		h.log.Error().Err(err).Msg("Database health check failed")
		response.Status = "unhealthy"
		response.Error = err.Error()
		h.writeJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	if err := h.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM funds").Scan(&response.FundCount); err != nil {
		h.log.Warn().Err(err).Msg("Failed to count funds")
	}
	if err := h.db.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM portfolios").Scan(&response.Portfolios); err != nil {
		h.log.Warn().Err(err).Msg("Failed to count portfolios")
	}

	h.writeJSON(w, http.StatusOK, response)
}

// HandleDatabaseStats returns size and page statistics of the database
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.GetStats(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get database stats"})
		return
	}

	h.writeJSON(w, http.StatusOK, DatabaseStatsResponse{
		Stats:       *stats,
		Name:        h.db.Name(),
		Path:        h.db.Path(),
		SizeMB:      float64(stats.SizeBytes+stats.WALSizeBytes) / 1024 / 1024,
		LastChecked: time.Now().Format(time.RFC3339),
	})
}

// HandleJobsStatus lists registered jobs sorted by name
func (h *SystemHandlers) HandleJobsStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	infos := make([]JobInfo, 0, len(h.jobs))
	for name := range h.jobs {
		info, ok := h.lastRun[name]
		if !ok {
			info = JobInfo{Name: name}
		}
		infos = append(infos, info)
	}
	h.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	h.writeJSON(w, http.StatusOK, JobsStatusResponse{Jobs: infos})
}

// HandleTriggerJob runs a registered job immediately
// POST /api/system/jobs/{name}
func (h *SystemHandlers) HandleTriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	job, ok := h.jobs[name]
	if !ok {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not registered: " + name})
		return
	}

	h.log.Info().Str("job", name).Msg("Manual job run triggered")
	err := job.Run()

	info := JobInfo{Name: name, LastRun: time.Now().Format(time.RFC3339), Success: err == nil}
	if err != nil {
		info.Error = err.Error()
	}
	h.mu.Lock()
	h.lastRun[name] = info
	h.mu.Unlock()

	if err != nil {
		h.log.Error().Err(err).Str("job", name).Msg("Manual job run failed")
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": err.Error()})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": name + " completed"})
}

type systemStats struct {
	cpuPercent float64
	memPercent float64
}

func (h *SystemHandlers) getSystemStats() (float64, float64) {
	v, _, _ := h.statsGroup.Do("system_stats", func() (interface{}, error) {
		cpuPercent, memPercent := h.sampleSystemStats()
		return systemStats{cpuPercent: cpuPercent, memPercent: memPercent}, nil
	})
	stats := v.(systemStats)
	return stats.cpuPercent, stats.memPercent
}

// sampleSystemStats calculates CPU and RAM usage percentages.
// CPU is sampled over 100ms to keep the endpoint responsive.
func (h *SystemHandlers) sampleSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}

func (h *SystemHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
