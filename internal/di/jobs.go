package di

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/atreyakamat/solara-mf/internal/config"
	"github.com/atreyakamat/solara-mf/internal/modules/portfolio"
	"github.com/atreyakamat/solara-mf/internal/reliability"
	"github.com/atreyakamat/solara-mf/internal/scheduler"
)

// RegisterJobs creates the background jobs and registers them with a new
// scheduler stored on the container. The scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	sched := scheduler.New(log)
	jobs := &JobInstances{}

	retention := time.Duration(cfg.Jobs.PortfolioRetentionDays) * 24 * time.Hour
	jobs.Cleanup = portfolio.NewCleanupJob(container.PortfolioRepo, retention, log)
	if err := sched.AddJob(cfg.Jobs.CleanupSchedule, jobs.Cleanup); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", jobs.Cleanup.Name(), err)
	}

	jobs.Maintenance = reliability.NewMaintenanceJob(container.DB, cfg.DataDir, log)
	if err := sched.AddJob(cfg.Jobs.MaintenanceSchedule, jobs.Maintenance); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", jobs.Maintenance.Name(), err)
	}

	if container.BackupService != nil {
		jobs.Backup = reliability.NewBackupJob(container.BackupService, cfg.Backup.RetentionDays, log)
		if err := sched.AddJob(cfg.Backup.Schedule, jobs.Backup); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", jobs.Backup.Name(), err)
		}
	}

	container.Scheduler = sched
	return jobs, nil
}
