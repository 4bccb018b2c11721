// Package di provides dependency injection type definitions.
package di

import (
	"github.com/atreyakamat/solara-mf/internal/database"
	"github.com/atreyakamat/solara-mf/internal/modules/funds"
	"github.com/atreyakamat/solara-mf/internal/modules/portfolio"
	"github.com/atreyakamat/solara-mf/internal/modules/projection"
	"github.com/atreyakamat/solara-mf/internal/modules/simulation"
	"github.com/atreyakamat/solara-mf/internal/reliability"
	"github.com/atreyakamat/solara-mf/internal/scheduler"
)

// Container holds all dependencies for the application.
// It is created by Wire and is the single source of truth for service
// instances handed to the server.
type Container struct {
	// Databases
	DB *database.DB

	// Repositories
	FundRepo      *funds.Repository
	PortfolioRepo *portfolio.Repository

	// Services
	FundSeeder        *funds.Seeder
	Projector         *projection.Projector
	SimulationService *simulation.Service
	BackupService     *reliability.BackupService // nil when backups are disabled

	Scheduler *scheduler.Scheduler
}

// JobInstances holds the registered background jobs for manual triggering
type JobInstances struct {
	Cleanup     scheduler.Job
	Maintenance scheduler.Job
	Backup      scheduler.Job // nil when backups are disabled
}

// All returns the registered jobs keyed by name
func (j *JobInstances) All() map[string]scheduler.Job {
	jobs := make(map[string]scheduler.Job)
	for _, job := range []scheduler.Job{j.Cleanup, j.Maintenance, j.Backup} {
		if job != nil {
			jobs[job.Name()] = job
		}
	}
	return jobs
}

// Close releases the container's resources
func (c *Container) Close() error {
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
