package portfolio

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// StaleDeleter removes empty portfolios created before a cutoff
type StaleDeleter interface {
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// CleanupJob removes portfolios that never received an entry.
// It should be scheduled to run daily.
type CleanupJob struct {
	repo      StaleDeleter
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewCleanupJob creates a cleanup job deleting empty portfolios older than
// retention
func NewCleanupJob(repo StaleDeleter, retention time.Duration, log zerolog.Logger) *CleanupJob {
	return &CleanupJob{
		repo:      repo,
		retention: retention,
		now:       time.Now,
		log:       log.With().Str("job", "portfolio_cleanup").Logger(),
	}
}

// Run executes the cleanup. A non-positive retention disables it.
func (j *CleanupJob) Run() error {
	if j.retention <= 0 {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	deleted, err := j.repo.DeleteStale(context.Background(), cutoff)
	if err != nil {
		j.log.Error().Err(err).Msg("Failed to delete stale portfolios")
		return err
	}

	if deleted > 0 {
		j.log.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Stale portfolios removed")
	}

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "portfolio_cleanup"
}
