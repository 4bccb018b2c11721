package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/atreyakamat/solara-mf/internal/database"
)

const (
	// DefaultMinFreeBytes halts maintenance when the data volume has less free space
	DefaultMinFreeBytes = 500 * 1024 * 1024
	lowFreeBytes        = 5 * 1024 * 1024 * 1024
)

// MaintenanceJob performs daily database maintenance: integrity check,
// WAL checkpoint and a disk space check of the data directory
type MaintenanceJob struct {
	db           *database.DB
	dataDir      string
	minFreeBytes uint64
	log          zerolog.Logger
}

// NewMaintenanceJob creates a maintenance job for db
func NewMaintenanceJob(db *database.DB, dataDir string, log zerolog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		db:           db,
		dataDir:      dataDir,
		minFreeBytes: DefaultMinFreeBytes,
		log:          log.With().Str("job", "database_maintenance").Logger(),
	}
}

// Run executes the maintenance
func (j *MaintenanceJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	startTime := time.Now()

	if err := j.db.HealthCheck(ctx); err != nil {
		j.log.Error().Err(err).Str("database", j.db.Name()).Msg("Database integrity check failed")
		return err
	}

	var busy, walFrames, checkpointed int
	err := j.db.Conn().QueryRowContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)").Scan(&busy, &walFrames, &checkpointed)
	if err != nil {
		// Not critical, the next run retries
		j.log.Warn().Err(err).Str("database", j.db.Name()).Msg("WAL checkpoint failed")
	} else if busy != 0 {
		j.log.Warn().Str("database", j.db.Name()).Int("wal_frames", walFrames).Msg("WAL checkpoint could not complete")
	}

	if err := j.checkDiskSpace(); err != nil {
		return err
	}

	j.log.Info().
		Dur("duration_ms", time.Since(startTime)).
		Msg("Database maintenance completed")

	return nil
}

// Name returns the job name for scheduling and logging.
func (j *MaintenanceJob) Name() string {
	return "database_maintenance"
}

func (j *MaintenanceJob) checkDiskSpace() error {
	usage, err := disk.Usage(j.dataDir)
	if err != nil {
		return fmt.Errorf("failed to read disk usage of %s: %w", j.dataDir, err)
	}

	availableGB := float64(usage.Free) / 1e9
	j.log.Debug().Float64("available_gb", availableGB).Msg("Disk space check")

	if usage.Free < j.minFreeBytes {
		j.log.Error().Float64("available_gb", availableGB).Msg("Insufficient disk space")
		return fmt.Errorf("only %.2f GB free on %s", availableGB, j.dataDir)
	}
	if usage.Free < lowFreeBytes {
		j.log.Warn().Float64("available_gb", availableGB).Msg("Disk space running low")
	}

	return nil
}
