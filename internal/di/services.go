package di

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/atreyakamat/solara-mf/internal/config"
	"github.com/atreyakamat/solara-mf/internal/modules/funds"
	"github.com/atreyakamat/solara-mf/internal/modules/projection"
	"github.com/atreyakamat/solara-mf/internal/modules/simulation"
	"github.com/atreyakamat/solara-mf/internal/reliability"
)

// InitializeServices creates the services. Repositories must be initialized.
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	container.FundSeeder = funds.NewSeeder(container.FundRepo, cfg.CatalogFile, log)

	container.Projector = projection.NewProjector(nil)
	container.SimulationService = simulation.NewService(container.PortfolioRepo, container.Projector)

	if cfg.Backup.Enabled() {
		client, err := reliability.NewS3Client(ctx, cfg.Backup.ToS3Config(), log)
		if err != nil {
			return fmt.Errorf("failed to create backup client: %w", err)
		}
		container.BackupService = reliability.NewBackupService(
			container.DB,
			client,
			cfg.Backup.Prefix,
			filepath.Join(cfg.DataDir, "backup-staging"),
			log,
		)
		log.Info().Str("bucket", cfg.Backup.Bucket).Msg("Backups enabled")
	} else {
		log.Info().Msg("Backups disabled, no bucket configured")
	}

	return nil
}
