package di

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/atreyakamat/solara-mf/internal/config"
	"github.com/atreyakamat/solara-mf/internal/database"
)

// InitializeDatabases opens fundflow.db under the data directory and applies
// the schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	db, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "fundflow.db"),
		Profile: database.ProfileStandard,
		Name:    "fundflow",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize fundflow database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate fundflow database: %w", err)
	}
	container.DB = db

	log.Info().Str("path", db.Path()).Msg("Database initialized")
	return container, nil
}
