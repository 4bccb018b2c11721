package funds

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Seeder fills an empty catalog
type Seeder struct {
	repo        *Repository
	catalogPath string
	log         zerolog.Logger
}

// NewSeeder creates a seeder reading catalogPath, or the embedded catalog
// when catalogPath is empty
func NewSeeder(repo *Repository, catalogPath string, log zerolog.Logger) *Seeder {
	return &Seeder{
		repo:        repo,
		catalogPath: catalogPath,
		log:         log.With().Str("component", "fund_seeder").Logger(),
	}
}

// SeedIfEmpty inserts the catalog when the funds table has no rows and
// returns the number of funds inserted
func (s *Seeder) SeedIfEmpty(ctx context.Context) (int, error) {
	existing, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		s.log.Debug().Int("existing", existing).Msg("Catalog already seeded")
		return 0, nil
	}

	catalog, err := LoadCatalog(s.catalogPath)
	if err != nil {
		return 0, err
	}

	for i, fund := range catalog {
		if _, err := s.repo.Create(ctx, fund); err != nil {
			return i, fmt.Errorf("failed to seed fund %s: %w", fund.Name, err)
		}
	}

	source := s.catalogPath
	if source == "" {
		source = "embedded"
	}
	s.log.Info().Int("funds", len(catalog)).Str("source", source).Msg("Fund catalog seeded")
	return len(catalog), nil
}
