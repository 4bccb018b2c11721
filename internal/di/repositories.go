package di

import (
	"github.com/rs/zerolog"

	"github.com/atreyakamat/solara-mf/internal/modules/funds"
	"github.com/atreyakamat/solara-mf/internal/modules/portfolio"
)

// InitializeRepositories creates the repositories over the container's database
func InitializeRepositories(container *Container, log zerolog.Logger) error {
	container.FundRepo = funds.NewRepository(container.DB.Conn(), log)
	container.PortfolioRepo = portfolio.NewRepository(container.DB.Conn(), log)
	return nil
}
