package testing

import (
	"github.com/atreyakamat/solara-mf/internal/domain"
)

// NewFundFixtures returns two small funds with disjoint sector maps
func NewFundFixtures() []domain.Fund {
	return []domain.Fund{
		NewFund(1, "Tech Growth Fund", 30, 20, 10, map[string]float64{"IT": 100}),
		NewFund(2, "Banking Value Fund", 20, 12, 8, map[string]float64{"Banking": 100}),
	}
}

// NewFund builds a fund with the given 1y/3y returns, standard deviation and
// sector map. Market cap is all large cap.
func NewFund(id int64, name string, return1y, return3y, stdDev float64, sectors map[string]float64) domain.Fund {
	return domain.Fund{
		Name:      name,
		AMC:       "Test AMC",
		Category:  "Equity",
		RiskLevel: "High",
		Rating:    4,
		NAV:       100,
		MinSIP:    500,
		FundStatistics: domain.FundStatistics{
			ID:       id,
			Return1Y: domain.FloatPtr(return1y),
			Return3Y: domain.FloatPtr(return3y),
			Return5Y: domain.FloatPtr(return3y),
			StdDev:   domain.FloatPtr(stdDev),
			Holdings: domain.Holdings{
				Sectors:   sectors,
				MarketCap: map[string]float64{"Large Cap": 100},
			},
		},
	}
}

// NewEntry builds a portfolio entry for fund
func NewEntry(id int64, fund domain.Fund, amount int64, mode domain.ContributionMode, allocation int) domain.PortfolioEntry {
	return domain.PortfolioEntry{
		ID:         id,
		FundID:     fund.ID,
		Fund:       fund,
		Amount:     amount,
		Mode:       mode,
		Allocation: allocation,
	}
}

// NewPortfolio wraps entries in a portfolio with the given id
func NewPortfolio(id int64, entries ...domain.PortfolioEntry) *domain.Portfolio {
	for i := range entries {
		entries[i].PortfolioID = id
	}
	return &domain.Portfolio{
		ID:       id,
		Name:     domain.DefaultPortfolioName,
		Revision: 1,
		Items:    entries,
	}
}
