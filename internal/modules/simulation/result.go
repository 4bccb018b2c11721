package simulation

import (
	"time"

	"github.com/atreyakamat/solara-mf/internal/modules/diversification"
)

// YearSnapshot is the whole-portfolio position after Year years.
// Currency figures are rounded to whole units.
type YearSnapshot struct {
	Year     int   `json:"year"`
	Value    int64 `json:"value"`
	Invested int64 `json:"invested"`
}

// ShortTerm holds the 3- and 6-month return estimates as two-decimal
// percentage strings
type ShortTerm struct {
	M3 string `json:"m3"`
	M6 string `json:"m6"`
}

// Blended holds allocation-weighted fund statistics in percent
type Blended struct {
	Return1Y float64 `json:"return1y"`
	Return3Y float64 `json:"return3y"`
	Return5Y float64 `json:"return5y"`
	StdDev   float64 `json:"stdDev"`
}

// Result is the outcome of one run. It is never cached: a re-run of the
// same inputs draws new noise.
type Result struct {
	GeneratedAt       time.Time                 `json:"generatedAt"`
	Diversification   diversification.Breakdown `json:"diversification"`
	ShortTerm         ShortTerm                 `json:"shortTerm"`
	RunID             string                    `json:"runId"`
	YearlyData        []YearSnapshot            `json:"yearlyData"`
	Blended           Blended                   `json:"blended"`
	PortfolioID       int64                     `json:"portfolioId"`
	PortfolioRevision int64                     `json:"portfolioRevision"`
	HorizonYears      int                       `json:"horizonYears"`
	ProjectedValue    int64                     `json:"projectedValue"`
	InvestedAmount    int64                     `json:"investedAmount"`
	TotalReturns      int64                     `json:"totalReturns"`
	CAGR              float64                   `json:"cagr"`
}
