// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// ContributionMode describes how money enters a fund
type ContributionMode string

const (
	// ModeRecurring is a fixed monthly contribution (SIP)
	ModeRecurring ContributionMode = "SIP"
	// ModeOneTime is a single deposit at the start of the horizon
	ModeOneTime ContributionMode = "LUMPSUM"
)

// ParseContributionMode accepts the wire names (SIP, LUMPSUM) and their
// descriptive aliases (RECURRING, ONE_TIME), case-insensitively.
func ParseContributionMode(s string) (ContributionMode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SIP", "RECURRING":
		return ModeRecurring, nil
	case "LUMPSUM", "LUMP_SUM", "ONE_TIME":
		return ModeOneTime, nil
	}
	return "", fmt.Errorf("%w: unknown contribution mode %q", ErrInvalidEntry, s)
}

// Valid reports whether m is one of the known modes
func (m ContributionMode) Valid() bool {
	return m == ModeRecurring || m == ModeOneTime
}

// Holdings maps category name to weight percent. Weights are descriptive and
// not guaranteed to sum to 100.
type Holdings struct {
	Sectors   map[string]float64 `json:"sectors"`
	MarketCap map[string]float64 `json:"marketCap"`
}

// FundStatistics is the subset of a fund the projection engine reads.
// Nullable figures stay nil when the catalog has no value for them.
type FundStatistics struct {
	Return1Y *float64 `json:"return1y"`
	Return3Y *float64 `json:"return3y"`
	Return5Y *float64 `json:"return5y"`
	StdDev   *float64 `json:"stdDev"`
	Holdings Holdings `json:"holdings"`
	ID       int64    `json:"id"`
}

// Fund is a catalog entry
type Fund struct {
	FundStatistics

	Alpha        *float64 `json:"alpha"`
	Beta         *float64 `json:"beta"`
	Sharpe       *float64 `json:"sharpe"`
	Sortino      *float64 `json:"sortino"`
	Name         string   `json:"name"`
	AMC          string   `json:"amc"`
	Category     string   `json:"category"`
	SubCategory  string   `json:"subCategory"`
	RiskLevel    string   `json:"riskLevel"`
	ExitLoad     string   `json:"exitLoad"`
	FundManager  string   `json:"fundManager"`
	Benchmark    string   `json:"benchmark"`
	NAV          float64  `json:"nav"`
	NAVChange    float64  `json:"navChange"`
	ExpenseRatio float64  `json:"expenseRatio"`
	AUM          float64  `json:"aum"`
	MinSIP       int64    `json:"minSip"`
	Rating       int      `json:"rating"`
}

// PortfolioEntry is one fund position inside a portfolio.
// Amount is in whole currency units: the monthly contribution for SIP
// entries, the deposit for LUMPSUM entries. Allocation is a percent in
// [0,100]; an entry at 0 is kept but contributes nothing.
type PortfolioEntry struct {
	Mode        ContributionMode `json:"mode"`
	Fund        Fund             `json:"fund"`
	ID          int64            `json:"id"`
	PortfolioID int64            `json:"portfolioId"`
	FundID      int64            `json:"fundId"`
	Amount      int64            `json:"amount"`
	Allocation  int              `json:"allocation"`
}

// Portfolio is a named, ordered set of entries. Revision increases on every
// mutation of the portfolio or its entries.
type Portfolio struct {
	CreatedAt time.Time        `json:"createdAt"`
	Name      string           `json:"name"`
	Items     []PortfolioEntry `json:"items"`
	ID        int64            `json:"id"`
	Revision  int64            `json:"revision"`
}

// DefaultPortfolioName is used when a portfolio is created without a name
const DefaultPortfolioName = "My Portfolio"

// FloatPtr returns a pointer to v
func FloatPtr(v float64) *float64 {
	return &v
}

// FloatOr dereferences p, falling back to def when p is nil
func FloatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
