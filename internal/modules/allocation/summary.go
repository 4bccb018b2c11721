package allocation

import (
	"fmt"

	"github.com/atreyakamat/solara-mf/internal/domain"
)

// ConcentrationThreshold is the allocation percent above which a single
// entry is flagged as concentrated
const ConcentrationThreshold = 40

// EntryShare is one entry's slice of the allocation
type EntryShare struct {
	FundName   string `json:"fundName"`
	EntryID    int64  `json:"entryId"`
	FundID     int64  `json:"fundId"`
	Allocation int    `json:"allocation"`
}

// Summary describes how far a portfolio is from being fully allocated
type Summary struct {
	Shares         []EntryShare `json:"shares"`
	Warnings       []string     `json:"warnings"`
	Total          int          `json:"total"`
	Remaining      int          `json:"remaining"`
	FullyAllocated bool         `json:"fullyAllocated"`
}

// Summarize reports the total, the remaining percentage and concentration
// warnings for entries. Remaining is negative when over-allocated.
func Summarize(entries []domain.PortfolioEntry) Summary {
	total := Total(entries)

	summary := Summary{
		Shares:         make([]EntryShare, 0, len(entries)),
		Warnings:       []string{},
		Total:          total,
		Remaining:      FullAllocation - total,
		FullyAllocated: len(entries) > 0 && total == FullAllocation,
	}

	for _, e := range entries {
		summary.Shares = append(summary.Shares, EntryShare{
			EntryID:    e.ID,
			FundID:     e.FundID,
			FundName:   e.Fund.Name,
			Allocation: e.Allocation,
		})
		if e.Allocation > ConcentrationThreshold {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf(
				"High concentration: %s is %d%% of the portfolio (above %d%%)",
				displayName(e), e.Allocation, ConcentrationThreshold,
			))
		}
	}

	return summary
}

func displayName(e domain.PortfolioEntry) string {
	if e.Fund.Name != "" {
		return e.Fund.Name
	}
	return fmt.Sprintf("fund %d", e.FundID)
}
