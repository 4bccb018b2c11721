// Package allocation validates and rebalances the percentage split of a
// portfolio across its entries.
package allocation

import (
	"github.com/atreyakamat/solara-mf/internal/domain"
)

// FullAllocation is the only total a projectable portfolio may have
const FullAllocation = 100

// Total sums the allocation percentages of entries
func Total(entries []domain.PortfolioEntry) int {
	total := 0
	for _, e := range entries {
		total += e.Allocation
	}
	return total
}

// Validate checks that entries can be projected.
// Zero entries yields domain.ErrEmptyPortfolio; any total other than exactly
// 100 yields an *domain.AllocationError carrying the observed total.
func Validate(entries []domain.PortfolioEntry) error {
	if len(entries) == 0 {
		return domain.ErrEmptyPortfolio
	}
	if total := Total(entries); total != FullAllocation {
		return &domain.AllocationError{Total: total}
	}
	return nil
}

// EqualWeights splits 100 across n entries: each gets floor(100/n) and the
// remainder goes to the first. n <= 0 yields an empty slice.
func EqualWeights(n int) []int {
	if n <= 0 {
		return []int{}
	}

	weights := make([]int, n)
	share := FullAllocation / n
	for i := range weights {
		weights[i] = share
	}
	weights[0] += FullAllocation - share*n

	return weights
}

// Rebalance returns a copy of entries with equal-weight allocations applied
// in iteration order. The input slice is not modified.
func Rebalance(entries []domain.PortfolioEntry) []domain.PortfolioEntry {
	out := make([]domain.PortfolioEntry, len(entries))
	copy(out, entries)

	for i, w := range EqualWeights(len(out)) {
		out[i].Allocation = w
	}
	return out
}
