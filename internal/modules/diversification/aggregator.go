// Package diversification blends fund holdings into portfolio-level sector
// and market-cap exposure.
package diversification

import (
	"sort"

	"github.com/atreyakamat/solara-mf/internal/domain"
)

// Breakdown maps category name to allocation-weighted percent.
// Values are not normalized: when fund weights do not sum to 100 the
// categories will not either.
type Breakdown struct {
	Sectors   map[string]float64 `json:"sectors"`
	MarketCap map[string]float64 `json:"marketCap"`
}

// Aggregate adds weight * allocation / 100 for every category of every
// entry with a non-zero allocation. Missing maps contribute nothing.
func Aggregate(entries []domain.PortfolioEntry) Breakdown {
	b := Breakdown{
		Sectors:   make(map[string]float64),
		MarketCap: make(map[string]float64),
	}

	for _, e := range entries {
		if e.Allocation == 0 {
			continue
		}
		share := float64(e.Allocation) / 100
		accumulate(b.Sectors, e.Fund.Holdings.Sectors, share)
		accumulate(b.MarketCap, e.Fund.Holdings.MarketCap, share)
	}

	return b
}

func accumulate(dst, weights map[string]float64, share float64) {
	for category, weight := range weights {
		dst[category] += weight * share
	}
}

// Exposure is one category with its blended weight
type Exposure struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Ranked orders a category map by weight, largest first, ties by name
func Ranked(weights map[string]float64) []Exposure {
	out := make([]Exposure, 0, len(weights))
	for name, w := range weights {
		out = append(out, Exposure{Name: name, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Name < out[j].Name
	})
	return out
}
