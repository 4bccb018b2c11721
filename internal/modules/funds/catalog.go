package funds

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/atreyakamat/solara-mf/internal/domain"
)

//go:embed catalog/default_catalog.toml
var defaultCatalog []byte

// catalogFile is the on-disk shape of a fund catalog
type catalogFile struct {
	Funds []catalogFund `toml:"funds"`
}

type catalogHoldings struct {
	Sectors   map[string]float64 `toml:"sectors"`
	MarketCap map[string]float64 `toml:"market_cap"`
}

type catalogFund struct {
	Alpha    *float64 `toml:"alpha"`
	Beta     *float64 `toml:"beta"`
	Sharpe   *float64 `toml:"sharpe"`
	Sortino  *float64 `toml:"sortino"`
	Return1Y *float64 `toml:"return_1y"`
	Return3Y *float64 `toml:"return_3y"`
	Return5Y *float64 `toml:"return_5y"`
	StdDev   *float64 `toml:"std_dev"`

	Holdings catalogHoldings `toml:"holdings"`

	Name        string `toml:"name"`
	AMC         string `toml:"amc"`
	Category    string `toml:"category"`
	SubCategory string `toml:"sub_category"`
	RiskLevel   string `toml:"risk_level"`
	ExitLoad    string `toml:"exit_load"`
	FundManager string `toml:"fund_manager"`
	Benchmark   string `toml:"benchmark"`

	NAV          float64 `toml:"nav"`
	NAVChange    float64 `toml:"nav_change"`
	ExpenseRatio float64 `toml:"expense_ratio"`
	AUM          float64 `toml:"aum"`
	MinSIP       int64   `toml:"min_sip"`
	Rating       int     `toml:"rating"`
}

// DefaultCatalog returns the funds of the embedded seed catalog
func DefaultCatalog() ([]domain.Fund, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a TOML catalog from path. An empty path selects the
// embedded catalog.
func LoadCatalog(path string) ([]domain.Fund, error) {
	if path == "" {
		return DefaultCatalog()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a TOML catalog
func ParseCatalog(data []byte) ([]domain.Fund, error) {
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	funds := make([]domain.Fund, 0, len(file.Funds))
	for i, cf := range file.Funds {
		fund := cf.toDomain()
		if err := Validate(fund); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i+1, err)
		}
		funds = append(funds, fund)
	}
	return funds, nil
}

func (cf catalogFund) toDomain() domain.Fund {
	return domain.Fund{
		Name:         strings.TrimSpace(cf.Name),
		AMC:          strings.TrimSpace(cf.AMC),
		Category:     cf.Category,
		SubCategory:  cf.SubCategory,
		RiskLevel:    cf.RiskLevel,
		Rating:       cf.Rating,
		NAV:          cf.NAV,
		NAVChange:    cf.NAVChange,
		MinSIP:       cf.MinSIP,
		ExpenseRatio: cf.ExpenseRatio,
		ExitLoad:     cf.ExitLoad,
		AUM:          cf.AUM,
		FundManager:  cf.FundManager,
		Alpha:        cf.Alpha,
		Beta:         cf.Beta,
		Sharpe:       cf.Sharpe,
		Sortino:      cf.Sortino,
		Benchmark:    cf.Benchmark,
		FundStatistics: domain.FundStatistics{
			Return1Y: cf.Return1Y,
			Return3Y: cf.Return3Y,
			Return5Y: cf.Return5Y,
			StdDev:   cf.StdDev,
			Holdings: domain.Holdings{
				Sectors:   cf.Holdings.Sectors,
				MarketCap: cf.Holdings.MarketCap,
			},
		},
	}
}

// Validate checks the fields a catalog fund must carry
func Validate(f domain.Fund) error {
	switch {
	case f.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidFund)
	case f.AMC == "":
		return fmt.Errorf("%w: amc is required for %s", ErrInvalidFund, f.Name)
	case f.Category == "":
		return fmt.Errorf("%w: category is required for %s", ErrInvalidFund, f.Name)
	case f.RiskLevel == "":
		return fmt.Errorf("%w: risk level is required for %s", ErrInvalidFund, f.Name)
	case f.Rating < 0 || f.Rating > 5:
		return fmt.Errorf("%w: rating %d out of range for %s", ErrInvalidFund, f.Rating, f.Name)
	case f.StdDev != nil && *f.StdDev < 0:
		return fmt.Errorf("%w: negative standard deviation for %s", ErrInvalidFund, f.Name)
	}
	return nil
}
