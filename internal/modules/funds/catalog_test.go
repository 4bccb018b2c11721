package funds

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	require.Len(t, catalog, 6)

	hdfc := catalog[0]
	assert.Equal(t, "HDFC Top 100 Fund", hdfc.Name)
	assert.Equal(t, "HDFC Mutual Fund", hdfc.AMC)
	assert.Equal(t, "Large Cap", hdfc.SubCategory)
	require.NotNil(t, hdfc.Return3Y)
	assert.Equal(t, 18.2, *hdfc.Return3Y)
	require.NotNil(t, hdfc.StdDev)
	assert.Equal(t, 12.5, *hdfc.StdDev)
	assert.Equal(t, 35.0, hdfc.Holdings.Sectors["Financial"])
	assert.Equal(t, 85.0, hdfc.Holdings.MarketCap["Large Cap"])

	kotak := catalog[5]
	assert.Equal(t, "Hybrid", kotak.Category)
	assert.Equal(t, "Medium", kotak.RiskLevel)
	assert.Equal(t, 85.0, kotak.Holdings.MarketCap["Debt"])
	assert.Equal(t, -0.45, catalog[1].NAVChange)
}

func TestParseCatalog_OptionalStatisticsStayNil(t *testing.T) {
	catalog, err := ParseCatalog([]byte(`
[[funds]]
name = "New Fund Offer"
amc = "Example AMC"
category = "Equity"
risk_level = "High"
`))
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Nil(t, catalog[0].Return3Y)
	assert.Nil(t, catalog[0].StdDev)
	assert.Nil(t, catalog[0].Holdings.Sectors)
}

func TestParseCatalog_Invalid(t *testing.T) {
	_, err := ParseCatalog([]byte(`[[funds]]
name = "No AMC"
category = "Equity"
risk_level = "High"
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFund))

	_, err = ParseCatalog([]byte(`funds = "not a table"`))
	assert.Error(t, err)
}

func TestLoadCatalog_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[funds]]
name = "Index Fund"
amc = "Example AMC"
category = "Equity"
risk_level = "Low"
rating = 3
return_3y = 11.0
`), 0644))

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog, 1)
	assert.Equal(t, "Index Fund", catalog[0].Name)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	embedded, err := LoadCatalog("")
	require.NoError(t, err)
	assert.Len(t, embedded, 6)
}
