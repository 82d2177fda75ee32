package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	codes := map[string]bool{}
	for _, c := range cat.Currencies {
		codes[c.Code] = true
		assert.Equal(t, int32(2), c.Exponent, c.Code)
	}
	assert.True(t, codes["EUR"])
	assert.True(t, codes["USD"])

	types := map[string]bool{}
	for _, at := range cat.AccountTypes {
		types[at.Code] = true
	}
	for _, code := range []string{
		domain.AccountTypeChecking, domain.AccountTypeSavings, domain.AccountTypeBrokerage,
		domain.AccountTypeOperating, domain.AccountTypeClearing,
	} {
		assert.True(t, types[code], "missing account type %s", code)
	}

	names := map[string]domain.Section{}
	for _, c := range cat.Categories {
		names[c.Name] = c.Section
	}
	assert.Equal(t, domain.SectionIncome, names[domain.CategorySalary])
	assert.Equal(t, domain.SectionExpense, names[domain.CategoryPayroll])
	assert.Equal(t, domain.SectionTax, names[domain.CategoryWageTaxWithheld])
	assert.Equal(t, domain.SectionInvestment, names[domain.CategorySecuritiesTrading])
	assert.Contains(t, names, domain.CategoryBrokerFees)
	assert.Contains(t, names, domain.CategoryFXRounding)

	symbols := map[string]bool{}
	for _, i := range cat.Instruments {
		symbols[i.Symbol] = true
	}
	for _, p := range cat.Prices {
		assert.True(t, symbols[p.InstrumentID], "price for unknown symbol %s", p.InstrumentID)
		assert.True(t, p.Close.IsPositive())
	}
	require.NotEmpty(t, cat.FxRates)
	assert.Equal(t, "USD", cat.FxRates[0].Base)
	assert.Equal(t, "0.9376", cat.FxRates[0].Rate.String())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `
currencies:
  - { code: JPY, name: Yen, exponent: 0 }
categories:
  - { name: Salary, section: Income }
instruments:
  - { symbol: SONY, name: Sony, type: equity, mic: XTKS, currency: JPY }
prices:
  - { instrument: SONY, date: 2024-01-05, close: "13215" }
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cat.Currencies, 1)
	assert.Equal(t, int32(0), cat.Currencies[0].Exponent)
	assert.Equal(t, domain.SectionIncome, cat.Categories[0].Section)
	assert.Equal(t, domain.InstrumentEquity, cat.Instruments[0].Type)
	require.Len(t, cat.Prices, 1)
	assert.Equal(t, 2024, cat.Prices[0].Date.Year())
	assert.Equal(t, "13215", cat.Prices[0].Close.String())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "currencies: [\n"},
		{"bad date", "prices:\n  - { instrument: X, date: 05/01/2024, close: \"1\" }\n"},
		{"bad decimal", "fx_rates:\n  - { base: USD, quote: EUR, date: 2024-01-05, rate: abc }\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFileEmptyPathUsesDefault(t *testing.T) {
	cat, err := LoadFile("")
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Instruments)
}
