// Package refdata reads the reference catalog (currencies, categories,
// instruments, seed prices) from YAML.
package refdata

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

const dateLayout = "2006-01-02"

type catalogFile struct {
	Currencies   []currencyRow    `yaml:"currencies"`
	AccountTypes []accountTypeRow `yaml:"account_types"`
	Markets      []marketRow      `yaml:"markets"`
	Categories   []categoryRow    `yaml:"categories"`
	Channels     []channelRow     `yaml:"channels"`
	Instruments  []instrumentRow  `yaml:"instruments"`
	Prices       []priceRow       `yaml:"prices"`
	FxRates      []fxRateRow      `yaml:"fx_rates"`
}

type currencyRow struct {
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Exponent int32  `yaml:"exponent"`
}

type accountTypeRow struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
	IsCash      bool   `yaml:"is_cash"`
	IsBrokerage bool   `yaml:"is_brokerage"`
}

type marketRow struct {
	MIC      string `yaml:"mic"`
	Name     string `yaml:"name"`
	Country  string `yaml:"country"`
	Currency string `yaml:"currency"`
}

type categoryRow struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Section string `yaml:"section"`
}

type channelRow struct {
	Code        string `yaml:"code"`
	Description string `yaml:"description"`
}

type instrumentRow struct {
	ID       string `yaml:"id"`
	Symbol   string `yaml:"symbol"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	ISIN     string `yaml:"isin"`
	MIC      string `yaml:"mic"`
	Currency string `yaml:"currency"`
}

// priceRow references its instrument by symbol or ID.
type priceRow struct {
	Instrument string `yaml:"instrument"`
	Date       string `yaml:"date"`
	Close      string `yaml:"close"`
	Currency   string `yaml:"currency"`
}

type fxRateRow struct {
	Base  string `yaml:"base"`
	Quote string `yaml:"quote"`
	Date  string `yaml:"date"`
	Rate  string `yaml:"rate"`
}

// Default returns the catalog compiled into the binary.
func Default() (domain.Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file. An empty path yields the default catalog.
func LoadFile(path string) (domain.Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read reference data %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes YAML catalog bytes. Decimal and date fields are parsed strictly.
func Parse(data []byte) (domain.Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Catalog{}, fmt.Errorf("parse reference data: %w", err)
	}
	return f.toDomain()
}

func (f catalogFile) toDomain() (domain.Catalog, error) {
	var cat domain.Catalog

	for _, c := range f.Currencies {
		cat.Currencies = append(cat.Currencies, domain.Currency{Code: c.Code, Name: c.Name, Exponent: c.Exponent})
	}
	for _, t := range f.AccountTypes {
		cat.AccountTypes = append(cat.AccountTypes, domain.AccountTypeInfo{
			Code:        t.Code,
			Description: t.Description,
			IsCash:      t.IsCash,
			IsBrokerage: t.IsBrokerage,
		})
	}
	for _, m := range f.Markets {
		cat.Markets = append(cat.Markets, domain.Market(m))
	}
	for _, c := range f.Categories {
		cat.Categories = append(cat.Categories, domain.Category{
			ID:      c.ID,
			Name:    c.Name,
			Section: domain.Section(strings.ToLower(c.Section)),
		})
	}
	for _, c := range f.Channels {
		cat.Channels = append(cat.Channels, domain.Channel(c))
	}
	for _, i := range f.Instruments {
		cat.Instruments = append(cat.Instruments, domain.Instrument{
			ID:       i.ID,
			Symbol:   i.Symbol,
			Name:     i.Name,
			Type:     domain.InstrumentType(strings.ToUpper(i.Type)),
			ISIN:     i.ISIN,
			MIC:      i.MIC,
			Currency: i.Currency,
		})
	}

	for n, p := range f.Prices {
		date, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("prices[%d]: date %q: %w", n, p.Date, err)
		}
		closePx, err := decimal.NewFromString(p.Close)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("prices[%d]: close %q: %w", n, p.Close, err)
		}
		cat.Prices = append(cat.Prices, domain.PriceQuote{
			InstrumentID: p.Instrument,
			Date:         date,
			Close:        closePx,
			Currency:     p.Currency,
		})
	}

	for n, r := range f.FxRates {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("fx_rates[%d]: date %q: %w", n, r.Date, err)
		}
		rate, err := decimal.NewFromString(r.Rate)
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("fx_rates[%d]: rate %q: %w", n, r.Rate, err)
		}
		cat.FxRates = append(cat.FxRates, domain.FxRate{Base: r.Base, Quote: r.Quote, Date: date, Rate: rate})
	}

	return cat, nil
}
