package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTypeInfo is a lookup row describing what an account can be used for.
type AccountTypeInfo struct {
	Code        string `json:"code"` // e.g. "checking", "brokerage"
	Description string `json:"description"`
	IsCash      bool   `json:"isCash"`
	IsBrokerage bool   `json:"isBrokerage"`
}

// Market is a trading venue identified by its MIC.
type Market struct {
	MIC      string `json:"mic"`
	Name     string `json:"name"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
}

// Section groups categories for cash-flow reporting.
type Section string

const (
	SectionIncome        Section = "income"
	SectionExpense       Section = "expense"
	SectionTransfer      Section = "transfer"
	SectionInvestment    Section = "investment"
	SectionTax           Section = "tax"
	SectionUncategorized Section = "uncategorized"
)

// Category classifies journal lines. Names are unique.
type Category struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Section Section `json:"section"`
}

// Well-known category names the engine itself books against.
const (
	CategorySalary            = "Salary"
	CategoryPayroll           = "Payroll"
	CategoryWageTaxWithheld   = "Wage tax withheld"
	CategorySecuritiesTrading = "Securities settlement"
	CategoryBrokerFees        = "Broker fees"
	CategoryFXRounding        = "FX rounding"
)

// Channel is the rail an entry moved over.
type Channel struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

const (
	ChannelSEPA     = "SEPA"
	ChannelCard     = "CARD"
	ChannelInternal = "INTERNAL"
	ChannelBroker   = "BROKER"
	ChannelPayroll  = "PAYROLL"
)

// InstrumentType is the kind of tradable security.
type InstrumentType string

const (
	InstrumentEquity InstrumentType = "EQUITY"
	InstrumentETF    InstrumentType = "ETF"
)

// Instrument is a tradable security with a primary currency and market.
type Instrument struct {
	ID       string         `json:"id"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Type     InstrumentType `json:"type"`
	ISIN     string         `json:"isin"`
	MIC      string         `json:"mic"`
	Currency string         `json:"currency"`
}

// PriceQuote is a daily close for an instrument.
type PriceQuote struct {
	ID           string          `json:"id"`
	InstrumentID string          `json:"instrumentID"`
	Date         time.Time       `json:"date"`
	Close        decimal.Decimal `json:"close"`
	Currency     string          `json:"currency"`
}

// Stale reports whether the quote is older than maxAge as seen from asOf.
func (q PriceQuote) Stale(asOf time.Time, maxAge time.Duration) bool {
	return asOf.Sub(q.Date) > maxAge
}

// Catalog is the full set of reference data loaded before a run.
type Catalog struct {
	Currencies   []Currency
	AccountTypes []AccountTypeInfo
	Markets      []Market
	Categories   []Category
	Channels     []Channel
	Instruments  []Instrument
	Prices       []PriceQuote
	FxRates      []FxRate
}
