package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FactType names one family of derived rows.
type FactType string

const (
	FactCashFlow           FactType = "cash_flow"
	FactPayroll            FactType = "payroll"
	FactHoldingPerformance FactType = "holding_performance"
)

// CashFlowFact sums a party's inflows and outflows for one section in one period.
// Rows are split by currency; a single-currency party has one row per section.
type CashFlowFact struct {
	ID       string          `json:"id"`
	PeriodID string          `json:"periodID"`
	PartyID  string          `json:"partyID"`
	Section  Section         `json:"section"`
	Currency string          `json:"currency"`
	Inflow   decimal.Decimal `json:"inflow"`
	Outflow  decimal.Decimal `json:"outflow"` // Positive magnitude
	Net      decimal.Decimal `json:"net"`
}

// PayrollFact aggregates the payroll entries of one contract in one period.
type PayrollFact struct {
	ID         string          `json:"id"`
	PeriodID   string          `json:"periodID"`
	ContractID string          `json:"contractID"`
	Currency   string          `json:"currency"`
	Gross      decimal.Decimal `json:"gross"`
	Net        decimal.Decimal `json:"net"`
	Withheld   decimal.Decimal `json:"withheld"`
}

// HoldingPerformanceFact snapshots a party's position in an instrument at period end.
// MarketValue and UnrealizedPL are null when no price exists inside the period.
type HoldingPerformanceFact struct {
	ID           string              `json:"id"`
	PeriodID     string              `json:"periodID"`
	PartyID      string              `json:"partyID"`
	InstrumentID string              `json:"instrumentID"`
	Currency     string              `json:"currency"`
	Quantity     decimal.Decimal     `json:"quantity"`
	CostBasis    decimal.Decimal     `json:"costBasis"`
	MarketValue  decimal.NullDecimal `json:"marketValue"`
	UnrealizedPL decimal.NullDecimal `json:"unrealizedPL"`
	PriceDate    *time.Time          `json:"priceDate"`
}

// CashFlowFactID is the surrogate key for a cash-flow fact row.
func CashFlowFactID(periodID, partyID string, section Section, currency string) string {
	return NewID(string(FactCashFlow), periodID, partyID, string(section), currency)
}

// PayrollFactID is the surrogate key for a payroll fact row.
func PayrollFactID(periodID, contractID, currency string) string {
	return NewID(string(FactPayroll), periodID, contractID, currency)
}

// HoldingPerformanceFactID is the surrogate key for a holding performance fact row.
func HoldingPerformanceFactID(periodID, partyID, instrumentID string) string {
	return NewID(string(FactHoldingPerformance), periodID, partyID, instrumentID)
}
