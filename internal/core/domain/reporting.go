package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountBalance is the signed sum of an account's lines up to and including AsOf.
type AccountBalance struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	AsOf      time.Time       `json:"asOf"`
}

// CashFlowSummary collects a party's cash-flow rows for one period.
type CashFlowSummary struct {
	PeriodID string         `json:"periodID"`
	PartyID  string         `json:"partyID"`
	Rows     []CashFlowFact `json:"rows"`
}

// ProfitAndLoss is realized and unrealized P&L for one holding at a date.
type ProfitAndLoss struct {
	AccountID    string              `json:"accountID"`
	InstrumentID string              `json:"instrumentID"`
	Currency     string              `json:"currency"`
	Realized     decimal.Decimal     `json:"realized"`
	Unrealized   decimal.NullDecimal `json:"unrealized"` // Null when no quote
	AsOf         time.Time           `json:"asOf"`
}

// AuditReport lists every violation found by the final validation pass.
type AuditReport struct {
	EntriesChecked      int      `json:"entriesChecked"`
	HoldingsChecked     int      `json:"holdingsChecked"`
	UnbalancedEntries   []string `json:"unbalancedEntries"`   // Entry codes
	NegativeHoldings    []string `json:"negativeHoldings"`    // Holding IDs
	InconsistentHolding []string `json:"inconsistentHolding"` // Holding IDs whose average cost disagrees with lots
}

// Clean reports whether the dataset passed every check.
func (r AuditReport) Clean() bool {
	return len(r.UnbalancedEntries) == 0 && len(r.NegativeHoldings) == 0 && len(r.InconsistentHolding) == 0
}
