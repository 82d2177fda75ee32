package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Holding is the current position per (account, instrument).
// Quantity and AverageCost are always derived from the open lots.
type Holding struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"accountID"`
	InstrumentID string          `json:"instrumentID"`
	Currency     string          `json:"currency"` // Accounting currency, the instrument's
	Quantity     decimal.Decimal `json:"quantity"`
	AverageCost  decimal.Decimal `json:"averageCost"`
	RealizedPL   decimal.Decimal `json:"realizedPL"` // Cumulative
	LastTradeID  string          `json:"lastTradeID"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// HoldingID is the surrogate key of the holding for an account and instrument.
func HoldingID(accountID, instrumentID string) string {
	return NewID("holding", accountID, instrumentID)
}

// LotStatus tells whether a lot still carries open quantity.
type LotStatus string

const (
	LotOpen   LotStatus = "OPEN"
	LotClosed LotStatus = "CLOSED"
)

// Lot is a traceable slice of purchased quantity with its own cost basis.
// A partially consumed lot becomes a CLOSED portion plus an OPEN child remainder
// that keeps the parent's Sequence, so FIFO order is preserved.
type Lot struct {
	ID              string          `json:"id"`
	HoldingID       string          `json:"holdingID"`
	AccountID       string          `json:"accountID"`
	InstrumentID    string          `json:"instrumentID"`
	TradeID         string          `json:"tradeID"` // Opening BUY
	ParentLotID     string          `json:"parentLotID"`
	Sequence        int             `json:"sequence"`
	OpenedOn        time.Time       `json:"openedOn"`
	Quantity        decimal.Decimal `json:"quantity"`
	CostBasis       decimal.Decimal `json:"costBasis"`
	Status          LotStatus       `json:"status"`
	ClosedByTradeID string          `json:"closedByTradeID"`
	ClosedOn        *time.Time      `json:"closedOn"`
	Proceeds        decimal.Decimal `json:"proceeds"`
	RealizedPL      decimal.Decimal `json:"realizedPL"`
}

// UnitCost is the lot's cost per unit.
func (l Lot) UnitCost() decimal.Decimal {
	if l.Quantity.IsZero() {
		return decimal.Zero
	}
	return l.CostBasis.Div(l.Quantity)
}

// HoldingValuation is a holding marked to the latest available price.
// When no quote exists the market fields stay null and Available is false.
type HoldingValuation struct {
	Holding      Holding             `json:"holding"`
	LastPrice    decimal.NullDecimal `json:"lastPrice"`
	PriceDate    *time.Time          `json:"priceDate"`
	MarketValue  decimal.NullDecimal `json:"marketValue"`
	UnrealizedPL decimal.NullDecimal `json:"unrealizedPL"`
	Available    bool                `json:"available"`
}

// Valuate marks the open lots to quote, which must already be in the holding currency.
// Unrealized P&L is measured against the lots' own cost, not the rounded average.
// A nil quote yields an unavailable valuation, never zero.
func (p Position) Valuate(quote *PriceQuote) HoldingValuation {
	v := HoldingValuation{Holding: p.Holding}
	if quote == nil {
		return v
	}
	date := quote.Date
	value := p.Holding.Quantity.Mul(quote.Close)
	v.LastPrice = decimal.NewNullDecimal(quote.Close)
	v.PriceDate = &date
	v.MarketValue = decimal.NewNullDecimal(value)
	v.UnrealizedPL = decimal.NewNullDecimal(value.Sub(p.OpenCost()))
	v.Available = true
	return v
}
