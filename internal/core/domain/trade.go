package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is BUY or SELL. Short selling is not supported.
type TradeSide string

const (
	Buy  TradeSide = "BUY"
	Sell TradeSide = "SELL"
)

// Trade is an immutable execution against one account and instrument.
type Trade struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"` // Unique
	AccountID      string          `json:"accountID"`
	InstrumentID   string          `json:"instrumentID"`
	Side           TradeSide       `json:"side"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Fees           decimal.Decimal `json:"fees"`
	Tax            decimal.Decimal `json:"tax"`
	Currency       string          `json:"currency"`
	TradeTime      time.Time       `json:"tradeTime"`
	SettlementDate *time.Time      `json:"settlementDate"`
	EntryID        string          `json:"entryID"` // Wrapping journal entry
}

// Gross is quantity times price, before fees and tax.
func (t Trade) Gross() decimal.Decimal { return t.Quantity.Mul(t.Price) }

// SameContent reports whether two trades describe the same execution.
func (t Trade) SameContent(o Trade) bool {
	sameSettle := (t.SettlementDate == nil) == (o.SettlementDate == nil)
	if sameSettle && t.SettlementDate != nil {
		sameSettle = t.SettlementDate.Equal(*o.SettlementDate)
	}
	return t.Code == o.Code &&
		t.AccountID == o.AccountID &&
		t.InstrumentID == o.InstrumentID &&
		t.Side == o.Side &&
		t.Quantity.Equal(o.Quantity) &&
		t.Price.Equal(o.Price) &&
		t.Fees.Equal(o.Fees) &&
		t.Tax.Equal(o.Tax) &&
		t.Currency == o.Currency &&
		t.TradeTime.Equal(o.TradeTime) &&
		sameSettle
}
