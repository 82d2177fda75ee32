package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExecuteTradeRequest defines the data needed to execute a trade.
type ExecuteTradeRequest struct {
	Code           string          `json:"code" validate:"required,max=64"`
	AccountID      string          `json:"accountID" validate:"required"`
	InstrumentID   string          `json:"instrumentID" validate:"required"`
	Side           string          `json:"side" validate:"required,oneof=BUY SELL"`
	Quantity       decimal.Decimal `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Fees           decimal.Decimal `json:"fees"`
	Tax            decimal.Decimal `json:"tax"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	TradeTime      time.Time       `json:"tradeTime" validate:"required"`
	SettlementDate *time.Time      `json:"settlementDate"`
}
