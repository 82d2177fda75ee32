package services

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
)

// TradeWriterSvc defines trade execution
type TradeWriterSvc interface {
	// ExecuteTrade records a trade, updates the holding and lots, and posts the wrapping entry atomically.
	ExecuteTrade(ctx context.Context, req dto.ExecuteTradeRequest) (*domain.Trade, error)
}

// HoldingReaderSvc defines read operations on holdings and lots
type HoldingReaderSvc interface {
	GetHolding(ctx context.Context, accountID, instrumentID string) (*domain.Holding, error)
	ListLots(ctx context.Context, accountID, instrumentID string) ([]domain.Lot, error)

	// Valuate marks the holding to the latest quote on or before asOf.
	// Unrealized P&L is (last price - average cost) * quantity; MissingPriceDataError when no quote exists.
	Valuate(ctx context.Context, accountID, instrumentID string, asOf time.Time) (*domain.HoldingValuation, error)
}

// TradeSvcFacade combines all trade and holding service interfaces
type TradeSvcFacade interface {
	TradeWriterSvc
	HoldingReaderSvc
}
