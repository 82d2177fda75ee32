package services

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MarketDataReaderSvc resolves prices and FX rates as of a date.
// Lookups return ok=false instead of extrapolating when nothing exists on or before the date.
type MarketDataReaderSvc interface {
	PriceAsOf(ctx context.Context, instrumentID string, asOf time.Time) (domain.PriceQuote, bool, error)
	RateAsOf(ctx context.Context, base, quote string, asOf time.Time) (domain.FxRate, bool, error)

	// Convert translates amount between currencies with the rate as of a date.
	// A missing rate is a MissingPriceDataError.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf time.Time) (decimal.Decimal, error)
}

// MarketDataWriterSvc records read-only reference quotes
type MarketDataWriterSvc interface {
	RecordPrice(ctx context.Context, quote domain.PriceQuote) error
	RecordFxRate(ctx context.Context, rate domain.FxRate) error
}

// MarketDataSvcFacade combines price and FX service interfaces
type MarketDataSvcFacade interface {
	MarketDataReaderSvc
	MarketDataWriterSvc
}
