package repositories

import (
	"context"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// MarketDataReader defines read operations for prices and FX rates
type MarketDataReader interface {
	// ListPrices returns an instrument's quotes ordered by date ascending.
	ListPrices(ctx context.Context, instrumentID string) ([]domain.PriceQuote, error)

	// ListFxRates returns the rates of one base/quote pair ordered by date ascending.
	ListFxRates(ctx context.Context, base, quote string) ([]domain.FxRate, error)
}

// MarketDataWriter defines write operations for prices and FX rates
type MarketDataWriter interface {
	// SavePrice stores or replaces the quote for (instrument, date).
	SavePrice(ctx context.Context, quote domain.PriceQuote) error

	// SaveFxRate stores or replaces the rate for (base, quote, date).
	SaveFxRate(ctx context.Context, rate domain.FxRate) error
}

// MarketDataRepositoryFacade combines price and FX repository interfaces
type MarketDataRepositoryFacade interface {
	MarketDataReader
	MarketDataWriter
}
