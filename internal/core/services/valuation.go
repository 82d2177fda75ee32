package services

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
)

// quoteIn restates a quote in currency, converting at the quote's own date.
func quoteIn(ctx context.Context, marketSvc portssvc.MarketDataReaderSvc, quote domain.PriceQuote, currency string) (domain.PriceQuote, error) {
	if quote.Currency == "" || quote.Currency == currency {
		return quote, nil
	}
	converted, err := marketSvc.Convert(ctx, quote.Close, quote.Currency, currency, quote.Date)
	if err != nil {
		return domain.PriceQuote{}, err
	}
	quote.Close, quote.Currency = converted, currency
	return quote, nil
}

// valuePosition marks a position to the latest quote on or before asOf, in the holding
// currency. Every valuation path goes through here so they cannot disagree.
func valuePosition(ctx context.Context, marketSvc portssvc.MarketDataReaderSvc, p domain.Position, asOf time.Time) (domain.HoldingValuation, error) {
	quote, ok, err := marketSvc.PriceAsOf(ctx, p.Holding.InstrumentID, asOf)
	if err != nil {
		return domain.HoldingValuation{}, err
	}
	if !ok {
		return p.Valuate(nil), nil
	}
	if quote, err = quoteIn(ctx, marketSvc, quote, p.Holding.Currency); err != nil {
		return domain.HoldingValuation{}, err
	}
	return p.Valuate(&quote), nil
}
