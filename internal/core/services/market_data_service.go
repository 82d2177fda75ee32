package services

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// marketDataService resolves read-only prices and FX rates as of a date.
type marketDataService struct {
	BaseService
	repo portsrepo.MarketDataRepositoryFacade
}

// NewMarketDataService creates a new price and FX resolver.
func NewMarketDataService(repo portsrepo.MarketDataRepositoryFacade) portssvc.MarketDataSvcFacade {
	return &marketDataService{repo: repo}
}

var _ portssvc.MarketDataSvcFacade = (*marketDataService)(nil)

func (s *marketDataService) PriceAsOf(ctx context.Context, instrumentID string, asOf time.Time) (domain.PriceQuote, bool, error) {
	quotes, err := s.repo.ListPrices(ctx, instrumentID)
	if err != nil {
		return domain.PriceQuote{}, false, err
	}
	for i := len(quotes) - 1; i >= 0; i-- {
		if !quotes[i].Date.After(asOf) {
			return quotes[i], true, nil
		}
	}
	return domain.PriceQuote{}, false, nil
}

// latestRate returns the last rate of a pair dated on or before asOf.
func (s *marketDataService) latestRate(ctx context.Context, base, quote string, asOf time.Time) (domain.FxRate, bool, error) {
	rates, err := s.repo.ListFxRates(ctx, base, quote)
	if err != nil {
		return domain.FxRate{}, false, err
	}
	for i := len(rates) - 1; i >= 0; i-- {
		if !rates[i].Date.After(asOf) {
			return rates[i], true, nil
		}
	}
	return domain.FxRate{}, false, nil
}

// RateAsOf prefers the more recent of the direct and the inverted pair; on the same
// date the direct quote wins.
func (s *marketDataService) RateAsOf(ctx context.Context, base, quote string, asOf time.Time) (domain.FxRate, bool, error) {
	if base == quote {
		return domain.FxRate{Base: base, Quote: quote, Date: domain.DateOf(asOf), Rate: decimal.NewFromInt(1)}, true, nil
	}
	direct, okDirect, err := s.latestRate(ctx, base, quote, asOf)
	if err != nil {
		return domain.FxRate{}, false, err
	}
	inverse, okInverse, err := s.latestRate(ctx, quote, base, asOf)
	if err != nil {
		return domain.FxRate{}, false, err
	}
	if okDirect && (!okInverse || !inverse.Date.After(direct.Date)) {
		return direct, true, nil
	}
	if !okInverse {
		return domain.FxRate{}, false, nil
	}
	return domain.FxRate{
		ID:    inverse.ID,
		Base:  base,
		Quote: quote,
		Date:  inverse.Date,
		Rate:  decimal.NewFromInt(1).Div(inverse.Rate),
	}, true, nil
}

func (s *marketDataService) Convert(ctx context.Context, amount decimal.Decimal, from, to string, asOf time.Time) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	rate, ok, err := s.RateAsOf(ctx, from, to, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, &apperrors.MissingPriceDataError{Kind: "fx", Key: from + "/" + to, AsOf: asOf}
	}
	return amount.Mul(rate.Rate), nil
}

func (s *marketDataService) RecordPrice(ctx context.Context, quote domain.PriceQuote) error {
	if !quote.Close.IsPositive() {
		return &apperrors.NegativeQuantityOrPriceError{Field: "close price", Value: quote.Close}
	}
	quote.Date = domain.DateOf(quote.Date)
	if quote.ID == "" {
		quote.ID = domain.NewID("price", quote.InstrumentID, quote.Date.Format("2006-01-02"))
	}
	if err := s.repo.SavePrice(ctx, quote); err != nil {
		return fmt.Errorf("failed to record price: %w", err)
	}
	return nil
}

func (s *marketDataService) RecordFxRate(ctx context.Context, rate domain.FxRate) error {
	if !rate.Rate.IsPositive() {
		return &apperrors.NegativeQuantityOrPriceError{Field: "fx rate " + rate.PairKey(), Value: rate.Rate}
	}
	rate.Date = domain.DateOf(rate.Date)
	if rate.ID == "" {
		rate.ID = domain.NewID("fx_rate", rate.Base, rate.Quote, rate.Date.Format("2006-01-02"))
	}
	if err := s.repo.SaveFxRate(ctx, rate); err != nil {
		return fmt.Errorf("failed to record fx rate: %w", err)
	}
	return nil
}
