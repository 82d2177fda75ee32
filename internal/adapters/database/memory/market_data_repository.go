package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

var _ portsrepo.MarketDataRepositoryFacade = (*Store)(nil)

func (s *Store) SavePrice(ctx context.Context, quote domain.PriceQuote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quotes := s.prices[quote.InstrumentID]
	i := sort.Search(len(quotes), func(i int) bool { return !quotes[i].Date.Before(quote.Date) })
	if i < len(quotes) && quotes[i].Date.Equal(quote.Date) {
		quotes[i] = quote
		return nil
	}
	quotes = append(quotes, domain.PriceQuote{})
	copy(quotes[i+1:], quotes[i:])
	quotes[i] = quote
	s.prices[quote.InstrumentID] = quotes
	return nil
}

func (s *Store) SaveFxRate(ctx context.Context, rate domain.FxRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rate.PairKey()
	rates := s.fxRates[key]
	i := sort.Search(len(rates), func(i int) bool { return !rates[i].Date.Before(rate.Date) })
	if i < len(rates) && rates[i].Date.Equal(rate.Date) {
		rates[i] = rate
		return nil
	}
	rates = append(rates, domain.FxRate{})
	copy(rates[i+1:], rates[i:])
	rates[i] = rate
	s.fxRates[key] = rates
	return nil
}

func (s *Store) ListPrices(ctx context.Context, instrumentID string) ([]domain.PriceQuote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PriceQuote(nil), s.prices[instrumentID]...), nil
}

func (s *Store) ListFxRates(ctx context.Context, base, quote string) ([]domain.FxRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FxRate(nil), s.fxRates[base+"/"+quote]...), nil
}
