package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

var _ portsrepo.ReferenceRepositoryFacade = (*Store)(nil)

func (s *Store) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currencies[currency.Code] = currency
	return nil
}

func (s *Store) SaveAccountType(ctx context.Context, accountType domain.AccountTypeInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountTypes[accountType.Code] = accountType
	return nil
}

func (s *Store) SaveMarket(ctx context.Context, market domain.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markets[market.MIC] = market
	return nil
}

func (s *Store) SaveCategory(ctx context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.categoryByName[category.Name]; ok && id != category.ID {
		return duplicate("category", category.Name)
	}
	s.categories[category.ID] = category
	s.categoryByName[category.Name] = category.ID
	return nil
}

func (s *Store) SaveChannel(ctx context.Context, channel domain.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.channels[channel.Code] = channel
	return nil
}

func (s *Store) SaveInstrument(ctx context.Context, instrument domain.Instrument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.instrumentBySymbol[instrument.Symbol]; ok && id != instrument.ID {
		return duplicate("instrument", instrument.Symbol)
	}
	s.instruments[instrument.ID] = instrument
	s.instrumentBySymbol[instrument.Symbol] = instrument.ID
	return nil
}

func (s *Store) FindCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.currencies[code]
	if !ok {
		return nil, notFound("currency", code)
	}
	return &c, nil
}

func (s *Store) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Currency, 0, len(s.currencies))
	for _, c := range s.currencies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s *Store) FindAccountType(ctx context.Context, code string) (*domain.AccountTypeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.accountTypes[code]
	if !ok {
		return nil, notFound("account type", code)
	}
	return &t, nil
}

func (s *Store) FindCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, notFound("category", categoryID)
	}
	return &c, nil
}

func (s *Store) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.categoryByName[name]
	if !ok {
		return nil, notFound("category", name)
	}
	c := s.categories[id]
	return &c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) FindInstrument(ctx context.Context, instrumentID string) (*domain.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ins, ok := s.instruments[instrumentID]
	if !ok {
		return nil, notFound("instrument", instrumentID)
	}
	return &ins, nil
}

func (s *Store) FindInstrumentBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.instrumentBySymbol[symbol]
	if !ok {
		return nil, notFound("instrument", symbol)
	}
	ins := s.instruments[id]
	return &ins, nil
}

func (s *Store) ListInstruments(ctx context.Context) ([]domain.Instrument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Instrument, 0, len(s.instruments))
	for _, ins := range s.instruments {
		out = append(out, ins)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}
