package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

var _ portsrepo.TradeRepositoryFacade = (*Store)(nil)

// CommitTrade writes the trade, its position and its journal entry in one critical section.
func (s *Store) CommitTrade(ctx context.Context, commit portsrepo.TradeCommit) (domain.Trade, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.tradeByCode[commit.Trade.Code]; ok {
		return s.trades[id], false, nil
	}
	if _, ok := s.entryByCode[commit.Entry.Code]; ok {
		return domain.Trade{}, false, &apperrors.DuplicateEntryCodeError{Kind: "journal entry", Code: commit.Entry.Code}
	}
	s.trades[commit.Trade.ID] = commit.Trade
	s.tradeByCode[commit.Trade.Code] = commit.Trade.ID
	s.positions[commit.Position.Holding.ID] = clonePosition(commit.Position)
	s.putEntry(commit.Entry)
	return commit.Trade, true, nil
}

func (s *Store) FindTradeByCode(ctx context.Context, code string) (*domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tradeByCode[code]
	if !ok {
		return nil, notFound("trade", code)
	}
	t := s.trades[id]
	return &t, nil
}

func (s *Store) ListTrades(ctx context.Context, before time.Time) ([]domain.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Trade, 0)
	for _, t := range s.trades {
		if t.TradeTime.Before(before) {
			out = append(out, t)
		}
	}
	sortTrades(out)
	return out, nil
}

func sortTrades(trades []domain.Trade) {
	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].TradeTime.Equal(trades[j].TradeTime) {
			return trades[i].TradeTime.Before(trades[j].TradeTime)
		}
		return trades[i].Code < trades[j].Code
	})
}

func (s *Store) LoadPosition(ctx context.Context, accountID, instrumentID string) (domain.Position, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[domain.HoldingID(accountID, instrumentID)]
	if !ok {
		return domain.Position{}, false, nil
	}
	return clonePosition(p), true, nil
}

func (s *Store) ListHoldings(ctx context.Context) ([]domain.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Holding, 0, len(s.positions))
	for _, p := range s.positions {
		out = append(out, p.Holding)
	}
	sortHoldings(out)
	return out, nil
}

func (s *Store) ListHoldingsByAccount(ctx context.Context, accountID string) ([]domain.Holding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Holding, 0)
	for _, p := range s.positions {
		if p.Holding.AccountID == accountID {
			out = append(out, p.Holding)
		}
	}
	sortHoldings(out)
	return out, nil
}

func sortHoldings(holdings []domain.Holding) {
	sort.Slice(holdings, func(i, j int) bool {
		if holdings[i].AccountID != holdings[j].AccountID {
			return holdings[i].AccountID < holdings[j].AccountID
		}
		return holdings[i].InstrumentID < holdings[j].InstrumentID
	})
}
