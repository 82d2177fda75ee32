package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

var _ portsrepo.FactRepositoryFacade = (*Store)(nil)

func (s *Store) SavePeriod(ctx context.Context, period domain.ReportingPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.periodByLabel[period.Label]; ok {
		if existing := s.periods[id]; existing == period {
			return nil
		}
		return duplicate("reporting period", period.Label)
	}
	s.periods[period.ID] = period
	s.periodByLabel[period.Label] = period.ID
	return nil
}

func (s *Store) FindPeriodByID(ctx context.Context, periodID string) (*domain.ReportingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[periodID]
	if !ok {
		return nil, notFound("reporting period", periodID)
	}
	return &p, nil
}

func (s *Store) FindPeriodByLabel(ctx context.Context, label string) (*domain.ReportingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.periodByLabel[label]
	if !ok {
		return nil, notFound("reporting period", label)
	}
	p := s.periods[id]
	return &p, nil
}

func (s *Store) ListPeriods(ctx context.Context) ([]domain.ReportingPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ReportingPeriod, 0, len(s.periods))
	for _, p := range s.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *Store) ReplaceCashFlowFacts(ctx context.Context, periodID string, rows []domain.CashFlowFact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cashFlowFacts[periodID] = append([]domain.CashFlowFact(nil), rows...)
	return nil
}

func (s *Store) ReplacePayrollFacts(ctx context.Context, periodID string, rows []domain.PayrollFact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payrollFacts[periodID] = append([]domain.PayrollFact(nil), rows...)
	return nil
}

func (s *Store) ReplaceHoldingPerformanceFacts(ctx context.Context, periodID string, rows []domain.HoldingPerformanceFact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdingFacts[periodID] = append([]domain.HoldingPerformanceFact(nil), rows...)
	return nil
}

func (s *Store) ListCashFlowFacts(ctx context.Context, periodID string) ([]domain.CashFlowFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.CashFlowFact(nil), s.cashFlowFacts[periodID]...), nil
}

func (s *Store) ListPayrollFacts(ctx context.Context, periodID string) ([]domain.PayrollFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.PayrollFact(nil), s.payrollFacts[periodID]...), nil
}

func (s *Store) ListHoldingPerformanceFacts(ctx context.Context, periodID string) ([]domain.HoldingPerformanceFact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.HoldingPerformanceFact(nil), s.holdingFacts[periodID]...), nil
}
