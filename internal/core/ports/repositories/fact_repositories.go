package repositories

import (
	"context"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// PeriodRepository defines operations for reporting periods
type PeriodRepository interface {
	// SavePeriod stores a period; a different period with the same label is ErrDuplicate.
	SavePeriod(ctx context.Context, period domain.ReportingPeriod) error
	FindPeriodByID(ctx context.Context, periodID string) (*domain.ReportingPeriod, error)
	FindPeriodByLabel(ctx context.Context, label string) (*domain.ReportingPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.ReportingPeriod, error)
}

// FactReader defines read operations for fact rows
type FactReader interface {
	ListCashFlowFacts(ctx context.Context, periodID string) ([]domain.CashFlowFact, error)
	ListPayrollFacts(ctx context.Context, periodID string) ([]domain.PayrollFact, error)
	ListHoldingPerformanceFacts(ctx context.Context, periodID string) ([]domain.HoldingPerformanceFact, error)
}

// FactWriter replaces the rows of one fact type for one period in a single step,
// so a re-run never accumulates duplicates and never leaves a partial set.
type FactWriter interface {
	ReplaceCashFlowFacts(ctx context.Context, periodID string, rows []domain.CashFlowFact) error
	ReplacePayrollFacts(ctx context.Context, periodID string, rows []domain.PayrollFact) error
	ReplaceHoldingPerformanceFacts(ctx context.Context, periodID string, rows []domain.HoldingPerformanceFact) error
}

// FactRepositoryFacade combines period and fact repository interfaces
type FactRepositoryFacade interface {
	PeriodRepository
	FactReader
	FactWriter
}
