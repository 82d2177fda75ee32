package services

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// FactRunResult reports, per fact type, how many rows were written or why the type was aborted.
type FactRunResult struct {
	PeriodID string
	Rows     map[domain.FactType]int
	Errors   map[domain.FactType]error
}

// FactSvc computes period facts as pure projections of the journal and trades.
type FactSvc interface {
	// RegisterPeriods stores reporting periods; re-registering an identical period is a no-op.
	RegisterPeriods(ctx context.Context, periods []domain.ReportingPeriod) error

	// ComputePeriod recomputes every fact type for the period, each replacing its prior rows.
	// completeThrough is the caller's cutoff: data is final for dates before it.
	ComputePeriod(ctx context.Context, periodID string, completeThrough time.Time) (FactRunResult, error)

	ComputeCashFlow(ctx context.Context, period domain.ReportingPeriod) ([]domain.CashFlowFact, error)
	ComputePayroll(ctx context.Context, period domain.ReportingPeriod) ([]domain.PayrollFact, error)
	ComputeHoldingPerformance(ctx context.Context, period domain.ReportingPeriod) ([]domain.HoldingPerformanceFact, error)
}
