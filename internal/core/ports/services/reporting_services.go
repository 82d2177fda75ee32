package services

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// ReportingService is the read-only query surface for dashboards.
type ReportingService interface {
	AccountBalance(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error)
	PartyBalances(ctx context.Context, partyID string, asOf time.Time) ([]domain.AccountBalance, error)
	CashFlowSummary(ctx context.Context, partyID, periodID string) (*domain.CashFlowSummary, error)
	HoldingsWithValuation(ctx context.Context, partyID string, asOf time.Time) ([]domain.HoldingValuation, error)
	ProfitAndLoss(ctx context.Context, accountID, instrumentID string, asOf time.Time) (*domain.ProfitAndLoss, error)
}

// AuditSvc runs the final validation pass over the dataset.
type AuditSvc interface {
	Audit(ctx context.Context) (domain.AuditReport, error)
}
