package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// auditService re-checks ledger and holding invariants over the exported dataset.
type auditService struct {
	BaseService
	snapshotter portsrepo.Snapshotter
}

// NewAuditService creates the final validation pass.
func NewAuditService(snapshotter portsrepo.Snapshotter) portssvc.AuditSvc {
	return &auditService{snapshotter: snapshotter}
}

var _ portssvc.AuditSvc = (*auditService)(nil)

func (s *auditService) Audit(ctx context.Context) (domain.AuditReport, error) {
	ds, err := s.snapshotter.Snapshot(ctx)
	if err != nil {
		return domain.AuditReport{}, err
	}
	report := AuditDataset(ds)
	if report.Clean() {
		s.LogInfo(ctx, "Audit passed",
			slog.Int("entries", report.EntriesChecked),
			slog.Int("holdings", report.HoldingsChecked))
	} else {
		s.GetLogger(ctx).Warn("Audit found violations",
			slog.Int("unbalanced", len(report.UnbalancedEntries)),
			slog.Int("negative_holdings", len(report.NegativeHoldings)),
			slog.Int("inconsistent_holdings", len(report.InconsistentHolding)))
	}
	return report, nil
}

// AuditDataset checks a flat dataset: every entry sums to zero, no holding is negative,
// and every holding agrees with its open lots.
func AuditDataset(ds domain.Dataset) domain.AuditReport {
	report := domain.AuditReport{
		EntriesChecked:  len(ds.Entries),
		HoldingsChecked: len(ds.Holdings),
	}

	sums := make(map[string]decimal.Decimal, len(ds.Entries))
	for _, l := range ds.Lines {
		sums[l.EntryID] = sums[l.EntryID].Add(l.Amount)
	}
	for _, e := range ds.Entries {
		if !sums[e.ID].IsZero() {
			report.UnbalancedEntries = append(report.UnbalancedEntries, e.Code)
		}
	}

	lots := make(map[string][]domain.Lot, len(ds.Holdings))
	for _, l := range ds.Lots {
		lots[l.HoldingID] = append(lots[l.HoldingID], l)
	}
	for _, h := range ds.Holdings {
		if h.Quantity.IsNegative() {
			report.NegativeHoldings = append(report.NegativeHoldings, h.ID)
		}
		p := domain.Position{Holding: h, Lots: lots[h.ID]}
		if !p.Consistent() {
			report.InconsistentHolding = append(report.InconsistentHolding, h.ID)
		}
	}
	return report
}
