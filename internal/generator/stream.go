package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
	"github.com/SscSPs/portfolio_ledger/internal/platform/logging"
)

// Stream keeps posting card purchases after a completed Run, one simulated day per tick.
// It stops when ctx is cancelled or after ticks ticks (0 means until cancelled) and
// returns the number of entries posted.
func (g *Generator) Stream(ctx context.Context, interval time.Duration, batch, ticks int) (int, error) {
	if g.end.IsZero() || len(g.people) == 0 {
		return 0, fmt.Errorf("%w: stream needs a completed run with individuals", apperrors.ErrValidation)
	}
	if interval <= 0 || batch <= 0 {
		return 0, fmt.Errorf("%w: stream interval and batch must be positive", apperrors.ErrValidation)
	}
	logger := logging.FromContext(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	posted := 0
	for tick := 0; ticks == 0 || tick < ticks; tick++ {
		select {
		case <-ctx.Done():
			logger.Info("Stream stopped", slog.Int("posted", posted))
			return posted, nil
		case <-ticker.C:
		}

		day := g.end.AddDate(0, 0, tick)
		r := g.src.For("stream", strconv.Itoa(tick))
		for i := 0; i < batch; i++ {
			p := pick(r, g.people)
			m := pick(r, cardMerchants)
			t := day.Add(time.Duration(intBetween(r, 7*60, 22*60)) * time.Minute)
			amount := amountBetween(r, 8, 220)
			code, err := g.codes.Next("CRD", t)
			if err != nil {
				g.stats.FailedEvents++
				g.stats.FailedByKind[kindCard]++
				logger.Warn("Stream event failed", slog.String("error", err.Error()))
				continue
			}
			req := dto.PostEntryRequest{
				Code:        code,
				TxnDate:     t,
				PostedAt:    t,
				Description: "Card payment at " + m.name,
				Currency:    g.opts.Currency,
				ChannelCode: domain.ChannelCard,
				Lines:       g.pair(p.checking, g.external, amount, m.category, m.name),
			}
			if _, err := g.svc.Journal.Post(ctx, req); err != nil {
				g.stats.FailedEvents++
				g.stats.FailedByKind[kindCard]++
				logger.Warn("Stream event failed", slog.String("code", req.Code), slog.String("error", err.Error()))
				continue
			}
			posted++
			g.stats.Entries++
		}
		logger.Debug("Stream tick", slog.String("day", day.Format("2006-01-02")), slog.Int("posted", posted))
	}
	return posted, nil
}

// Stats returns the counters accumulated so far.
func (g *Generator) Stats() Stats {
	return g.stats
}
