package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// factService projects the journal and trade history into per-period fact rows.
// It only reads the ledger; the fact tables are its sole output.
type factService struct {
	BaseService
	factRepo    portsrepo.FactRepositoryFacade
	journalRepo portsrepo.JournalReader
	tradeRepo   portsrepo.TradeReader
	accountRepo portsrepo.AccountRepositoryFacade
	refRepo     portsrepo.ReferenceReader
	marketRepo  portsrepo.MarketDataReader
	marketSvc   portssvc.MarketDataReaderSvc
}

// NewFactService creates a new fact aggregator.
func NewFactService(repos *portsrepo.RepositoryProvider, marketSvc portssvc.MarketDataReaderSvc) portssvc.FactSvc {
	return &factService{
		factRepo:    repos.FactRepo,
		journalRepo: repos.JournalRepo,
		tradeRepo:   repos.TradeRepo,
		accountRepo: repos.AccountRepo,
		refRepo:     repos.ReferenceRepo,
		marketRepo:  repos.MarketDataRepo,
		marketSvc:   marketSvc,
	}
}

var _ portssvc.FactSvc = (*factService)(nil)

func (s *factService) RegisterPeriods(ctx context.Context, periods []domain.ReportingPeriod) error {
	for _, p := range periods {
		if !p.Start.Before(p.End) {
			return fmt.Errorf("%w: period %s is empty", apperrors.ErrValidation, p.Label)
		}
		if err := s.factRepo.SavePeriod(ctx, p); err != nil {
			return fmt.Errorf("failed to register period %s: %w", p.Label, err)
		}
	}
	return nil
}

// ComputePeriod runs the three fact types concurrently. A missing reference aborts only
// the affected type; any other failure cancels the run.
func (s *factService) ComputePeriod(ctx context.Context, periodID string, completeThrough time.Time) (portssvc.FactRunResult, error) {
	result := portssvc.FactRunResult{
		PeriodID: periodID,
		Rows:     make(map[domain.FactType]int),
		Errors:   make(map[domain.FactType]error),
	}
	period, err := s.factRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return result, missingRef(err, "reporting period", periodID)
	}
	if completeThrough.Before(period.End) {
		return result, &apperrors.PeriodNotClosedError{Label: period.Label, End: period.End, CompleteThrough: completeThrough}
	}

	var mu sync.Mutex
	record := func(ft domain.FactType, rows int, err error) error {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			result.Rows[ft] = rows
			return nil
		}
		if errors.Is(err, apperrors.ErrMissingReference) {
			result.Errors[ft] = err
			s.LogError(ctx, err, "Fact type aborted", slog.String("period", period.Label), slog.String("fact_type", string(ft)))
			return nil
		}
		return fmt.Errorf("%s facts for %s: %w", ft, period.Label, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.ComputeCashFlow(gctx, *period)
		if err == nil {
			err = s.factRepo.ReplaceCashFlowFacts(gctx, period.ID, rows)
		}
		return record(domain.FactCashFlow, len(rows), err)
	})
	g.Go(func() error {
		rows, err := s.ComputePayroll(gctx, *period)
		if err == nil {
			err = s.factRepo.ReplacePayrollFacts(gctx, period.ID, rows)
		}
		return record(domain.FactPayroll, len(rows), err)
	})
	g.Go(func() error {
		rows, err := s.ComputeHoldingPerformance(gctx, *period)
		if err == nil {
			err = s.factRepo.ReplaceHoldingPerformanceFacts(gctx, period.ID, rows)
		}
		return record(domain.FactHoldingPerformance, len(rows), err)
	})
	if err := g.Wait(); err != nil {
		return result, err
	}

	s.LogInfo(ctx, "Period facts computed",
		slog.String("period", period.Label),
		slog.Int("cash_flow", result.Rows[domain.FactCashFlow]),
		slog.Int("payroll", result.Rows[domain.FactPayroll]),
		slog.Int("holding_performance", result.Rows[domain.FactHoldingPerformance]),
		slog.Int("aborted", len(result.Errors)))
	return result, nil
}

// partyResolver caches which parties hold an active role on each account during a period.
type partyResolver struct {
	repo   portsrepo.AccountReader
	period domain.ReportingPeriod
	cache  map[string][]string
}

func newPartyResolver(repo portsrepo.AccountReader, period domain.ReportingPeriod) *partyResolver {
	return &partyResolver{repo: repo, period: period, cache: make(map[string][]string)}
}

func (r *partyResolver) parties(ctx context.Context, accountID string) ([]string, error) {
	if ids, ok := r.cache[accountID]; ok {
		return ids, nil
	}
	roles, err := r.repo.ListRolesByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(roles))
	ids := make([]string, 0, len(roles))
	for _, role := range roles {
		if role.ActiveDuring(r.period.Start, r.period.End) && !seen[role.PartyID] {
			seen[role.PartyID] = true
			ids = append(ids, role.PartyID)
		}
	}
	sort.Strings(ids)
	r.cache[accountID] = ids
	return ids, nil
}

func (s *factService) categoryIndex(ctx context.Context) (map[string]domain.Category, error) {
	categories, err := s.refRepo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]domain.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}
	return index, nil
}

type cashFlowKey struct {
	partyID  string
	section  domain.Section
	currency string
}

// ComputeCashFlow sums the lines of customer accounts per party, section and currency.
// Clearing accounts belong to the engine and are left out.
func (s *factService) ComputeCashFlow(ctx context.Context, period domain.ReportingPeriod) ([]domain.CashFlowFact, error) {
	entries, err := s.journalRepo.ListEntries(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	accountIDs := make([]string, 0)
	for _, e := range entries {
		for _, l := range e.Lines {
			accountIDs = append(accountIDs, l.AccountID)
		}
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}

	resolver := newPartyResolver(s.accountRepo, period)
	totals := make(map[cashFlowKey]*domain.CashFlowFact)
	for _, e := range entries {
		for _, l := range e.Lines {
			account, ok := accounts[l.AccountID]
			if !ok {
				return nil, &apperrors.MissingReferenceDataError{Entity: "account", Key: l.AccountID}
			}
			if account.Purpose != domain.PurposeCustomer {
				continue
			}
			section := domain.SectionUncategorized
			if l.CategoryID != "" {
				c, ok := categories[l.CategoryID]
				if !ok {
					return nil, &apperrors.MissingReferenceDataError{Entity: "category", Key: l.CategoryID}
				}
				section = c.Section
			}
			parties, err := resolver.parties(ctx, l.AccountID)
			if err != nil {
				return nil, err
			}
			for _, partyID := range parties {
				key := cashFlowKey{partyID: partyID, section: section, currency: l.Currency}
				f, ok := totals[key]
				if !ok {
					f = &domain.CashFlowFact{
						ID:       domain.CashFlowFactID(period.ID, partyID, section, l.Currency),
						PeriodID: period.ID,
						PartyID:  partyID,
						Section:  section,
						Currency: l.Currency,
						Inflow:   decimal.Zero,
						Outflow:  decimal.Zero,
					}
					totals[key] = f
				}
				if l.Amount.IsPositive() {
					f.Inflow = f.Inflow.Add(l.Amount)
				} else {
					f.Outflow = f.Outflow.Add(l.Amount.Abs())
				}
			}
		}
	}

	facts := make([]domain.CashFlowFact, 0, len(totals))
	for _, f := range totals {
		f.Net = f.Inflow.Sub(f.Outflow)
		facts = append(facts, *f)
	}
	sort.Slice(facts, func(i, j int) bool {
		a, b := facts[i], facts[j]
		if a.PartyID != b.PartyID {
			return a.PartyID < b.PartyID
		}
		if a.Section != b.Section {
			return a.Section < b.Section
		}
		return a.Currency < b.Currency
	})
	return facts, nil
}

type payrollKey struct {
	contractID string
	currency   string
}

// ComputePayroll aggregates contract-tagged entries by the well-known payroll categories.
func (s *factService) ComputePayroll(ctx context.Context, period domain.ReportingPeriod) ([]domain.PayrollFact, error) {
	entries, err := s.journalRepo.ListEntries(ctx, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	totals := make(map[payrollKey]*domain.PayrollFact)
	for _, e := range entries {
		if !e.IsPayroll() {
			continue
		}
		if _, err := s.accountRepo.FindContractByID(ctx, e.ContractID); err != nil {
			return nil, missingRef(err, "employment contract", e.ContractID)
		}
		key := payrollKey{contractID: e.ContractID, currency: e.Currency}
		f, ok := totals[key]
		if !ok {
			f = &domain.PayrollFact{
				ID:         domain.PayrollFactID(period.ID, e.ContractID, e.Currency),
				PeriodID:   period.ID,
				ContractID: e.ContractID,
				Currency:   e.Currency,
				Gross:      decimal.Zero,
				Net:        decimal.Zero,
				Withheld:   decimal.Zero,
			}
			totals[key] = f
		}
		employer := decimal.Zero
		for _, l := range e.Lines {
			if l.CategoryID == "" {
				continue
			}
			c, ok := categories[l.CategoryID]
			if !ok {
				return nil, &apperrors.MissingReferenceDataError{Entity: "category", Key: l.CategoryID}
			}
			switch c.Name {
			case domain.CategoryPayroll:
				employer = employer.Add(l.Amount)
			case domain.CategorySalary:
				f.Net = f.Net.Add(l.Amount)
			case domain.CategoryWageTaxWithheld:
				f.Withheld = f.Withheld.Add(l.Amount)
			}
		}
		f.Gross = f.Gross.Add(employer.Abs())
	}

	facts := make([]domain.PayrollFact, 0, len(totals))
	for _, f := range totals {
		facts = append(facts, *f)
	}
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].ContractID != facts[j].ContractID {
			return facts[i].ContractID < facts[j].ContractID
		}
		return facts[i].Currency < facts[j].Currency
	})
	return facts, nil
}

type performanceKey struct {
	partyID      string
	instrumentID string
}

// ComputeHoldingPerformance replays every trade before the period end through the lot
// engine and snapshots each party's combined position per instrument.
func (s *factService) ComputeHoldingPerformance(ctx context.Context, period domain.ReportingPeriod) ([]domain.HoldingPerformanceFact, error) {
	trades, err := s.tradeRepo.ListTrades(ctx, period.End)
	if err != nil {
		return nil, err
	}

	instruments := make(map[string]domain.Instrument)
	positions := make(map[string]domain.Position)
	order := make([]string, 0)
	for _, t := range trades {
		ins, ok := instruments[t.InstrumentID]
		if !ok {
			found, err := s.refRepo.FindInstrument(ctx, t.InstrumentID)
			if err != nil {
				return nil, missingRef(err, "instrument", t.InstrumentID)
			}
			ins = *found
			instruments[ins.ID] = ins
		}
		holdingID := domain.HoldingID(t.AccountID, t.InstrumentID)
		p, ok := positions[holdingID]
		if !ok {
			p = domain.NewPosition(t.AccountID, t.InstrumentID, ins.Currency)
			order = append(order, holdingID)
		}
		amount, err := TradeCostOrProceeds(ctx, s.marketSvc, t, ins.Currency)
		if err != nil {
			return nil, err
		}
		if t.Side == domain.Buy {
			p, _, err = p.Buy(t.ID, t.TradeTime, t.Quantity, amount)
		} else {
			p, _, err = p.Sell(t.ID, t.TradeTime, t.Quantity, amount)
		}
		if err != nil {
			return nil, fmt.Errorf("replaying trade %s: %w", t.Code, err)
		}
		positions[holdingID] = p
	}

	resolver := newPartyResolver(s.accountRepo, period)
	totals := make(map[performanceKey]*domain.HoldingPerformanceFact)
	for _, holdingID := range order {
		p := positions[holdingID]
		h := p.Holding
		if h.Quantity.IsZero() {
			continue
		}
		parties, err := resolver.parties(ctx, h.AccountID)
		if err != nil {
			return nil, err
		}
		for _, partyID := range parties {
			key := performanceKey{partyID: partyID, instrumentID: h.InstrumentID}
			f, ok := totals[key]
			if !ok {
				f = &domain.HoldingPerformanceFact{
					ID:           domain.HoldingPerformanceFactID(period.ID, partyID, h.InstrumentID),
					PeriodID:     period.ID,
					PartyID:      partyID,
					InstrumentID: h.InstrumentID,
					Currency:     h.Currency,
					Quantity:     decimal.Zero,
					CostBasis:    decimal.Zero,
				}
				totals[key] = f
			}
			f.Quantity = f.Quantity.Add(h.Quantity)
			f.CostBasis = f.CostBasis.Add(p.OpenCost())
		}
	}

	facts := make([]domain.HoldingPerformanceFact, 0, len(totals))
	for _, f := range totals {
		quote, ok, err := s.lastPriceIn(ctx, f.InstrumentID, period)
		if err != nil {
			return nil, err
		}
		if ok {
			if quote, err = quoteIn(ctx, s.marketSvc, quote, f.Currency); err != nil {
				return nil, err
			}
			value := f.Quantity.Mul(quote.Close)
			date := quote.Date
			f.MarketValue = decimal.NewNullDecimal(value)
			f.UnrealizedPL = decimal.NewNullDecimal(value.Sub(f.CostBasis))
			f.PriceDate = &date
		}
		facts = append(facts, *f)
	}
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].PartyID != facts[j].PartyID {
			return facts[i].PartyID < facts[j].PartyID
		}
		return facts[i].InstrumentID < facts[j].InstrumentID
	})
	return facts, nil
}

func (s *factService) lastPriceIn(ctx context.Context, instrumentID string, period domain.ReportingPeriod) (domain.PriceQuote, bool, error) {
	quotes, err := s.marketRepo.ListPrices(ctx, instrumentID)
	if err != nil {
		return domain.PriceQuote{}, false, err
	}
	for i := len(quotes) - 1; i >= 0; i-- {
		if period.Contains(quotes[i].Date) {
			return quotes[i], true, nil
		}
	}
	return domain.PriceQuote{}, false, nil
}
