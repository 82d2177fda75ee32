package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo portsrepo.PartyAccountReader
	journalRepo portsrepo.JournalReader
	factRepo    portsrepo.FactRepositoryFacade
	tradeRepo   portsrepo.TradeReader
	marketSvc   portssvc.MarketDataReaderSvc
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingFacts enables period fact queries.
func WithReportingFacts(repo portsrepo.FactRepositoryFacade) ReportingServiceOption {
	return func(s *reportingService) {
		s.factRepo = repo
	}
}

// WithReportingHoldings enables holding and P&L queries.
func WithReportingHoldings(repo portsrepo.TradeReader, marketSvc portssvc.MarketDataReaderSvc) ReportingServiceOption {
	return func(s *reportingService) {
		s.tradeRepo = repo
		s.marketSvc = marketSvc
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(accountRepo portsrepo.PartyAccountReader, journalRepo portsrepo.JournalReader, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
	}

	// Apply all options
	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) balanceOf(ctx context.Context, account domain.Account, asOf time.Time) (domain.AccountBalance, error) {
	lines, err := s.journalRepo.ListLinesByAccount(ctx, account.ID, asOf)
	if err != nil {
		return domain.AccountBalance{}, err
	}
	balance := decimal.Zero
	for _, l := range lines {
		balance = balance.Add(l.Amount)
	}
	return domain.AccountBalance{
		AccountID: account.ID,
		Code:      account.Code,
		Currency:  account.Currency,
		Balance:   balance,
		AsOf:      asOf,
	}, nil
}

// AccountBalance sums every line posted to the account up to and including asOf.
func (s *reportingService) AccountBalance(ctx context.Context, accountID string, asOf time.Time) (*domain.AccountBalance, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, missingRef(err, "account", accountID)
	}
	b, err := s.balanceOf(ctx, *account, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute account balance", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to compute account balance: %w", err)
	}
	return &b, nil
}

// partyAccounts lists the accounts on which the party holds a role at asOf, ordered by code.
func (s *reportingService) partyAccounts(ctx context.Context, partyID string, asOf time.Time) ([]domain.Account, error) {
	if _, err := s.accountRepo.FindPartyByID(ctx, partyID); err != nil {
		return nil, missingRef(err, "party", partyID)
	}
	roles, err := s.accountRepo.ListRolesByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(roles))
	for _, r := range roles {
		if r.ActiveDuring(asOf, asOf.Add(time.Nanosecond)) {
			ids = append(ids, r.AccountID)
		}
	}
	byID, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.Account, 0, len(byID))
	for _, a := range byID {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (s *reportingService) PartyBalances(ctx context.Context, partyID string, asOf time.Time) ([]domain.AccountBalance, error) {
	accounts, err := s.partyAccounts(ctx, partyID, asOf)
	if err != nil {
		return nil, err
	}
	balances := make([]domain.AccountBalance, 0, len(accounts))
	for _, a := range accounts {
		b, err := s.balanceOf(ctx, a, asOf)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	s.LogDebug(ctx, "Party balances generated", slog.String("party_id", partyID), slog.Int("accounts", len(balances)))
	return balances, nil
}

// CashFlowSummary reads the stored cash-flow facts; it does not recompute them.
func (s *reportingService) CashFlowSummary(ctx context.Context, partyID, periodID string) (*domain.CashFlowSummary, error) {
	if s.factRepo == nil {
		return nil, fmt.Errorf("cash-flow summary requires a fact repository")
	}
	if _, err := s.factRepo.FindPeriodByID(ctx, periodID); err != nil {
		return nil, missingRef(err, "reporting period", periodID)
	}
	facts, err := s.factRepo.ListCashFlowFacts(ctx, periodID)
	if err != nil {
		return nil, err
	}
	summary := &domain.CashFlowSummary{PeriodID: periodID, PartyID: partyID, Rows: []domain.CashFlowFact{}}
	for _, f := range facts {
		if f.PartyID == partyID {
			summary.Rows = append(summary.Rows, f)
		}
	}
	return summary, nil
}

// HoldingsWithValuation marks every open holding of the party's accounts to the latest
// quote on or before asOf. Holdings without a quote are returned as unavailable.
func (s *reportingService) HoldingsWithValuation(ctx context.Context, partyID string, asOf time.Time) ([]domain.HoldingValuation, error) {
	if s.tradeRepo == nil {
		return nil, fmt.Errorf("holding valuation requires a trade repository")
	}
	accounts, err := s.partyAccounts(ctx, partyID, asOf)
	if err != nil {
		return nil, err
	}
	valuations := make([]domain.HoldingValuation, 0)
	for _, a := range accounts {
		holdings, err := s.tradeRepo.ListHoldingsByAccount(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		for _, h := range holdings {
			if !h.Quantity.IsPositive() {
				continue
			}
			p, found, err := s.tradeRepo.LoadPosition(ctx, h.AccountID, h.InstrumentID)
			if err != nil {
				return nil, err
			}
			if !found {
				return nil, &apperrors.MissingReferenceDataError{Entity: "holding", Key: h.ID}
			}
			v, err := valuePosition(ctx, s.marketSvc, p, asOf)
			if err != nil {
				return nil, err
			}
			valuations = append(valuations, v)
		}
	}
	return valuations, nil
}

// ProfitAndLoss rebuilds the holding as of the date from its lots, so later trades do not leak in.
func (s *reportingService) ProfitAndLoss(ctx context.Context, accountID, instrumentID string, asOf time.Time) (*domain.ProfitAndLoss, error) {
	if s.tradeRepo == nil {
		return nil, fmt.Errorf("profit and loss requires a trade repository")
	}
	p, found, err := s.tradeRepo.LoadPosition(ctx, accountID, instrumentID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &apperrors.MissingReferenceDataError{Entity: "holding", Key: domain.HoldingID(accountID, instrumentID)}
	}
	snap := p.AsOf(asOf)
	pl := &domain.ProfitAndLoss{
		AccountID:    accountID,
		InstrumentID: instrumentID,
		Currency:     p.Holding.Currency,
		Realized:     snap.Realized,
		AsOf:         asOf,
	}
	quote, ok, err := s.marketSvc.PriceAsOf(ctx, instrumentID, asOf)
	if err != nil {
		return nil, err
	}
	if ok {
		if quote, err = quoteIn(ctx, s.marketSvc, quote, p.Holding.Currency); err != nil {
			return nil, err
		}
		pl.Unrealized = decimal.NewNullDecimal(snap.Quantity.Mul(quote.Close).Sub(snap.CostBasis))
	}
	return pl, nil
}
