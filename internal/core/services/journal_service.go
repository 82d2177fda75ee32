package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
	"github.com/SscSPs/portfolio_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// journalService validates and commits balanced journal entries.
type journalService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
	refSvc      portssvc.ReferenceReaderSvc
	publisher   portsrepo.EntryPublisher
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalPublisher streams every newly committed entry.
func WithJournalPublisher(p portsrepo.EntryPublisher) JournalServiceOption {
	return func(s *journalService) {
		s.publisher = p
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, refSvc portssvc.ReferenceReaderSvc, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		refSvc:      refSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// EntryID is the surrogate key of the entry with the given code.
func EntryID(code string) string { return domain.NewID("journal_entry", code) }

// Prepare runs every check in a fixed order and returns the entry that Post would commit.
func (s *journalService) Prepare(ctx context.Context, req dto.PostEntryRequest) (domain.JournalEntry, error) {
	if err := s.ValidateRequest(req); err != nil {
		return domain.JournalEntry{}, err
	}
	if len(req.Lines) < 2 {
		return domain.JournalEntry{}, fmt.Errorf("%w: journal entry %s needs at least two lines", apperrors.ErrValidation, req.Code)
	}

	txnDate := domain.DateOf(req.TxnDate)
	accountIDs := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		if l.Currency != req.Currency {
			return domain.JournalEntry{}, &apperrors.CurrencyMismatchError{EntryCode: req.Code, Expected: req.Currency, Got: l.Currency}
		}
		accountIDs = append(accountIDs, l.AccountID)
	}

	exponent, err := s.refSvc.Exponent(ctx, req.Currency)
	if err != nil {
		return domain.JournalEntry{}, err
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return domain.JournalEntry{}, fmt.Errorf("failed to load accounts: %w", err)
	}

	entry := domain.JournalEntry{
		ID:                  EntryID(req.Code),
		Code:                req.Code,
		TxnDate:             txnDate,
		PostedAt:            req.PostedAt.UTC(),
		Description:         req.Description,
		Currency:            req.Currency,
		ChannelCode:         req.ChannelCode,
		CounterpartyPartyID: req.CounterpartyPartyID,
		TransferReference:   req.TransferReference,
		ExternalReference:   req.ExternalReference,
		ContractID:          req.ContractID,
		Lines:               make([]domain.JournalLine, 0, len(req.Lines)),
	}
	if req.PostedAt.IsZero() {
		entry.PostedAt = txnDate
	}

	amounts := make([]decimal.Decimal, 0, len(req.Lines))
	for i, l := range req.Lines {
		account, ok := accounts[l.AccountID]
		if !ok {
			return domain.JournalEntry{}, &apperrors.MissingReferenceDataError{Entity: "account", Key: l.AccountID}
		}
		if account.Currency != l.Currency {
			return domain.JournalEntry{}, &apperrors.CurrencyMismatchError{
				EntryCode: req.Code,
				AccountID: account.ID,
				Expected:  account.Currency,
				Got:       l.Currency,
			}
		}
		// The close instant is compared against the full transaction time, as trades do.
		if account.IsClosedOn(req.TxnDate) {
			return domain.JournalEntry{}, &apperrors.ClosedAccountError{AccountID: account.ID, ClosedAt: *account.ClosedAt, On: req.TxnDate}
		}
		if l.CategoryID != "" {
			if _, err := s.refSvc.GetCategory(ctx, l.CategoryID); err != nil {
				return domain.JournalEntry{}, err
			}
		}
		if !accounting.IsMinorUnitPrecise(l.Amount, exponent) {
			return domain.JournalEntry{}, fmt.Errorf("%w: amount %s on line %d exceeds %d decimals for %s",
				apperrors.ErrValidation, l.Amount.String(), i+1, exponent, req.Currency)
		}
		amounts = append(amounts, l.Amount)

		lineNo := i + 1
		entry.Lines = append(entry.Lines, domain.JournalLine{
			ID:         domain.NewID("journal_line", req.Code, strconv.Itoa(lineNo)),
			EntryID:    entry.ID,
			LineNo:     lineNo,
			AccountID:  l.AccountID,
			Amount:     l.Amount,
			Currency:   l.Currency,
			CategoryID: l.CategoryID,
			Memo:       l.Memo,
		})
	}

	if !accounting.IsBalanced(amounts) {
		return domain.JournalEntry{}, &apperrors.UnbalancedEntryError{
			EntryCode: req.Code,
			Currency:  req.Currency,
			Residue:   accounting.SignedSum(amounts),
		}
	}
	return entry, nil
}

// Post validates and commits an entry. A repeated code with identical content returns
// the stored entry unchanged.
func (s *journalService) Post(ctx context.Context, req dto.PostEntryRequest) (*domain.JournalEntry, error) {
	entry, err := s.Prepare(ctx, req)
	if err != nil {
		s.LogDebug(ctx, "Journal entry rejected", slog.String("code", req.Code), slog.String("error", err.Error()))
		return nil, err
	}

	stored, created, err := s.journalRepo.SaveEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("code", entry.Code))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}
	if !created {
		if !stored.SameContent(entry) {
			return nil, &apperrors.DuplicateEntryCodeError{Kind: "journal entry", Code: entry.Code}
		}
		s.LogDebug(ctx, "Journal entry already posted", slog.String("code", entry.Code))
		return &stored, nil
	}

	s.LogDebug(ctx, "Journal entry posted",
		slog.String("code", stored.Code),
		slog.String("date", stored.TxnDate.Format(time.DateOnly)),
		slog.Int("lines", len(stored.Lines)))
	publishEntry(ctx, &s.BaseService, s.publisher, stored)
	return &stored, nil
}

// publishEntry forwards a committed entry to the stream. The entry is already durable,
// so a publish failure is logged rather than returned.
func publishEntry(ctx context.Context, base *BaseService, publisher portsrepo.EntryPublisher, entry domain.JournalEntry) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishEntry(ctx, entry); err != nil {
		base.LogError(ctx, err, "Failed to publish journal entry", slog.String("code", entry.Code))
	}
}

func (s *journalService) GetEntry(ctx context.Context, code string) (*domain.JournalEntry, error) {
	return s.journalRepo.FindEntryByCode(ctx, code)
}

func (s *journalService) ListLines(ctx context.Context, accountID string, asOf time.Time) ([]domain.JournalLine, error) {
	return s.journalRepo.ListLinesByAccount(ctx, accountID, asOf)
}
