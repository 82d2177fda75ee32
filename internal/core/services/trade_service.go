package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
	"github.com/SscSPs/portfolio_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// tradeService executes trades against holdings and wraps each one in a journal entry.
type tradeService struct {
	BaseService
	tradeRepo  portsrepo.TradeRepositoryFacade
	accountSvc portssvc.AccountSvc
	refSvc     portssvc.ReferenceReaderSvc
	marketSvc  portssvc.MarketDataReaderSvc
	journalSvc portssvc.JournalWriterSvc
	publisher  portsrepo.EntryPublisher
}

// TradeServiceOption is a functional option for configuring the trade service
type TradeServiceOption func(*tradeService)

// WithTradePublisher streams the entry of every newly committed trade.
func WithTradePublisher(p portsrepo.EntryPublisher) TradeServiceOption {
	return func(s *tradeService) {
		s.publisher = p
	}
}

// NewTradeService creates a new trade and holding service.
func NewTradeService(
	tradeRepo portsrepo.TradeRepositoryFacade,
	accountSvc portssvc.AccountSvc,
	refSvc portssvc.ReferenceReaderSvc,
	marketSvc portssvc.MarketDataReaderSvc,
	journalSvc portssvc.JournalWriterSvc,
	options ...TradeServiceOption,
) portssvc.TradeSvcFacade {
	svc := &tradeService{
		tradeRepo:  tradeRepo,
		accountSvc: accountSvc,
		refSvc:     refSvc,
		marketSvc:  marketSvc,
		journalSvc: journalSvc,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TradeSvcFacade = (*tradeService)(nil)

// TradeEntryCode is the code of the journal entry wrapping a trade.
func TradeEntryCode(tradeCode string) string { return "TRD-" + tradeCode }

// TradeCostOrProceeds is what a trade adds to (BUY: cost basis) or takes from
// (SELL: net proceeds) the holding, in the holding currency. Tax stays out of both.
func TradeCostOrProceeds(ctx context.Context, market portssvc.MarketDataReaderSvc, t domain.Trade, holdingCurrency string) (decimal.Decimal, error) {
	amount := t.Gross().Add(t.Fees)
	if t.Side == domain.Sell {
		amount = t.Gross().Sub(t.Fees)
	}
	return market.Convert(ctx, amount, t.Currency, holdingCurrency, t.TradeTime)
}

func validateTradeAmounts(req dto.ExecuteTradeRequest) error {
	if !req.Quantity.IsPositive() {
		return &apperrors.NegativeQuantityOrPriceError{Field: "quantity", Value: req.Quantity}
	}
	if !req.Price.IsPositive() {
		return &apperrors.NegativeQuantityOrPriceError{Field: "price", Value: req.Price}
	}
	if req.Fees.IsNegative() {
		return &apperrors.NegativeQuantityOrPriceError{Field: "fees", Value: req.Fees}
	}
	if req.Tax.IsNegative() {
		return &apperrors.NegativeQuantityOrPriceError{Field: "tax", Value: req.Tax}
	}
	return nil
}

func (s *tradeService) ExecuteTrade(ctx context.Context, req dto.ExecuteTradeRequest) (*domain.Trade, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := validateTradeAmounts(req); err != nil {
		return nil, err
	}

	account, err := s.accountSvc.GetAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	accountType, err := s.refSvc.GetAccountType(ctx, account.TypeCode)
	if err != nil {
		return nil, err
	}
	if !accountType.IsBrokerage {
		return nil, fmt.Errorf("%w: account %s is not a brokerage account", apperrors.ErrValidation, account.Code)
	}
	if account.IsClosedOn(req.TradeTime) {
		return nil, &apperrors.ClosedAccountError{AccountID: account.ID, ClosedAt: *account.ClosedAt, On: req.TradeTime}
	}
	instrument, err := s.refSvc.GetInstrument(ctx, req.InstrumentID)
	if err != nil {
		return nil, err
	}

	trade := domain.Trade{
		ID:             domain.NewID("trade", req.Code),
		Code:           req.Code,
		AccountID:      account.ID,
		InstrumentID:   instrument.ID,
		Side:           domain.TradeSide(req.Side),
		Quantity:       req.Quantity,
		Price:          req.Price,
		Fees:           req.Fees,
		Tax:            req.Tax,
		Currency:       req.Currency,
		TradeTime:      req.TradeTime.UTC(),
		SettlementDate: req.SettlementDate,
		EntryID:        EntryID(TradeEntryCode(req.Code)),
	}

	if existing, err := s.tradeRepo.FindTradeByCode(ctx, req.Code); err == nil {
		return s.resolveExisting(ctx, *existing, trade)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	position, found, err := s.tradeRepo.LoadPosition(ctx, account.ID, instrument.ID)
	if err != nil {
		return nil, err
	}
	if !found {
		position = domain.NewPosition(account.ID, instrument.ID, instrument.Currency)
	}

	amount, err := TradeCostOrProceeds(ctx, s.marketSvc, trade, instrument.Currency)
	if err != nil {
		return nil, err
	}
	var next domain.Position
	switch trade.Side {
	case domain.Buy:
		next, _, err = position.Buy(trade.ID, trade.TradeTime, trade.Quantity, amount)
	case domain.Sell:
		next, _, err = position.Sell(trade.ID, trade.TradeTime, trade.Quantity, amount)
	default:
		err = fmt.Errorf("%w: unknown side %q", apperrors.ErrValidation, trade.Side)
	}
	if err != nil {
		return nil, err
	}

	entryReq, err := s.buildEntry(ctx, trade, *account, instrument.Symbol)
	if err != nil {
		return nil, err
	}
	entry, err := s.journalSvc.Prepare(ctx, entryReq)
	if err != nil {
		return nil, err
	}

	stored, created, err := s.tradeRepo.CommitTrade(ctx, portsrepo.TradeCommit{Trade: trade, Position: next, Entry: entry})
	if err != nil {
		s.LogError(ctx, err, "Failed to commit trade", slog.String("code", trade.Code))
		return nil, err
	}
	if !created {
		return s.resolveExisting(ctx, stored, trade)
	}

	s.LogDebug(ctx, "Trade executed",
		slog.String("code", trade.Code),
		slog.String("side", string(trade.Side)),
		slog.String("symbol", instrument.Symbol),
		slog.String("quantity", trade.Quantity.String()),
		slog.String("holding_quantity", next.Holding.Quantity.String()))
	publishEntry(ctx, &s.BaseService, s.publisher, entry)
	return &stored, nil
}

func (s *tradeService) resolveExisting(ctx context.Context, stored, candidate domain.Trade) (*domain.Trade, error) {
	if !stored.SameContent(candidate) {
		return nil, &apperrors.DuplicateEntryCodeError{Kind: "trade", Code: candidate.Code}
	}
	s.LogDebug(ctx, "Trade already executed", slog.String("code", candidate.Code))
	return &stored, nil
}

// buildEntry lays out the balanced legs of a trade in the brokerage account's currency.
// Each leg is converted and rounded on its own; whatever residue the rounding leaves is
// booked explicitly on the settlement clearing account.
func (s *tradeService) buildEntry(ctx context.Context, t domain.Trade, account domain.Account, symbol string) (dto.PostEntryRequest, error) {
	ccy := account.Currency
	exponent, err := s.refSvc.Exponent(ctx, ccy)
	if err != nil {
		return dto.PostEntryRequest{}, err
	}
	settlement, err := s.accountSvc.SystemAccount(ctx, domain.PurposeSettlement, ccy)
	if err != nil {
		return dto.PostEntryRequest{}, err
	}
	feesAcc, err := s.accountSvc.SystemAccount(ctx, domain.PurposeFees, ccy)
	if err != nil {
		return dto.PostEntryRequest{}, err
	}
	securities, err := s.categoryID(ctx, domain.CategorySecuritiesTrading)
	if err != nil {
		return dto.PostEntryRequest{}, err
	}
	feesCat, err := s.categoryID(ctx, domain.CategoryBrokerFees)
	if err != nil {
		return dto.PostEntryRequest{}, err
	}

	leg := func(amount decimal.Decimal) (decimal.Decimal, error) {
		converted, err := s.marketSvc.Convert(ctx, amount, t.Currency, ccy, t.TradeTime)
		if err != nil {
			return decimal.Zero, err
		}
		return accounting.RoundToMinor(converted, exponent), nil
	}

	gross := t.Gross()
	charges := t.Fees.Add(t.Tax)
	var brokerage, settle decimal.Decimal
	if t.Side == domain.Buy {
		brokerage = gross.Add(charges).Neg()
		settle = gross
	} else {
		brokerage = gross.Sub(charges)
		settle = gross.Neg()
	}
	if brokerage, err = leg(brokerage); err != nil {
		return dto.PostEntryRequest{}, err
	}
	if settle, err = leg(settle); err != nil {
		return dto.PostEntryRequest{}, err
	}
	fees, err := leg(charges)
	if err != nil {
		return dto.PostEntryRequest{}, err
	}

	lines := []dto.EntryLineRequest{
		{AccountID: account.ID, Amount: brokerage, Currency: ccy, CategoryID: securities, Memo: symbol},
		{AccountID: settlement.ID, Amount: settle, Currency: ccy, CategoryID: securities, Memo: symbol},
	}
	if !fees.IsZero() {
		lines = append(lines, dto.EntryLineRequest{AccountID: feesAcc.ID, Amount: fees, Currency: ccy, CategoryID: feesCat, Memo: "fees and tax"})
	}
	residue := brokerage.Add(settle).Add(fees)
	if !residue.IsZero() {
		plugCat, err := s.categoryID(ctx, domain.CategoryFXRounding)
		if err != nil {
			return dto.PostEntryRequest{}, err
		}
		lines = append(lines, dto.EntryLineRequest{AccountID: settlement.ID, Amount: residue.Neg(), Currency: ccy, CategoryID: plugCat, Memo: "rounding"})
	}

	return dto.PostEntryRequest{
		Code:              TradeEntryCode(t.Code),
		TxnDate:           t.TradeTime,
		PostedAt:          t.TradeTime,
		Description:       fmt.Sprintf("%s %s %s @ %s %s", t.Side, t.Quantity.String(), symbol, t.Price.String(), t.Currency),
		Currency:          ccy,
		ChannelCode:       domain.ChannelBroker,
		ExternalReference: t.Code,
		Lines:             lines,
	}, nil
}

func (s *tradeService) categoryID(ctx context.Context, name string) (string, error) {
	c, err := s.refSvc.GetCategoryByName(ctx, name)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (s *tradeService) loadPosition(ctx context.Context, accountID, instrumentID string) (domain.Position, error) {
	p, found, err := s.tradeRepo.LoadPosition(ctx, accountID, instrumentID)
	if err != nil {
		return domain.Position{}, err
	}
	if !found {
		return domain.Position{}, &apperrors.MissingReferenceDataError{Entity: "holding", Key: domain.HoldingID(accountID, instrumentID)}
	}
	return p, nil
}

func (s *tradeService) GetHolding(ctx context.Context, accountID, instrumentID string) (*domain.Holding, error) {
	p, err := s.loadPosition(ctx, accountID, instrumentID)
	if err != nil {
		return nil, err
	}
	return &p.Holding, nil
}

func (s *tradeService) ListLots(ctx context.Context, accountID, instrumentID string) ([]domain.Lot, error) {
	p, err := s.loadPosition(ctx, accountID, instrumentID)
	if err != nil {
		return nil, err
	}
	return p.Lots, nil
}

func (s *tradeService) Valuate(ctx context.Context, accountID, instrumentID string, asOf time.Time) (*domain.HoldingValuation, error) {
	p, err := s.loadPosition(ctx, accountID, instrumentID)
	if err != nil {
		return nil, err
	}
	v, err := valuePosition(ctx, s.marketSvc, p, asOf)
	if err != nil {
		return nil, err
	}
	if !v.Available {
		return nil, &apperrors.MissingPriceDataError{Kind: "price", Key: instrumentID, AsOf: asOf}
	}
	return &v, nil
}
