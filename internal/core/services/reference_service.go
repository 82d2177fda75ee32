package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/portfolio_ledger/internal/core/ports/services"
	"github.com/SscSPs/portfolio_ledger/internal/utils/accounting"
)

// referenceService implements portssvc.ReferenceSvcFacade
type referenceService struct {
	BaseService
	refRepo   portsrepo.ReferenceRepositoryFacade
	marketSvc portssvc.MarketDataWriterSvc
}

// NewReferenceService creates a new reference data service.
func NewReferenceService(refRepo portsrepo.ReferenceRepositoryFacade, marketSvc portssvc.MarketDataWriterSvc) portssvc.ReferenceSvcFacade {
	return &referenceService{refRepo: refRepo, marketSvc: marketSvc}
}

var _ portssvc.ReferenceSvcFacade = (*referenceService)(nil)

// LoadCatalog normalises and stores every catalog row. Missing surrogate IDs are
// derived from natural keys, so loading the same catalog twice changes nothing.
func (s *referenceService) LoadCatalog(ctx context.Context, catalog domain.Catalog) error {
	for _, c := range catalog.Currencies {
		c.Code = strings.ToUpper(c.Code)
		if c.Exponent == 0 {
			if exp, ok := accounting.DefaultExponent(c.Code); ok {
				c.Exponent = exp
			}
		}
		if err := s.refRepo.SaveCurrency(ctx, c); err != nil {
			return fmt.Errorf("failed to save currency %s: %w", c.Code, err)
		}
	}
	for _, t := range catalog.AccountTypes {
		if err := s.refRepo.SaveAccountType(ctx, t); err != nil {
			return fmt.Errorf("failed to save account type %s: %w", t.Code, err)
		}
	}
	for _, m := range catalog.Markets {
		if err := s.refRepo.SaveMarket(ctx, m); err != nil {
			return fmt.Errorf("failed to save market %s: %w", m.MIC, err)
		}
	}
	for _, c := range catalog.Categories {
		if c.ID == "" {
			c.ID = domain.NewID("category", c.Name)
		}
		if c.Section == "" {
			c.Section = domain.SectionUncategorized
		}
		if err := s.refRepo.SaveCategory(ctx, c); err != nil {
			return fmt.Errorf("failed to save category %s: %w", c.Name, err)
		}
	}
	for _, ch := range catalog.Channels {
		if err := s.refRepo.SaveChannel(ctx, ch); err != nil {
			return fmt.Errorf("failed to save channel %s: %w", ch.Code, err)
		}
	}

	symbols := make(map[string]domain.Instrument, len(catalog.Instruments))
	for _, ins := range catalog.Instruments {
		if ins.ID == "" {
			ins.ID = domain.NewID("instrument", ins.Symbol)
		}
		symbols[ins.Symbol] = ins
		if err := s.refRepo.SaveInstrument(ctx, ins); err != nil {
			return fmt.Errorf("failed to save instrument %s: %w", ins.Symbol, err)
		}
	}

	for _, q := range catalog.Prices {
		// Catalog files reference instruments by symbol.
		if ins, ok := symbols[q.InstrumentID]; ok {
			q.InstrumentID = ins.ID
			if q.Currency == "" {
				q.Currency = ins.Currency
			}
		}
		if err := s.marketSvc.RecordPrice(ctx, q); err != nil {
			return fmt.Errorf("failed to load price for %s: %w", q.InstrumentID, err)
		}
	}
	for _, r := range catalog.FxRates {
		if err := s.marketSvc.RecordFxRate(ctx, r); err != nil {
			return fmt.Errorf("failed to load fx rate %s: %w", r.PairKey(), err)
		}
	}

	s.LogInfo(ctx, "Reference catalog loaded",
		slog.Int("currencies", len(catalog.Currencies)),
		slog.Int("categories", len(catalog.Categories)),
		slog.Int("instruments", len(catalog.Instruments)),
		slog.Int("prices", len(catalog.Prices)),
		slog.Int("fx_rates", len(catalog.FxRates)))
	return nil
}

// missingRef converts a repository not-found into the typed reference error.
func missingRef(err error, entity, key string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return &apperrors.MissingReferenceDataError{Entity: entity, Key: key}
	}
	return err
}

func (s *referenceService) GetCurrency(ctx context.Context, code string) (*domain.Currency, error) {
	c, err := s.refRepo.FindCurrency(ctx, code)
	if err != nil {
		return nil, missingRef(err, "currency", code)
	}
	return c, nil
}

func (s *referenceService) Exponent(ctx context.Context, code string) (int32, error) {
	c, err := s.GetCurrency(ctx, code)
	if err != nil {
		return 0, err
	}
	return c.Exponent, nil
}

func (s *referenceService) GetAccountType(ctx context.Context, code string) (*domain.AccountTypeInfo, error) {
	t, err := s.refRepo.FindAccountType(ctx, code)
	if err != nil {
		return nil, missingRef(err, "account type", code)
	}
	return t, nil
}

func (s *referenceService) GetCategory(ctx context.Context, categoryID string) (*domain.Category, error) {
	c, err := s.refRepo.FindCategory(ctx, categoryID)
	if err != nil {
		return nil, missingRef(err, "category", categoryID)
	}
	return c, nil
}

func (s *referenceService) GetCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	c, err := s.refRepo.FindCategoryByName(ctx, name)
	if err != nil {
		return nil, missingRef(err, "category", name)
	}
	return c, nil
}

func (s *referenceService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.refRepo.ListCategories(ctx)
}

func (s *referenceService) GetInstrument(ctx context.Context, instrumentID string) (*domain.Instrument, error) {
	ins, err := s.refRepo.FindInstrument(ctx, instrumentID)
	if err != nil {
		return nil, missingRef(err, "instrument", instrumentID)
	}
	return ins, nil
}

func (s *referenceService) GetInstrumentBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error) {
	ins, err := s.refRepo.FindInstrumentBySymbol(ctx, symbol)
	if err != nil {
		return nil, missingRef(err, "instrument", symbol)
	}
	return ins, nil
}

func (s *referenceService) ListInstruments(ctx context.Context) ([]domain.Instrument, error) {
	return s.refRepo.ListInstruments(ctx)
}

func (s *referenceService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.refRepo.ListCurrencies(ctx)
}
