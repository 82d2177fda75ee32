package services

import (
	"context"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// ReferenceLoaderSvc defines operations that register lookup data
type ReferenceLoaderSvc interface {
	// LoadCatalog registers currencies, account types, markets, categories, channels,
	// instruments, prices and FX rates. Reloading the same catalog is a no-op.
	LoadCatalog(ctx context.Context, catalog domain.Catalog) error
}

// ReferenceReaderSvc defines lookups used by every downstream component
type ReferenceReaderSvc interface {
	GetCurrency(ctx context.Context, code string) (*domain.Currency, error)

	// Exponent returns the minor-unit digits of a registered currency.
	Exponent(ctx context.Context, code string) (int32, error)

	GetAccountType(ctx context.Context, code string) (*domain.AccountTypeInfo, error)
	GetCategory(ctx context.Context, categoryID string) (*domain.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	GetInstrument(ctx context.Context, instrumentID string) (*domain.Instrument, error)
	GetInstrumentBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error)
	ListInstruments(ctx context.Context) ([]domain.Instrument, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ReferenceSvcFacade combines all reference-data service interfaces
type ReferenceSvcFacade interface {
	ReferenceLoaderSvc
	ReferenceReaderSvc
}
