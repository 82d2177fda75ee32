package repositories

import (
	"context"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// ReferenceReader defines read operations for lookup data
type ReferenceReader interface {
	// FindCurrency retrieves a currency by ISO code.
	FindCurrency(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies returns all currencies ordered by code.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// FindAccountType retrieves an account type lookup row.
	FindAccountType(ctx context.Context, code string) (*domain.AccountTypeInfo, error)

	// FindCategory retrieves a category by ID.
	FindCategory(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindCategoryByName retrieves a category by its unique name.
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)

	// ListCategories returns all categories ordered by name.
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// FindInstrument retrieves an instrument by ID.
	FindInstrument(ctx context.Context, instrumentID string) (*domain.Instrument, error)

	// FindInstrumentBySymbol retrieves an instrument by its unique symbol.
	FindInstrumentBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error)

	// ListInstruments returns all instruments ordered by symbol.
	ListInstruments(ctx context.Context) ([]domain.Instrument, error)
}

// ReferenceWriter defines write operations for lookup data
type ReferenceWriter interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
	SaveAccountType(ctx context.Context, accountType domain.AccountTypeInfo) error
	SaveMarket(ctx context.Context, market domain.Market) error
	SaveCategory(ctx context.Context, category domain.Category) error
	SaveChannel(ctx context.Context, channel domain.Channel) error
	SaveInstrument(ctx context.Context, instrument domain.Instrument) error
}

// ReferenceRepositoryFacade combines all reference-data repository interfaces
type ReferenceRepositoryFacade interface {
	ReferenceReader
	ReferenceWriter
}
