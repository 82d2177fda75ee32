package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/portfolio_ledger/internal/core/services"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }

// testCatalog is a small catalog with one EUR and one USD instrument.
func testCatalog() domain.Catalog {
	return domain.Catalog{
		Currencies: []domain.Currency{{Code: "EUR", Name: "Euro"}, {Code: "USD", Name: "US Dollar"}},
		AccountTypes: []domain.AccountTypeInfo{
			{Code: domain.AccountTypeChecking, IsCash: true},
			{Code: domain.AccountTypeBrokerage, IsBrokerage: true},
			{Code: domain.AccountTypeOperating, IsCash: true},
			{Code: domain.AccountTypeClearing},
		},
		Categories: []domain.Category{
			{Name: domain.CategorySalary, Section: domain.SectionIncome},
			{Name: domain.CategoryPayroll, Section: domain.SectionExpense},
			{Name: domain.CategoryWageTaxWithheld, Section: domain.SectionTax},
			{Name: domain.CategorySecuritiesTrading, Section: domain.SectionInvestment},
			{Name: domain.CategoryBrokerFees, Section: domain.SectionExpense},
			{Name: domain.CategoryFXRounding, Section: domain.SectionExpense},
			{Name: "Groceries", Section: domain.SectionExpense},
		},
		Channels: []domain.Channel{{Code: domain.ChannelSEPA}, {Code: domain.ChannelBroker}},
		Instruments: []domain.Instrument{
			{Symbol: "ACME", Name: "Acme NV", Type: domain.InstrumentEquity, Currency: "EUR"},
			{Symbol: "GLOBX", Name: "Globex Inc", Type: domain.InstrumentEquity, Currency: "USD"},
		},
		Prices: []domain.PriceQuote{
			{InstrumentID: "ACME", Date: day(1), Close: d("125")},
			{InstrumentID: "ACME", Date: day(20), Close: d("140")},
		},
		FxRates: []domain.FxRate{
			{Base: "USD", Quote: "EUR", Date: day(1), Rate: d("0.9")},
		},
	}
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	repos     *portsrepo.RepositoryProvider
	svc       *services.Container
	alice     *domain.Party
	bob       *domain.Party
	checkingA *domain.Account
	checkingB *domain.Account
	brokerage *domain.Account
	acme      *domain.Instrument
	globex    *domain.Instrument
}

func newFixture(t *testing.T, options ...services.ContainerOption) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	svc := services.NewContainer(repos, options...)
	f := &fixture{ctx: ctx, store: store, repos: repos, svc: svc}

	require.NoError(t, svc.Reference.LoadCatalog(ctx, testCatalog()))
	require.NoError(t, svc.Account.EnsureSystemAccounts(ctx, "EUR", day(1)))

	var err error
	f.alice, err = svc.Account.CreateParty(ctx, dto.CreatePartyRequest{Type: "INDIVIDUAL", DisplayName: "Alice", CreatedAt: day(1)})
	require.NoError(t, err)
	f.bob, err = svc.Account.CreateParty(ctx, dto.CreatePartyRequest{Type: "INDIVIDUAL", DisplayName: "Bob", CreatedAt: day(1)})
	require.NoError(t, err)

	f.checkingA = f.openAccount(t, "CHK-A", domain.AccountTypeChecking, f.alice.ID)
	f.checkingB = f.openAccount(t, "CHK-B", domain.AccountTypeChecking, f.bob.ID)
	f.brokerage = f.openAccount(t, "BRK-A", domain.AccountTypeBrokerage, f.alice.ID)

	f.acme, err = svc.Reference.GetInstrumentBySymbol(ctx, "ACME")
	require.NoError(t, err)
	f.globex, err = svc.Reference.GetInstrumentBySymbol(ctx, "GLOBX")
	require.NoError(t, err)
	return f
}

func (f *fixture) openAccount(t *testing.T, code, typeCode, ownerID string) *domain.Account {
	t.Helper()
	acc, err := f.svc.Account.OpenAccount(f.ctx, dto.OpenAccountRequest{
		Code:     code,
		Name:     code,
		TypeCode: typeCode,
		Currency: "EUR",
		OpenedAt: day(1),
		Owners:   []dto.AccountOwnerRequest{{PartyID: ownerID, Role: "OWNER", IsPrimary: true}},
	})
	require.NoError(t, err)
	return acc
}

func (f *fixture) categoryID(t *testing.T, name string) string {
	t.Helper()
	c, err := f.svc.Reference.GetCategoryByName(f.ctx, name)
	require.NoError(t, err)
	return c.ID
}

func transfer(code string, date time.Time, from, to string, amount decimal.Decimal, categoryID string) dto.PostEntryRequest {
	return dto.PostEntryRequest{
		Code:     code,
		TxnDate:  date,
		Currency: "EUR",
		Lines: []dto.EntryLineRequest{
			{AccountID: from, Amount: amount.Neg(), Currency: "EUR", CategoryID: categoryID},
			{AccountID: to, Amount: amount, Currency: "EUR", CategoryID: categoryID},
		},
	}
}

func trade(code string, at time.Time, accountID, instrumentID, side, qty, price string) dto.ExecuteTradeRequest {
	return dto.ExecuteTradeRequest{
		Code:         code,
		AccountID:    accountID,
		InstrumentID: instrumentID,
		Side:         side,
		Quantity:     d(qty),
		Price:        d(price),
		Fees:         decimal.Zero,
		Tax:          decimal.Zero,
		Currency:     "EUR",
		TradeTime:    at,
	}
}
