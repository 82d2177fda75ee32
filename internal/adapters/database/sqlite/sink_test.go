package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

func sampleDataset() domain.Dataset {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sold := day.AddDate(0, 0, 3)
	return domain.Dataset{
		Currencies:   []domain.Currency{{Code: "EUR", Name: "Euro", Exponent: 2}},
		AccountTypes: []domain.AccountTypeInfo{{Code: "checking", IsCash: true}, {Code: "brokerage", IsBrokerage: true}},
		Categories:   []domain.Category{{ID: "cat-rent", Name: "Rent", Section: domain.SectionExpense}},
		Instruments:  []domain.Instrument{{ID: "ins-1", Symbol: "ASML", Currency: "EUR", Type: domain.InstrumentEquity}},
		Parties:      []domain.Party{{ID: "party-1", Type: domain.PartyIndividual, DisplayName: "Alice", CreatedAt: day}},
		Accounts: []domain.Account{
			{ID: "acc-1", Code: "CHK-A", TypeCode: "checking", Currency: "EUR", OpenedAt: day},
			{ID: "acc-2", Code: "SYS-EXTERNAL-EUR", TypeCode: "checking", Currency: "EUR", Purpose: domain.PurposeExternal, OpenedAt: day},
		},
		Entries: []domain.JournalEntry{{ID: "e-1", Code: "RENT-1", TxnDate: day, PostedAt: day, Currency: "EUR"}},
		Lines: []domain.JournalLine{
			{ID: "l-1", EntryID: "e-1", LineNo: 1, AccountID: "acc-1", Amount: decimal.RequireFromString("-1234.56"), Currency: "EUR", CategoryID: "cat-rent"},
			{ID: "l-2", EntryID: "e-1", LineNo: 2, AccountID: "acc-2", Amount: decimal.RequireFromString("1234.56"), Currency: "EUR"},
		},
		Holdings: []domain.Holding{{
			ID: "h-1", AccountID: "acc-1", InstrumentID: "ins-1", Currency: "EUR",
			Quantity: decimal.NewFromInt(5), AverageCost: decimal.RequireFromString("120.1234"), UpdatedAt: day,
		}},
		Lots: []domain.Lot{{
			ID: "lot-1", HoldingID: "h-1", Status: domain.LotClosed, OpenedOn: day, ClosedOn: &sold,
			Quantity: decimal.NewFromInt(5), CostBasis: decimal.NewFromInt(600),
		}},
		Periods: domain.MonthlyPeriods(day, 1),
		HoldingPerformances: []domain.HoldingPerformanceFact{{
			ID: "hp-1", PeriodID: "p", PartyID: "party-1", InstrumentID: "ins-1",
			Quantity: decimal.NewFromInt(5), CostBasis: decimal.NewFromInt(600),
		}},
	}
}

func openTestSink(t *testing.T) *GormSink {
	t.Helper()
	sink, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })
	return sink
}

func TestGormSink_Load(t *testing.T) {
	sink := openTestSink(t)
	ctx := context.Background()
	ds := sampleDataset()

	require.NoError(t, sink.Load(ctx, ds))

	var lines []JournalLine
	require.NoError(t, sink.DB().Order("line_no").Find(&lines).Error)
	require.Len(t, lines, 2)
	assert.True(t, decimal.RequireFromString("-1234.56").Equal(lines[0].Amount))
	assert.Equal(t, "cat-rent", lines[0].CategoryID)

	var holding Holding
	require.NoError(t, sink.DB().First(&holding, "id = ?", "h-1").Error)
	assert.Equal(t, "120.1234", holding.AverageCost.String())
	assert.True(t, holding.UpdatedAt.Equal(ds.Holdings[0].UpdatedAt))

	var account Account
	require.NoError(t, sink.DB().First(&account, "code = ?", "SYS-EXTERNAL-EUR").Error)
	assert.Equal(t, string(domain.PurposeExternal), account.Purpose)

	var perf HoldingPerformanceFact
	require.NoError(t, sink.DB().First(&perf).Error)
	assert.False(t, perf.MarketValue.Valid)
	assert.Nil(t, perf.PriceDate)

	var lot Lot
	require.NoError(t, sink.DB().First(&lot).Error)
	require.NotNil(t, lot.ClosedOn)
}

func TestGormSink_LoadReplacesPreviousContents(t *testing.T) {
	sink := openTestSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Load(ctx, sampleDataset()))

	smaller := sampleDataset()
	smaller.Lines = smaller.Lines[:1]
	require.NoError(t, sink.Load(ctx, smaller))

	var count int64
	require.NoError(t, sink.DB().Model(&JournalLine{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, sink.DB().Model(&JournalEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormSink_LoadRollsBackOnFailure(t *testing.T) {
	sink := openTestSink(t)
	ctx := context.Background()
	require.NoError(t, sink.Load(ctx, sampleDataset()))

	broken := sampleDataset()
	broken.Lines = append(broken.Lines, broken.Lines[0]) // duplicate primary key
	assert.Error(t, sink.Load(ctx, broken))

	var count int64
	require.NoError(t, sink.DB().Model(&JournalLine{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}
