package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }

func entry(code string, date time.Time) domain.JournalEntry {
	id := domain.NewID("journal_entry", code)
	return domain.JournalEntry{
		ID: id, Code: code, TxnDate: date, Currency: "EUR",
		Lines: []domain.JournalLine{
			{ID: id + "-1", EntryID: id, LineNo: 1, AccountID: "a", Amount: decimal.NewFromInt(-5), Currency: "EUR"},
			{ID: id + "-2", EntryID: id, LineNo: 2, AccountID: "b", Amount: decimal.NewFromInt(5), Currency: "EUR"},
		},
	}
}

func TestStore_SaveEntryIsIdempotentByCode(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	_, created, err := s.SaveEntry(ctx, entry("JE-1", day(1)))
	require.NoError(t, err)
	assert.True(t, created)

	other := entry("JE-1", day(2))
	stored, created, err := s.SaveEntry(ctx, other)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, day(1), stored.TxnDate)

	lines, err := s.ListLinesByAccount(ctx, "a", day(31))
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestStore_ListEntriesIsHalfOpenAndOrdered(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	for _, e := range []domain.JournalEntry{entry("JE-3", day(2)), entry("JE-2", day(2)), entry("JE-1", day(5)), entry("JE-0", day(1))} {
		_, _, err := s.SaveEntry(ctx, e)
		require.NoError(t, err)
	}

	got, err := s.ListEntries(ctx, day(2), day(5))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "JE-2", got[0].Code)
	assert.Equal(t, "JE-3", got[1].Code)
}

func TestStore_ReturnedEntriesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, _, err := s.SaveEntry(ctx, entry("JE-1", day(1)))
	require.NoError(t, err)

	e, err := s.FindEntryByCode(ctx, "JE-1")
	require.NoError(t, err)
	e.Lines[0].Amount = decimal.NewFromInt(999)

	again, err := s.FindEntryByCode(ctx, "JE-1")
	require.NoError(t, err)
	assert.True(t, again.Lines[0].Amount.Equal(decimal.NewFromInt(-5)))
}

func TestStore_CommitTradeRejectsTakenEntryCode(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, _, err := s.SaveEntry(ctx, entry("TRD-1", day(1)))
	require.NoError(t, err)

	commit := portsrepo.TradeCommit{
		Trade:    domain.Trade{ID: "t1", Code: "1", AccountID: "acc", InstrumentID: "ins"},
		Position: domain.NewPosition("acc", "ins", "USD"),
		Entry:    entry("TRD-1", day(1)),
	}
	_, created, err := s.CommitTrade(ctx, commit)
	require.Error(t, err)
	assert.False(t, created)
	var dup *apperrors.DuplicateEntryCodeError
	assert.True(t, errors.As(err, &dup))

	_, err = s.FindTradeByCode(ctx, "1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, found, err := s.LoadPosition(ctx, "acc", "ins")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_PricesStaySortedAndReplaceSameDate(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	for _, q := range []domain.PriceQuote{
		{InstrumentID: "i", Date: day(3), Close: decimal.NewFromInt(3)},
		{InstrumentID: "i", Date: day(1), Close: decimal.NewFromInt(1)},
		{InstrumentID: "i", Date: day(2), Close: decimal.NewFromInt(2)},
		{InstrumentID: "i", Date: day(2), Close: decimal.NewFromInt(22)},
	} {
		require.NoError(t, s.SavePrice(ctx, q))
	}

	quotes, err := s.ListPrices(ctx, "i")
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	assert.Equal(t, day(1), quotes[0].Date)
	assert.True(t, quotes[1].Close.Equal(decimal.NewFromInt(22)))
}

func TestStore_SnapshotFlattensLines(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, _, err := s.SaveEntry(ctx, entry("JE-2", day(2)))
	require.NoError(t, err)
	_, _, err = s.SaveEntry(ctx, entry("JE-1", day(1)))
	require.NoError(t, err)

	ds, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, ds.Entries, 2)
	assert.Equal(t, "JE-1", ds.Entries[0].Code)
	assert.Nil(t, ds.Entries[0].Lines)
	assert.Len(t, ds.Lines, 4)
}

func TestStore_PartyNamesUniquePerType(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.SaveParty(ctx, domain.Party{ID: "p1", Type: domain.PartyCompany, DisplayName: "Acme"}))
	require.NoError(t, s.SaveParty(ctx, domain.Party{ID: "p2", Type: domain.PartyIndividual, DisplayName: "Acme"}))

	err := s.SaveParty(ctx, domain.Party{ID: "p3", Type: domain.PartyCompany, DisplayName: "Acme"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}
