package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindEntryByCode retrieves an entry, with lines, by its unique code.
	FindEntryByCode(ctx context.Context, code string) (*domain.JournalEntry, error)

	// ListEntries returns entries with TxnDate in [from, to), with lines, ordered by date then code.
	ListEntries(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error)

	// ListLinesByAccount returns the lines posted to an account with TxnDate on or before asOf.
	ListLinesByAccount(ctx context.Context, accountID string, asOf time.Time) ([]domain.JournalLine, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveEntry persists an entry and all of its lines as one unit.
	// If the code already exists the stored entry is returned with created=false and
	// nothing is written; the caller decides whether the content matches.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) (stored domain.JournalEntry, created bool, err error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
// This is a facade for clients that need access to all operations
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}

// TradeCommit is everything one executed trade changes, committed as one unit.
type TradeCommit struct {
	Trade    domain.Trade
	Position domain.Position
	Entry    domain.JournalEntry
}

// TradeReader defines read operations for trades, holdings and lots
type TradeReader interface {
	// FindTradeByCode retrieves a trade by its unique code.
	FindTradeByCode(ctx context.Context, code string) (*domain.Trade, error)

	// ListTrades returns trades with TradeTime before `before`, in execution order.
	ListTrades(ctx context.Context, before time.Time) ([]domain.Trade, error)

	// LoadPosition returns the holding and full lot ledger; an empty position when none exists.
	LoadPosition(ctx context.Context, accountID, instrumentID string) (domain.Position, bool, error)

	// ListHoldings returns every holding ordered by account then instrument.
	ListHoldings(ctx context.Context) ([]domain.Holding, error)

	// ListHoldingsByAccount returns the holdings of one account.
	ListHoldingsByAccount(ctx context.Context, accountID string) ([]domain.Holding, error)
}

// TradeWriter defines write operations for trades
type TradeWriter interface {
	// CommitTrade stores the trade, replaces the position and saves the wrapping entry atomically.
	// An existing trade code returns the stored trade with created=false and writes nothing.
	CommitTrade(ctx context.Context, commit TradeCommit) (stored domain.Trade, created bool, err error)
}

// TradeRepositoryFacade combines all trade-related repository interfaces
type TradeRepositoryFacade interface {
	TradeReader
	TradeWriter
}
