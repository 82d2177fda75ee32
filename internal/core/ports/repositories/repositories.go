package repositories

import (
	"context"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
)

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	ReferenceRepo  ReferenceRepositoryFacade
	AccountRepo    AccountRepositoryFacade
	JournalRepo    JournalRepositoryFacade
	TradeRepo      TradeRepositoryFacade
	MarketDataRepo MarketDataRepositoryFacade
	FactRepo       FactRepositoryFacade
	Snapshotter    Snapshotter
}

// Snapshotter exports the whole working store as flat, sorted record sets.
type Snapshotter interface {
	Snapshot(ctx context.Context) (domain.Dataset, error)
}

// RecordSink bulk-loads a dataset into an external store.
type RecordSink interface {
	Load(ctx context.Context, data domain.Dataset) error
}

// EntryPublisher appends committed entries to an external append-only stream.
type EntryPublisher interface {
	PublishEntry(ctx context.Context, entry domain.JournalEntry) error
}
