package memory

import (
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every repository port to one shared store.
func NewRepositoryProvider(store *Store) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		ReferenceRepo:  store,
		AccountRepo:    store,
		JournalRepo:    store,
		TradeRepo:      store,
		MarketDataRepo: store,
		FactRepo:       store,
		Snapshotter:    store,
	}
}
