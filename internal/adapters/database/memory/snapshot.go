package memory

import (
	"context"
	"sort"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

var _ portsrepo.Snapshotter = (*Store)(nil)

// Snapshot flattens the store into sorted record sets ready for bulk load.
func (s *Store) Snapshot(ctx context.Context) (domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ds domain.Dataset
	for _, c := range s.currencies {
		ds.Currencies = append(ds.Currencies, c)
	}
	sort.Slice(ds.Currencies, func(i, j int) bool { return ds.Currencies[i].Code < ds.Currencies[j].Code })
	for _, t := range s.accountTypes {
		ds.AccountTypes = append(ds.AccountTypes, t)
	}
	sort.Slice(ds.AccountTypes, func(i, j int) bool { return ds.AccountTypes[i].Code < ds.AccountTypes[j].Code })
	for _, m := range s.markets {
		ds.Markets = append(ds.Markets, m)
	}
	sort.Slice(ds.Markets, func(i, j int) bool { return ds.Markets[i].MIC < ds.Markets[j].MIC })
	for _, c := range s.categories {
		ds.Categories = append(ds.Categories, c)
	}
	sort.Slice(ds.Categories, func(i, j int) bool { return ds.Categories[i].Name < ds.Categories[j].Name })
	for _, c := range s.channels {
		ds.Channels = append(ds.Channels, c)
	}
	sort.Slice(ds.Channels, func(i, j int) bool { return ds.Channels[i].Code < ds.Channels[j].Code })
	for _, ins := range s.instruments {
		ds.Instruments = append(ds.Instruments, ins)
	}
	sort.Slice(ds.Instruments, func(i, j int) bool { return ds.Instruments[i].Symbol < ds.Instruments[j].Symbol })

	for _, id := range sortedKeys(s.prices) {
		ds.Prices = append(ds.Prices, s.prices[id]...)
	}
	for _, key := range sortedKeys(s.fxRates) {
		ds.FxRates = append(ds.FxRates, s.fxRates[key]...)
	}

	for _, p := range s.parties {
		ds.Parties = append(ds.Parties, p)
	}
	sort.Slice(ds.Parties, func(i, j int) bool { return ds.Parties[i].ID < ds.Parties[j].ID })
	for _, a := range s.accounts {
		ds.Accounts = append(ds.Accounts, a)
	}
	sort.Slice(ds.Accounts, func(i, j int) bool { return ds.Accounts[i].Code < ds.Accounts[j].Code })
	for _, r := range s.roles {
		ds.AccountPartyRoles = append(ds.AccountPartyRoles, r)
	}
	sort.Slice(ds.AccountPartyRoles, func(i, j int) bool { return ds.AccountPartyRoles[i].ID < ds.AccountPartyRoles[j].ID })
	for _, c := range s.contracts {
		ds.Contracts = append(ds.Contracts, c)
	}
	sort.Slice(ds.Contracts, func(i, j int) bool { return ds.Contracts[i].ID < ds.Contracts[j].ID })

	for _, e := range s.entries {
		ds.Entries = append(ds.Entries, cloneEntry(e))
	}
	sortEntries(ds.Entries)
	for i := range ds.Entries {
		ds.Lines = append(ds.Lines, ds.Entries[i].Lines...)
		ds.Entries[i].Lines = nil
	}

	for _, t := range s.trades {
		ds.Trades = append(ds.Trades, t)
	}
	sortTrades(ds.Trades)
	for _, id := range sortedKeys(s.positions) {
		p := s.positions[id]
		ds.Holdings = append(ds.Holdings, p.Holding)
		ds.Lots = append(ds.Lots, p.Lots...)
	}

	for _, p := range s.periods {
		ds.Periods = append(ds.Periods, p)
	}
	sort.Slice(ds.Periods, func(i, j int) bool { return ds.Periods[i].Start.Before(ds.Periods[j].Start) })
	for _, p := range ds.Periods {
		ds.CashFlowFacts = append(ds.CashFlowFacts, s.cashFlowFacts[p.ID]...)
		ds.PayrollFacts = append(ds.PayrollFacts, s.payrollFacts[p.ID]...)
		ds.HoldingPerformances = append(ds.HoldingPerformances, s.holdingFacts[p.ID]...)
	}
	return ds, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
