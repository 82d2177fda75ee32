package memory

import (
	"context"
	"sort"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

var _ portsrepo.JournalRepositoryFacade = (*Store)(nil)

// SaveEntry persists the entry and its lines under the write lock, so no reader
// ever observes a partially written entry.
func (s *Store) SaveEntry(ctx context.Context, entry domain.JournalEntry) (domain.JournalEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entryByCode[entry.Code]; ok {
		return cloneEntry(s.entries[id]), false, nil
	}
	s.putEntry(entry)
	return cloneEntry(entry), true, nil
}

// putEntry must be called with the write lock held.
func (s *Store) putEntry(entry domain.JournalEntry) {
	entry = cloneEntry(entry)
	s.entries[entry.ID] = entry
	s.entryByCode[entry.Code] = entry.ID
	for _, l := range entry.Lines {
		s.linesByAccount[l.AccountID] = append(s.linesByAccount[l.AccountID], datedLine{date: entry.TxnDate, line: l})
	}
}

func (s *Store) FindEntryByCode(ctx context.Context, code string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.entryByCode[code]
	if !ok {
		return nil, notFound("journal entry", code)
	}
	e := cloneEntry(s.entries[id])
	return &e, nil
}

func (s *Store) ListEntries(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.JournalEntry, 0)
	for _, e := range s.entries {
		if e.TxnDate.Before(from) || !e.TxnDate.Before(to) {
			continue
		}
		out = append(out, cloneEntry(e))
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []domain.JournalEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].TxnDate.Equal(entries[j].TxnDate) {
			return entries[i].TxnDate.Before(entries[j].TxnDate)
		}
		return entries[i].Code < entries[j].Code
	})
}

func (s *Store) ListLinesByAccount(ctx context.Context, accountID string, asOf time.Time) ([]domain.JournalLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.JournalLine, 0)
	for _, dl := range s.linesByAccount[accountID] {
		if dl.date.After(asOf) {
			continue
		}
		out = append(out, dl.line)
	}
	return out, nil
}
