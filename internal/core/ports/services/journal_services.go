package services

import (
	"context"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its lines by code.
	GetEntry(ctx context.Context, code string) (*domain.JournalEntry, error)

	// ListLines returns the lines posted to an account with TxnDate on or before asOf.
	ListLines(ctx context.Context, accountID string, asOf time.Time) ([]domain.JournalLine, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// Prepare validates a candidate entry and builds it without committing anything.
	Prepare(ctx context.Context, req dto.PostEntryRequest) (domain.JournalEntry, error)

	// Post validates and atomically commits an entry. Re-posting identical content is a no-op.
	Post(ctx context.Context, req dto.PostEntryRequest) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
// This is a facade for clients that need access to all operations
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
