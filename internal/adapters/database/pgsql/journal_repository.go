package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/portfolio_ledger/internal/apperrors"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
)

// PgxJournalRepository reads journal entries and lines back out of a loaded dataset.
type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

var _ portsrepo.JournalReader = (*PgxJournalRepository)(nil)

// NewPgxJournalRepository creates a new read repository for journal data.
func NewPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{pool: pool}
}

const entryColumns = `
	id, code, txn_date, posted_at, description, currency,
	COALESCE(channel_code, ''), COALESCE(counterparty_party_id, ''), COALESCE(transfer_reference, ''),
	COALESCE(external_reference, ''), COALESCE(contract_id, '')`

const lineColumns = `
	l.id, l.entry_id, l.line_no, l.account_id, l.amount, l.currency,
	COALESCE(l.category_id, ''), COALESCE(l.memo, '')`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var e domain.JournalEntry
	err := row.Scan(
		&e.ID,
		&e.Code,
		&e.TxnDate,
		&e.PostedAt,
		&e.Description,
		&e.Currency,
		&e.ChannelCode,
		&e.CounterpartyPartyID,
		&e.TransferReference,
		&e.ExternalReference,
		&e.ContractID,
	)
	return e, err
}

func scanLine(row pgx.Row) (domain.JournalLine, error) {
	var l domain.JournalLine
	var amount decimal.Decimal // Scanned through sql.Scanner
	err := row.Scan(
		&l.ID,
		&l.EntryID,
		&l.LineNo,
		&l.AccountID,
		&amount,
		&l.Currency,
		&l.CategoryID,
		&l.Memo,
	)
	l.Amount = amount
	return l, err
}

// FindEntryByCode retrieves an entry, with lines, by its unique code.
func (r *PgxJournalRepository) FindEntryByCode(ctx context.Context, code string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE code = $1;`
	entry, err := scanEntry(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry by code %s: %w", code, err)
	}

	lines, err := r.queryLines(ctx, `
		SELECT `+lineColumns+`
		FROM journal_lines l
		WHERE l.entry_id = $1
		ORDER BY l.line_no;
	`, entry.ID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return &entry, nil
}

// ListEntries returns entries with TxnDate in [from, to), with lines, ordered by date then code.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, from, to time.Time) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE txn_date >= $1 AND txn_date < $2
		ORDER BY txn_date, code;
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.JournalEntry, error) {
		return scanEntry(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal entries: %w", err)
	}

	lines, err := r.queryLines(ctx, `
		SELECT `+lineColumns+`
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE e.txn_date >= $1 AND e.txn_date < $2
		ORDER BY l.entry_id, l.line_no;
	`, from, to)
	if err != nil {
		return nil, err
	}
	byEntry := make(map[string][]domain.JournalLine, len(entries))
	for _, l := range lines {
		byEntry[l.EntryID] = append(byEntry[l.EntryID], l)
	}
	for i := range entries {
		entries[i].Lines = byEntry[entries[i].ID]
	}
	return entries, nil
}

// ListLinesByAccount returns the lines posted to an account with TxnDate on or before asOf.
func (r *PgxJournalRepository) ListLinesByAccount(ctx context.Context, accountID string, asOf time.Time) ([]domain.JournalLine, error) {
	return r.queryLines(ctx, `
		SELECT `+lineColumns+`
		FROM journal_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		WHERE l.account_id = $1 AND e.txn_date <= $2
		ORDER BY e.txn_date, e.code, l.line_no;
	`, accountID, asOf)
}

func (r *PgxJournalRepository) queryLines(ctx context.Context, query string, args ...any) ([]domain.JournalLine, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.JournalLine, error) {
		return scanLine(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan journal lines: %w", err)
	}
	return lines, nil
}
