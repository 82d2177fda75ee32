package pgsql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/portfolio_ledger/internal/platform/logging"
)

// PgxSink bulk-loads a dataset into Postgres with COPY.
type PgxSink struct {
	BaseRepository
}

var _ portsrepo.RecordSink = (*PgxSink)(nil)

// NewPgxSink creates a sink over an existing pool. The schema must already be migrated.
func NewPgxSink(pool *pgxpool.Pool) *PgxSink {
	return &PgxSink{BaseRepository: BaseRepository{Pool: pool}}
}

// Load replaces the contents of every table with the dataset in one transaction.
// Either every table is written or none is.
func (s *PgxSink) Load(ctx context.Context, data domain.Dataset) error {
	logger := logging.FromContext(ctx)

	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := s.Rollback(ctx, tx); rerr != nil {
			logger.Error("Dataset load rollback failed", slog.String("error", rerr.Error()))
		}
	}()

	if _, err := tx.Exec(ctx, truncateStatement()); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	for _, t := range tables {
		rows := t.rows(data)
		if len(rows) == 0 {
			continue
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{t.name}, t.columns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy %d rows into %s: %w", len(rows), t.name, err)
		}
		logger.Debug("Copied rows", slog.String("table", t.name), slog.Int64("rows", n))
	}

	if err := s.Commit(ctx, tx); err != nil {
		return err
	}
	logger.Info("Dataset loaded into Postgres", slog.Int("tables", len(tables)))
	return nil
}

func truncateStatement() string {
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, pgx.Identifier{t.name}.Sanitize())
	}
	return "TRUNCATE TABLE " + strings.Join(names, ", ") + ";"
}
