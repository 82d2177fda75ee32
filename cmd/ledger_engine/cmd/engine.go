package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/portfolio_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/portfolio_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/portfolio_ledger/internal/adapters/database/sqlite"
	"github.com/SscSPs/portfolio_ledger/internal/adapters/refdata"
	"github.com/SscSPs/portfolio_ledger/internal/adapters/stream/redisstream"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/core/services"
	"github.com/SscSPs/portfolio_ledger/internal/generator"
	"github.com/SscSPs/portfolio_ledger/internal/platform/config"
	"github.com/SscSPs/portfolio_ledger/pkg/database"
)

// engine is one in-memory ledger with its generator and optional stream publisher.
type engine struct {
	store     *memory.Store
	svc       *services.Container
	gen       *generator.Generator
	publisher *redisstream.Publisher
}

func newEngine(ctx context.Context, cfg *config.Config, publish bool) (*engine, error) {
	catalog, err := refdata.LoadFile(cfg.ReferenceDataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	e := &engine{store: memory.NewStore()}
	var options []services.ContainerOption
	if publish {
		e.publisher, err = redisstream.Connect(ctx, cfg.RedisURL, cfg.StreamKey)
		if err != nil {
			return nil, err
		}
		options = append(options, services.WithEntryPublisher(e.publisher))
	}
	e.svc = services.NewContainer(memory.NewRepositoryProvider(e.store), options...)

	if err := e.svc.Reference.LoadCatalog(ctx, catalog); err != nil {
		e.close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	e.gen = generator.New(e.svc, generator.Options{
		Seed:          cfg.Seed,
		Start:         cfg.StartMonth,
		Months:        cfg.Months,
		Individuals:   cfg.Individuals,
		Companies:     cfg.Companies,
		InvestorShare: cfg.InvestorShare,
		Currency:      cfg.BaseCurrency,
	})
	return e, nil
}

func (e *engine) close() {
	if e.publisher != nil {
		_ = e.publisher.Close()
	}
}

// run executes the batch and refuses to hand back a history that fails the audit.
func (e *engine) run(ctx context.Context) (*generator.Result, error) {
	result, err := e.gen.Run(ctx)
	if err != nil {
		return nil, err
	}
	if !result.Audit.Clean() {
		return result, fmt.Errorf("final audit failed: %d unbalanced entries, %d negative holdings, %d inconsistent holdings",
			len(result.Audit.UnbalancedEntries), len(result.Audit.NegativeHoldings), len(result.Audit.InconsistentHolding))
	}
	return result, nil
}

// export snapshots the store and loads every configured sink in parallel.
func (e *engine) export(ctx context.Context, cfg *config.Config) error {
	if cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		return nil
	}
	data, err := e.store.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("failed to snapshot store: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if cfg.DatabaseURL != "" {
		g.Go(func() error { return exportPostgres(gctx, cfg.DatabaseURL, data) })
	}
	if cfg.SQLitePath != "" {
		g.Go(func() error { return exportSQLite(gctx, cfg.SQLitePath, data) })
	}
	return g.Wait()
}

func exportPostgres(ctx context.Context, url string, data domain.Dataset) error {
	if err := pgsql.RunMigrations(url, logger); err != nil {
		return err
	}
	pool, err := database.NewPgxPool(ctx, url, logger)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(pool, logger)
	return pgsql.NewPgxSink(pool).Load(ctx, data)
}

func exportSQLite(ctx context.Context, path string, data domain.Dataset) error {
	sink, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			logger.Error("Error closing SQLite sink", slog.String("error", cerr.Error()))
		}
	}()
	return sink.Load(ctx, data)
}

func logStats(msg string, stats generator.Stats) {
	logger.Info(msg,
		slog.Int("parties", stats.Parties),
		slog.Int("accounts", stats.Accounts),
		slog.Int("entries", stats.Entries),
		slog.Int("trades", stats.Trades),
		slog.Int("quotes", stats.Quotes),
		slog.Int("fact_rows", stats.FactRows),
		slog.Int("failed_events", stats.FailedEvents),
		slog.Int("fact_errors", stats.FactErrors),
	)
}
