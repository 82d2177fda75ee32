// Package sqlite exports a dataset into a single-file SQLite database through gorm.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/portfolio_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/portfolio_ledger/internal/platform/logging"
)

const batchSize = 500

// GormSink writes datasets into SQLite.
type GormSink struct {
	db *gorm.DB
}

var _ portsrepo.RecordSink = (*GormSink)(nil)

// Open opens (or creates) the SQLite file at path. ":memory:" is accepted for tests.
func Open(path string) (*GormSink, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	return &GormSink{db: db}, nil
}

// NewGormSink wraps an existing gorm handle.
func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

// DB exposes the underlying handle for read-back.
func (s *GormSink) DB() *gorm.DB { return s.db }

// Close releases the underlying connection.
func (s *GormSink) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load migrates the schema and replaces every table's rows with the dataset in one transaction.
func (s *GormSink) Load(ctx context.Context, data domain.Dataset) error {
	logger := logging.FromContext(ctx)
	db := s.db.WithContext(ctx)

	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		models := allModels()
		for i := len(models) - 1; i >= 0; i-- {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", models[i], err)
			}
		}

		steps := []struct {
			name string
			rows any
			n    int
		}{
			{"currencies", mapSlice(data.Currencies, fromCurrency), len(data.Currencies)},
			{"account_types", mapSlice(data.AccountTypes, fromAccountType), len(data.AccountTypes)},
			{"markets", mapSlice(data.Markets, fromMarket), len(data.Markets)},
			{"categories", mapSlice(data.Categories, fromCategory), len(data.Categories)},
			{"channels", mapSlice(data.Channels, fromChannel), len(data.Channels)},
			{"instruments", mapSlice(data.Instruments, fromInstrument), len(data.Instruments)},
			{"price_quotes", mapSlice(data.Prices, fromPrice), len(data.Prices)},
			{"fx_rates", mapSlice(data.FxRates, fromFxRate), len(data.FxRates)},
			{"parties", mapSlice(data.Parties, fromParty), len(data.Parties)},
			{"accounts", mapSlice(data.Accounts, fromAccount), len(data.Accounts)},
			{"account_party_roles", mapSlice(data.AccountPartyRoles, fromRole), len(data.AccountPartyRoles)},
			{"employment_contracts", mapSlice(data.Contracts, fromContract), len(data.Contracts)},
			{"journal_entries", mapSlice(data.Entries, fromEntry), len(data.Entries)},
			{"journal_lines", mapSlice(data.Lines, fromLine), len(data.Lines)},
			{"trades", mapSlice(data.Trades, fromTrade), len(data.Trades)},
			{"holdings", mapSlice(data.Holdings, fromHolding), len(data.Holdings)},
			{"lots", mapSlice(data.Lots, fromLot), len(data.Lots)},
			{"reporting_periods", mapSlice(data.Periods, fromPeriod), len(data.Periods)},
			{"cash_flow_facts", mapSlice(data.CashFlowFacts, fromCashFlowFact), len(data.CashFlowFacts)},
			{"payroll_facts", mapSlice(data.PayrollFacts, fromPayrollFact), len(data.PayrollFacts)},
			{"holding_performance_facts", mapSlice(data.HoldingPerformances, fromHoldingPerformance), len(data.HoldingPerformances)},
		}
		for _, step := range steps {
			if step.n == 0 {
				continue // gorm rejects empty batches
			}
			if err := tx.CreateInBatches(step.rows, batchSize).Error; err != nil {
				return fmt.Errorf("failed to insert %d %s: %w", step.n, step.name, err)
			}
			logger.Debug("Inserted rows", slog.String("table", step.name), slog.Int("rows", step.n))
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Dataset loaded into SQLite", slog.Int("entries", len(data.Entries)), slog.Int("lines", len(data.Lines)))
	return nil
}
