package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/SscSPs/portfolio_ledger/internal/platform/config"
	"github.com/SscSPs/portfolio_ledger/internal/platform/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ledger_engine",
	Short: "Double-entry ledger and portfolio engine with a synthetic data generator",
	Long: `ledger_engine builds a reproducible financial history for individuals and
companies: cash accounts, payroll, card spending, brokerage trades with FIFO lots
and monthly reporting facts. The result can be exported to PostgreSQL or SQLite
and new postings can be streamed to Redis.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig()
		if err != nil {
			slog.Error("Failed to load config", slog.String("error", err.Error()))
			return err
		}
		logger = logging.New(os.Stdout, cfg.LogLevel)
		slog.SetDefault(logger)
		cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Int64("seed", 0, "random seed (env SEED)")
	flags.String("start-month", "", "first generated month, YYYY-MM (env START_MONTH)")
	flags.Int("months", 0, "number of months to generate (env MONTHS)")
	flags.Int("individuals", 0, "number of individuals (env INDIVIDUALS)")
	flags.Int("companies", 0, "number of companies (env COMPANIES)")
	flags.Float64("investor-share", 0, "fraction of individuals with a brokerage account (env INVESTOR_SHARE)")
	flags.String("base-currency", "", "currency of every cash account (env BASE_CURRENCY)")
	flags.String("refdata", "", "reference data YAML file, empty for the built-in catalog (env REFERENCE_DATA_PATH)")
	flags.String("pgsql-url", "", "PostgreSQL URL to export to (env PGSQL_URL)")
	flags.String("sqlite-path", "", "SQLite file to export to (env SQLITE_PATH)")
	flags.String("redis-url", "", "Redis URL for the entry stream (env REDIS_URL)")
	flags.String("stream-key", "", "Redis stream key (env STREAM_KEY)")
	flags.String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")

	// Flags only override the environment when set explicitly.
	for key, flag := range map[string]string{
		"SEED":                "seed",
		"START_MONTH":         "start-month",
		"MONTHS":              "months",
		"INDIVIDUALS":         "individuals",
		"COMPANIES":           "companies",
		"INVESTOR_SHARE":      "investor-share",
		"BASE_CURRENCY":       "base-currency",
		"REFERENCE_DATA_PATH": "refdata",
		"PGSQL_URL":           "pgsql-url",
		"SQLITE_PATH":         "sqlite-path",
		"REDIS_URL":           "redis-url",
		"STREAM_KEY":          "stream-key",
		"LOG_LEVEL":           "log-level",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}
