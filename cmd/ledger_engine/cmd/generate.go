package cmd

import (
	"github.com/spf13/cobra"
)

var generatePublish bool

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic history and export it",
	Long: `Generate parties, accounts, monthly cash events and trades for the configured
range, compute the monthly facts and run the final audit. The resulting dataset is
loaded into PostgreSQL (PGSQL_URL) and/or SQLite (SQLITE_PATH) when configured.

Examples:
  ledger_engine generate --months 24 --individuals 200 --sqlite-path ledger.db
  PGSQL_URL=postgres://localhost/ledger ledger_engine generate --seed 7`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().BoolVar(&generatePublish, "publish", false, "also append every committed entry to the Redis stream")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	e, err := newEngine(ctx, cfg, generatePublish)
	if err != nil {
		return err
	}
	defer e.close()

	result, err := e.run(ctx)
	if err != nil {
		return err
	}
	logStats("Generation finished", result.Stats)

	if err := e.export(ctx, cfg); err != nil {
		return err
	}
	if cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		logger.Warn("No sink configured, dataset was not exported")
	}
	return nil
}
