package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/portfolio_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/portfolio_ledger/internal/core/domain"
	"github.com/SscSPs/portfolio_ledger/internal/core/services"
	"github.com/SscSPs/portfolio_ledger/internal/utils/accounting"
	"github.com/SscSPs/portfolio_ledger/pkg/database"
)

var (
	reportAsOf  string
	reportParty string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print account balances from an exported PostgreSQL dataset",
	Long: `Read accounts and journal lines back from PGSQL_URL and print every balance
as of a date. With --party only the accounts the party held on that date are listed.

Example:
  ledger_engine report --pgsql-url postgres://localhost/ledger --as-of 2023-06-30`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportAsOf, "as-of", "", "balance date, YYYY-MM-DD (default today)")
	reportCmd.Flags().StringVar(&reportParty, "party", "", "party ID to restrict the report to")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("report needs PGSQL_URL or --pgsql-url")
	}
	asOf := domain.DateOf(time.Now())
	if reportAsOf != "" {
		var err error
		if asOf, err = time.Parse("2006-01-02", reportAsOf); err != nil {
			return fmt.Errorf("invalid --as-of %q, expected YYYY-MM-DD: %w", reportAsOf, err)
		}
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer database.ClosePgxPool(pool, logger)

	readers := pgsql.NewReaders(pool)
	reporting := services.NewReportingService(readers.Accounts, readers.Journal)

	var balances []domain.AccountBalance
	if reportParty != "" {
		if balances, err = reporting.PartyBalances(ctx, reportParty, asOf); err != nil {
			return err
		}
	} else {
		all, err := readers.Accounts.ListAccounts(ctx)
		if err != nil {
			return err
		}
		for _, acc := range all {
			b, err := reporting.AccountBalance(ctx, acc.ID, asOf)
			if err != nil {
				return err
			}
			balances = append(balances, *b)
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "ACCOUNT\tCURRENCY\tBALANCE\t\n")
	for _, b := range balances {
		exp, ok := accounting.DefaultExponent(b.Currency)
		if !ok {
			exp = 2
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", b.Code, b.Currency, accounting.Format(b.Balance, b.Currency, exp))
	}
	return w.Flush()
}
