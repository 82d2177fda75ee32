package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	streamTicks  int
	streamExport bool
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Generate a history, then keep posting live entries to Redis",
	Long: `Run the batch generation with every entry appended to the Redis stream, then
keep posting card purchases for the days after the generated range, one simulated
day every STREAM_INTERVAL, until interrupted or --ticks is reached.

Example:
  ledger_engine stream --redis-url redis://localhost:6379/0 --ticks 100`,
	RunE: runStream,
}

func init() {
	streamCmd.Flags().IntVar(&streamTicks, "ticks", 0, "stop after this many simulated days (0 runs until interrupted)")
	streamCmd.Flags().BoolVar(&streamExport, "export", false, "export the dataset to the configured sinks once the stream stops")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newEngine(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer e.close()

	result, err := e.run(ctx)
	if err != nil {
		return err
	}
	logStats("Batch finished, streaming", result.Stats)

	posted, err := e.gen.Stream(ctx, cfg.StreamInterval, cfg.StreamBatch, streamTicks)
	if err != nil {
		return err
	}
	logger.Info("Stream finished", slog.Int("posted", posted), slog.String("key", cfg.StreamKey))

	if streamExport {
		// The signal context may already be cancelled; export on the command context.
		return e.export(cmd.Context(), cfg)
	}
	return nil
}
