package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/lorenzobs/internal/logging"
)

var (
	dataDir  string
	logLevel string
	logger   = logging.NewNop()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lorenzobs",
		Short: "noisy Lorenz system with a contracting state observer",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger = logging.NewLogger(level, os.Stderr)
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lorenzobs", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRunCmd(),
		newListCmd(),
		newPlotCmd(),
		newPhaseCmd(),
		newAnalyzeCmd(),
		newExportJSONCmd(),
		newExportCSVCmd(),
		newExportPlotCmd(),
		newEnsembleCmd(),
		newCertifyCmd(),
		newCompareCmd(),
		newSweepCmd(),
		newBatchCmd(),
		newPresetsCmd(),
	)
	return rootCmd
}

// warnPartial reports a run that stopped early but still produced a prefix.
func warnPartial(err error) {
	if err != nil {
		logger.Warn("run stopped early", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
}
