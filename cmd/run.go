package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"batchcut/config"
	"batchcut/dispatcher"
	"batchcut/engine"
	"batchcut/history"
	"batchcut/logger"
	"batchcut/models"
)

var (
	dryRun    bool
	strict    bool
	keepGoing bool
	noHistory bool
)

var runCmd = &cobra.Command{
	Use:   "run <batch-file>",
	Short: "Execute the operations declared in a batch file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args[0])
	},
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log the FFmpeg commands without executing them")
	runCmd.Flags().BoolVar(&strict, "strict", false, "stop at the first failed operation")
	runCmd.Flags().BoolVar(&keepGoing, "keep-going", true, "continue past failed operations")
	runCmd.Flags().BoolVar(&noHistory, "no-history", false, "skip recording this run in the history database")
	rootCmd.AddCommand(runCmd)
}

func runBatch(cmd *cobra.Command, batchPath string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	settings.DryRun = dryRun
	if cmd.Flags().Changed("keep-going") {
		settings.KeepGoing = keepGoing
	}
	if strict {
		settings.KeepGoing = false
	}

	log, err := logger.New(settings.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Sync()

	batch, err := config.LoadBatchFile(batchPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("interrupt received, finishing current operation")
		cancel()
	}()

	log.Info("starting batch",
		zap.String("batch", batchPath),
		zap.Int("operations", len(batch.Operations)),
		zap.Bool("dry_run", settings.DryRun))

	eng := engine.NewFFmpeg(settings, log)
	disp := dispatcher.New(eng, settings, log)

	started := time.Now()
	outcomes := disp.Run(ctx, batch)
	finished := time.Now()

	runID := uuid.NewString()
	if settings.History.Enabled && !noHistory && !settings.DryRun {
		if err := recordHistory(settings, runID, batchPath, started, finished, outcomes); err != nil {
			log.Warn("failed to record run history", zap.Error(err))
		}
	}

	printReport(runID, batchPath, outcomes, finished.Sub(started))

	if ctx.Err() == context.Canceled {
		os.Exit(130)
	}
	for _, oc := range outcomes {
		if !oc.Success() {
			os.Exit(1)
		}
	}
	return nil
}

func recordHistory(settings *config.Settings, runID, batchPath string, started, finished time.Time, outcomes []*models.Outcome) error {
	store, err := history.Open(settings.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.RecordRun(history.Run{
		ID:         runID,
		BatchPath:  batchPath,
		StartedAt:  started,
		FinishedAt: finished,
	}, outcomes)
}

// printReport writes the human-readable per-operation summary.
func printReport(runID, batchPath string, outcomes []*models.Outcome, elapsed time.Duration) {
	failures := 0

	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Batch:  %s\n", batchPath)
	fmt.Printf("  Run:    %s\n", runID)
	fmt.Println("───────────────────────────────────────────────────────────")

	for _, oc := range outcomes {
		if oc.Success() {
			fmt.Printf("  ✓ %2d %-32s %s (%.2fs)\n",
				oc.Index+1, oc.Operation, summarizeOutputs(oc.Outputs), oc.Elapsed.Seconds())
		} else {
			failures++
			fmt.Printf("  ✗ %2d %-32s %v\n", oc.Index+1, oc.Operation, oc.Err)
		}
	}

	fmt.Println("───────────────────────────────────────────────────────────")
	fmt.Printf("  %d operations, %d failed, %.2fs total\n", len(outcomes), failures, elapsed.Seconds())
	fmt.Println("═══════════════════════════════════════════════════════════")
}

func summarizeOutputs(outputs []string) string {
	switch len(outputs) {
	case 0:
		return ""
	case 1:
		return outputs[0]
	default:
		return fmt.Sprintf("%s (+%d more)", outputs[0], len(outputs)-1)
	}
}
