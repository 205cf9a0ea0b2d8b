package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"batchcut/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List past runs, or the operations of one run",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		if !settings.History.Enabled {
			return fmt.Errorf("history is disabled in the settings")
		}

		store, err := history.Open(settings.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 1 {
			return printRunDetail(store, args[0])
		}
		return printRunList(store)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

func printRunList(store *history.Store) error {
	runs, err := store.ListRuns(historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	for _, r := range runs {
		status := "ok"
		if r.Failures > 0 {
			status = fmt.Sprintf("%d failed", r.Failures)
		}
		fmt.Printf("%s  %s  %-30s %2d ops  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.BatchPath, r.Operations, status)
	}
	return nil
}

func printRunDetail(store *history.Store, runID string) error {
	records, err := store.ListOperations(runID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no run with id %s", runID)
	}

	for _, rec := range records {
		if rec.Success {
			fmt.Printf("  ✓ %2d %-32s %d output(s), %dms\n",
				rec.Index+1, rec.Name, len(rec.Outputs), rec.ElapsedMS)
			for _, out := range rec.Outputs {
				fmt.Printf("       %s\n", out)
			}
		} else {
			fmt.Printf("  ✗ %2d %-32s %s\n", rec.Index+1, rec.Name, rec.Error)
		}
	}
	return nil
}
