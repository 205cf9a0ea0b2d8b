// Package cmd wires the CLI: the run command executes a batch file, the
// history command inspects past runs.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"batchcut/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "batchcut",
	Short: "Configuration-driven batch video and audio editing",
	Long: `batchcut runs a batch file of editing operations (sliding-window cuts,
concatenation, frozen frames, trims, speed changes, audio extraction)
against media files using FFmpeg. Operations execute in declaration order
and failures are isolated per operation.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "settings file (default: ./batchcut.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadSettings resolves the effective settings honoring the global flags.
func loadSettings() (*config.Settings, error) {
	settings, err := config.LoadSettings(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if verbose {
		settings.Log.Level = "debug"
	}
	return settings, nil
}
