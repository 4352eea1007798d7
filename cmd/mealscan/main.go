// Package main is mealscan, a command line client of the meal photo analysis:
// it analyzes photos directly against the recognition service and keeps its
// state (monthly usage, saved meals) in a local SQLite file.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/fitpulse/internal/logging"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "dev"

type rootOpts struct {
	dbPath    string
	tablePath string
	logLevel  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	rootCmd := &cobra.Command{
		Use:   "mealscan",
		Short: "Estimate the nutrition of a meal from its photo",
		Long: `mealscan recognizes the foods on a meal photo, estimates portions and macros,
and keeps a local history of analyzed meals.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Setup(logging.LoggerSetupParams{
				LogToStdout: true,
				LogLevel:    opts.logLevel,
			})
			// stdout carries the command output
			log.SetOutput(cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dbPath, "db", defaultDBPath(), "Path to the local SQLite state file")
	rootCmd.PersistentFlags().StringVar(&opts.tablePath, "table", "", "Path to a YAML nutrition table replacing the built-in one")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newLookupCmd(opts),
		newHistoryCmd(opts),
		newUsageCmd(opts),
	)

	return rootCmd
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mealscan.db"
	}
	return filepath.Join(home, ".mealscan.db")
}
