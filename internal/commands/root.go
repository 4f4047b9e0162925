// Package commands assembles the statement-ledger CLI.
package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-ledger/internal/buildinfo"
	"github.com/insightdelivered/statement-ledger/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "statement-ledger",
		Short:   "Reconstruct validated transaction ledgers from bank statement extracts",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	newLogger := func() zerolog.Logger {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		return logger.New(level)
	}

	rootCmd.AddCommand(newConvertCommand(newLogger))
	rootCmd.AddCommand(newServeCommand(newLogger))

	return rootCmd
}
