// Package cli provides the command-line interface for tablemerge.
//
// It runs the same combine and validate steps as the HTTP service, reading
// fragments from files instead of request bodies.
package cli

import (
	"log/slog"

	"github.com/JonMunkholm/tablemerge/internal/logging"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "tablemerge",
		Short: "Combine and check tables extracted from photos",
		Long: `tablemerge stitches table fragments (one text file per photographed page)
into a single table and flags numeric cells that break a column's regular step.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	rootCmd.AddCommand(newCombineCommand())
	rootCmd.AddCommand(newValidateCommand())

	return rootCmd
}
