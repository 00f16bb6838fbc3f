package cli

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/tablemerge/internal/core"
	"github.com/spf13/cobra"
)

func newValidateCommand() *cobra.Command {
	var (
		format string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a table for cells that break a column's step",
		Long: `Validate parses a table in canonical form and reports numeric cells whose
step from the previous numeric cell differs from the column's median step.`,
		Example: `  tablemerge validate table.csv
  tablemerge validate table.csv --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read table: %w", err)
			}

			issues := core.ValidateColumns(core.ParseText(string(data)))
			if err := renderIssues(cmd.OutOrStdout(), format, issues); err != nil {
				return err
			}
			if strict && len(issues) > 0 {
				return fmt.Errorf("%d issues found", len(issues))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any issue is found")

	return cmd
}
