package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/JonMunkholm/tablemerge/internal/core"
	"github.com/spf13/cobra"
)

func newCombineCommand() *cobra.Command {
	var (
		outPath string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "combine <files...>",
		Short: "Combine fragment files into one table",
		Long: `Combine reads one fragment per file, orders the files by name, drops repeated
header rows and writes the merged table in canonical form. Suspect cells are
reported on stdout when --out is set and on stderr otherwise. Logs always go
to stderr, so --format json requires --out.`,
		Example: `  # Combine three pages and print the table
  tablemerge combine page1.txt page2.txt page3.txt

  # Write the table to a file and list issues as JSON
  tablemerge combine pages/*.txt --out table.csv --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "json" && outPath == "" {
				return fmt.Errorf("--format json needs --out: stdout carries the table and stderr carries logs")
			}
			return runCombine(cmd, args, outPath, format)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the table to this file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "table", "issue output format: table, json")

	return cmd
}

func runCombine(cmd *cobra.Command, paths []string, outPath, format string) error {
	fragments, names, err := readFragments(paths)
	if err != nil {
		return err
	}

	table, report, err := core.NewCombiner().CombineWithReport(fragments)
	if err != nil {
		return err
	}
	for _, f := range report.Fragments {
		if f.Error != "" {
			slog.Warn("fragment skipped", "file", names[f.SourceOrder], "error", f.Error)
		}
	}

	session := core.NewEditSession(table)
	text := session.ExportText()
	if outPath == "" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
			return err
		}
	} else if err := os.WriteFile(outPath, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	rows, cols := session.Dimensions()
	slog.Info("combined", "files", len(paths), "rows", rows, "cols", cols,
		"duration_ms", report.Duration.Milliseconds())

	issueOut := cmd.ErrOrStderr()
	if outPath != "" {
		issueOut = cmd.OutOrStdout()
	}
	return renderIssues(issueOut, format, session.Validate())
}

// readFragments reads each file as one fragment, ordered by file name.
// SourceOrder is the index into the returned sorted paths.
func readFragments(paths []string) ([]core.Fragment, []string, error) {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.SliceStable(sorted, func(i, j int) bool {
		return filepath.Base(sorted[i]) < filepath.Base(sorted[j])
	})

	fragments := make([]core.Fragment, 0, len(sorted))
	for i, p := range sorted {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("read fragment: %w", err)
		}
		fragments = append(fragments, core.Fragment{
			Success:     true,
			Content:     string(data),
			SourceOrder: i,
		})
	}
	return fragments, sorted, nil
}
