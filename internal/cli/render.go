package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/JonMunkholm/tablemerge/internal/core"
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderIssues writes validation issues in the requested format.
func renderIssues(w io.Writer, format string, issues []core.ValidationIssue) error {
	switch format {
	case "json":
		if issues == nil {
			issues = []core.ValidationIssue{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(issues)
	case "table", "":
		renderIssueTable(w, issues)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

func renderIssueTable(w io.Writer, issues []core.ValidationIssue) {
	if len(issues) == 0 {
		_, _ = fmt.Fprintln(w, "(0 issues)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Row", "Col", "Found", "Expected", "Step", "Median step"})

	for _, issue := range issues {
		t.AppendRow(table.Row{
			issue.Row,
			issue.Col,
			issue.Observed,
			issue.Suggestion,
			core.FormatNumber(issue.Delta),
			core.FormatNumber(issue.MedianDelta),
		})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d issues)\n", len(issues))
}
