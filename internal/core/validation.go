package core

// validation.go checks numeric columns for a constant step between
// consecutive values.
//
// For each column:
//  1. Collect every cell that parses as a finite number, row 0 included
//  2. Skip the column when fewer than 3 numbers are found
//  3. Compute the delta between each consecutive pair of numbers
//  4. Take the median delta as the expected step
//  5. Flag every delta that differs from the median at all
//
// Each flagged delta produces a ValidationIssue on the later cell, suggesting
// the previous value plus the median step.

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// minNumericCells is the fewest numbers a column needs to establish a trend.
const minNumericCells = 3

// deltaTolerance is the allowed |delta - median|. Zero flags any deviation.
const deltaTolerance = 0.0

type numericCell struct {
	row   int
	raw   string
	value float64
}

// ValidateColumns runs the step check on every column and returns all issues
// ordered by column, then row. It does not modify t.
func ValidateColumns(t *Table) []ValidationIssue {
	var issues []ValidationIssue
	for col := 0; col < t.Width(); col++ {
		issues = append(issues, ValidateColumn(t, col)...)
	}
	return issues
}

// ValidateColumn runs the step check on a single column.
func ValidateColumn(t *Table, col int) []ValidationIssue {
	cells := numericCells(t, col)
	if len(cells) < minNumericCells {
		return nil
	}

	deltas := make([]float64, len(cells)-1)
	for i := 1; i < len(cells); i++ {
		deltas[i-1] = cells[i].value - cells[i-1].value
	}

	median, err := stats.Median(deltas)
	if err != nil {
		return nil
	}

	var issues []ValidationIssue
	for i, delta := range deltas {
		if math.Abs(delta-median) <= deltaTolerance {
			continue
		}
		from, to := cells[i], cells[i+1]
		expected := from.value + median
		suggestion := FormatNumber(expected)

		issues = append(issues, ValidationIssue{
			Row:           to.row,
			Col:           col,
			FromRow:       from.row,
			Observed:      to.raw,
			ObservedValue: to.value,
			Expected:      expected,
			Delta:         delta,
			MedianDelta:   median,
			Deviation:     delta - median,
			Suggested:     expected,
			Suggestion:    suggestion,
			Message: fmt.Sprintf("expected %s (%s + median step %s), found %s",
				suggestion, FormatNumber(from.value), FormatNumber(median), to.raw),
		})
	}

	return issues
}

// GroupByColumn groups issues by column, preserving their order.
func GroupByColumn(issues []ValidationIssue) map[int][]ValidationIssue {
	groups := make(map[int][]ValidationIssue)
	for _, issue := range issues {
		groups[issue.Col] = append(groups[issue.Col], issue)
	}
	return groups
}

// numericCells returns the numeric cells of a column in row order.
func numericCells(t *Table, col int) []numericCell {
	var cells []numericCell
	for row := 0; row < t.Len(); row++ {
		raw, ok := t.Cell(row, col)
		if !ok {
			continue
		}
		if v, ok := ParseNumber(raw); ok {
			cells = append(cells, numericCell{row: row, raw: raw, value: v})
		}
	}
	return cells
}
