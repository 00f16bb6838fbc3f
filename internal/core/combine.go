package core

import (
	"fmt"
	"time"
)

// Combiner merges per-image fragments into one table.
type Combiner struct {
	// Rules decide whether a later fragment's first row is a repeated header.
	// Defaults to HeaderRules.
	Rules []HeaderRule
}

// NewCombiner creates a combiner using the default header policy.
func NewCombiner() *Combiner {
	return &Combiner{Rules: HeaderRules}
}

// Combine merges fragments with the default combiner.
func Combine(fragments []Fragment) (*Table, error) {
	return NewCombiner().Combine(fragments)
}

// Combine merges fragments in the order given.
// Returns ErrNoUsableFragments if no fragment contributes a row.
func (c *Combiner) Combine(fragments []Fragment) (*Table, error) {
	t, _, err := c.CombineWithReport(fragments)
	return t, err
}

// CombineWithReport merges fragments and records the decision made for each.
//
// Failed fragments are skipped. The first fragment that parses to at least one
// row supplies the reference header and all of its rows. Every later fragment
// runs the header rules on its first row. Fragments that parse to nothing are
// tolerated and reported with ErrMalformedFragment.
func (c *Combiner) CombineWithReport(fragments []Fragment) (*Table, *CombineReport, error) {
	start := time.Now()
	rules := c.Rules
	if len(rules) == 0 {
		rules = HeaderRules
	}

	report := &CombineReport{Fragments: make([]FragmentOutcome, 0, len(fragments))}
	table := &Table{}
	var reference []string

	for _, frag := range fragments {
		outcome := FragmentOutcome{SourceOrder: frag.SourceOrder}

		if !frag.Success {
			outcome.Failed = true
			report.Fragments = append(report.Fragments, outcome)
			continue
		}

		rows := ParseText(frag.Content).rows
		outcome.ParsedRows = len(rows)

		if len(rows) == 0 {
			outcome.Error = fmt.Errorf("%w: fragment %d has no rows", ErrMalformedFragment, frag.SourceOrder).Error()
			report.Fragments = append(report.Fragments, outcome)
			continue
		}

		skip := 0
		if reference == nil {
			reference = cloneRow(rows[0])
			outcome.Reference = true
		} else {
			verdict, rule := ClassifyFirstRow(reference, rows, rules)
			outcome.HeaderRule = rule
			if verdict == VerdictHeader {
				outcome.HeaderSkipped = true
				skip = 1
			}
		}

		for _, row := range rows[skip:] {
			table.appendRow(row)
		}
		outcome.RetainedRows = len(rows) - skip
		report.Fragments = append(report.Fragments, outcome)
	}

	if reference == nil {
		return nil, report, fmt.Errorf("combine %d fragments: %w", len(fragments), ErrNoUsableFragments)
	}

	report.ReferenceHeader = reference
	report.TotalRows = table.Len()
	report.Duration = time.Since(start)
	return table, report, nil
}
