package core

// header_rules.go decides whether the first row of a later fragment repeats
// the reference header.
//
// The policy is an ordered list of named rules evaluated first-match-wins:
//  1. shape_mismatch: column count differs from the reference -> data
//  2. exact_match: same cells as the reference, case-insensitive -> header
//  3. numeric_shift: text in row 0, numbers in row 1 -> header
//  4. keyword: a cell is a typical header word -> header
//  5. default: more than one row -> header, a lone row -> data
//
// Dropping a real data row that looks like a header is preferred over
// duplicating a header into the data.

import (
	"strings"

	"golang.org/x/text/cases"
)

// HeaderVerdict is a rule's decision about a fragment's first row.
type HeaderVerdict int

const (
	// VerdictAbstain means the rule has no opinion; the next rule runs.
	VerdictAbstain HeaderVerdict = iota
	// VerdictData keeps the first row as data.
	VerdictData
	// VerdictHeader drops the first row as a repeated header.
	VerdictHeader
)

// String returns the verdict name.
func (v HeaderVerdict) String() string {
	switch v {
	case VerdictData:
		return "data"
	case VerdictHeader:
		return "header"
	default:
		return "abstain"
	}
}

// Rule names.
const (
	RuleShapeMismatch = "shape_mismatch"
	RuleExactMatch    = "exact_match"
	RuleNumericShift  = "numeric_shift"
	RuleKeyword       = "keyword"
	RuleDefault       = "default"
)

// HeaderRuleFunc inspects a fragment's parsed rows (never empty) against the
// reference header.
type HeaderRuleFunc func(reference []string, rows [][]string) HeaderVerdict

// HeaderRule is a named predicate in the header policy.
type HeaderRule struct {
	Name   string
	Decide HeaderRuleFunc
}

// HeaderRules is the default policy, in evaluation order.
var HeaderRules = []HeaderRule{
	{Name: RuleShapeMismatch, Decide: ShapeMismatchRule},
	{Name: RuleExactMatch, Decide: ExactMatchRule},
	{Name: RuleNumericShift, Decide: NumericShiftRule},
	{Name: RuleKeyword, Decide: KeywordRule},
	{Name: RuleDefault, Decide: DefaultRule},
}

// headerKeywords are tokens that mark a cell as a column label.
var headerKeywords = map[string]bool{
	"column": true,
	"col":    true,
	"header": true,
	"field":  true,
	"name":   true,
	"time":   true,
	"date":   true,
	"value":  true,
	"data":   true,
	"row":    true,
	"#":      true,
}

// ClassifyFirstRow runs rules in order and returns the first verdict that is
// not VerdictAbstain with the name of the rule that gave it. If every rule
// abstains the first row is kept as data.
func ClassifyFirstRow(reference []string, rows [][]string, rules []HeaderRule) (HeaderVerdict, string) {
	if len(rows) == 0 {
		return VerdictData, ""
	}
	for _, rule := range rules {
		if v := rule.Decide(reference, rows); v != VerdictAbstain {
			return v, rule.Name
		}
	}
	return VerdictData, ""
}

// ShapeMismatchRule keeps the first row when its column count differs from
// the reference header; it cannot be a repeat.
func ShapeMismatchRule(reference []string, rows [][]string) HeaderVerdict {
	if len(rows[0]) != len(reference) {
		return VerdictData
	}
	return VerdictAbstain
}

// ExactMatchRule drops the first row when it equals the reference header,
// ignoring case and surrounding whitespace.
func ExactMatchRule(reference []string, rows [][]string) HeaderVerdict {
	first := rows[0]
	if len(first) != len(reference) {
		return VerdictAbstain
	}
	for i := range first {
		if foldCell(first[i]) != foldCell(reference[i]) {
			return VerdictAbstain
		}
	}
	return VerdictHeader
}

// NumericShiftRule drops the first row when it has a non-blank, non-numeric
// cell and the second row has a numeric one.
func NumericShiftRule(_ []string, rows [][]string) HeaderVerdict {
	if len(rows) < 2 {
		return VerdictAbstain
	}

	hasText := false
	for _, cell := range rows[0] {
		if strings.TrimSpace(cell) != "" && !IsNumeric(cell) {
			hasText = true
			break
		}
	}
	if !hasText {
		return VerdictAbstain
	}

	for _, cell := range rows[1] {
		if IsNumeric(cell) {
			return VerdictHeader
		}
	}
	return VerdictAbstain
}

// KeywordRule drops the first row when any cell is a header keyword.
func KeywordRule(_ []string, rows [][]string) HeaderVerdict {
	for _, cell := range rows[0] {
		if headerKeywords[foldCell(cell)] {
			return VerdictHeader
		}
	}
	return VerdictAbstain
}

// DefaultRule treats the first row of a multi-row fragment as a header and a
// lone row as data.
func DefaultRule(_ []string, rows [][]string) HeaderVerdict {
	if len(rows) > 1 {
		return VerdictHeader
	}
	return VerdictData
}

// foldCell normalizes a cell for case-insensitive comparison.
func foldCell(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
