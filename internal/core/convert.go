package core

// convert.go turns raw fragment text into cells and cells into numbers.
//
// Extraction output is messy in predictable ways:
//   - Markdown code fences around the CSV body (```csv ... ```)
//   - Blank lines between rows
//   - Padding around cells and one layer of double quotes
//
// Parsing is deliberately simple: comma-delimited, optional surrounding
// quotes, no embedded delimiters and no escaped quotes.

import (
	"math"
	"strconv"
	"strings"
)

// Delimiter separates cells within a row.
const Delimiter = ","

const codeFence = "```"

// CleanCell trims whitespace and strips one layer of surrounding double
// quotes. Whitespace inside the quotes is preserved.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}

// ParseNumber parses a cell as a decimal float.
// Blank cells, hex floats, NaN and infinities are not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || isHexLiteral(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// isHexLiteral reports whether s has a 0x prefix after an optional sign.
func isHexLiteral(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// IsNumeric reports whether a cell parses as a finite number.
func IsNumeric(s string) bool {
	_, ok := ParseNumber(s)
	return ok
}

// FormatNumber renders v in the shortest decimal form that parses back to v.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stripCodeFence removes a leading fence line (with optional language tag)
// and a trailing fence marker.
func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)

	if strings.HasPrefix(s, codeFence) {
		nl := strings.IndexByte(s, '\n')
		if nl < 0 {
			// Single line: either a bare marker or ```a,b``` inline.
			inner := strings.TrimPrefix(s, codeFence)
			if !strings.HasSuffix(inner, codeFence) {
				return ""
			}
			return strings.TrimSpace(strings.TrimSuffix(inner, codeFence))
		}
		s = s[nl+1:]
	}

	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, codeFence) {
		s = strings.TrimSpace(strings.TrimSuffix(s, codeFence))
	}
	return s
}

// splitRecords splits text into rows of cleaned cells, skipping blank lines.
func splitRecords(text string) [][]string {
	lines := strings.Split(text, "\n")
	records := make([][]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, Delimiter)
		row := make([]string, len(parts))
		for i, p := range parts {
			row[i] = CleanCell(p)
		}
		records = append(records, row)
	}

	return records
}

// quoteCell wraps a cell in double quotes for export.
func quoteCell(s string) string {
	return `"` + s + `"`
}
