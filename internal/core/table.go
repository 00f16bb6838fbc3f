package core

import "strings"

// Table is an ordered grid of string cells.
//
// Row 0 is a header only by convention. A combined table may be ragged until
// an EditSession takes ownership and normalizes it; from then on every row
// has the same number of cells. Mutation is reserved for EditSession.
type Table struct {
	rows [][]string
}

// NewTable creates a table holding a copy of rows.
func NewTable(rows [][]string) *Table {
	t := &Table{rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		t.rows = append(t.rows, cloneRow(row))
	}
	return t
}

// ParseText parses canonical export text (or raw fragment text) into a table.
// It is the inverse of ExportText for cells without quotes or delimiters.
func ParseText(text string) *Table {
	return &Table{rows: splitRecords(stripCodeFence(SanitizeFragment(text)))}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Width returns the cell count of the widest row.
func (t *Table) Width() int {
	w := 0
	for _, row := range t.rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Rows returns a copy of all rows.
func (t *Table) Rows() [][]string {
	out := make([][]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = cloneRow(row)
	}
	return out
}

// Row returns a copy of row i, or nil if i is out of range.
func (t *Table) Row(i int) []string {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	return cloneRow(t.rows[i])
}

// Cell returns the value at (row, col) and whether that cell exists.
func (t *Table) Cell(row, col int) (string, bool) {
	if !t.inBounds(row, col) {
		return "", false
	}
	return t.rows[row][col], true
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return NewTable(t.rows)
}

// IsRectangular reports whether every row has as many cells as row 0.
func (t *Table) IsRectangular() bool {
	if len(t.rows) == 0 {
		return true
	}
	w := len(t.rows[0])
	for _, row := range t.rows[1:] {
		if len(row) != w {
			return false
		}
	}
	return true
}

// Normalize pads every row with empty cells up to Width. It never truncates.
func (t *Table) Normalize() {
	w := t.Width()
	for i, row := range t.rows {
		for len(row) < w {
			row = append(row, "")
		}
		t.rows[i] = row
	}
}

// ExportText renders the canonical text form: every cell double-quoted,
// cells joined by the delimiter, rows joined by newline.
func (t *Table) ExportText() string {
	var b strings.Builder
	for i, row := range t.rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteString(Delimiter)
			}
			b.WriteString(quoteCell(cell))
		}
	}
	return b.String()
}

// Equal reports whether two tables hold the same cells.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.rows) != len(other.rows) {
		return false
	}
	for i, row := range t.rows {
		if len(row) != len(other.rows[i]) {
			return false
		}
		for j := range row {
			if row[j] != other.rows[i][j] {
				return false
			}
		}
	}
	return true
}

func (t *Table) inBounds(row, col int) bool {
	return row >= 0 && row < len(t.rows) && col >= 0 && col < len(t.rows[row])
}

// Mutations below are only called by EditSession, which holds its lock and
// validates bounds first.

func (t *Table) set(row, col int, value string) {
	t.rows[row][col] = value
}

func (t *Table) appendRow(row []string) {
	t.rows = append(t.rows, row)
}

func (t *Table) appendColumn() {
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], "")
	}
}

func (t *Table) removeRow(row int) {
	t.rows = append(t.rows[:row], t.rows[row+1:]...)
}

func (t *Table) removeColumn(col int) {
	for i, row := range t.rows {
		if col < len(row) {
			t.rows[i] = append(row[:col], row[col+1:]...)
		}
	}
}

func (t *Table) moveRow(from, to int) {
	row := t.rows[from]
	t.rows = append(t.rows[:from], t.rows[from+1:]...)
	t.rows = append(t.rows[:to], append([][]string{row}, t.rows[to:]...)...)
}

func (t *Table) moveColumn(from, to int) {
	for i, row := range t.rows {
		cell := row[from]
		row = append(row[:from], row[from+1:]...)
		t.rows[i] = append(row[:to], append([]string{cell}, row[to:]...)...)
	}
}

func cloneRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}
