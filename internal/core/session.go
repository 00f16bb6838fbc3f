package core

// session.go implements EditSession, the owner of a table while it is being
// edited.
//
// A session tracks:
//   - Dirty cells: cells whose value differs from the value at the last save
//   - The current selection, used to target structural deletes
//   - The issues of the last validation run, discarded on every edit
//
// Every structural edit goes through applyRemap, which moves the dirty set and
// the selection with the rows and columns they refer to.

import (
	"fmt"
	"sort"
	"sync"
)

// EditSession wraps a Table with edit tracking. All methods are safe for
// concurrent use; operations are serialized by one lock per session.
type EditSession struct {
	mu sync.Mutex

	table         *Table
	dirty         map[CellRef]string // cell -> value at last save
	structural    int                // structural edits since last save
	selection     Selection
	protectHeader bool

	issues    []ValidationIssue
	validated bool // issues belong to the current table
}

// SessionOption configures an EditSession.
type SessionOption func(*EditSession)

// WithProtectedHeader controls whether row 0 may be deleted. Protected by default.
func WithProtectedHeader(protect bool) SessionOption {
	return func(s *EditSession) {
		s.protectHeader = protect
	}
}

// NewEditSession takes ownership of a copy of t. The copy is normalized so
// every row has the same cell count.
func NewEditSession(t *Table, opts ...SessionOption) *EditSession {
	table := &Table{}
	if t != nil {
		table = t.Clone()
	}
	table.Normalize()

	s := &EditSession{
		table:         table,
		dirty:         make(map[CellRef]string),
		selection:     NoSelection,
		protectHeader: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns a snapshot copy of the current table.
func (s *EditSession) Table() *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Clone()
}

// Dimensions returns the current row and column counts.
func (s *EditSession) Dimensions() (rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.Len(), s.table.Width()
}

// SetCell writes value at (row, col). The cell becomes dirty when the value
// differs from its value at the last save and clean again when it is written
// back. Returns ErrOutOfRange for cells outside the table.
func (s *EditSession) SetCell(row, col int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setCell(row, col, value)
}

func (s *EditSession) setCell(row, col int, value string) error {
	old, ok := s.table.Cell(row, col)
	if !ok {
		return fmt.Errorf("set cell (%d, %d) in %dx%d table: %w",
			row, col, s.table.Len(), s.table.Width(), ErrOutOfRange)
	}
	if old == value {
		return nil
	}

	ref := CellRef{Row: row, Col: col}
	if saved, tracked := s.dirty[ref]; tracked {
		if saved == value {
			delete(s.dirty, ref)
		}
	} else {
		s.dirty[ref] = old
	}

	s.table.set(row, col, value)
	s.invalidate()
	return nil
}

// AddRow appends a row of empty cells sized to the current column count.
func (s *EditSession) AddRow() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.appendRow(make([]string, s.table.Width()))
	s.structural++
	s.invalidate()
}

// AddColumn appends an empty cell to every row.
func (s *EditSession) AddColumn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table.Normalize()
	s.table.appendColumn()
	s.structural++
	s.invalidate()
}

// DeleteRow removes a row and shifts every later row up by one.
// Returns ErrProtectedRow for row 0 when the header is protected.
func (s *EditSession) DeleteRow(row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row < 0 || row >= s.table.Len() {
		return fmt.Errorf("delete row %d of %d: %w", row, s.table.Len(), ErrOutOfRange)
	}
	if row == 0 && s.protectHeader {
		return fmt.Errorf("delete row %d: %w", row, ErrProtectedRow)
	}

	s.table.removeRow(row)
	s.applyRemap(removeIndex(row), keepIndex)
	return nil
}

// DeleteColumn removes a column from every row and shifts later columns left.
// Returns ErrLastColumn when it is the only column.
func (s *EditSession) DeleteColumn(col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	width := s.table.Width()
	if col < 0 || col >= width {
		return fmt.Errorf("delete column %d of %d: %w", col, width, ErrOutOfRange)
	}
	if width == 1 {
		return fmt.Errorf("delete column %d: %w", col, ErrLastColumn)
	}

	s.table.removeColumn(col)
	s.applyRemap(keepIndex, removeIndex(col))
	return nil
}

// MoveRow moves the row at from to position to.
func (s *EditSession) MoveRow(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.table.Len()
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move row %d to %d of %d: %w", from, to, n, ErrOutOfRange)
	}
	if from == to {
		return nil
	}

	s.table.moveRow(from, to)
	s.applyRemap(moveIndex(from, to), keepIndex)
	return nil
}

// MoveColumn moves the column at from to position to.
func (s *EditSession) MoveColumn(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	width := s.table.Width()
	if from < 0 || from >= width || to < 0 || to >= width {
		return fmt.Errorf("move column %d to %d of %d: %w", from, to, width, ErrOutOfRange)
	}
	if from == to {
		return nil
	}

	s.table.Normalize()
	s.table.moveColumn(from, to)
	s.applyRemap(keepIndex, moveIndex(from, to))
	return nil
}

// applyRemap moves the dirty set and the selection through a structural edit
// and discards the last validation run.
func (s *EditSession) applyRemap(rows, cols remap) {
	next := make(map[CellRef]string, len(s.dirty))
	for ref, saved := range s.dirty {
		if moved, ok := remapRef(ref, rows, cols); ok {
			next[moved] = saved
		}
	}
	s.dirty = next
	s.selection = remapSelection(s.selection, rows, cols)
	s.structural++
	s.invalidate()
}

func (s *EditSession) invalidate() {
	s.issues = nil
	s.validated = false
}

// Select sets the current selection. Use -1 for an axis that is not selected.
func (s *EditSession) Select(row, col int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row >= s.table.Len() || col >= s.table.Width() {
		return fmt.Errorf("select (%d, %d): %w", row, col, ErrOutOfRange)
	}
	if row < 0 {
		row = -1
	}
	if col < 0 {
		col = -1
	}
	s.selection = Selection{Row: row, Col: col}
	return nil
}

// Selection returns the current selection.
func (s *EditSession) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// DeleteSelectedRow deletes the row of the current selection.
func (s *EditSession) DeleteSelectedRow() error {
	sel := s.Selection()
	if sel.Row < 0 {
		return fmt.Errorf("no row selected: %w", ErrOutOfRange)
	}
	return s.DeleteRow(sel.Row)
}

// DeleteSelectedColumn deletes the column of the current selection.
func (s *EditSession) DeleteSelectedColumn() error {
	sel := s.Selection()
	if sel.Col < 0 {
		return fmt.Errorf("no column selected: %w", ErrOutOfRange)
	}
	return s.DeleteColumn(sel.Col)
}

// DirtyCount returns the number of cells changed since the last save.
func (s *EditSession) DirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty)
}

// DirtyCells returns the changed cells sorted by row, then column.
func (s *EditSession) DirtyCells() []CellRef {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := make([]CellRef, 0, len(s.dirty))
	for ref := range s.dirty {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Row != refs[j].Row {
			return refs[i].Row < refs[j].Row
		}
		return refs[i].Col < refs[j].Col
	})
	return refs
}

// IsDirty reports whether (row, col) changed since the last save.
func (s *EditSession) IsDirty(row, col int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dirty[CellRef{Row: row, Col: col}]
	return ok
}

// HasUnsavedChanges reports whether any cell or structural edit happened
// since the last save.
func (s *EditSession) HasUnsavedChanges() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty) > 0 || s.structural > 0
}

// MarkSaved clears the dirty set. Cell contents are not touched.
func (s *EditSession) MarkSaved() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markSaved()
}

func (s *EditSession) markSaved() {
	s.dirty = make(map[CellRef]string)
	s.structural = 0
}

// Checkpoint exports the table and passes it to persist while holding the
// session lock. The session is marked saved only if persist succeeds.
func (s *EditSession) Checkpoint(persist func(text string, rows, cols int) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := persist(s.table.ExportText(), s.table.Len(), s.table.Width()); err != nil {
		return err
	}
	s.markSaved()
	return nil
}

// ExportText renders the current table in canonical text form.
func (s *EditSession) ExportText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.table.ExportText()
}

// Validate runs the column check against the current table and keeps the
// result until the next edit.
func (s *EditSession) Validate() []ValidationIssue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validate()
}

func (s *EditSession) validate() []ValidationIssue {
	s.issues = ValidateColumns(s.table)
	s.validated = true
	return cloneIssues(s.issues)
}

// Issues returns the last validation result and whether it still describes
// the current table. After any edit it returns nil, false.
func (s *EditSession) Issues() ([]ValidationIssue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneIssues(s.issues), s.validated
}

// ApplyFix writes the suggestion of the issue flagged at (row, col) by the
// last validation run, then validates again and returns the new issues.
// Returns ErrNoIssue if the current run has no issue at that cell.
func (s *EditSession) ApplyFix(row, col int) ([]ValidationIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validated {
		s.validate()
	}

	for _, issue := range s.issues {
		if issue.Row == row && issue.Col == col {
			if err := s.setCell(row, col, issue.Suggestion); err != nil {
				return nil, err
			}
			return s.validate(), nil
		}
	}
	return nil, fmt.Errorf("fix (%d, %d): %w", row, col, ErrNoIssue)
}

func cloneIssues(issues []ValidationIssue) []ValidationIssue {
	if issues == nil {
		return nil
	}
	out := make([]ValidationIssue, len(issues))
	copy(out, issues)
	return out
}
