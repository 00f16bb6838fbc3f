package core

import "time"

// Fragment is the raw extraction output for one source image.
type Fragment struct {
	Success     bool   `json:"success"`
	Content     string `json:"content"`
	SourceOrder int    `json:"sourceOrder"`
}

// CellRef addresses a single cell by zero-based row and column.
type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Selection is the current cell, row or column selection of a session.
// A negative index means that axis is not selected: {Row: 2, Col: -1}
// selects a whole row, {Row: -1, Col: -1} selects nothing.
type Selection struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NoSelection is the empty selection.
var NoSelection = Selection{Row: -1, Col: -1}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.Row < 0 && s.Col < 0
}

// ValidationIssue is a single cell whose step from the previous numeric cell
// in its column differs from the column's median step.
type ValidationIssue struct {
	Row           int     `json:"row"`
	Col           int     `json:"col"`
	FromRow       int     `json:"fromRow"`       // Row of the previous numeric cell
	Observed      string  `json:"observed"`      // Cell text as found
	ObservedValue float64 `json:"observedValue"` // Parsed cell value
	Expected      float64 `json:"expected"`      // Previous value + median delta
	Delta         float64 `json:"delta"`         // Actual step from FromRow
	MedianDelta   float64 `json:"medianDelta"`
	Deviation     float64 `json:"deviation"` // Delta - MedianDelta
	Suggested     float64 `json:"suggested"`
	Suggestion    string  `json:"suggestion"` // Suggested, formatted for SetCell
	Message       string  `json:"message"`
}

// Ref returns the address of the flagged cell.
func (i ValidationIssue) Ref() CellRef {
	return CellRef{Row: i.Row, Col: i.Col}
}

// FragmentOutcome describes what the combiner did with one fragment.
type FragmentOutcome struct {
	SourceOrder   int    `json:"sourceOrder"`
	Failed        bool   `json:"failed"`          // Extraction reported failure; not parsed
	ParsedRows    int    `json:"parsedRows"`      // Non-blank lines parsed
	RetainedRows  int    `json:"retainedRows"`    // Rows appended to the table
	Reference     bool   `json:"reference"`       // Supplied the reference header
	HeaderRule    string `json:"headerRule"`      // Rule that decided the first row
	HeaderSkipped bool   `json:"headerSkipped"`   // First row dropped as a repeated header
	Error         string `json:"error,omitempty"` // Non-empty for malformed fragments
}

// CombineReport records the decisions of one combination pass.
type CombineReport struct {
	ReferenceHeader []string          `json:"referenceHeader"`
	Fragments       []FragmentOutcome `json:"fragments"`
	TotalRows       int               `json:"totalRows"`
	Duration        time.Duration     `json:"duration"`
}

// Snapshot is a saved export of a session's table.
type Snapshot struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Content   string    `json:"content"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	CreatedAt time.Time `json:"createdAt"`
}
