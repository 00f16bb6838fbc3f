// Package core consolidates per-image CSV fragments into one table and keeps
// that table consistent while it is being edited.
//
// This package holds all domain logic independent of any UI or transport
// layer. It can be used by web handlers, CLI tools, or tests without
// modification.
//
// # Architecture
//
// The package is organized around four pieces, leaf first:
//
//   - Table: an ordered grid of string cells. Row 0 is a header only by
//     convention; the grid itself has no header field.
//   - Combiner: parses raw fragment text into rows, decides per fragment
//     whether its first row repeats the header, and concatenates the rest.
//   - ValidateColumns: checks each numeric column for a constant step between
//     consecutive values and suggests corrections for every deviating cell.
//   - EditSession: owns a Table for interactive editing, tracks dirty cells,
//     and keeps every index it holds correct under structural edits.
//
// # Combining Fragments
//
// Fragments are combined in caller order. The first usable fragment supplies
// the reference header; every later fragment runs the ordered [HeaderRules]
// and the first rule with an opinion decides whether its first row is
// dropped:
//
//	table, err := core.Combine([]core.Fragment{
//	    {Success: true, Content: "A,B\n1,2", SourceOrder: 0},
//	    {Success: true, Content: "A,B\n3,4", SourceOrder: 1},
//	})
//	// table.Rows() == [["A","B"],["1","2"],["3","4"]]
//
// # Editing
//
// An [EditSession] serializes every operation behind one lock. Structural
// edits remap the dirty set and the selection through a single index-remap
// function and discard the last validation run, so callers re-run
// [EditSession.Validate] after any edit.
//
// # Error Handling
//
// Engine failures are sentinel errors ([ErrNoUsableFragments],
// [ErrOutOfRange], [ErrProtectedRow], [ErrLastColumn]) wrapped with context.
// [MapError] turns them into user-friendly messages with support codes:
//
//   - CMB001-CMB003: Combination errors
//   - EDT001-EDT004: Edit errors
//   - SES001-SES003: Session and snapshot errors
package core
