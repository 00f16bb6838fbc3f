package core

// remap maps an index from before a structural edit to its index after it.
// ok is false when the index no longer exists.
type remap func(old int) (idx int, ok bool)

func keepIndex(i int) (int, bool) {
	return i, true
}

// removeIndex maps indices around a deleted row or column.
func removeIndex(removed int) remap {
	return func(i int) (int, bool) {
		switch {
		case i == removed:
			return 0, false
		case i > removed:
			return i - 1, true
		default:
			return i, true
		}
	}
}

// moveIndex maps indices when the entry at from is moved to position to.
func moveIndex(from, to int) remap {
	return func(i int) (int, bool) {
		switch {
		case i == from:
			return to, true
		case from < to && i > from && i <= to:
			return i - 1, true
		case from > to && i >= to && i < from:
			return i + 1, true
		default:
			return i, true
		}
	}
}

// remapRef applies row and column remaps to a cell address.
func remapRef(ref CellRef, rows, cols remap) (CellRef, bool) {
	r, ok := rows(ref.Row)
	if !ok {
		return CellRef{}, false
	}
	c, ok := cols(ref.Col)
	if !ok {
		return CellRef{}, false
	}
	return CellRef{Row: r, Col: c}, true
}

// remapSelection applies remaps to the selected axes. A selection that loses
// any of its axes is cleared.
func remapSelection(sel Selection, rows, cols remap) Selection {
	out := sel
	if sel.Row >= 0 {
		r, ok := rows(sel.Row)
		if !ok {
			return NoSelection
		}
		out.Row = r
	}
	if sel.Col >= 0 {
		c, ok := cols(sel.Col)
		if !ok {
			return NoSelection
		}
		out.Col = c
	}
	return out
}
