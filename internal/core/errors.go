package core

import "errors"

// Combination errors.
var (
	// ErrNoUsableFragments is returned when every fragment failed or none of
	// the successful ones produced a single non-blank line.
	ErrNoUsableFragments = errors.New("no usable fragments")

	// ErrMalformedFragment marks a fragment that produced zero rows. It is
	// recorded in the CombineReport and never aborts a combination.
	ErrMalformedFragment = errors.New("malformed fragment")

	// ErrTooManyFragments is returned when a request exceeds the configured
	// fragment limit.
	ErrTooManyFragments = errors.New("too many fragments")
)

// Edit errors. A rejected edit leaves the table unchanged.
var (
	ErrOutOfRange   = errors.New("cell out of range")
	ErrProtectedRow = errors.New("protected row cannot be deleted")
	ErrLastColumn   = errors.New("cannot delete the last column")
	ErrNoIssue      = errors.New("no validation issue at cell")
)

// Session errors.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSnapshotNotFound = errors.New("snapshot not found")
)

// ErrInvalidRequest marks input that could not be decoded.
var ErrInvalidRequest = errors.New("invalid request")
