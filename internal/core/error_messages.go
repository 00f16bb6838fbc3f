package core

// error_messages.go maps engine errors to user-friendly messages with codes
// for support reference.
//
// # Combination Errors (CMB001-CMB099)
//
//	CMB001 - No usable fragments: every image failed or returned no rows
//	         Action: Retake the photos or check the extraction service
//	CMB002 - Too many fragments: more images than one combine accepts
//	         Action: Split the images into smaller batches
//	CMB003 - Malformed fragment: an image returned no rows (reported, not fatal)
//
// # Edit Errors (EDT001-EDT099)
//
//	EDT001 - Out of range: the cell, row or column does not exist
//	EDT002 - Protected row: the header row cannot be deleted
//	EDT003 - Last column: a table needs at least one column
//	EDT004 - No issue: nothing to fix at this cell; validate again
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: the session expired or was closed
//	SES002 - Snapshot not found: no saved table with this ID
//	SES003 - Request cancelled or timed out
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid request: the body or a path parameter could not be read

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage is a user-friendly description of an error.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorMapping struct {
	target error
	msg    UserMessage
}

// errorMappings are checked with errors.Is, in order.
var errorMappings = []errorMapping{
	{
		target: ErrNoUsableFragments,
		msg: UserMessage{
			Message: "None of the images produced a table",
			Action:  "Retake the photos or check the extraction service and try again",
			Code:    "CMB001",
		},
	},
	{
		target: ErrTooManyFragments,
		msg: UserMessage{
			Message: "Too many images in one batch",
			Action:  "Split the images into smaller batches",
			Code:    "CMB002",
		},
	},
	{
		target: ErrMalformedFragment,
		msg: UserMessage{
			Message: "An image returned no rows",
			Action:  "Check the image; the other images were combined",
			Code:    "CMB003",
		},
	},
	{
		target: ErrOutOfRange,
		msg: UserMessage{
			Message: "That cell is outside the table",
			Action:  "Reload the table and try again",
			Code:    "EDT001",
		},
	},
	{
		target: ErrProtectedRow,
		msg: UserMessage{
			Message: "The header row cannot be deleted",
			Action:  "Edit the header cells instead",
			Code:    "EDT002",
		},
	},
	{
		target: ErrLastColumn,
		msg: UserMessage{
			Message: "The last column cannot be deleted",
			Action:  "Add another column first",
			Code:    "EDT003",
		},
	},
	{
		target: ErrNoIssue,
		msg: UserMessage{
			Message: "There is nothing to fix in that cell",
			Action:  "Run validation again to refresh the suggestions",
			Code:    "EDT004",
		},
	},
	{
		target: ErrSessionNotFound,
		msg: UserMessage{
			Message: "Editing session not found",
			Action:  "The session may have expired. Combine the images again or restore a saved table",
			Code:    "SES001",
		},
	},
	{
		target: ErrSnapshotNotFound,
		msg: UserMessage{
			Message: "Saved table not found",
			Action:  "Check the snapshot ID",
			Code:    "SES002",
		},
	},
	{
		target: ErrInvalidRequest,
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Check the request body and parameters",
			Code:    "REQ001",
		},
	},
}

// errorPatterns catch errors from outside the engine by message.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "SES003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "SES003",
		},
	},
}

// defaultMessage is returned for errors that match nothing.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts an error to a user-friendly message.
// Returns an empty UserMessage for nil.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError formats an error as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
