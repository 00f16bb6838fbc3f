package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is:
//   - Logged with full technical details and the request ID (server-side)
//   - Returned as JSON with a user-friendly message, action and code
//   - Given a status derived from the engine error it wraps
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls s.respondError(w, r, err)
//  3. statusFor picks the HTTP status with errors.Is
//  4. core.MapError supplies the message and support code

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/tablemerge/internal/core"
	"github.com/JonMunkholm/tablemerge/internal/logging"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusMappings are checked with errors.Is, in order.
var statusMappings = []struct {
	target error
	status int
}{
	{core.ErrInvalidRequest, http.StatusBadRequest},
	{core.ErrSessionNotFound, http.StatusNotFound},
	{core.ErrSnapshotNotFound, http.StatusNotFound},
	{core.ErrProtectedRow, http.StatusConflict},
	{core.ErrLastColumn, http.StatusConflict},
	{core.ErrOutOfRange, http.StatusUnprocessableEntity},
	{core.ErrNoIssue, http.StatusUnprocessableEntity},
	{core.ErrNoUsableFragments, http.StatusUnprocessableEntity},
	{core.ErrTooManyFragments, http.StatusRequestEntityTooLarge},
}

// statusFor returns the HTTP status for an error.
func statusFor(err error) int {
	for _, m := range statusMappings {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// respondError logs the technical error and writes a user-friendly JSON response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	writeJSON(w, status, ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

// invalidRequest wraps a decoding failure as core.ErrInvalidRequest.
func invalidRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", core.ErrInvalidRequest, fmt.Sprintf(format, args...))
}
