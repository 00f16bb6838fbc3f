package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/JonMunkholm/tablemerge/internal/core"
	"github.com/go-chi/chi/v5"
)

// decodeJSON reads a JSON body into v, capped at MaxBodyBytes.
// Unknown fields are rejected.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return invalidRequest("body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return invalidRequest("empty body")
		default:
			return invalidRequest("decode body: %v", err)
		}
	}
	return nil
}

// intParam parses an integer URL parameter.
func intParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidRequest("%s must be an integer, got %q", name, raw)
	}
	return i, nil
}

// session looks up the session named in the URL.
func (s *Server) session(r *http.Request) (string, *core.EditSession, error) {
	id := chi.URLParam(r, "sessionID")
	session, err := s.service.Session(id)
	return id, session, err
}

// SessionState is the full client view of a session after an operation.
type SessionState struct {
	core.SessionInfo
	Table     [][]string             `json:"table"`
	Dirty     []core.CellRef         `json:"dirty"`
	Selection core.Selection         `json:"selection"`
	Issues    []core.ValidationIssue `json:"issues"`
	Validated bool                   `json:"validated"`
}

// state builds the SessionState for id.
func (s *Server) state(id string, session *core.EditSession) (SessionState, error) {
	info, err := s.service.Info(id)
	if err != nil {
		return SessionState{}, err
	}
	issues, validated := session.Issues()
	if issues == nil {
		issues = []core.ValidationIssue{}
	}
	dirty := session.DirtyCells()
	if dirty == nil {
		dirty = []core.CellRef{}
	}
	return SessionState{
		SessionInfo: info,
		Table:       session.Table().Rows(),
		Dirty:       dirty,
		Selection:   session.Selection(),
		Issues:      issues,
		Validated:   validated,
	}, nil
}

// respondState writes the session state, or the error building it.
func (s *Server) respondState(w http.ResponseWriter, r *http.Request, id string, session *core.EditSession, status int) {
	st, err := s.state(id, session)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, status, st)
}
