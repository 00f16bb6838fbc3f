package web

import (
	"net/http"

	"github.com/JonMunkholm/tablemerge/internal/core"
	"github.com/go-chi/chi/v5"
)

type combineRequest struct {
	Fragments []core.Fragment `json:"fragments"`
}

type cellRequest struct {
	Row   *int    `json:"row"`
	Col   *int    `json:"col"`
	Value *string `json:"value"`
}

type moveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type positionRequest struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// handleCombine merges extraction fragments into a new session.
func (s *Server) handleCombine(w http.ResponseWriter, r *http.Request) {
	var req combineRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.CombineFragments(r.Context(), req.Fragments)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if result.Issues == nil {
		result.Issues = []core.ValidationIssue{}
	}

	w.Header().Set("Location", "/api/sessions/"+result.SessionID)
	writeJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondState(w, r, id, session, http.StatusOK)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.service.CloseSession(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req cellRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Row == nil || req.Col == nil || req.Value == nil {
		s.respondError(w, r, invalidRequest("row, col and value are required"))
		return
	}

	if err := session.SetCell(*req.Row, *req.Col, *req.Value); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondState(w, r, id, session, http.StatusOK)
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	session.AddRow()
	s.respondState(w, r, id, session, http.StatusOK)
}

func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	session.AddColumn()
	s.respondState(w, r, id, session, http.StatusOK)
}

func (s *Server) handleDeleteRow(w http.ResponseWriter, r *http.Request) {
	s.deleteAxis(w, r, "row", (*core.EditSession).DeleteRow)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	s.deleteAxis(w, r, "col", (*core.EditSession).DeleteColumn)
}

// deleteAxis handles row and column deletion by URL index.
func (s *Server) deleteAxis(w http.ResponseWriter, r *http.Request, param string, del func(*core.EditSession, int) error) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	index, err := intParam(r, param)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := del(session, index); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondState(w, r, id, session, http.StatusOK)
}

func (s *Server) handleMoveRow(w http.ResponseWriter, r *http.Request) {
	s.moveAxis(w, r, (*core.EditSession).MoveRow)
}

func (s *Server) handleMoveColumn(w http.ResponseWriter, r *http.Request) {
	s.moveAxis(w, r, (*core.EditSession).MoveColumn)
}

// moveAxis handles row and column moves.
func (s *Server) moveAxis(w http.ResponseWriter, r *http.Request, move func(*core.EditSession, int, int) error) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req moveRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.From == nil || req.To == nil {
		s.respondError(w, r, invalidRequest("from and to are required"))
		return
	}

	if err := move(session, *req.From, *req.To); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondState(w, r, id, session, http.StatusOK)
}

// handleSelect sets the selection. A missing or negative axis clears it.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req positionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	row, col := -1, -1
	if req.Row != nil {
		row = *req.Row
	}
	if req.Col != nil {
		col = *req.Col
	}

	if err := session.Select(row, col); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondState(w, r, id, session, http.StatusOK)
}

func (s *Server) handleDeleteSelectedRow(w http.ResponseWriter, r *http.Request) {
	s.deleteSelected(w, r, (*core.EditSession).DeleteSelectedRow)
}

func (s *Server) handleDeleteSelectedColumn(w http.ResponseWriter, r *http.Request) {
	s.deleteSelected(w, r, (*core.EditSession).DeleteSelectedColumn)
}

func (s *Server) deleteSelected(w http.ResponseWriter, r *http.Request, del func(*core.EditSession) error) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := del(session); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondState(w, r, id, session, http.StatusOK)
}

// handleValidate runs the column check and returns the full state.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	session.Validate()
	s.respondState(w, r, id, session, http.StatusOK)
}

// handleApplyFix writes the suggested value for the issue at (row, col).
func (s *Server) handleApplyFix(w http.ResponseWriter, r *http.Request) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req positionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Row == nil || req.Col == nil {
		s.respondError(w, r, invalidRequest("row and col are required"))
		return
	}

	if _, err := session.ApplyFix(*req.Row, *req.Col); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondState(w, r, id, session, http.StatusOK)
}
