package web

import (
	"net/http"

	"github.com/JonMunkholm/tablemerge/internal/core"
	"github.com/JonMunkholm/tablemerge/internal/logging"
	"github.com/go-chi/chi/v5"
)

// handleExport streams the canonical text export as CSV.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, session, err := s.session(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(session.ExportText())); err != nil {
		logging.WithFields(r.Context(), "session_id", id).Error("export write failed", "error", err)
	}
}

// handleSave stores a snapshot and clears the dirty set.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	snap, err := s.service.SaveSession(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	snaps, err := s.service.ListSnapshots(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if snaps == nil {
		snaps = []core.Snapshot{}
	}
	writeJSON(w, http.StatusOK, snaps)
}

// handleRestore opens a fresh session from a snapshot.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	info, _, err := s.service.RestoreSession(r.Context(), chi.URLParam(r, "snapshotID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	session, err := s.service.Session(info.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	st, err := s.state(info.ID, session)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	st.SnapshotID = info.SnapshotID

	w.Header().Set("Location", "/api/sessions/"+info.ID)
	writeJSON(w, http.StatusCreated, st)
}
