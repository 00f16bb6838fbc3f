package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/JonMunkholm/tablemerge/internal/logging"
	"github.com/google/uuid"
)

// SessionConfig holds settings for open edit sessions.
// Zero values fall back to defaults.
type SessionConfig struct {
	ProtectHeader   bool          // Forbid deleting row 0
	IdleTTL         time.Duration // Close sessions unused for this long (default: 2h)
	JanitorInterval time.Duration // How often idle sessions are swept (default: 5m)
	MaxFragments    int           // Fragments accepted per combine, 0 for no limit
}

// DefaultSessionConfig returns the settings used when none are configured.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ProtectHeader:   true,
		IdleTTL:         2 * time.Hour,
		JanitorInterval: 5 * time.Minute,
	}
}

// Service owns the open edit sessions, one per document.
type Service struct {
	store    SnapshotStore
	cfg      SessionConfig
	combiner *Combiner
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*openSession
}

type openSession struct {
	id        string
	session   *EditSession
	createdAt time.Time
	lastUsed  time.Time
}

// SessionInfo describes an open session.
type SessionInfo struct {
	ID         string    `json:"id"`
	Rows       int       `json:"rows"`
	Cols       int       `json:"cols"`
	DirtyCount int       `json:"dirtyCount"`
	Unsaved    bool      `json:"unsaved"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsedAt time.Time `json:"lastUsedAt"`
	SnapshotID string    `json:"snapshotId,omitempty"` // Set when restored from a snapshot
}

// NewService creates a Service that saves snapshots to store.
func NewService(store SnapshotStore, cfg SessionConfig) *Service {
	def := DefaultSessionConfig()
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	if cfg.JanitorInterval <= 0 {
		cfg.JanitorInterval = def.JanitorInterval
	}
	if store == nil {
		store = NewMemorySnapshotStore()
	}

	return &Service{
		store:    store,
		cfg:      cfg,
		combiner: NewCombiner(),
		now:      time.Now,
		sessions: make(map[string]*openSession),
	}
}

// CombineResult is the outcome of opening a session from fragments.
type CombineResult struct {
	SessionID string            `json:"sessionId"`
	Rows      [][]string        `json:"rows"`
	Issues    []ValidationIssue `json:"issues"`
	Report    *CombineReport    `json:"report"`
}

// CombineFragments orders fragments by SourceOrder, combines them into one
// table, opens a session on it and runs validation.
func (s *Service) CombineFragments(ctx context.Context, fragments []Fragment) (*CombineResult, error) {
	if s.cfg.MaxFragments > 0 && len(fragments) > s.cfg.MaxFragments {
		return nil, fmt.Errorf("%w: %d fragments, limit %d", ErrTooManyFragments, len(fragments), s.cfg.MaxFragments)
	}

	ordered := make([]Fragment, len(fragments))
	copy(ordered, fragments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SourceOrder < ordered[j].SourceOrder
	})

	table, report, err := s.combiner.CombineWithReport(ordered)
	if err != nil {
		logging.FromContext(ctx).Warn("combine failed", "fragments", len(fragments), "error", err)
		return nil, err
	}

	id, session := s.open(table)
	issues := session.Validate()

	logging.WithFields(ctx, "session_id", id).Info("session opened",
		"fragments", len(fragments),
		"rows", report.TotalRows,
		"issues", len(issues),
		"duration_ms", report.Duration.Milliseconds(),
	)

	return &CombineResult{
		SessionID: id,
		Rows:      session.Table().Rows(),
		Issues:    issues,
		Report:    report,
	}, nil
}

// OpenTable opens a session on an existing table.
func (s *Service) OpenTable(t *Table) (string, *EditSession) {
	return s.open(t)
}

func (s *Service) open(t *Table) (string, *EditSession) {
	session := NewEditSession(t, WithProtectedHeader(s.cfg.ProtectHeader))
	id := uuid.NewString()
	now := s.now()

	s.mu.Lock()
	s.sessions[id] = &openSession{id: id, session: session, createdAt: now, lastUsed: now}
	s.mu.Unlock()

	return id, session
}

// Session returns an open session and marks it used.
func (s *Service) Session(id string) (*EditSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	open.lastUsed = s.now()
	return open.session, nil
}

// Info describes an open session.
func (s *Service) Info(id string) (SessionInfo, error) {
	s.mu.RLock()
	open, ok := s.sessions[id]
	var createdAt, lastUsed time.Time
	if ok {
		createdAt, lastUsed = open.createdAt, open.lastUsed
	}
	s.mu.RUnlock()
	if !ok {
		return SessionInfo{}, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}

	rows, cols := open.session.Dimensions()
	return SessionInfo{
		ID:         id,
		Rows:       rows,
		Cols:       cols,
		DirtyCount: open.session.DirtyCount(),
		Unsaved:    open.session.HasUnsavedChanges(),
		CreatedAt:  createdAt,
		LastUsedAt: lastUsed,
	}, nil
}

// SessionCount returns the number of open sessions.
func (s *Service) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CloseSession discards an open session.
func (s *Service) CloseSession(ctx context.Context, id string) error {
	s.mu.Lock()
	open, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	if open.session.HasUnsavedChanges() {
		logging.WithFields(ctx, "session_id", id).Warn("session closed with unsaved changes",
			"dirty_cells", open.session.DirtyCount())
	}
	return nil
}

// SaveSession stores the session's canonical export and marks it saved.
func (s *Service) SaveSession(ctx context.Context, id string) (Snapshot, error) {
	session, err := s.Session(id)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	err = session.Checkpoint(func(text string, rows, cols int) error {
		snap = Snapshot{
			ID:        uuid.NewString(),
			SessionID: id,
			Content:   text,
			Rows:      rows,
			Cols:      cols,
			CreatedAt: s.now().UTC(),
		}
		return s.store.SaveSnapshot(ctx, snap)
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("save session %s: %w", id, err)
	}

	logging.WithFields(ctx, "session_id", id).Info("session saved",
		"snapshot_id", snap.ID, "rows", snap.Rows, "cols", snap.Cols)
	return snap, nil
}

// ListSnapshots returns the snapshots saved from a session.
func (s *Service) ListSnapshots(ctx context.Context, sessionID string) ([]Snapshot, error) {
	return s.store.ListSnapshots(ctx, sessionID)
}

// RestoreSession opens a new session on the table stored in a snapshot.
func (s *Service) RestoreSession(ctx context.Context, snapshotID string) (SessionInfo, []ValidationIssue, error) {
	snap, err := s.store.GetSnapshot(ctx, snapshotID)
	if err != nil {
		return SessionInfo{}, nil, err
	}

	id, session := s.open(ParseText(snap.Content))
	issues := session.Validate()

	info, err := s.Info(id)
	if err != nil {
		return SessionInfo{}, nil, err
	}
	info.SnapshotID = snapshotID

	logging.WithFields(ctx, "session_id", id).Info("session restored",
		"snapshot_id", snapshotID, "rows", info.Rows, "issues", len(issues))
	return info, issues, nil
}
