package core

// snapshot.go persists saved session exports.
//
// Two stores are provided:
//   - PgSnapshotStore: PostgreSQL via pgx, used when a database is configured
//   - MemorySnapshotStore: process-local, used otherwise and in tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// SnapshotStore saves and loads table snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap Snapshot) error
	GetSnapshot(ctx context.Context, id string) (Snapshot, error)
	ListSnapshots(ctx context.Context, sessionID string) ([]Snapshot, error)
}

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

var snapshotSchema = []string{
	`CREATE TABLE IF NOT EXISTS table_snapshots (
		id          UUID PRIMARY KEY,
		session_id  UUID NOT NULL,
		content     TEXT NOT NULL,
		row_count   INTEGER NOT NULL,
		col_count   INTEGER NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS table_snapshots_session_idx ON table_snapshots (session_id, created_at)`,
}

// PgSnapshotStore stores snapshots in PostgreSQL.
type PgSnapshotStore struct {
	db DBTX
}

// NewPgSnapshotStore creates a store on db. Call EnsureSchema before use.
func NewPgSnapshotStore(db DBTX) *PgSnapshotStore {
	return &PgSnapshotStore{db: db}
}

// EnsureSchema creates the snapshot table if it does not exist.
func (p *PgSnapshotStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range snapshotSchema {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create snapshot schema: %w", err)
		}
	}
	return nil
}

// SaveSnapshot inserts a snapshot.
func (p *PgSnapshotStore) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO table_snapshots (id, session_id, content, row_count, col_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		ToPgUUID(snap.ID), ToPgUUID(snap.SessionID), snap.Content,
		int32(snap.Rows), int32(snap.Cols), snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot loads a snapshot by ID.
func (p *PgSnapshotStore) GetSnapshot(ctx context.Context, id string) (Snapshot, error) {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return Snapshot{}, fmt.Errorf("snapshot %q: %w", id, ErrSnapshotNotFound)
	}

	row := p.db.QueryRow(ctx,
		`SELECT id, session_id, content, row_count, col_count, created_at
		 FROM table_snapshots WHERE id = $1`, pgID)

	snap, err := scanSnapshot(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("snapshot %q: %w", id, ErrSnapshotNotFound)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

// ListSnapshots returns a session's snapshots, oldest first.
func (p *PgSnapshotStore) ListSnapshots(ctx context.Context, sessionID string) ([]Snapshot, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, session_id, content, row_count, col_count, created_at
		 FROM table_snapshots WHERE session_id = $1 ORDER BY created_at`, ToPgUUID(sessionID))
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

func scanSnapshot(row pgx.Row) (Snapshot, error) {
	var (
		id, sessionID pgtype.UUID
		content       string
		rowCount      int32
		colCount      int32
		createdAt     time.Time
	)
	if err := row.Scan(&id, &sessionID, &content, &rowCount, &colCount, &createdAt); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ID:        PgUUIDToString(id),
		SessionID: PgUUIDToString(sessionID),
		Content:   content,
		Rows:      int(rowCount),
		Cols:      int(colCount),
		CreatedAt: createdAt,
	}, nil
}

// ToPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func ToPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

// MemorySnapshotStore keeps snapshots in memory.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

// NewMemorySnapshotStore creates an empty in-memory store.
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snaps: make(map[string]Snapshot)}
}

func (m *MemorySnapshotStore) SaveSnapshot(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps[snap.ID] = snap
	return nil
}

func (m *MemorySnapshotStore) GetSnapshot(_ context.Context, id string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snaps[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("snapshot %q: %w", id, ErrSnapshotNotFound)
	}
	return snap, nil
}

func (m *MemorySnapshotStore) ListSnapshots(_ context.Context, sessionID string) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var snaps []Snapshot
	for _, snap := range m.snaps {
		if snap.SessionID == sessionID {
			snaps = append(snaps, snap)
		}
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.Before(snaps[j].CreatedAt)
	})
	return snaps, nil
}
