package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/shared"
)

const snapshotColumns = "id, sequence, name, payload, reason, created_at, resolved_at"

// SnapshotRepository stores playlist snapshots in the snapshots table.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts snapshot with a generated ID and the next sequence number, setting both on snapshot.
func (r *SnapshotRepository) Create(snapshot *models.Snapshot) error {
	if snapshot.Name == "" {
		return fmt.Errorf("%w: snapshot name is empty", shared.ErrInvalidInput)
	}

	payload, err := json.Marshal(snapshot.Playlist)
	if err != nil {
		return fmt.Errorf("failed to encode playlist: %w", err)
	}

	sequence, err := NextSequence(r.db, "snapshots")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO snapshots (id, sequence, name, payload, reason, created_at, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, id, sequence, snapshot.Name, string(payload), snapshot.Reason, snapshot.CreatedAt, nullTime(snapshot.ResolvedAt)); err != nil {
		return fmt.Errorf("%w: failed to insert snapshot: %v", shared.ErrStorage, err)
	}

	snapshot.ID = id
	snapshot.Sequence = sequence
	return nil
}

// Get retrieves a snapshot by ID.
func (r *SnapshotRepository) Get(id string) (*models.Snapshot, error) {
	query := "SELECT " + snapshotColumns + " FROM snapshots WHERE id = ?"
	return r.scanOne(r.db.QueryRow(query, id), id)
}

// GetBySequence retrieves a snapshot by its sequence number.
func (r *SnapshotRepository) GetBySequence(sequence int) (*models.Snapshot, error) {
	query := "SELECT " + snapshotColumns + " FROM snapshots WHERE sequence = ?"
	return r.scanOne(r.db.QueryRow(query, sequence), fmt.Sprintf("#%d", sequence))
}

// List returns snapshots in sequence order. Resolved snapshots are skipped unless includeResolved is set.
func (r *SnapshotRepository) List(includeResolved bool) ([]*models.Snapshot, error) {
	query := "SELECT " + snapshotColumns + " FROM snapshots"
	if !includeResolved {
		query += " WHERE resolved_at IS NULL"
	}
	query += " ORDER BY sequence ASC"
	return r.query(query)
}

// ListByName returns every snapshot of the playlist called name, newest first.
func (r *SnapshotRepository) ListByName(name string) ([]*models.Snapshot, error) {
	query := "SELECT " + snapshotColumns + " FROM snapshots WHERE name = ? ORDER BY sequence DESC"
	return r.query(query, name)
}

// Resolve marks a snapshot as no longer needed. Already resolved snapshots report [shared.ErrSnapshotNotFound].
func (r *SnapshotRepository) Resolve(id string) error {
	result, err := r.db.Exec("UPDATE snapshots SET resolved_at = ? WHERE id = ? AND resolved_at IS NULL", time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve snapshot: %v", shared.ErrStorage, err)
	}
	return requireRow(result, id)
}

// Delete removes a snapshot permanently.
func (r *SnapshotRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete snapshot: %v", shared.ErrStorage, err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, id)
	}
	return nil
}

func (r *SnapshotRepository) query(query string, args ...any) ([]*models.Snapshot, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query snapshots: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	snapshots := []*models.Snapshot{}
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return snapshots, nil
}

func (r *SnapshotRepository) scanOne(row *sql.Row, key string) (*models.Snapshot, error) {
	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, key)
	}
	return snapshot, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(s scanner) (*models.Snapshot, error) {
	var (
		snapshot   models.Snapshot
		payload    string
		resolvedAt sql.NullTime
	)

	err := s.Scan(
		&snapshot.ID,
		&snapshot.Sequence,
		&snapshot.Name,
		&payload,
		&snapshot.Reason,
		&snapshot.CreatedAt,
		&resolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &snapshot.Playlist); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", snapshot.ID, err)
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		snapshot.ResolvedAt = &t
	}
	return &snapshot, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
