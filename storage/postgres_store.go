package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quadrahub/chaveamento/models"
)

// snapshotKey pins the single-row snapshot. The table holds the whole
// tournament state as one JSONB document; there is exactly one
// tournament per deployment.
const snapshotKey = "default"

// PostgresStore persists the snapshot in a single-row table:
//
//	CREATE TABLE IF NOT EXISTS tournament_snapshots (
//	    key        TEXT PRIMARY KEY,
//	    payload    JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS tournament_snapshots (
			key        TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure snapshot schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) (models.Snapshot, error) {
	query := `SELECT payload FROM tournament_snapshots WHERE key = $1`

	var payload []byte
	err := s.db.QueryRowContext(ctx, query, snapshotKey).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EmptySnapshot(), nil
		}
		return models.Snapshot{}, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to decode stored snapshot: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, snap models.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
		INSERT INTO tournament_snapshots (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`

	if _, err := s.db.ExecContext(ctx, query, snapshotKey, payload); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}
