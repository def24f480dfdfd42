// Package store persists registry snapshots in SQLite, one JSONB row per
// team session.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/playperu/treasurehunt/internal/registry"
)

type SessionStore struct {
	db *sql.DB
}

// New expects the schema from the migrations package to be in place.
func New(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Save upserts every session of the snapshot in one transaction.
func (s *SessionStore) Save(ctx context.Context, snap registry.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	updatedAt := snap.TakenAt.UTC().Format(time.RFC3339Nano)
	for _, rec := range snap.Sessions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, team_name, data, updated_at) VALUES (?, ?, jsonb(?), ?)
			 ON CONFLICT(id) DO UPDATE SET team_name = excluded.team_name, data = excluded.data, updated_at = excluded.updated_at`,
			rec.ID, rec.TeamName, string(rec.Data), updatedAt,
		)
		if err != nil {
			return fmt.Errorf("saving session %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// Load returns every saved session ordered by id.
func (s *SessionStore) Load(ctx context.Context) ([]registry.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, team_name, json(data) FROM sessions ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	defer rows.Close()

	var records []registry.SessionRecord
	for rows.Next() {
		var rec registry.SessionRecord
		var data string
		if err := rows.Scan(&rec.ID, &rec.TeamName, &data); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		rec.Data = []byte(data)
		records = append(records, rec)
	}
	return records, rows.Err()
}
