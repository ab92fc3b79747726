package sheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// PostgresStore keeps one row per hospital in the submissions table. Writes
// run inside a transaction and are additionally serialized by a process-wide
// mutex so two concurrent first submissions for the same hospital cannot both
// append; the later write overwrites instead.
type PostgresStore struct {
	db *sql.DB
	mu sync.Mutex
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) LoadAll(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cells
		FROM submissions
		ORDER BY hospital_name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", errors.Join(ErrUnavailable, err))
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("decode submission cells: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", errors.Join(ErrUnavailable, err))
	}
	return records, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, key string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode submission cells: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", errors.Join(ErrUnavailable, err))
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO submissions (hospital_name, cells)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (hospital_name) DO UPDATE SET cells=EXCLUDED.cells, updated_at=NOW()
	`, key, string(raw)); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert submission: %w", errors.Join(ErrUnavailable, err))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", errors.Join(ErrUnavailable, err))
	}
	return nil
}

// Ping verifies the database connection is alive
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
