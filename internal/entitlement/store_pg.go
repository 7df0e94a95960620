package entitlement

import (
	"context"
	"database/sql"
	"errors"
)

// PGStore persists usage counters in Postgres.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed usage store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Ensure(ctx context.Context, userID string) (int, error) {
	var used int
	err := s.DB.QueryRowContext(ctx, `
SELECT free_usage FROM user_usage WHERE user_id = $1`, userID).Scan(&used)
	if err == nil {
		return used, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	// First sighting of this caller; a concurrent insert is harmless.
	if _, err := s.DB.ExecContext(ctx, `
INSERT INTO user_usage (user_id, free_usage) VALUES ($1, 0)
ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
		return 0, err
	}
	return 0, nil
}

func (s *PGStore) Increment(ctx context.Context, userID string) error {
	_, err := s.DB.ExecContext(ctx, `
UPDATE user_usage SET free_usage = free_usage + 1, updated_at = NOW()
WHERE user_id = $1`, userID)
	return err
}

var _ Store = (*PGStore)(nil)
