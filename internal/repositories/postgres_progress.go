package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/sparkmatch/backend/internal/db"
)

// PostgresBadgeRepository persists badge awards to PostgreSQL.
type PostgresBadgeRepository struct {
	pool db.Pool
}

// NewPostgresBadgeRepository constructs a badge repository backed by PostgreSQL.
func NewPostgresBadgeRepository(pool db.Pool) *PostgresBadgeRepository {
	return &PostgresBadgeRepository{pool: pool}
}

// ListForUser returns the badge ids already awarded to the user.
func (r *PostgresBadgeRepository) ListForUser(ctx context.Context, userID string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT badge_id FROM user_badges WHERE user_id = $1 ORDER BY awarded_at ASC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query user badges: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows, "user badges")
}

// Award records the provided badge ids. Existing awards are left untouched so
// repeat evaluations stay idempotent.
func (r *PostgresBadgeRepository) Award(ctx context.Context, userID string, badgeIDs []string, now time.Time) error {
	if len(badgeIDs) == 0 {
		return nil
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	for _, badgeID := range badgeIDs {
		if _, err := conn.Exec(ctx, `
            INSERT INTO user_badges (user_id, badge_id, awarded_at)
            VALUES ($1, $2, $3)
            ON CONFLICT (user_id, badge_id) DO NOTHING
        `, userID, badgeID, now); err != nil {
			return fmt.Errorf("insert badge award %s: %w", badgeID, err)
		}
	}

	return nil
}

// PostgresPresenceRepository persists activity heartbeats to PostgreSQL.
type PostgresPresenceRepository struct {
	pool db.Pool
}

// NewPostgresPresenceRepository constructs a presence repository backed by PostgreSQL.
func NewPostgresPresenceRepository(pool db.Pool) *PostgresPresenceRepository {
	return &PostgresPresenceRepository{pool: pool}
}

// Touch upserts the heartbeat for the user.
func (r *PostgresPresenceRepository) Touch(ctx context.Context, userID string, now time.Time) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        INSERT INTO presence (user_id, last_seen_at)
        VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET last_seen_at = EXCLUDED.last_seen_at
    `, userID, now); err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}

	return nil
}

// Exists reports whether a presence record exists for the user.
func (r *PostgresPresenceRepository) Exists(ctx context.Context, userID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM presence WHERE user_id = $1)
    `, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check presence exists: %w", err)
	}

	return exists, nil
}

var _ BadgeRepository = (*PostgresBadgeRepository)(nil)
var _ PresenceRepository = (*PostgresPresenceRepository)(nil)
