package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	crdbpgx "github.com/cockroachdb/cockroach-go/v2/crdb/crdbpgxv5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sparkmatch/backend/internal/db"
	"github.com/sparkmatch/backend/internal/models"
)

// PostgresLikeRepository provides PostgreSQL-backed persistence for likes.
type PostgresLikeRepository struct {
	pool db.Pool
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool}
}

// Submit records the like and performs the reciprocity check inside a single
// retried transaction. The canonical-pair unique index on matches guarantees
// at most one row per pair even if two submissions race.
func (r *PostgresLikeRepository) Submit(ctx context.Context, likerID, likedID string, now time.Time) (LikeResult, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return LikeResult{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var result LikeResult
	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		result = LikeResult{}

		tag, err := tx.Exec(ctx, `
            INSERT INTO likes (liker_id, liked_id, created_at)
            VALUES ($1, $2, $3)
            ON CONFLICT (liker_id, liked_id) DO NOTHING
        `, likerID, likedID, now)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrNotFound
			}
			return fmt.Errorf("insert like: %w", err)
		}

		if tag.RowsAffected() == 0 {
			result.AlreadyLiked = true
			return nil
		}

		var reciprocal bool
		if err := tx.QueryRow(ctx, `
            SELECT EXISTS (SELECT 1 FROM likes WHERE liker_id = $1 AND liked_id = $2)
        `, likedID, likerID).Scan(&reciprocal); err != nil {
			return fmt.Errorf("check reciprocal like: %w", err)
		}

		if !reciprocal {
			return nil
		}

		lo, hi := models.CanonicalPair(likerID, likedID)
		if _, err := tx.Exec(ctx, `
            INSERT INTO matches (id, user_lo, user_hi, requester_id, status, created_at, accepted_at)
            VALUES ($1, $2, $3, $4, $5, $6, $6)
            ON CONFLICT (user_lo, user_hi)
            DO UPDATE SET status = $5, accepted_at = COALESCE(matches.accepted_at, EXCLUDED.accepted_at)
        `, uuid.NewString(), lo, hi, likerID, models.MatchStatusAccepted, now); err != nil {
			return fmt.Errorf("upsert match: %w", err)
		}

		result.Matched = true
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LikeResult{}, ErrNotFound
		}
		return LikeResult{}, fmt.Errorf("submit like transaction: %w", err)
	}

	return result, nil
}

// Exists reports whether the directed like row is present.
func (r *PostgresLikeRepository) Exists(ctx context.Context, likerID, likedID string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var exists bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM likes WHERE liker_id = $1 AND liked_id = $2)
    `, likerID, likedID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check like exists: %w", err)
	}

	return exists, nil
}

// Received lists users who liked the given user, newest first.
func (r *PostgresLikeRepository) Received(ctx context.Context, userID string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT liker_id FROM likes WHERE liked_id = $1 ORDER BY created_at DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query likes received: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows, "likes received")
}

// PostgresMatchRepository provides PostgreSQL-backed persistence for matches.
type PostgresMatchRepository struct {
	pool db.Pool
}

// NewPostgresMatchRepository constructs a match repository backed by PostgreSQL.
func NewPostgresMatchRepository(pool db.Pool) *PostgresMatchRepository {
	return &PostgresMatchRepository{pool: pool}
}

const matchColumns = `id, user_lo, user_hi, requester_id, status, created_at, accepted_at`

// Get loads the live match row for the pair.
func (r *PostgresMatchRepository) Get(ctx context.Context, userA, userB string) (models.Match, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Match{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	lo, hi := models.CanonicalPair(userA, userB)
	row := conn.QueryRow(ctx, `
        SELECT `+matchColumns+` FROM matches WHERE user_lo = $1 AND user_hi = $2
    `, lo, hi)

	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Match{}, ErrNotFound
		}
		return models.Match{}, fmt.Errorf("select match: %w", err)
	}

	return match, nil
}

// GetByID loads a match row by primary key.
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id string) (models.Match, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Match{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)

	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Match{}, ErrNotFound
		}
		return models.Match{}, fmt.Errorf("select match by id: %w", err)
	}

	return match, nil
}

// CreateRequest inserts a pending request row for the pair.
func (r *PostgresMatchRepository) CreateRequest(ctx context.Context, match models.Match) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO matches (id, user_lo, user_hi, requester_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, match.ID, match.UserLo, match.UserHi, match.RequesterID, match.Status, match.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return ErrConflict
			case "23503":
				return ErrNotFound
			}
		}
		return fmt.Errorf("insert match request: %w", err)
	}

	return nil
}

// Accept flips a pending inbound request to accepted and returns the row.
func (r *PostgresMatchRepository) Accept(ctx context.Context, requesterID, receiverID string, now time.Time) (models.Match, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Match{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	lo, hi := models.CanonicalPair(requesterID, receiverID)
	row := conn.QueryRow(ctx, `
        UPDATE matches
        SET status = $4, accepted_at = $5
        WHERE user_lo = $1 AND user_hi = $2 AND requester_id = $3 AND status = $6
        RETURNING `+matchColumns+`
    `, lo, hi, requesterID, models.MatchStatusAccepted, now, models.MatchStatusRequest)

	match, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Match{}, ErrNotFound
		}
		return models.Match{}, fmt.Errorf("accept match request: %w", err)
	}

	return match, nil
}

// Decline deletes a pending inbound request outright so the requester may try again later.
func (r *PostgresMatchRepository) Decline(ctx context.Context, requesterID, receiverID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	lo, hi := models.CanonicalPair(requesterID, receiverID)
	tag, err := conn.Exec(ctx, `
        DELETE FROM matches
        WHERE user_lo = $1 AND user_hi = $2 AND requester_id = $3 AND status = $4
    `, lo, hi, requesterID, models.MatchStatusRequest)
	if err != nil {
		return fmt.Errorf("decline match request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Partners lists accepted-match partner ids for the user, newest first.
func (r *PostgresMatchRepository) Partners(ctx context.Context, userID string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT CASE WHEN user_lo = $1 THEN user_hi ELSE user_lo END
        FROM matches
        WHERE (user_lo = $1 OR user_hi = $1) AND status = $2
        ORDER BY created_at DESC
    `, userID, models.MatchStatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("query match partners: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows, "match partners")
}

// PendingRequesters lists users with a pending request toward userID.
func (r *PostgresMatchRepository) PendingRequesters(ctx context.Context, userID string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT requester_id
        FROM matches
        WHERE (user_lo = $1 OR user_hi = $1) AND requester_id <> $1 AND status = $2
        ORDER BY created_at DESC
    `, userID, models.MatchStatusRequest)
	if err != nil {
		return nil, fmt.Errorf("query pending requesters: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows, "pending requesters")
}

// AcceptedCount returns the number of accepted matches for the user.
func (r *PostgresMatchRepository) AcceptedCount(ctx context.Context, userID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	err = conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM matches
        WHERE (user_lo = $1 OR user_hi = $1) AND status = $2
    `, userID, models.MatchStatusAccepted).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accepted matches: %w", err)
	}

	return count, nil
}

// DeleteAllFor removes every match row involving the user.
func (r *PostgresMatchRepository) DeleteAllFor(ctx context.Context, userID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `
        DELETE FROM matches WHERE user_lo = $1 OR user_hi = $1
    `, userID); err != nil {
		return fmt.Errorf("delete matches for user: %w", err)
	}

	return nil
}

// PostgresBlockRepository provides PostgreSQL-backed persistence for blocks.
type PostgresBlockRepository struct {
	pool db.Pool
}

// NewPostgresBlockRepository constructs a block repository backed by PostgreSQL.
func NewPostgresBlockRepository(pool db.Pool) *PostgresBlockRepository {
	return &PostgresBlockRepository{pool: pool}
}

// Block inserts the block row and cascades over likes and matches in one
// retried transaction, so the block list can never exist without severance.
func (r *PostgresBlockRepository) Block(ctx context.Context, blockerID, blockedID string, now time.Time) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var alreadyBlocked bool
	err = crdbpgx.ExecuteTx(ctx, conn, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
            INSERT INTO blocks (blocker_id, blocked_id, created_at)
            VALUES ($1, $2, $3)
            ON CONFLICT (blocker_id, blocked_id) DO NOTHING
        `, blockerID, blockedID, now)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return ErrNotFound
			}
			return fmt.Errorf("insert block: %w", err)
		}
		alreadyBlocked = tag.RowsAffected() == 0

		lo, hi := models.CanonicalPair(blockerID, blockedID)
		if _, err := tx.Exec(ctx, `
            DELETE FROM matches WHERE user_lo = $1 AND user_hi = $2
        `, lo, hi); err != nil {
			return fmt.Errorf("cascade delete matches: %w", err)
		}

		if _, err := tx.Exec(ctx, `
            DELETE FROM likes
            WHERE (liker_id = $1 AND liked_id = $2) OR (liker_id = $2 AND liked_id = $1)
        `, blockerID, blockedID); err != nil {
			return fmt.Errorf("cascade delete likes: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("block transaction: %w", err)
	}

	return alreadyBlocked, nil
}

// Unblock removes the block row. Previously severed rows are not restored.
func (r *PostgresBlockRepository) Unblock(ctx context.Context, blockerID, blockedID string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2
    `, blockerID, blockedID)
	if err != nil {
		return fmt.Errorf("delete block: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Blocked reports whether a block exists between the pair in either direction.
func (r *PostgresBlockRepository) Blocked(ctx context.Context, userA, userB string) (bool, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var blocked bool
	err = conn.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM blocks
            WHERE (blocker_id = $1 AND blocked_id = $2)
               OR (blocker_id = $2 AND blocked_id = $1)
        )
    `, userA, userB).Scan(&blocked)
	if err != nil {
		return false, fmt.Errorf("check block exists: %w", err)
	}

	return blocked, nil
}

// List returns the users blocked by blockerID with display data for the UI.
func (r *PostgresBlockRepository) List(ctx context.Context, blockerID string) ([]models.BlockedUser, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT u.id, u.display_name, u.avatar_url
        FROM blocks b
        JOIN users u ON u.id = b.blocked_id
        WHERE b.blocker_id = $1
        ORDER BY b.created_at DESC
    `, blockerID)
	if err != nil {
		return nil, fmt.Errorf("query blocked users: %w", err)
	}
	defer rows.Close()

	var blocked []models.BlockedUser
	for rows.Next() {
		var bu models.BlockedUser
		if err := rows.Scan(&bu.ID, &bu.Name, &bu.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan blocked user: %w", err)
		}
		blocked = append(blocked, bu)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked users: %w", err)
	}

	return blocked, nil
}

// Count returns the number of users blocked by blockerID.
func (r *PostgresBlockRepository) Count(ctx context.Context, blockerID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	err = conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM blocks WHERE blocker_id = $1
    `, blockerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count blocks: %w", err)
	}

	return count, nil
}

func scanMatch(row pgx.Row) (models.Match, error) {
	var match models.Match
	if err := row.Scan(&match.ID, &match.UserLo, &match.UserHi, &match.RequesterID,
		&match.Status, &match.CreatedAt, &match.AcceptedAt); err != nil {
		return models.Match{}, err
	}
	return match, nil
}

func scanIDs(rows pgx.Rows, what string) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}

	return ids, nil
}

var _ LikeRepository = (*PostgresLikeRepository)(nil)
var _ MatchRepository = (*PostgresMatchRepository)(nil)
var _ BlockRepository = (*PostgresBlockRepository)(nil)
