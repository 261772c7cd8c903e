package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sparkmatch/backend/internal/db"
	"github.com/sparkmatch/backend/internal/models"
)

const messageColumns = `id, match_id, sender_id, body, icebreaker, created_at, edited_at`

// PostgresMessageRepository provides PostgreSQL-backed persistence for messages.
type PostgresMessageRepository struct {
	pool db.Pool
}

// NewPostgresMessageRepository constructs a message repository backed by PostgreSQL.
func NewPostgresMessageRepository(pool db.Pool) *PostgresMessageRepository {
	return &PostgresMessageRepository{pool: pool}
}

// Create stores a new message.
func (r *PostgresMessageRepository) Create(ctx context.Context, message models.Message) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO messages (id, match_id, sender_id, body, icebreaker, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, message.ID, message.MatchID, message.SenderID, message.Body, message.Icebreaker, message.CreatedAt)
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
		return fmt.Errorf("insert message: %w", err)
	}

	return nil
}

// Get loads a message by id.
func (r *PostgresMessageRepository) Get(ctx context.Context, id string) (models.Message, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Message{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)

	message, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Message{}, ErrNotFound
		}
		return models.Message{}, fmt.Errorf("select message: %w", err)
	}

	return message, nil
}

// ListForMatch returns the messages of a match channel, oldest first.
func (r *PostgresMessageRepository) ListForMatch(ctx context.Context, matchID string) ([]models.Message, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+messageColumns+` FROM messages WHERE match_id = $1 ORDER BY created_at ASC
    `, matchID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}

// UpdateBody replaces the message body and stamps the edit time.
func (r *PostgresMessageRepository) UpdateBody(ctx context.Context, id, body string, now time.Time) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE messages SET body = $2, edited_at = $3 WHERE id = $1
    `, id, body, now)
	if err != nil {
		return fmt.Errorf("update message body: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a message.
func (r *PostgresMessageRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// IcebreakerCount counts icebreaker-tagged messages sent by the user.
func (r *PostgresMessageRepository) IcebreakerCount(ctx context.Context, userID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var count int
	err = conn.QueryRow(ctx, `
        SELECT COUNT(*) FROM messages WHERE sender_id = $1 AND icebreaker = TRUE
    `, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count icebreaker messages: %w", err)
	}

	return count, nil
}

// MaxChannelCount returns the largest number of messages the user has sent
// within any single match channel.
func (r *PostgresMessageRepository) MaxChannelCount(ctx context.Context, userID string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var max int
	err = conn.QueryRow(ctx, `
        SELECT COALESCE(MAX(cnt), 0) FROM (
            SELECT COUNT(*) AS cnt FROM messages WHERE sender_id = $1 GROUP BY match_id
        ) AS per_channel
    `, userID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("select max channel count: %w", err)
	}

	return max, nil
}

func scanMessage(row pgx.Row) (models.Message, error) {
	var message models.Message
	if err := row.Scan(&message.ID, &message.MatchID, &message.SenderID, &message.Body,
		&message.Icebreaker, &message.CreatedAt, &message.EditedAt); err != nil {
		return models.Message{}, err
	}
	return message, nil
}

var _ MessageRepository = (*PostgresMessageRepository)(nil)
