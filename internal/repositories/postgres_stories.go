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

const storyColumns = `id, owner_id, media_key, media_url, caption, is_public, created_at, expires_at`

// PostgresStoryRepository provides PostgreSQL-backed persistence for stories.
type PostgresStoryRepository struct {
	pool db.Pool
}

// NewPostgresStoryRepository constructs a story repository backed by PostgreSQL.
func NewPostgresStoryRepository(pool db.Pool) *PostgresStoryRepository {
	return &PostgresStoryRepository{pool: pool}
}

// Create stores a new story record.
func (r *PostgresStoryRepository) Create(ctx context.Context, story models.Story) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO stories (`+storyColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `, story.ID, story.OwnerID, story.MediaKey, story.MediaURL, story.Caption,
		story.IsPublic, story.CreatedAt, story.ExpiresAt)
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
		return fmt.Errorf("insert story: %w", err)
	}

	return nil
}

// Get loads a story by id, including its viewer set.
func (r *PostgresStoryRepository) Get(ctx context.Context, id string) (models.Story, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Story{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = $1`, id)

	var story models.Story
	if err := row.Scan(&story.ID, &story.OwnerID, &story.MediaKey, &story.MediaURL,
		&story.Caption, &story.IsPublic, &story.CreatedAt, &story.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Story{}, ErrNotFound
		}
		return models.Story{}, fmt.Errorf("select story: %w", err)
	}

	return story, nil
}

// ListActive returns every non-expired story ordered oldest first, so feed
// assembly can group without re-sorting inside owner groups.
func (r *PostgresStoryRepository) ListActive(ctx context.Context, now time.Time) ([]models.Story, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+storyColumns+` FROM stories
        WHERE expires_at >= $1
        ORDER BY created_at ASC
    `, now)
	if err != nil {
		return nil, fmt.Errorf("query active stories: %w", err)
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		var story models.Story
		if err := rows.Scan(&story.ID, &story.OwnerID, &story.MediaKey, &story.MediaURL,
			&story.Caption, &story.IsPublic, &story.CreatedAt, &story.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active stories: %w", err)
	}

	return stories, nil
}

// MarkViewed records the viewer idempotently.
func (r *PostgresStoryRepository) MarkViewed(ctx context.Context, storyID, viewerID string, now time.Time) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO story_views (story_id, viewer_id, viewed_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (story_id, viewer_id) DO NOTHING
    `, storyID, viewerID, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return fmt.Errorf("insert story view: %w", err)
	}

	return nil
}

// Viewers lists viewer ids for a story in view order.
func (r *PostgresStoryRepository) Viewers(ctx context.Context, storyID string) ([]string, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT viewer_id FROM story_views WHERE story_id = $1 ORDER BY viewed_at ASC
    `, storyID)
	if err != nil {
		return nil, fmt.Errorf("query story viewers: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows, "story viewers")
}

// Delete removes the story row; the view rows cascade via foreign key.
func (r *PostgresStoryRepository) Delete(ctx context.Context, id string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

var _ StoryRepository = (*PostgresStoryRepository)(nil)
