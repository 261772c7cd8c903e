package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sparkmatch/backend/internal/db"
	"github.com/sparkmatch/backend/internal/models"
)

const userColumns = `id, email, password_hash, hide_profile, created_at, updated_at,
        display_name, avatar_url, bio, birthdate, gender, interested_in, city, job_title, education, interests`

// PostgresUserRepository provides PostgreSQL-backed persistence for users.
type PostgresUserRepository struct {
	pool db.Pool
}

// NewPostgresUserRepository constructs a user repository backed by PostgreSQL.
func NewPostgresUserRepository(pool db.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// Create persists a new user record.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	p := user.Profile
	_, err = conn.Exec(ctx, `
        INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `, user.ID, user.Email, user.Password, user.HideProfile, user.CreatedAt, user.UpdatedAt,
		p.DisplayName, p.AvatarURL, p.Bio, p.Birthdate, p.Gender, p.InterestedIn, p.City, p.JobTitle, p.Education, p.Interests)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

// FindByEmail fetches a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by email: %w", err)
	}

	return user, nil
}

// FindByID fetches a user by id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user by id: %w", err)
	}

	return user, nil
}

// UpdateProfile modifies the profile fields of an existing user.
func (r *PostgresUserRepository) UpdateProfile(ctx context.Context, user models.User) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	p := user.Profile
	tag, err := conn.Exec(ctx, `
        UPDATE users
        SET display_name = $2, avatar_url = $3, bio = $4, birthdate = $5, gender = $6,
            interested_in = $7, city = $8, job_title = $9, education = $10, interests = $11,
            updated_at = $12
        WHERE id = $1
    `, user.ID, p.DisplayName, p.AvatarURL, p.Bio, p.Birthdate, p.Gender,
		p.InterestedIn, p.City, p.JobTitle, p.Education, p.Interests, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// SetHideProfile toggles the discovery-visibility flag.
func (r *PostgresUserRepository) SetHideProfile(ctx context.Context, id string, hide bool) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE users SET hide_profile = $2, updated_at = NOW() WHERE id = $1
    `, id, hide)
	if err != nil {
		return fmt.Errorf("update hide_profile: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// CreationRank returns the 1-based position of the user by account creation
// order, breaking ties on id so the rank is stable.
func (r *PostgresUserRepository) CreationRank(ctx context.Context, id string) (int, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var rank int
	err = conn.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM users u, users me
        WHERE me.id = $1
          AND (u.created_at, u.id) <= (me.created_at, me.id)
    `, id).Scan(&rank)
	if err != nil {
		return 0, fmt.Errorf("select creation rank: %w", err)
	}

	if rank == 0 {
		return 0, ErrNotFound
	}

	return rank, nil
}

// Discover lists visible candidate users for the viewer. Blocked pairs are
// excluded in both directions, as are users already liked or matched.
func (r *PostgresUserRepository) Discover(ctx context.Context, viewerID string, limit int) ([]models.User, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if limit <= 0 {
		limit = 50
	}

	rows, err := conn.Query(ctx, `
        SELECT `+userColumns+`
        FROM users u
        WHERE u.id <> $1
          AND u.hide_profile = FALSE
          AND NOT EXISTS (
              SELECT 1 FROM blocks b
              WHERE (b.blocker_id = $1 AND b.blocked_id = u.id)
                 OR (b.blocker_id = u.id AND b.blocked_id = $1)
          )
          AND NOT EXISTS (
              SELECT 1 FROM likes l
              WHERE l.liker_id = $1 AND l.liked_id = u.id
          )
          AND NOT EXISTS (
              SELECT 1 FROM matches m
              WHERE m.user_lo = LEAST($1, u.id) AND m.user_hi = GREATEST($1, u.id)
          )
        ORDER BY u.created_at DESC
        LIMIT $2
    `, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query discover candidates: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan discover candidate: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate discover candidates: %w", err)
	}

	return users, nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	p := &user.Profile
	err := row.Scan(&user.ID, &user.Email, &user.Password, &user.HideProfile, &user.CreatedAt, &user.UpdatedAt,
		&p.DisplayName, &p.AvatarURL, &p.Bio, &p.Birthdate, &p.Gender,
		&p.InterestedIn, &p.City, &p.JobTitle, &p.Education, &p.Interests)
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
