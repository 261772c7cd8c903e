package repositories

import (
	"context"
	"time"

	"github.com/sparkmatch/backend/internal/models"
)

// MatchRepository defines data access for match rows. The unordered pair is
// stored canonically (user_lo < user_hi) with a unique index, so every lookup
// is single-sided.
type MatchRepository interface {
	// Get loads the live match row for the pair, in either direction.
	Get(ctx context.Context, userA, userB string) (models.Match, error)
	// GetByID loads a match row by primary key.
	GetByID(ctx context.Context, id string) (models.Match, error)
	// CreateRequest inserts a pending request row. Returns ErrConflict when a
	// row for the pair already exists.
	CreateRequest(ctx context.Context, match models.Match) error
	// Accept flips a pending request to accepted. The caller must be the
	// receiver: only rows where requesterID requested and the pair includes
	// receiverID qualify. Returns ErrNotFound when no pending row matches.
	Accept(ctx context.Context, requesterID, receiverID string, now time.Time) (models.Match, error)
	// Decline deletes a pending request outright, leaving no residue.
	Decline(ctx context.Context, requesterID, receiverID string) error
	// Partners lists accepted-match partner ids for the user.
	Partners(ctx context.Context, userID string) ([]string, error)
	// PendingRequesters lists users with an inbound pending request toward userID.
	PendingRequesters(ctx context.Context, userID string) ([]string, error)
	// AcceptedCount returns the number of accepted matches for the user.
	AcceptedCount(ctx context.Context, userID string) (int, error)
	// DeleteAllFor removes every match row involving the user.
	DeleteAllFor(ctx context.Context, userID string) error
}
