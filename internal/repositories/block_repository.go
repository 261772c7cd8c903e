package repositories

import (
	"context"
	"time"

	"github.com/sparkmatch/backend/internal/models"
)

// BlockRepository defines data access for the block relation and its cascade.
type BlockRepository interface {
	// Block inserts the block row and severs every like and match row between
	// the pair in one transaction, so an interrupted cascade can never leave a
	// block without full severance. Reports whether the block already existed.
	Block(ctx context.Context, blockerID, blockedID string, now time.Time) (alreadyBlocked bool, err error)
	// Unblock removes the block row. Severed likes and matches stay gone.
	Unblock(ctx context.Context, blockerID, blockedID string) error
	// Blocked reports whether a block exists between the pair in either
	// direction. This is the guard consulted by likes, requests, messaging,
	// story visibility and discovery.
	Blocked(ctx context.Context, userA, userB string) (bool, error)
	// List returns the users blocked by blockerID joined with display data.
	List(ctx context.Context, blockerID string) ([]models.BlockedUser, error)
	Count(ctx context.Context, blockerID string) (int, error)
}
