package repositories

import (
	"context"
	"time"
)

// LikeResult reports the outcome of a like submission.
type LikeResult struct {
	AlreadyLiked bool
	Matched      bool
}

// LikeRepository defines data access for the append-only like ledger.
type LikeRepository interface {
	// Submit records a like and, when the reverse like already exists,
	// creates the accepted match in the same transaction. Implementations
	// must make the reciprocity check atomic so concurrent mutual likes
	// cannot produce duplicate match rows.
	Submit(ctx context.Context, likerID, likedID string, now time.Time) (LikeResult, error)
	Exists(ctx context.Context, likerID, likedID string) (bool, error)
	// Received lists the ids of users who liked the given user, newest first.
	Received(ctx context.Context, userID string) ([]string, error)
}
