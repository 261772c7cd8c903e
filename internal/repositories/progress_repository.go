package repositories

import (
	"context"
	"time"
)

// BadgeRepository persists badge awards. Awards are append-only.
type BadgeRepository interface {
	ListForUser(ctx context.Context, userID string) ([]string, error)
	// Award records the provided badge ids, skipping any already present.
	Award(ctx context.Context, userID string, badgeIDs []string, now time.Time) error
}

// PresenceRepository tracks activity heartbeats used by the week-streak badge.
type PresenceRepository interface {
	Touch(ctx context.Context, userID string, now time.Time) error
	Exists(ctx context.Context, userID string) (bool, error)
}
