package repositories

import (
	"context"
	"time"

	"github.com/sparkmatch/backend/internal/models"
)

// MessageRepository defines data access for match-gated messages.
type MessageRepository interface {
	Create(ctx context.Context, message models.Message) error
	Get(ctx context.Context, id string) (models.Message, error)
	ListForMatch(ctx context.Context, matchID string) ([]models.Message, error)
	UpdateBody(ctx context.Context, id, body string, now time.Time) error
	Delete(ctx context.Context, id string) error
	// IcebreakerCount counts icebreaker-tagged messages sent by the user.
	IcebreakerCount(ctx context.Context, userID string) (int, error)
	// MaxChannelCount returns the largest number of messages the user has
	// authored within any single match channel.
	MaxChannelCount(ctx context.Context, userID string) (int, error)
}
