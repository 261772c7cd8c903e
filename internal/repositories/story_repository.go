package repositories

import (
	"context"
	"time"

	"github.com/sparkmatch/backend/internal/models"
)

// StoryRepository defines data access for ephemeral stories.
type StoryRepository interface {
	Create(ctx context.Context, story models.Story) error
	// Get loads a story regardless of expiry so owners can still delete
	// expired rows. Readers must apply the TTL themselves.
	Get(ctx context.Context, id string) (models.Story, error)
	// ListActive returns every story whose TTL has not elapsed at the given
	// instant. Visibility filtering happens in the stories package.
	ListActive(ctx context.Context, now time.Time) ([]models.Story, error)
	// MarkViewed records a viewer idempotently.
	MarkViewed(ctx context.Context, storyID, viewerID string, now time.Time) error
	Viewers(ctx context.Context, storyID string) ([]string, error)
	Delete(ctx context.Context, id string) error
}
