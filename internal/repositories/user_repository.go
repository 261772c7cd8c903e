package repositories

import (
	"context"

	"github.com/sparkmatch/backend/internal/models"
)

// UserRepository defines the data access contract for users.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	UpdateProfile(ctx context.Context, user models.User) error
	SetHideProfile(ctx context.Context, id string, hide bool) error
	// CreationRank returns the 1-based position of the user when accounts are
	// ordered by creation time. Used by the early-adopter badge.
	CreationRank(ctx context.Context, id string) (int, error)
	// Discover lists candidate users for the viewer, excluding hidden
	// profiles, blocked pairs in either direction, and users the viewer has
	// already liked or matched with.
	Discover(ctx context.Context, viewerID string, limit int) ([]models.User, error)
}
