package handlers

import (
	"context"
	"io"
	"time"

	"github.com/sparkmatch/backend/internal/badges"
	"github.com/sparkmatch/backend/internal/graph"
	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/stories"
)

// UserStore captures the persistence operations required by the auth and
// profile handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	UpdateProfile(ctx context.Context, user models.User) error
}

// SessionManager issues and refreshes authentication tokens for users.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (models.SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error)
}

// LikeService captures the like/match coordinator operations.
type LikeService interface {
	SubmitLike(ctx context.Context, likerID, likedID string) (graph.LikeOutcome, error)
	HasLiked(ctx context.Context, likerID, likedID string) (bool, error)
	LikesReceived(ctx context.Context, userID string) ([]string, error)
}

// MatchService captures the message-request gate operations.
type MatchService interface {
	SendRequest(ctx context.Context, senderID, receiverID string) (string, error)
	AcceptRequest(ctx context.Context, callerID, requesterID string) (*models.Match, error)
	DeclineRequest(ctx context.Context, callerID, requesterID string) error
	Partners(ctx context.Context, userID string) ([]string, error)
	PendingRequests(ctx context.Context, userID string) ([]string, error)
	ClearMatches(ctx context.Context, userID string) error
}

// BlockService captures the block cascade and privacy operations.
type BlockService interface {
	BlockUser(ctx context.Context, blockerID, targetID string) (graph.BlockOutcome, error)
	UnblockUser(ctx context.Context, blockerID, targetID string) error
	BlockedUsers(ctx context.Context, blockerID string) ([]models.BlockedUser, error)
	SetHideProfile(ctx context.Context, userID string, hide bool) error
	Privacy(ctx context.Context, userID string) (graph.PrivacySettings, error)
}

// DiscoverService lists candidate users for the viewer.
type DiscoverService interface {
	Discover(ctx context.Context, viewerID string, limit int) ([]graph.DiscoverCandidate, error)
}

// StoryService captures story workflows.
type StoryService interface {
	Create(ctx context.Context, ownerID, filename string, media io.Reader, caption string, isPublic bool) (models.Story, error)
	Feed(ctx context.Context, viewerID string) ([]stories.OwnerGroup, error)
	MarkViewed(ctx context.Context, viewerID, storyID string) error
	Delete(ctx context.Context, callerID, storyID string) error
}

// MessageStore captures persistence for match-gated messages.
type MessageStore interface {
	Create(ctx context.Context, message models.Message) error
	Get(ctx context.Context, id string) (models.Message, error)
	ListForMatch(ctx context.Context, matchID string) ([]models.Message, error)
	UpdateBody(ctx context.Context, id, body string, now time.Time) error
	Delete(ctx context.Context, id string) error
}

// MatchResolver verifies match membership for the message handlers.
type MatchResolver interface {
	MatchByID(ctx context.Context, matchID, userID string) (models.Match, error)
}

// BadgeService captures the gamification evaluator.
type BadgeService interface {
	CheckAndAward(ctx context.Context, userID string) ([]string, error)
	GetProgress(ctx context.Context, userID string) (map[string]badges.Progress, error)
}

// PresenceStore records activity heartbeats.
type PresenceStore interface {
	Touch(ctx context.Context, userID string, now time.Time) error
}
