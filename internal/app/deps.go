package app

import (
	"context"
	"time"

	"github.com/sparkmatch/backend/internal/auth"
	"github.com/sparkmatch/backend/internal/badges"
	"github.com/sparkmatch/backend/internal/config"
	"github.com/sparkmatch/backend/internal/db"
	"github.com/sparkmatch/backend/internal/graph"
	"github.com/sparkmatch/backend/internal/handlers"
	"github.com/sparkmatch/backend/internal/middleware"
	"github.com/sparkmatch/backend/internal/repositories"
	"github.com/sparkmatch/backend/internal/stories"
	"github.com/sparkmatch/backend/internal/storage"
)

const (
	badgeCacheTTL = time.Minute

	authLimitRequests = 10
	authLimitBurst    = 10
	authLimitWindow   = time.Minute
	authLimiterTTL    = 10 * time.Minute
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)
	likes := repositories.NewPostgresLikeRepository(pool)
	matches := repositories.NewPostgresMatchRepository(pool)
	blocks := repositories.NewPostgresBlockRepository(pool)
	storyRepo := repositories.NewPostgresStoryRepository(pool)
	messages := repositories.NewPostgresMessageRepository(pool)
	badgeRepo := repositories.NewPostgresBadgeRepository(pool)
	presence := repositories.NewPostgresPresenceRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	sessions := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, sessionStore)

	media, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	graphSvc := graph.NewService(users, likes, matches, blocks)
	storySvc := stories.NewService(storyRepo, graphSvc, media, cfg.StoryTTL)
	badgeSvc := badges.NewService(users, matches, messages, badgeRepo, presence, badgeCacheTTL)

	return handlers.Dependencies{
		Users:         users,
		Sessions:      sessions,
		Verifier:      sessions,
		AuthLimiter:   middleware.NewKeyedRateLimiter(authLimitRequests, authLimitWindow, authLimitBurst, authLimiterTTL),
		Likes:         graphSvc,
		Matches:       graphSvc,
		Blocks:        graphSvc,
		Discovery:     graphSvc,
		Stories:       storySvc,
		Messages:      messages,
		MatchResolver: graphSvc,
		Badges:        badgeSvc,
		Presence:      presence,
	}, nil
}
