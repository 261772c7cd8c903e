package handlers

import (
	"net/http"
	"time"

	"github.com/sparkmatch/backend/internal/middleware"
)

// RegisterRoutes wires HTTP handlers into the provided ServeMux. Everything
// below /api/v1 except the auth endpoints requires a valid bearer token.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	health := HealthHandler{}
	authH := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Limiter: deps.AuthLimiter, NowFunc: deps.NowFunc}
	profile := ProfileHandler{Users: deps.Users, NowFunc: deps.NowFunc}
	likes := LikeHandler{Likes: deps.Likes}
	matches := MatchHandler{Matches: deps.Matches}
	blocks := BlockHandler{Blocks: deps.Blocks}
	discover := DiscoverHandler{Discovery: deps.Discovery}
	stories := StoryHandler{Stories: deps.Stories}
	messages := MessageHandler{Messages: deps.Messages, Matches: deps.MatchResolver, NowFunc: deps.NowFunc}
	badges := BadgeHandler{Badges: deps.Badges, Presence: deps.Presence, NowFunc: deps.NowFunc}

	protect := middleware.Authenticate(deps.Verifier)
	protected := func(h http.HandlerFunc) http.Handler {
		return protect(h)
	}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/api/v1/auth/login", authH.Login)
	mux.HandleFunc("/api/v1/auth/signup", authH.SignUp)
	mux.HandleFunc("/api/v1/auth/refresh", authH.Refresh)

	mux.Handle("/api/v1/profile", protected(profile.Handle))
	mux.Handle("/api/v1/discover", protected(discover.Handle))

	mux.Handle("/api/v1/likes", protected(likes.Submit))
	mux.Handle("/api/v1/likes/received", protected(likes.Received))
	mux.Handle("/api/v1/likes/status", protected(likes.Status))

	mux.Handle("/api/v1/matches", protected(matches.List))
	mux.Handle("/api/v1/matches/request", protected(matches.Request))
	mux.Handle("/api/v1/matches/accept", protected(matches.Accept))
	mux.Handle("/api/v1/matches/decline", protected(matches.Decline))
	mux.Handle("/api/v1/matches/requests", protected(matches.Requests))
	mux.Handle("/api/v1/matches/clear", protected(matches.ClearAll))

	mux.Handle("/api/v1/blocks", protected(blocks.Block))
	mux.Handle("/api/v1/blocks/list", protected(blocks.List))
	mux.Handle("/api/v1/blocks/remove", protected(blocks.Unblock))
	mux.Handle("/api/v1/privacy", protected(blocks.Privacy))

	mux.Handle("/api/v1/stories", protected(stories.Create))
	mux.Handle("/api/v1/stories/feed", protected(stories.Feed))
	mux.Handle("/api/v1/stories/view", protected(stories.MarkViewed))
	mux.Handle("/api/v1/stories/delete", protected(stories.Delete))

	mux.Handle("/api/v1/messages", protected(messages.Route))
	mux.Handle("/api/v1/messages/edit", protected(messages.Edit))
	mux.Handle("/api/v1/messages/delete", protected(messages.Delete))

	mux.Handle("/api/v1/badges/check", protected(badges.Check))
	mux.Handle("/api/v1/badges/progress", protected(badges.Progress))
	mux.Handle("/api/v1/presence/ping", protected(badges.Ping))
}

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users         UserStore
	Sessions      SessionManager
	Verifier      middleware.TokenVerifier
	AuthLimiter   RateLimiter
	Likes         LikeService
	Matches       MatchService
	Blocks        BlockService
	Discovery     DiscoverService
	Stories       StoryService
	Messages      MessageStore
	MatchResolver MatchResolver
	Badges        BadgeService
	Presence      PresenceStore
	NowFunc       func() time.Time
}
