package graph

import (
	"context"
	"fmt"

	"github.com/sparkmatch/backend/internal/logging"
)

// LikeOutcome reports the result of a like submission.
type LikeOutcome struct {
	AlreadyLiked bool `json:"alreadyLiked"`
	IsMatch      bool `json:"isMatch"`
}

// SubmitLike records a like from liker toward liked. When the reverse like
// already exists the pair becomes an accepted match in the same transaction,
// so concurrent mutual likes can never produce two match rows.
func (s *Service) SubmitLike(ctx context.Context, likerID, likedID string) (LikeOutcome, error) {
	ctx, span := logging.StartSpan(ctx, "graph.submit_like")
	defer span.End()

	if err := s.guard(ctx, likerID, likedID); err != nil {
		return LikeOutcome{}, err
	}

	result, err := s.likes.Submit(ctx, likerID, likedID, s.now())
	if err != nil {
		return LikeOutcome{}, fmt.Errorf("submit like: %w", err)
	}

	if result.Matched {
		logging.FromContext(ctx).Info("mutual like created match", "likerId", likerID, "likedId", likedID)
	}

	return LikeOutcome{AlreadyLiked: result.AlreadyLiked, IsMatch: result.Matched}, nil
}

// HasLiked reports whether the directed like exists.
func (s *Service) HasLiked(ctx context.Context, likerID, likedID string) (bool, error) {
	return s.likes.Exists(ctx, likerID, likedID)
}

// LikesReceived lists users who have liked the given user.
func (s *Service) LikesReceived(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.likes.Received(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list likes received: %w", err)
	}
	return ids, nil
}

// DiscoverCandidate is the public slice of a user profile shown in discovery.
type DiscoverCandidate struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatar"`
	Bio         string `json:"bio"`
	City        string `json:"city"`
}

// Discover lists candidate users for the viewer. Hidden profiles and blocked
// pairs never appear, in either direction.
func (s *Service) Discover(ctx context.Context, viewerID string, limit int) ([]DiscoverCandidate, error) {
	users, err := s.users.Discover(ctx, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("discover candidates: %w", err)
	}

	candidates := make([]DiscoverCandidate, 0, len(users))
	for _, u := range users {
		candidates = append(candidates, DiscoverCandidate{
			ID:          u.ID,
			DisplayName: u.Profile.DisplayName,
			AvatarURL:   u.Profile.AvatarURL,
			Bio:         u.Profile.Bio,
			City:        u.Profile.City,
		})
	}

	return candidates, nil
}
