// Package graph implements the interaction-graph engine: likes, matches,
// message requests and blocks, with the block guard as the single
// choke-point consulted by every relationship mutation.
package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/repositories"
)

var (
	// ErrSelfAction indicates an operation targeting the acting user itself.
	ErrSelfAction = errors.New("action targets the acting user")
	// ErrBlocked indicates a block exists between the pair, in either direction.
	ErrBlocked = errors.New("relationship blocked")
)

// Service orchestrates the relationship store. All mutations take the acting
// user id from the authenticated request context, passed in explicitly.
type Service struct {
	users   repositories.UserRepository
	likes   repositories.LikeRepository
	matches repositories.MatchRepository
	blocks  repositories.BlockRepository

	// NowFunc allows tests to control the clock.
	NowFunc func() time.Time
}

// NewService constructs the graph service over the provided repositories.
func NewService(users repositories.UserRepository, likes repositories.LikeRepository,
	matches repositories.MatchRepository, blocks repositories.BlockRepository) *Service {
	return &Service{
		users:   users,
		likes:   likes,
		matches: matches,
		blocks:  blocks,
	}
}

// Blocked reports whether a block exists between the pair in either direction.
// This is the guard consulted by likes, requests, messaging and visibility.
func (s *Service) Blocked(ctx context.Context, userA, userB string) (bool, error) {
	return s.blocks.Blocked(ctx, userA, userB)
}

// AcceptedMatch returns the accepted match between the two users, or
// repositories.ErrNotFound when none exists.
func (s *Service) AcceptedMatch(ctx context.Context, userA, userB string) (models.Match, error) {
	match, err := s.matches.Get(ctx, userA, userB)
	if err != nil {
		return models.Match{}, err
	}
	if match.Status != models.MatchStatusAccepted {
		return models.Match{}, repositories.ErrNotFound
	}
	return match, nil
}

// MatchByID loads a match and verifies the user participates in it. Returns
// repositories.ErrNotFound for non-participants so outsiders cannot probe
// which match ids exist.
func (s *Service) MatchByID(ctx context.Context, matchID, userID string) (models.Match, error) {
	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return models.Match{}, err
	}
	if !match.Involves(userID) {
		return models.Match{}, repositories.ErrNotFound
	}
	return match, nil
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) guard(ctx context.Context, userA, userB string) error {
	if userA == userB {
		return ErrSelfAction
	}
	blocked, err := s.blocks.Blocked(ctx, userA, userB)
	if err != nil {
		return fmt.Errorf("consult block guard: %w", err)
	}
	if blocked {
		return ErrBlocked
	}
	return nil
}
