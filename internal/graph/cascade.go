package graph

import (
	"context"
	"fmt"

	"github.com/sparkmatch/backend/internal/logging"
	"github.com/sparkmatch/backend/internal/models"
)

// BlockOutcome reports the result of a block operation.
type BlockOutcome struct {
	Success        bool `json:"success"`
	AlreadyBlocked bool `json:"alreadyBlocked"`
}

// PrivacySettings groups the discovery-visibility flag with the block count.
type PrivacySettings struct {
	HideProfile  bool `json:"hideProfile"`
	BlockedCount int  `json:"blockedCount"`
}

// BlockUser appends the target to the caller's blocks and severs every like
// and match row between the pair. The insert and the cascade run in one
// transaction, so a block can never exist without full severance.
func (s *Service) BlockUser(ctx context.Context, blockerID, targetID string) (BlockOutcome, error) {
	ctx, span := logging.StartSpan(ctx, "graph.block_user")
	defer span.End()

	if blockerID == targetID {
		return BlockOutcome{}, ErrSelfAction
	}

	alreadyBlocked, err := s.blocks.Block(ctx, blockerID, targetID, s.now())
	if err != nil {
		return BlockOutcome{}, fmt.Errorf("block user: %w", err)
	}

	if !alreadyBlocked {
		logging.FromContext(ctx).Info("block cascade applied", "blockerId", blockerID, "targetId", targetID)
	}

	return BlockOutcome{Success: true, AlreadyBlocked: alreadyBlocked}, nil
}

// UnblockUser removes the block. Severed likes and matches are not restored.
func (s *Service) UnblockUser(ctx context.Context, blockerID, targetID string) error {
	if blockerID == targetID {
		return ErrSelfAction
	}
	return s.blocks.Unblock(ctx, blockerID, targetID)
}

// BlockedUsers returns the caller's block list joined with display data.
func (s *Service) BlockedUsers(ctx context.Context, blockerID string) ([]models.BlockedUser, error) {
	blocked, err := s.blocks.List(ctx, blockerID)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	return blocked, nil
}

// SetHideProfile toggles the caller's discovery-visibility flag.
func (s *Service) SetHideProfile(ctx context.Context, userID string, hide bool) error {
	if err := s.users.SetHideProfile(ctx, userID, hide); err != nil {
		return fmt.Errorf("set hide profile: %w", err)
	}
	return nil
}

// Privacy returns the caller's privacy settings.
func (s *Service) Privacy(ctx context.Context, userID string) (PrivacySettings, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return PrivacySettings{}, fmt.Errorf("load user: %w", err)
	}

	count, err := s.blocks.Count(ctx, userID)
	if err != nil {
		return PrivacySettings{}, fmt.Errorf("count blocks: %w", err)
	}

	return PrivacySettings{HideProfile: user.HideProfile, BlockedCount: count}, nil
}
