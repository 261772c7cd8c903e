package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sparkmatch/backend/internal/logging"
	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/repositories"
)

// SendRequest opens a message request from sender to receiver without a prior
// like. Idempotent: when a match row already exists for the pair, whatever its
// status, its id is returned unchanged.
func (s *Service) SendRequest(ctx context.Context, senderID, receiverID string) (string, error) {
	ctx, span := logging.StartSpan(ctx, "graph.send_request")
	defer span.End()

	if err := s.guard(ctx, senderID, receiverID); err != nil {
		return "", err
	}

	if existing, err := s.matches.Get(ctx, senderID, receiverID); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return "", fmt.Errorf("look up existing match: %w", err)
	}

	lo, hi := models.CanonicalPair(senderID, receiverID)
	match := models.Match{
		ID:          uuid.NewString(),
		UserLo:      lo,
		UserHi:      hi,
		RequesterID: senderID,
		Status:      models.MatchStatusRequest,
		CreatedAt:   s.now(),
	}

	if err := s.matches.CreateRequest(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			// Lost a race against another writer for the same pair; the
			// surviving row is the one to report.
			existing, getErr := s.matches.Get(ctx, senderID, receiverID)
			if getErr != nil {
				return "", fmt.Errorf("reload match after conflict: %w", getErr)
			}
			return existing.ID, nil
		}
		return "", fmt.Errorf("create match request: %w", err)
	}

	return match.ID, nil
}

// AcceptRequest flips a pending inbound request from requesterID to accepted.
// Returns the accepted match, or nil when no pending request exists.
func (s *Service) AcceptRequest(ctx context.Context, callerID, requesterID string) (*models.Match, error) {
	if callerID == requesterID {
		return nil, ErrSelfAction
	}

	match, err := s.matches.Accept(ctx, requesterID, callerID, s.now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("accept request: %w", err)
	}

	return &match, nil
}

// DeclineRequest deletes a pending inbound request outright. The requester
// may send a new request later; no residue or cooldown is kept. Declining a
// request that does not exist is a no-op.
func (s *Service) DeclineRequest(ctx context.Context, callerID, requesterID string) error {
	if callerID == requesterID {
		return ErrSelfAction
	}

	if err := s.matches.Decline(ctx, requesterID, callerID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("decline request: %w", err)
	}

	return nil
}

// Partners lists accepted-match partner ids for the user.
func (s *Service) Partners(ctx context.Context, userID string) ([]string, error) {
	partners, err := s.matches.Partners(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list partners: %w", err)
	}
	return partners, nil
}

// PendingRequests lists the ids of users with a pending request toward userID.
func (s *Service) PendingRequests(ctx context.Context, userID string) ([]string, error) {
	requesters, err := s.matches.PendingRequesters(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return requesters, nil
}

// ClearMatches removes every match row involving the user.
func (s *Service) ClearMatches(ctx context.Context, userID string) error {
	if err := s.matches.DeleteAllFor(ctx, userID); err != nil {
		return fmt.Errorf("clear matches: %w", err)
	}
	return nil
}
