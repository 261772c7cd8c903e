package badges

import (
	"context"
	"fmt"
	"time"

	"github.com/sparkmatch/backend/internal/logging"
	"github.com/sparkmatch/backend/internal/repositories"
)

// Service assembles snapshots from the graph and applies the evaluator.
type Service struct {
	users    repositories.UserRepository
	matches  repositories.MatchRepository
	messages repositories.MessageRepository
	badges   repositories.BadgeRepository
	presence repositories.PresenceRepository

	cache *snapshotCache

	// NowFunc allows tests to control the clock.
	NowFunc func() time.Time
}

// NewService constructs the badge service. cacheTTL bounds how stale a
// progress read may be.
func NewService(users repositories.UserRepository, matches repositories.MatchRepository,
	messages repositories.MessageRepository, badges repositories.BadgeRepository,
	presence repositories.PresenceRepository, cacheTTL time.Duration) *Service {
	return &Service{
		users:    users,
		matches:  matches,
		messages: messages,
		badges:   badges,
		presence: presence,
		cache:    newSnapshotCache(cacheTTL),
	}
}

// CheckAndAward evaluates the user against every badge rule, persists the
// newly qualifying ids and returns only those. Awards already present are
// never returned again and never removed.
func (s *Service) CheckAndAward(ctx context.Context, userID string) ([]string, error) {
	ctx, span := logging.StartSpan(ctx, "badges.check_and_award")
	defer span.End()

	// Always evaluate a fresh snapshot for awards; only progress reads may
	// tolerate the cache.
	snapshot, err := s.buildSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.put(userID, snapshot, s.now())

	qualifying := Qualifying(snapshot)
	existing, err := s.badges.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list existing badges: %w", err)
	}

	held := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		held[id] = struct{}{}
	}

	var awarded []string
	for _, id := range qualifying {
		if _, ok := held[id]; !ok {
			awarded = append(awarded, id)
		}
	}

	if len(awarded) > 0 {
		if err := s.badges.Award(ctx, userID, awarded, s.now()); err != nil {
			return nil, fmt.Errorf("persist badge awards: %w", err)
		}
		logging.FromContext(ctx).Info("badges awarded", "userId", userID, "badges", awarded)
	}

	return awarded, nil
}

// GetProgress reports per-badge progress counters for the user.
func (s *Service) GetProgress(ctx context.Context, userID string) (map[string]Progress, error) {
	now := s.now()
	snapshot, ok := s.cache.get(userID, now)
	if !ok {
		var err error
		snapshot, err = s.buildSnapshot(ctx, userID)
		if err != nil {
			return nil, err
		}
		s.cache.put(userID, snapshot, now)
	}

	return ProgressFor(snapshot), nil
}

func (s *Service) buildSnapshot(ctx context.Context, userID string) (Snapshot, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load user: %w", err)
	}

	rank, err := s.users.CreationRank(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("creation rank: %w", err)
	}

	matchCount, err := s.matches.AcceptedCount(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("accepted match count: %w", err)
	}

	icebreakers, err := s.messages.IcebreakerCount(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("icebreaker count: %w", err)
	}

	maxChannel, err := s.messages.MaxChannelCount(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("max channel count: %w", err)
	}

	hasPresence, err := s.presence.Exists(ctx, userID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("presence lookup: %w", err)
	}

	return Snapshot{
		CreationRank:        rank,
		MatchCount:          matchCount,
		IcebreakerCount:     icebreakers,
		MaxChannelMessages:  maxChannel,
		FilledProfileFields: user.Profile.FilledFields(),
		AccountAge:          s.now().Sub(user.CreatedAt),
		HasPresence:         hasPresence,
	}, nil
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc().UTC()
	}
	return time.Now().UTC()
}
