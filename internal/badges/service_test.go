package badges

import (
	"context"
	"testing"
	"time"

	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/repositories"
)

// snapshotSource stubs every repository the snapshot builder touches with
// fixed counters.
type snapshotSource struct {
	user        models.User
	rank        int
	matches     int
	icebreakers int
	maxChannel  int
	hasPresence bool

	awarded map[string][]string
}

func newSnapshotSource(user models.User) *snapshotSource {
	return &snapshotSource{user: user, rank: 1000, awarded: make(map[string][]string)}
}

func (s *snapshotSource) Create(context.Context, models.User) error { return nil }
func (s *snapshotSource) FindByEmail(context.Context, string) (models.User, error) {
	return s.user, nil
}
func (s *snapshotSource) FindByID(context.Context, string) (models.User, error) {
	return s.user, nil
}
func (s *snapshotSource) UpdateProfile(context.Context, models.User) error      { return nil }
func (s *snapshotSource) SetHideProfile(context.Context, string, bool) error    { return nil }
func (s *snapshotSource) CreationRank(context.Context, string) (int, error)     { return s.rank, nil }
func (s *snapshotSource) Discover(context.Context, string, int) ([]models.User, error) {
	return nil, nil
}

func (s *snapshotSource) Get(context.Context, string, string) (models.Match, error) {
	return models.Match{}, repositories.ErrNotFound
}
func (s *snapshotSource) GetByID(context.Context, string) (models.Match, error) {
	return models.Match{}, repositories.ErrNotFound
}
func (s *snapshotSource) CreateRequest(context.Context, models.Match) error { return nil }
func (s *snapshotSource) Accept(context.Context, string, string, time.Time) (models.Match, error) {
	return models.Match{}, repositories.ErrNotFound
}
func (s *snapshotSource) Decline(context.Context, string, string) error { return nil }
func (s *snapshotSource) Partners(context.Context, string) ([]string, error) {
	return nil, nil
}
func (s *snapshotSource) PendingRequesters(context.Context, string) ([]string, error) {
	return nil, nil
}
func (s *snapshotSource) AcceptedCount(context.Context, string) (int, error) {
	return s.matches, nil
}
func (s *snapshotSource) DeleteAllFor(context.Context, string) error { return nil }

func (s *snapshotSource) IcebreakerCount(context.Context, string) (int, error) {
	return s.icebreakers, nil
}
func (s *snapshotSource) MaxChannelCount(context.Context, string) (int, error) {
	return s.maxChannel, nil
}

func (s *snapshotSource) ListForUser(_ context.Context, userID string) ([]string, error) {
	return s.awarded[userID], nil
}
func (s *snapshotSource) Award(_ context.Context, userID string, badgeIDs []string, _ time.Time) error {
	held := make(map[string]struct{}, len(s.awarded[userID]))
	for _, id := range s.awarded[userID] {
		held[id] = struct{}{}
	}
	for _, id := range badgeIDs {
		if _, ok := held[id]; !ok {
			s.awarded[userID] = append(s.awarded[userID], id)
		}
	}
	return nil
}

func (s *snapshotSource) Touch(context.Context, string, time.Time) error { return nil }
func (s *snapshotSource) Exists(context.Context, string) (bool, error) {
	return s.hasPresence, nil
}

// messageRepo adapts snapshotSource to the message repository interface,
// whose Create method name collides with the user repository's.
type messageRepo struct{ *snapshotSource }

func (m messageRepo) Create(context.Context, models.Message) error { return nil }
func (m messageRepo) Get(context.Context, string) (models.Message, error) {
	return models.Message{}, repositories.ErrNotFound
}
func (m messageRepo) ListForMatch(context.Context, string) ([]models.Message, error) {
	return nil, nil
}
func (m messageRepo) UpdateBody(context.Context, string, string, time.Time) error { return nil }
func (m messageRepo) Delete(context.Context, string) error                        { return nil }

func newBadgeTestService(src *snapshotSource, now time.Time) *Service {
	svc := NewService(src, src, messageRepo{src}, src, src, time.Minute)
	svc.NowFunc = func() time.Time { return now }
	return svc
}

func TestCheckAndAwardReturnsOnlyNewBadges(t *testing.T) {
	now := time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC)
	src := newSnapshotSource(models.User{ID: "user-1", CreatedAt: now.Add(-time.Hour)})
	src.matches = 1
	svc := newBadgeTestService(src, now)

	awarded, err := svc.CheckAndAward(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("check and award: %v", err)
	}
	if len(awarded) != 1 || awarded[0] != FirstMatch {
		t.Fatalf("expected first-match award got %v", awarded)
	}

	// A second evaluation with unchanged state awards nothing further.
	again, err := svc.CheckAndAward(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("repeat check: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no repeat awards got %v", again)
	}
}

func TestCheckAndAwardIsMonotonic(t *testing.T) {
	now := time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC)
	src := newSnapshotSource(models.User{ID: "user-1", CreatedAt: now.Add(-time.Hour)})
	src.matches = 10
	svc := newBadgeTestService(src, now)

	if _, err := svc.CheckAndAward(context.Background(), "user-1"); err != nil {
		t.Fatalf("check and award: %v", err)
	}

	// Matches later drop below the threshold; held badges must survive.
	src.matches = 0
	awarded, err := svc.CheckAndAward(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("re-check: %v", err)
	}
	if len(awarded) != 0 {
		t.Fatalf("expected no new awards got %v", awarded)
	}

	held := src.awarded["user-1"]
	if len(held) != 2 {
		t.Fatalf("expected first-match and social-butterfly to remain held, got %v", held)
	}
}

func TestGetProgressUsesCachedSnapshot(t *testing.T) {
	now := time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC)
	src := newSnapshotSource(models.User{ID: "user-1", CreatedAt: now.Add(-time.Hour)})
	src.matches = 3
	svc := newBadgeTestService(src, now)

	first, err := svc.GetProgress(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get progress: %v", err)
	}
	if first[FirstMatch].Current != 1 {
		t.Fatalf("expected first-match progress satisfied got %+v", first[FirstMatch])
	}

	// Within the cache TTL the stale snapshot is served.
	src.matches = 9
	second, err := svc.GetProgress(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("cached progress: %v", err)
	}
	if second[SocialButterfly].Current != 3 {
		t.Fatalf("expected cached match count 3 got %+v", second[SocialButterfly])
	}

	// Past the TTL the snapshot is rebuilt.
	svc.NowFunc = func() time.Time { return now.Add(2 * time.Minute) }
	third, err := svc.GetProgress(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("refreshed progress: %v", err)
	}
	if third[SocialButterfly].Current != 9 {
		t.Fatalf("expected refreshed match count 9 got %+v", third[SocialButterfly])
	}
}
