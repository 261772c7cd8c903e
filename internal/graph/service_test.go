package graph

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/repositories"
)

// memStore implements the graph repositories in memory with the same
// semantics as the PostgreSQL implementations: reciprocal likes upgrade the
// pair to an accepted match, blocking severs likes and matches atomically.
type memStore struct {
	users   map[string]models.User
	likes   map[[2]string]time.Time
	matches map[[2]string]models.Match
	blocks  map[[2]string]time.Time
}

func newMemStore(userIDs ...string) *memStore {
	s := &memStore{
		users:   make(map[string]models.User),
		likes:   make(map[[2]string]time.Time),
		matches: make(map[[2]string]models.Match),
		blocks:  make(map[[2]string]time.Time),
	}
	for _, id := range userIDs {
		s.users[id] = models.User{ID: id}
	}
	return s
}

func pairKey(a, b string) [2]string {
	lo, hi := models.CanonicalPair(a, b)
	return [2]string{lo, hi}
}

func (s *memStore) Submit(_ context.Context, likerID, likedID string, now time.Time) (repositories.LikeResult, error) {
	key := [2]string{likerID, likedID}
	if _, ok := s.likes[key]; ok {
		return repositories.LikeResult{AlreadyLiked: true}, nil
	}
	s.likes[key] = now

	if _, ok := s.likes[[2]string{likedID, likerID}]; !ok {
		return repositories.LikeResult{}, nil
	}

	pk := pairKey(likerID, likedID)
	if existing, ok := s.matches[pk]; ok {
		if existing.Status != models.MatchStatusAccepted {
			existing.Status = models.MatchStatusAccepted
			existing.AcceptedAt = &now
			s.matches[pk] = existing
		}
	} else {
		lo, hi := models.CanonicalPair(likerID, likedID)
		s.matches[pk] = models.Match{
			ID: uuid.NewString(), UserLo: lo, UserHi: hi, RequesterID: likerID,
			Status: models.MatchStatusAccepted, CreatedAt: now, AcceptedAt: &now,
		}
	}
	return repositories.LikeResult{Matched: true}, nil
}

func (s *memStore) Exists(_ context.Context, likerID, likedID string) (bool, error) {
	_, ok := s.likes[[2]string{likerID, likedID}]
	return ok, nil
}

func (s *memStore) Received(_ context.Context, userID string) ([]string, error) {
	var out []string
	for key := range s.likes {
		if key[1] == userID {
			out = append(out, key[0])
		}
	}
	return out, nil
}

func (s *memStore) Get(_ context.Context, userA, userB string) (models.Match, error) {
	match, ok := s.matches[pairKey(userA, userB)]
	if !ok {
		return models.Match{}, repositories.ErrNotFound
	}
	return match, nil
}

func (s *memStore) GetByID(_ context.Context, id string) (models.Match, error) {
	for _, match := range s.matches {
		if match.ID == id {
			return match, nil
		}
	}
	return models.Match{}, repositories.ErrNotFound
}

func (s *memStore) CreateRequest(_ context.Context, match models.Match) error {
	key := [2]string{match.UserLo, match.UserHi}
	if _, ok := s.matches[key]; ok {
		return repositories.ErrConflict
	}
	s.matches[key] = match
	return nil
}

func (s *memStore) Accept(_ context.Context, requesterID, receiverID string, now time.Time) (models.Match, error) {
	key := pairKey(requesterID, receiverID)
	match, ok := s.matches[key]
	if !ok || match.RequesterID != requesterID || match.Status != models.MatchStatusRequest {
		return models.Match{}, repositories.ErrNotFound
	}
	match.Status = models.MatchStatusAccepted
	match.AcceptedAt = &now
	s.matches[key] = match
	return match, nil
}

func (s *memStore) Decline(_ context.Context, requesterID, receiverID string) error {
	key := pairKey(requesterID, receiverID)
	match, ok := s.matches[key]
	if !ok || match.RequesterID != requesterID || match.Status != models.MatchStatusRequest {
		return repositories.ErrNotFound
	}
	delete(s.matches, key)
	return nil
}

func (s *memStore) Partners(_ context.Context, userID string) ([]string, error) {
	var out []string
	for _, match := range s.matches {
		if match.Status == models.MatchStatusAccepted && match.Involves(userID) {
			out = append(out, match.OtherUser(userID))
		}
	}
	return out, nil
}

func (s *memStore) PendingRequesters(_ context.Context, userID string) ([]string, error) {
	var out []string
	for _, match := range s.matches {
		if match.Status == models.MatchStatusRequest && match.Involves(userID) && match.RequesterID != userID {
			out = append(out, match.RequesterID)
		}
	}
	return out, nil
}

func (s *memStore) AcceptedCount(_ context.Context, userID string) (int, error) {
	count := 0
	for _, match := range s.matches {
		if match.Status == models.MatchStatusAccepted && match.Involves(userID) {
			count++
		}
	}
	return count, nil
}

func (s *memStore) DeleteAllFor(_ context.Context, userID string) error {
	for key, match := range s.matches {
		if match.Involves(userID) {
			delete(s.matches, key)
		}
	}
	return nil
}

func (s *memStore) Block(_ context.Context, blockerID, blockedID string, now time.Time) (bool, error) {
	key := [2]string{blockerID, blockedID}
	_, already := s.blocks[key]
	if !already {
		s.blocks[key] = now
	}
	delete(s.matches, pairKey(blockerID, blockedID))
	delete(s.likes, [2]string{blockerID, blockedID})
	delete(s.likes, [2]string{blockedID, blockerID})
	return already, nil
}

func (s *memStore) Unblock(_ context.Context, blockerID, blockedID string) error {
	key := [2]string{blockerID, blockedID}
	if _, ok := s.blocks[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.blocks, key)
	return nil
}

func (s *memStore) Blocked(_ context.Context, userA, userB string) (bool, error) {
	if _, ok := s.blocks[[2]string{userA, userB}]; ok {
		return true, nil
	}
	_, ok := s.blocks[[2]string{userB, userA}]
	return ok, nil
}

func (s *memStore) List(_ context.Context, blockerID string) ([]models.BlockedUser, error) {
	var out []models.BlockedUser
	for key := range s.blocks {
		if key[0] == blockerID {
			out = append(out, models.BlockedUser{ID: key[1]})
		}
	}
	return out, nil
}

func (s *memStore) Count(_ context.Context, blockerID string) (int, error) {
	count := 0
	for key := range s.blocks {
		if key[0] == blockerID {
			count++
		}
	}
	return count, nil
}

func (s *memStore) Create(_ context.Context, user models.User) error {
	if _, ok := s.users[user.ID]; ok {
		return repositories.ErrConflict
	}
	s.users[user.ID] = user
	return nil
}

func (s *memStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memStore) FindByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *memStore) UpdateProfile(_ context.Context, user models.User) error {
	existing, ok := s.users[user.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	existing.Profile = user.Profile
	existing.UpdatedAt = user.UpdatedAt
	s.users[user.ID] = existing
	return nil
}

func (s *memStore) SetHideProfile(_ context.Context, id string, hide bool) error {
	user, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.HideProfile = hide
	s.users[id] = user
	return nil
}

func (s *memStore) CreationRank(_ context.Context, id string) (int, error) {
	if _, ok := s.users[id]; !ok {
		return 0, repositories.ErrNotFound
	}
	return 1, nil
}

func (s *memStore) Discover(_ context.Context, viewerID string, limit int) ([]models.User, error) {
	var out []models.User
	for id, user := range s.users {
		if id == viewerID || user.HideProfile {
			continue
		}
		if blocked, _ := s.Blocked(context.Background(), viewerID, id); blocked {
			continue
		}
		if _, ok := s.likes[[2]string{viewerID, id}]; ok {
			continue
		}
		if _, ok := s.matches[pairKey(viewerID, id)]; ok {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}

func newTestService(store *memStore) *Service {
	svc := NewService(store, store, store, store)
	svc.NowFunc = func() time.Time {
		return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestSubmitLikeRejectsSelf(t *testing.T) {
	svc := newTestService(newMemStore("user-1"))

	_, err := svc.SubmitLike(context.Background(), "user-1", "user-1")
	if !errors.Is(err, ErrSelfAction) {
		t.Fatalf("expected ErrSelfAction got %v", err)
	}
}

func TestSubmitLikeRejectsBlockedPair(t *testing.T) {
	store := newMemStore("user-1", "user-2")
	svc := newTestService(store)

	if _, err := svc.BlockUser(context.Background(), "user-2", "user-1"); err != nil {
		t.Fatalf("block: %v", err)
	}

	_, err := svc.SubmitLike(context.Background(), "user-1", "user-2")
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked got %v", err)
	}
}

func TestSubmitLikeIdempotent(t *testing.T) {
	store := newMemStore("user-1", "user-2")
	svc := newTestService(store)

	first, err := svc.SubmitLike(context.Background(), "user-1", "user-2")
	if err != nil {
		t.Fatalf("first like: %v", err)
	}
	if first.AlreadyLiked || first.IsMatch {
		t.Fatalf("unexpected first outcome: %+v", first)
	}

	second, err := svc.SubmitLike(context.Background(), "user-1", "user-2")
	if err != nil {
		t.Fatalf("second like: %v", err)
	}
	if !second.AlreadyLiked {
		t.Fatalf("expected repeat like to report alreadyLiked")
	}
	if second.IsMatch {
		t.Fatalf("repeat like must not create a match")
	}
}

func TestMutualLikeCreatesSingleAcceptedMatch(t *testing.T) {
	store := newMemStore("user-1", "user-2")
	svc := newTestService(store)

	if _, err := svc.SubmitLike(context.Background(), "user-1", "user-2"); err != nil {
		t.Fatalf("first like: %v", err)
	}

	outcome, err := svc.SubmitLike(context.Background(), "user-2", "user-1")
	if err != nil {
		t.Fatalf("reciprocal like: %v", err)
	}
	if !outcome.IsMatch {
		t.Fatalf("expected reciprocal like to create a match")
	}

	if len(store.matches) != 1 {
		t.Fatalf("expected exactly one match row got %d", len(store.matches))
	}

	match, err := svc.AcceptedMatch(context.Background(), "user-1", "user-2")
	if err != nil {
		t.Fatalf("accepted match: %v", err)
	}
	if match.UserLo != "user-1" || match.UserHi != "user-2" {
		t.Fatalf("expected canonical pair ordering got (%s, %s)", match.UserLo, match.UserHi)
	}
}

func TestSendRequestLifecycle(t *testing.T) {
	store := newMemStore("user-1", "user-2")
	svc := newTestService(store)
	ctx := context.Background()

	matchID, err := svc.SendRequest(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}
	if matchID == "" {
		t.Fatalf("expected a match id")
	}

	// Re-sending returns the same id.
	again, err := svc.SendRequest(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("resend request: %v", err)
	}
	if again != matchID {
		t.Fatalf("expected same match id, got %s and %s", matchID, again)
	}

	pending, err := svc.PendingRequests(ctx, "user-2")
	if err != nil {
		t.Fatalf("pending requests: %v", err)
	}
	if len(pending) != 1 || pending[0] != "user-1" {
		t.Fatalf("expected pending request from user-1 got %v", pending)
	}

	match, err := svc.AcceptRequest(ctx, "user-2", "user-1")
	if err != nil {
		t.Fatalf("accept request: %v", err)
	}
	if match == nil || match.Status != models.MatchStatusAccepted {
		t.Fatalf("expected accepted match got %+v", match)
	}

	partners, err := svc.Partners(ctx, "user-1")
	if err != nil {
		t.Fatalf("partners: %v", err)
	}
	if len(partners) != 1 || partners[0] != "user-2" {
		t.Fatalf("expected partner user-2 got %v", partners)
	}
}

func TestAcceptRequestWithoutPendingReturnsNil(t *testing.T) {
	svc := newTestService(newMemStore("user-1", "user-2"))

	match, err := svc.AcceptRequest(context.Background(), "user-2", "user-1")
	if err != nil {
		t.Fatalf("accept request: %v", err)
	}
	if match != nil {
		t.Fatalf("expected nil match got %+v", match)
	}
}

func TestDeclineRequestAllowsResend(t *testing.T) {
	store := newMemStore("user-1", "user-2")
	svc := newTestService(store)
	ctx := context.Background()

	first, err := svc.SendRequest(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}

	if err := svc.DeclineRequest(ctx, "user-2", "user-1"); err != nil {
		t.Fatalf("decline request: %v", err)
	}

	// Declining again is a no-op.
	if err := svc.DeclineRequest(ctx, "user-2", "user-1"); err != nil {
		t.Fatalf("repeat decline: %v", err)
	}

	second, err := svc.SendRequest(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("resend after decline: %v", err)
	}
	if second == first {
		t.Fatalf("expected a fresh match id after decline")
	}
}

func TestBlockCascadeSeversLikesAndMatches(t *testing.T) {
	store := newMemStore("user-1", "user-2")
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.SubmitLike(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := svc.SubmitLike(ctx, "user-2", "user-1"); err != nil {
		t.Fatalf("reciprocal like: %v", err)
	}

	outcome, err := svc.BlockUser(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("block: %v", err)
	}
	if !outcome.Success || outcome.AlreadyBlocked {
		t.Fatalf("unexpected block outcome: %+v", outcome)
	}

	if len(store.matches) != 0 {
		t.Fatalf("expected match rows to be severed, %d remain", len(store.matches))
	}
	if len(store.likes) != 0 {
		t.Fatalf("expected like rows to be severed, %d remain", len(store.likes))
	}

	if _, err := svc.AcceptedMatch(ctx, "user-1", "user-2"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound got %v", err)
	}

	repeat, err := svc.BlockUser(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("repeat block: %v", err)
	}
	if !repeat.AlreadyBlocked {
		t.Fatalf("expected repeat block to report alreadyBlocked")
	}
}

func TestUnblockDoesNotRestoreSeveredRows(t *testing.T) {
	store := newMemStore("user-1", "user-2")
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.SubmitLike(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := svc.BlockUser(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if err := svc.UnblockUser(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("unblock: %v", err)
	}

	liked, err := svc.HasLiked(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("has liked: %v", err)
	}
	if liked {
		t.Fatalf("expected severed like to stay gone after unblock")
	}
}

func TestMatchByIDHidesNonParticipantRows(t *testing.T) {
	store := newMemStore("user-1", "user-2", "user-3")
	svc := newTestService(store)
	ctx := context.Background()

	matchID, err := svc.SendRequest(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("send request: %v", err)
	}

	if _, err := svc.MatchByID(ctx, matchID, "user-1"); err != nil {
		t.Fatalf("participant lookup: %v", err)
	}

	if _, err := svc.MatchByID(ctx, matchID, "user-3"); !errors.Is(err, repositories.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for outsider got %v", err)
	}
}

func TestDiscoverExcludesBlockedHiddenAndLiked(t *testing.T) {
	store := newMemStore("viewer", "visible", "hidden", "blocked", "liked")
	hidden := store.users["hidden"]
	hidden.HideProfile = true
	store.users["hidden"] = hidden

	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.BlockUser(ctx, "blocked", "viewer"); err != nil {
		t.Fatalf("block: %v", err)
	}
	if _, err := svc.SubmitLike(ctx, "viewer", "liked"); err != nil {
		t.Fatalf("like: %v", err)
	}

	candidates, err := svc.Discover(ctx, "viewer", 0)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != "visible" {
		t.Fatalf("expected only the visible user got %+v", candidates)
	}
}
