// Package stories implements ephemeral posts: creation with media upload,
// relationship-gated visibility, view tracking and TTL expiry.
package stories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/sparkmatch/backend/internal/logging"
	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/repositories"
)

// ErrNotOwner indicates the caller does not own the story.
var ErrNotOwner = errors.New("story not owned by caller")

// RelationshipChecker answers the pair questions the visibility filter needs.
type RelationshipChecker interface {
	Blocked(ctx context.Context, userA, userB string) (bool, error)
	AcceptedMatch(ctx context.Context, userA, userB string) (models.Match, error)
}

// MediaStorage persists story media objects.
type MediaStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, name string) error
}

// Service implements story workflows over the repository and object store.
type Service struct {
	stories repositories.StoryRepository
	graph   RelationshipChecker
	media   MediaStorage
	ttl     time.Duration

	// NowFunc allows tests to control the clock.
	NowFunc func() time.Time
}

// NewService constructs the story service. ttl is the fixed lifetime of every
// story from its creation.
func NewService(stories repositories.StoryRepository, graph RelationshipChecker, media MediaStorage, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		stories: stories,
		graph:   graph,
		media:   media,
		ttl:     ttl,
	}
}

// Create uploads the media object and stores the story row. The media object
// is removed again when the row insert fails, so no orphaned uploads remain.
func (s *Service) Create(ctx context.Context, ownerID, filename string, media io.Reader, caption string, isPublic bool) (models.Story, error) {
	ctx, span := logging.StartSpan(ctx, "stories.create")
	defer span.End()

	now := s.now()
	id := uuid.NewString()
	key := fmt.Sprintf("stories/%s/%s%s", ownerID, id, path.Ext(filename))

	url, err := s.media.Save(ctx, key, media)
	if err != nil {
		return models.Story{}, fmt.Errorf("upload story media: %w", err)
	}

	story := models.Story{
		ID:        id,
		OwnerID:   ownerID,
		MediaKey:  key,
		MediaURL:  url,
		Caption:   caption,
		IsPublic:  isPublic,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.stories.Create(ctx, story); err != nil {
		if delErr := s.media.Delete(ctx, key); delErr != nil {
			logging.FromContext(ctx).Warn("orphaned story media left behind", "key", key, "error", delErr)
		}
		return models.Story{}, fmt.Errorf("store story: %w", err)
	}

	return story, nil
}

// MarkViewed records the viewer on a story. Idempotent; a no-op when the
// viewer owns the story. Expired stories behave as if they never existed.
func (s *Service) MarkViewed(ctx context.Context, viewerID, storyID string) error {
	story, err := s.stories.Get(ctx, storyID)
	if err != nil {
		return err
	}

	if story.Expired(s.now()) {
		return repositories.ErrNotFound
	}

	if story.OwnerID == viewerID {
		return nil
	}

	return s.stories.MarkViewed(ctx, storyID, viewerID, s.now())
}

// Delete removes a story and releases its media object. Owner-only. A media
// deletion failure is logged but does not fail the call: the row is already
// gone and the object can be reaped later.
func (s *Service) Delete(ctx context.Context, callerID, storyID string) error {
	story, err := s.stories.Get(ctx, storyID)
	if err != nil {
		return err
	}

	if story.OwnerID != callerID {
		return ErrNotOwner
	}

	if err := s.stories.Delete(ctx, storyID); err != nil {
		return err
	}

	if err := s.media.Delete(ctx, story.MediaKey); err != nil {
		logging.FromContext(ctx).Warn("release story media failed", "key", story.MediaKey, "error", err)
	}

	return nil
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc().UTC()
	}
	return time.Now().UTC()
}
