package stories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sparkmatch/backend/internal/logging"
	"github.com/sparkmatch/backend/internal/models"
	"github.com/sparkmatch/backend/internal/repositories"
)

// FeedEntry is one story as presented in the feed.
type FeedEntry struct {
	ID        string    `json:"id"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	IsPublic  bool      `json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Viewers   []string  `json:"viewers,omitempty"`
}

// OwnerGroup bundles the visible stories of a single owner, oldest first.
type OwnerGroup struct {
	OwnerID string      `json:"ownerId"`
	Stories []FeedEntry `json:"stories"`
}

// pairState caches the relationship lookups for one owner within a single
// feed computation, so many stories from the same owner cost one check.
type pairState struct {
	blocked bool
	matched bool
}

// Feed assembles the stories visible to the viewer. A story is visible when
// the viewer owns it, it is public, or an accepted match links viewer and
// owner; blocked pairs see nothing of each other. Groups are keyed by owner
// with the viewer's own group pinned first, remaining groups ordered by their
// most recent story, newest first. Within a group stories run oldest to
// newest.
func (s *Service) Feed(ctx context.Context, viewerID string) ([]OwnerGroup, error) {
	ctx, span := logging.StartSpan(ctx, "stories.feed")
	defer span.End()

	active, err := s.stories.ListActive(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("list active stories: %w", err)
	}

	memo := make(map[string]pairState)
	groups := make(map[string]*OwnerGroup)
	var order []string

	for _, story := range active {
		visible, err := s.visible(ctx, viewerID, story, memo)
		if err != nil {
			return nil, err
		}
		if !visible {
			continue
		}

		group, ok := groups[story.OwnerID]
		if !ok {
			group = &OwnerGroup{OwnerID: story.OwnerID}
			groups[story.OwnerID] = group
			order = append(order, story.OwnerID)
		}

		entry := FeedEntry{
			ID:        story.ID,
			MediaURL:  story.MediaURL,
			Caption:   story.Caption,
			IsPublic:  story.IsPublic,
			CreatedAt: story.CreatedAt,
			ExpiresAt: story.ExpiresAt,
		}

		if story.OwnerID == viewerID {
			viewers, err := s.stories.Viewers(ctx, story.ID)
			if err != nil {
				// Secondary lookup: degrade to an empty viewer list.
				logging.FromContext(ctx).Warn("load story viewers failed", "storyId", story.ID, "error", err)
			} else {
				entry.Viewers = viewers
			}
		}

		group.Stories = append(group.Stories, entry)
	}

	// Stories arrive oldest first, so each group is already ordered and the
	// last entry is the group's most recent story.
	result := make([]OwnerGroup, 0, len(order))
	for _, ownerID := range order {
		result = append(result, *groups[ownerID])
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].OwnerID == viewerID {
			return true
		}
		if result[j].OwnerID == viewerID {
			return false
		}
		return latest(result[i]).After(latest(result[j]))
	})

	return result, nil
}

func (s *Service) visible(ctx context.Context, viewerID string, story models.Story, memo map[string]pairState) (bool, error) {
	if story.OwnerID == viewerID {
		return true, nil
	}

	state, ok := memo[story.OwnerID]
	if !ok {
		blocked, err := s.graph.Blocked(ctx, viewerID, story.OwnerID)
		if err != nil {
			return false, fmt.Errorf("consult block guard: %w", err)
		}

		state = pairState{blocked: blocked}
		if !blocked {
			_, err := s.graph.AcceptedMatch(ctx, viewerID, story.OwnerID)
			switch {
			case err == nil:
				state.matched = true
			case errors.Is(err, repositories.ErrNotFound):
			default:
				return false, fmt.Errorf("check accepted match: %w", err)
			}
		}
		memo[story.OwnerID] = state
	}

	if state.blocked {
		return false, nil
	}

	return story.IsPublic || state.matched, nil
}

func latest(group OwnerGroup) time.Time {
	if len(group.Stories) == 0 {
		return time.Time{}
	}
	return group.Stories[len(group.Stories)-1].CreatedAt
}
