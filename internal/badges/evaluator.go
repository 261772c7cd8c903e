// Package badges derives gamification state from the interaction graph. The
// evaluator is a pure function over a snapshot; awards are append-only and
// never revoked.
package badges

import "time"

const (
	EarlyAdopter        = "early-adopter"
	FirstMatch          = "first-match"
	SocialButterfly     = "social-butterfly"
	ConversationStarter = "conversation-starter"
	ProfilePro          = "profile-pro"
	DeepDiver           = "deep-diver"
	WeekStreak          = "week-streak"
)

const (
	earlyAdopterCutoff    = 100
	firstMatchTarget      = 1
	socialButterflyTarget = 10
	conversationTarget    = 10
	profileProTarget      = 10
	deepDiverTarget       = 20
	weekStreakDays        = 7
)

// All lists every badge id in award-display order.
var All = []string{
	EarlyAdopter, FirstMatch, SocialButterfly,
	ConversationStarter, ProfilePro, DeepDiver, WeekStreak,
}

// Snapshot captures everything the evaluator needs about one user at one
// instant. Building it is the only part that touches storage.
type Snapshot struct {
	CreationRank        int
	MatchCount          int
	IcebreakerCount     int
	MaxChannelMessages  int
	FilledProfileFields int
	AccountAge          time.Duration
	HasPresence         bool
}

// Qualifying returns the badge ids the snapshot satisfies, in display order.
func Qualifying(s Snapshot) []string {
	var ids []string
	for _, id := range All {
		if qualifies(id, s) {
			ids = append(ids, id)
		}
	}
	return ids
}

func qualifies(id string, s Snapshot) bool {
	switch id {
	case EarlyAdopter:
		return s.CreationRank > 0 && s.CreationRank <= earlyAdopterCutoff
	case FirstMatch:
		return s.MatchCount >= firstMatchTarget
	case SocialButterfly:
		return s.MatchCount >= socialButterflyTarget
	case ConversationStarter:
		return s.IcebreakerCount >= conversationTarget
	case ProfilePro:
		return s.FilledProfileFields >= profileProTarget
	case DeepDiver:
		return s.MaxChannelMessages >= deepDiverTarget
	case WeekStreak:
		return s.HasPresence && s.AccountAge >= weekStreakDays*24*time.Hour
	default:
		return false
	}
}

// Progress reports how close the user is to one badge.
type Progress struct {
	Current int `json:"current"`
	Target  int `json:"target"`
}

// ProgressFor maps every badge id to its progress counters.
func ProgressFor(s Snapshot) map[string]Progress {
	days := int(s.AccountAge / (24 * time.Hour))
	streakDays := days
	if !s.HasPresence {
		streakDays = 0
	}

	return map[string]Progress{
		EarlyAdopter:        {Current: boolToInt(s.CreationRank > 0 && s.CreationRank <= earlyAdopterCutoff), Target: 1},
		FirstMatch:          {Current: clamp(s.MatchCount, firstMatchTarget), Target: firstMatchTarget},
		SocialButterfly:     {Current: clamp(s.MatchCount, socialButterflyTarget), Target: socialButterflyTarget},
		ConversationStarter: {Current: clamp(s.IcebreakerCount, conversationTarget), Target: conversationTarget},
		ProfilePro:          {Current: clamp(s.FilledProfileFields, profileProTarget), Target: profileProTarget},
		DeepDiver:           {Current: clamp(s.MaxChannelMessages, deepDiverTarget), Target: deepDiverTarget},
		WeekStreak:          {Current: clamp(streakDays, weekStreakDays), Target: weekStreakDays},
	}
}

func clamp(v, target int) int {
	if v > target {
		return target
	}
	if v < 0 {
		return 0
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
