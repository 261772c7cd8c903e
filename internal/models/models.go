package models

import "time"

// User represents an account within the Sparkmatch platform.
type User struct {
	ID          string
	Email       string
	Password    string
	HideProfile bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Profile Profile
}

// Profile holds the ten optional profile fields a user may fill in.
type Profile struct {
	DisplayName  string
	AvatarURL    string
	Bio          string
	Birthdate    string
	Gender       string
	InterestedIn string
	City         string
	JobTitle     string
	Education    string
	Interests    string
}

// ProfileFieldCount is the number of fields tracked for profile completion.
const ProfileFieldCount = 10

// FilledFields reports how many of the tracked profile fields are set.
func (p Profile) FilledFields() int {
	fields := []string{
		p.DisplayName, p.AvatarURL, p.Bio, p.Birthdate, p.Gender,
		p.InterestedIn, p.City, p.JobTitle, p.Education, p.Interests,
	}
	count := 0
	for _, f := range fields {
		if f != "" {
			count++
		}
	}
	return count
}

// Like is a one-directional expression of interest. Rows are append-only:
// there is no unlike operation.
type Like struct {
	LikerID   string
	LikedID   string
	CreatedAt time.Time
}

const (
	MatchStatusRequest  = "request"
	MatchStatusAccepted = "accepted"
)

// Match stores the unordered user pair in canonical order (UserLo < UserHi)
// so a single unique index covers both directions.
type Match struct {
	ID          string
	UserLo      string
	UserHi      string
	RequesterID string
	Status      string
	CreatedAt   time.Time
	AcceptedAt  *time.Time
}

// OtherUser returns the partner id for the provided participant, or an empty
// string when the user is not part of the match.
func (m Match) OtherUser(userID string) string {
	switch userID {
	case m.UserLo:
		return m.UserHi
	case m.UserHi:
		return m.UserLo
	default:
		return ""
	}
}

// Involves reports whether the user participates in the match.
func (m Match) Involves(userID string) bool {
	return m.UserLo == userID || m.UserHi == userID
}

// CanonicalPair orders two user ids lexicographically for pair-keyed storage.
func CanonicalPair(a, b string) (lo, hi string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Block severs the relationship between blocker and blocked. It is directed:
// the blocked party is not told about it.
type Block struct {
	BlockerID string
	BlockedID string
	CreatedAt time.Time
}

// BlockedUser is a block entry joined with display data for listings.
type BlockedUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar"`
}

// Story is an ephemeral media post with a fixed TTL.
type Story struct {
	ID        string
	OwnerID   string
	MediaKey  string
	MediaURL  string
	Caption   string
	IsPublic  bool
	CreatedAt time.Time
	ExpiresAt time.Time
	Viewers   []string
}

// Expired reports whether the story is past its TTL at the given instant.
func (s Story) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Message belongs to a match channel. Icebreaker marks opener-style messages
// counted by the badge evaluator.
type Message struct {
	ID         string
	MatchID    string
	SenderID   string
	Body       string
	Icebreaker bool
	CreatedAt  time.Time
	EditedAt   *time.Time
}

// UserBadge records a badge award. Awards are never revoked.
type UserBadge struct {
	UserID    string
	BadgeID   string
	AwardedAt time.Time
}

// Presence tracks the latest activity heartbeat for a user.
type Presence struct {
	UserID     string
	LastSeenAt time.Time
}

// SessionTokens groups the bearer credentials issued to authenticated users.
type SessionTokens struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}
