package badges

import (
	"testing"
	"time"
)

func TestQualifyingThresholds(t *testing.T) {
	cases := []struct {
		name     string
		snapshot Snapshot
		want     []string
	}{
		{
			name:     "empty snapshot earns nothing",
			snapshot: Snapshot{},
			want:     nil,
		},
		{
			name:     "rank within cutoff earns early adopter",
			snapshot: Snapshot{CreationRank: 100},
			want:     []string{EarlyAdopter},
		},
		{
			name:     "rank past cutoff earns nothing",
			snapshot: Snapshot{CreationRank: 101},
			want:     nil,
		},
		{
			name:     "single match earns first match only",
			snapshot: Snapshot{CreationRank: 500, MatchCount: 1},
			want:     []string{FirstMatch},
		},
		{
			name:     "ten matches adds social butterfly",
			snapshot: Snapshot{CreationRank: 500, MatchCount: 10},
			want:     []string{FirstMatch, SocialButterfly},
		},
		{
			name:     "ten icebreakers earns conversation starter",
			snapshot: Snapshot{CreationRank: 500, IcebreakerCount: 10},
			want:     []string{ConversationStarter},
		},
		{
			name:     "full profile earns profile pro",
			snapshot: Snapshot{CreationRank: 500, FilledProfileFields: 10},
			want:     []string{ProfilePro},
		},
		{
			name:     "twenty messages in one channel earns deep diver",
			snapshot: Snapshot{CreationRank: 500, MaxChannelMessages: 20},
			want:     []string{DeepDiver},
		},
		{
			name:     "presence plus week-old account earns week streak",
			snapshot: Snapshot{CreationRank: 500, HasPresence: true, AccountAge: 7 * 24 * time.Hour},
			want:     []string{WeekStreak},
		},
		{
			name:     "week-old account without presence earns nothing",
			snapshot: Snapshot{CreationRank: 500, AccountAge: 7 * 24 * time.Hour},
			want:     nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Qualifying(tc.snapshot)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v got %v", tc.want, got)
				}
			}
		})
	}
}

func TestProgressForClampsAndZeroesStreak(t *testing.T) {
	snapshot := Snapshot{
		CreationRank:        50,
		MatchCount:          25,
		IcebreakerCount:     3,
		MaxChannelMessages:  100,
		FilledProfileFields: 7,
		AccountAge:          10 * 24 * time.Hour,
		HasPresence:         false,
	}

	progress := ProgressFor(snapshot)

	if len(progress) != len(All) {
		t.Fatalf("expected progress for every badge, got %d entries", len(progress))
	}

	if p := progress[SocialButterfly]; p.Current != 10 || p.Target != 10 {
		t.Fatalf("expected match count clamped to target got %+v", p)
	}
	if p := progress[ConversationStarter]; p.Current != 3 {
		t.Fatalf("expected partial icebreaker progress got %+v", p)
	}
	if p := progress[DeepDiver]; p.Current != 20 {
		t.Fatalf("expected deep diver clamped to 20 got %+v", p)
	}
	if p := progress[WeekStreak]; p.Current != 0 {
		t.Fatalf("expected streak days zeroed without presence got %+v", p)
	}
	if p := progress[EarlyAdopter]; p.Current != 1 || p.Target != 1 {
		t.Fatalf("expected early adopter satisfied got %+v", p)
	}
}
