package database

import (
	"testing"

	"mediabot/models"
)

func TestServerStatsKeepsTies(t *testing.T) {
	store := newTestStore(t)
	serverID, alice := seedIdentity(t, store, "alice")
	bob, err := store.EnsureUser(serverID, "discord-bob", "bob", "bob")
	if err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	cfg := seedConfig(t, store, alice)

	// Alice and bob each hold one media item at score 2, a third item trails
	// at score 1.
	aliceTop := seedMedia(t, store, cfg.ChannelConfigID, alice, "https://example.com/a.png")
	bobTop := seedMedia(t, store, cfg.ChannelConfigID, bob, "https://example.com/b.png")
	trailing := seedMedia(t, store, cfg.ChannelConfigID, alice, "https://example.com/c.png")

	voteTimes(t, store, aliceTop, 1, 2, bob)
	voteTimes(t, store, bobTop, 1, 2, alice)
	voteTimes(t, store, trailing, 1, 1, bob)

	if err := store.InsertMediaRoll(aliceTop, "roll-1", alice); err != nil {
		t.Fatalf("InsertMediaRoll: %v", err)
	}
	if err := store.InsertMediaRoll(bobTop, "roll-2", bob); err != nil {
		t.Fatalf("InsertMediaRoll: %v", err)
	}
	if err := store.InsertMediaRoll(trailing, "roll-3", bob); err != nil {
		t.Fatalf("InsertMediaRoll: %v", err)
	}

	stats, err := store.ServerStats(serverID)
	if err != nil {
		t.Fatalf("ServerStats: %v", err)
	}

	if stats.TotalMedia != 3 {
		t.Errorf("TotalMedia = %d, want 3", stats.TotalMedia)
	}
	if stats.TopScore != 2 {
		t.Errorf("TopScore = %d, want 2", stats.TopScore)
	}
	if len(stats.TopScoreNames) != 2 {
		t.Errorf("TopScoreNames = %v, want both tied holders", stats.TopScoreNames)
	}

	// Bob cast three upvotes, alice two; no ties there.
	if len(stats.TopUpvoters) != 1 || stats.TopUpvoters[0].DisplayName != "bob" || stats.TopUpvoters[0].Count != 3 {
		t.Errorf("TopUpvoters = %+v, want bob with 3", stats.TopUpvoters)
	}
	if len(stats.TopDownvoters) != 0 {
		t.Errorf("TopDownvoters = %+v, want none", stats.TopDownvoters)
	}

	if stats.TotalRolls != 3 {
		t.Errorf("TotalRolls = %d, want 3", stats.TotalRolls)
	}
	if len(stats.TopRollers) != 1 || stats.TopRollers[0].DisplayName != "bob" || stats.TopRollers[0].Count != 2 {
		t.Errorf("TopRollers = %+v, want bob with 2", stats.TopRollers)
	}
}

func TestServerStatsEmptyServer(t *testing.T) {
	store := newTestStore(t)
	serverID, _ := seedIdentity(t, store, "alice")

	stats, err := store.ServerStats(serverID)
	if err != nil {
		t.Fatalf("ServerStats: %v", err)
	}
	if stats.TotalMedia != 0 || stats.TotalRolls != 0 {
		t.Errorf("stats of empty server = %+v, want zeroes", stats)
	}
	if len(stats.TopUpvoters) != 0 || len(stats.TopDownvoters) != 0 || len(stats.TopRollers) != 0 {
		t.Errorf("leaderboards of empty server = %+v, want empty", stats)
	}
}

func TestUserScoreRollup(t *testing.T) {
	store := newTestStore(t)
	serverID, alice := seedIdentity(t, store, "alice")
	bob, err := store.EnsureUser(serverID, "discord-bob", "bob", "bob")
	if err != nil {
		t.Fatalf("EnsureUser: %v", err)
	}
	cfg := seedConfig(t, store, alice)

	first := seedMedia(t, store, cfg.ChannelConfigID, alice, "https://example.com/a.png")
	second := seedMedia(t, store, cfg.ChannelConfigID, alice, "https://example.com/b.png")
	theirs := seedMedia(t, store, cfg.ChannelConfigID, bob, "https://example.com/c.png")

	// Alice's media collects a net score of 2; she also votes on bob's item
	// and starts one roll.
	voteTimes(t, store, first, 1, 3, bob)
	voteTimes(t, store, second, -1, 1, bob)
	voteTimes(t, store, theirs, 1, 2, alice)
	voteTimes(t, store, theirs, -1, 1, alice)
	if err := store.InsertMediaRoll(first, "roll-1", alice); err != nil {
		t.Fatalf("InsertMediaRoll: %v", err)
	}

	score, err := store.UserScore(models.User{UserID: alice, DisplayName: "alice"})
	if err != nil {
		t.Fatalf("UserScore: %v", err)
	}

	if score.DisplayName != "alice" {
		t.Errorf("DisplayName = %q, want alice", score.DisplayName)
	}
	if score.MediaCount != 2 {
		t.Errorf("MediaCount = %d, want 2", score.MediaCount)
	}
	if score.TotalScore != 2 {
		t.Errorf("TotalScore = %d, want 2", score.TotalScore)
	}
	if score.UpvotesGiven != 2 {
		t.Errorf("UpvotesGiven = %d, want 2", score.UpvotesGiven)
	}
	if score.DownvotesGiven != 1 {
		t.Errorf("DownvotesGiven = %d, want 1", score.DownvotesGiven)
	}
	if score.RollsStarted != 1 {
		t.Errorf("RollsStarted = %d, want 1", score.RollsStarted)
	}
}
