package database

import (
	"testing"

	"mediabot/models"
)

// voteTimes casts n votes of the given weight against a media item.
func voteTimes(t *testing.T, store *Store, mediaID int64, weight, n int, userID int64) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := store.InsertVote(mediaID, "vote-msg", weight, userID); err != nil {
			t.Fatalf("casting vote: %v", err)
		}
	}
}

func TestCountEligibleMediaScoreFloor(t *testing.T) {
	store := newTestStore(t)
	_, userID := seedIdentity(t, store, "alice")
	cfg := seedConfig(t, store, userID)

	atFloor := seedMedia(t, store, cfg.ChannelConfigID, userID, "https://example.com/a.png")
	aboveFloor := seedMedia(t, store, cfg.ChannelConfigID, userID, "https://example.com/b.png")
	seedMedia(t, store, cfg.ChannelConfigID, userID, "https://example.com/c.png")

	// Floor is -5 and the filter is strict: exactly at the floor drops out,
	// one above stays, never-voted stays.
	voteTimes(t, store, atFloor, -1, 5, userID)
	voteTimes(t, store, aboveFloor, -1, 4, userID)

	count, err := store.CountEligibleMedia(cfg.ChannelConfigID, cfg.MinimumPoints)
	if err != nil {
		t.Fatalf("CountEligibleMedia: %v", err)
	}
	if count != 2 {
		t.Errorf("eligible count = %d, want 2", count)
	}
}

func TestQuarantineAfterErrorLimit(t *testing.T) {
	store := newTestStore(t)
	_, userID := seedIdentity(t, store, "alice")
	cfg := seedConfig(t, store, userID)

	mediaID := seedMedia(t, store, cfg.ChannelConfigID, userID, "https://example.com/a.png")
	// A strong score does not save a quarantined item.
	voteTimes(t, store, mediaID, 1, 10, userID)

	for i := 0; i < models.MediaErrorLimit-1; i++ {
		if err := store.IncrementErrorCount(mediaID); err != nil {
			t.Fatalf("IncrementErrorCount: %v", err)
		}
	}
	count, err := store.CountEligibleMedia(cfg.ChannelConfigID, cfg.MinimumPoints)
	if err != nil {
		t.Fatalf("CountEligibleMedia: %v", err)
	}
	if count != 1 {
		t.Errorf("eligible count below the limit = %d, want 1", count)
	}

	if err := store.IncrementErrorCount(mediaID); err != nil {
		t.Fatalf("IncrementErrorCount: %v", err)
	}
	count, err = store.CountEligibleMedia(cfg.ChannelConfigID, cfg.MinimumPoints)
	if err != nil {
		t.Fatalf("CountEligibleMedia: %v", err)
	}
	if count != 0 {
		t.Errorf("eligible count at the limit = %d, want 0", count)
	}

	m, err := store.GetMedia(mediaID)
	if err != nil || m == nil {
		t.Fatalf("GetMedia: %v", err)
	}
	if !m.Quarantined() {
		t.Errorf("ErrorCount = %d but Quarantined() = false", m.ErrorCount)
	}

	// A successful delivery clears the streak and restores eligibility.
	if err := store.ResetErrorCount(mediaID); err != nil {
		t.Fatalf("ResetErrorCount: %v", err)
	}
	count, err = store.CountEligibleMedia(cfg.ChannelConfigID, cfg.MinimumPoints)
	if err != nil {
		t.Fatalf("CountEligibleMedia: %v", err)
	}
	if count != 1 {
		t.Errorf("eligible count after reset = %d, want 1", count)
	}

	m, err = store.GetMedia(mediaID)
	if err != nil || m == nil {
		t.Fatalf("GetMedia: %v", err)
	}
	if m.Quarantined() {
		t.Errorf("media still quarantined after reset, ErrorCount = %d", m.ErrorCount)
	}

	// Unknown ids resolve to nil, not an error.
	if m, err := store.GetMedia(9999); err != nil || m != nil {
		t.Errorf("GetMedia(unknown) = (%+v, %v), want (nil, nil)", m, err)
	}
}

func TestEligibleCandidatesExcludesRecentRolls(t *testing.T) {
	store := newTestStore(t)
	_, userID := seedIdentity(t, store, "alice")
	cfg := seedConfig(t, store, userID)

	first := seedMedia(t, store, cfg.ChannelConfigID, userID, "https://example.com/a.png")
	second := seedMedia(t, store, cfg.ChannelConfigID, userID, "https://example.com/b.png")
	third := seedMedia(t, store, cfg.ChannelConfigID, userID, "https://example.com/c.png")

	for i, mediaID := range []int64{first, second, third} {
		if err := store.InsertMediaRoll(mediaID, "roll-msg-"+string(rune('a'+i)), userID); err != nil {
			t.Fatalf("InsertMediaRoll: %v", err)
		}
	}

	// A buffer of two shields the two most recent rolls; only the oldest
	// rolled item comes back.
	candidates, err := store.EligibleCandidates(cfg.ChannelConfigID, cfg.MinimumPoints, 2)
	if err != nil {
		t.Fatalf("EligibleCandidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].MediaID != first {
		t.Errorf("candidates with buffer 2 = %+v, want only media %d", candidates, first)
	}

	// No buffer means everything eligible is fair game again.
	candidates, err = store.EligibleCandidates(cfg.ChannelConfigID, cfg.MinimumPoints, 0)
	if err != nil {
		t.Fatalf("EligibleCandidates: %v", err)
	}
	if len(candidates) != 3 {
		t.Errorf("candidates with buffer 0 = %d items, want 3", len(candidates))
	}
}

func TestEligibleCandidatesScopedToConfig(t *testing.T) {
	store := newTestStore(t)
	_, userID := seedIdentity(t, store, "alice")
	cfg := seedConfig(t, store, userID)

	other := models.ChannelConfig{
		Prefix:           models.DefaultPrefix,
		MediaChannelID:   "other-submit",
		BufferPercentage: models.DefaultBufferPercentage,
		MaximumPoints:    models.DefaultMaximumPoints,
		MinimumPoints:    models.DefaultMinimumPoints,
		UpvoteEmoji:      "👍",
		DownvoteEmoji:    "👎",
		RollCommand:      models.DefaultRollCommand,
		CreatedBy:        userID,
	}
	otherID, err := store.CreateConfig(&other)
	if err != nil {
		t.Fatalf("CreateConfig: %v", err)
	}

	mine := seedMedia(t, store, cfg.ChannelConfigID, userID, "https://example.com/mine.png")
	seedMedia(t, store, otherID, userID, "https://example.com/theirs.png")

	candidates, err := store.EligibleCandidates(cfg.ChannelConfigID, cfg.MinimumPoints, 0)
	if err != nil {
		t.Fatalf("EligibleCandidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].MediaID != mine {
		t.Errorf("candidates = %+v, want only media %d from the own config", candidates, mine)
	}
}
