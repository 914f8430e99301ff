package database

import (
	"testing"

	"mediabot/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(store.Close)
	return store
}

// seedIdentity creates a server with one user and returns their ids.
func seedIdentity(t *testing.T, store *Store, userName string) (int64, int64) {
	t.Helper()
	serverID, err := store.EnsureServer("guild-1", "Test Guild")
	if err != nil {
		t.Fatalf("seeding server: %v", err)
	}
	userID, err := store.EnsureUser(serverID, "discord-"+userName, userName, userName)
	if err != nil {
		t.Fatalf("seeding user %s: %v", userName, err)
	}
	return serverID, userID
}

// seedConfig creates a completed channel binding owned by userID.
func seedConfig(t *testing.T, store *Store, userID int64) *models.ChannelConfig {
	t.Helper()
	cfg := models.ChannelConfig{
		Prefix:           models.DefaultPrefix,
		MediaChannelID:   "submit-chan",
		BufferPercentage: models.DefaultBufferPercentage,
		MaximumPoints:    models.DefaultMaximumPoints,
		MinimumPoints:    models.DefaultMinimumPoints,
		UpvoteEmoji:      "👍",
		DownvoteEmoji:    "👎",
		RollCommand:      models.DefaultRollCommand,
		CreatedBy:        userID,
	}
	id, err := store.CreateConfig(&cfg)
	if err != nil {
		t.Fatalf("seeding config: %v", err)
	}
	if err := store.CompleteConfig(id, "roll-chan"); err != nil {
		t.Fatalf("completing config: %v", err)
	}
	loaded, err := store.GetConfig(id)
	if err != nil || loaded == nil {
		t.Fatalf("reloading config: %v", err)
	}
	return loaded
}

// seedMedia inserts one media row and returns its id.
func seedMedia(t *testing.T, store *Store, configID, userID int64, url string) int64 {
	t.Helper()
	if err := store.InsertMedia(configID, url, "msg-"+url, userID); err != nil {
		t.Fatalf("seeding media %s: %v", url, err)
	}
	var id int64
	if err := store.db.QueryRow(
		"SELECT MediaId FROM Media WHERE Url = ? ORDER BY MediaId DESC LIMIT 1", url,
	).Scan(&id); err != nil {
		t.Fatalf("looking up seeded media: %v", err)
	}
	return id
}

func TestSchemaBootstrapIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	if err := store.initTables(); err != nil {
		t.Fatalf("second initTables call failed: %v", err)
	}
}
