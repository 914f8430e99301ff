package roller

import (
	"database/sql"
	"errors"
	"testing"

	"mediabot/models"

	"github.com/bwmarrin/discordgo"
)

func TestNormalizeSequence(t *testing.T) {
	tests := []struct {
		name         string
		count        int
		interval     int
		wantCount    int
		wantInterval int
	}{
		{"defaults", 0, 0, 1, 3},
		{"passthrough", 5, 10, 5, 10},
		{"negatives folded", -2, -7, 2, 7},
		{"explicit ones", 1, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, interval := NormalizeSequence(tt.count, tt.interval)
			if count != tt.wantCount || interval != tt.wantInterval {
				t.Errorf("NormalizeSequence(%d, %d) = (%d, %d), want (%d, %d)",
					tt.count, tt.interval, count, interval, tt.wantCount, tt.wantInterval)
			}
		})
	}
}

func TestBufferCount(t *testing.T) {
	tests := []struct {
		name     string
		eligible int
		pct      float64
		want     int
	}{
		{"no eligible media", 0, 0.75, 0},
		{"single item clamps to zero", 1, 0.75, 0},
		{"default percentage", 4, 0.75, 3},
		{"rounds to nearest", 10, 0.75, 8},
		{"full buffer clamps", 5, 1.0, 4},
		{"zero percentage", 5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BufferCount(tt.eligible, tt.pct); got != tt.want {
				t.Errorf("BufferCount(%d, %v) = %d, want %d", tt.eligible, tt.pct, got, tt.want)
			}
		})
	}
}

func points(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

func TestBuildPoolWeights(t *testing.T) {
	// Floor is -5: the at-floor item weighs zero, the never-voted item
	// counts as score zero and weighs five.
	candidates := []models.Candidate{
		{MediaID: 1, Points: points(-5)},
		{MediaID: 2, Points: points(0)},
		{MediaID: 3, Points: sql.NullInt64{}},
		{MediaID: 4, Points: points(3)},
	}

	pool := BuildPool(candidates, -5)

	counts := make(map[int]int)
	for _, idx := range pool {
		counts[idx]++
	}

	if counts[0] != 0 {
		t.Errorf("floor candidate drew %d pool slots, want 0", counts[0])
	}
	if counts[1] != 5 {
		t.Errorf("score-0 candidate drew %d pool slots, want 5", counts[1])
	}
	if counts[2] != 5 {
		t.Errorf("never-voted candidate drew %d pool slots, want 5", counts[2])
	}
	if counts[3] != 8 {
		t.Errorf("score-3 candidate drew %d pool slots, want 8", counts[3])
	}
	if len(pool) != 18 {
		t.Errorf("pool size = %d, want 18", len(pool))
	}
}

func TestBuildPoolAllAtFloorIsEmpty(t *testing.T) {
	candidates := []models.Candidate{
		{MediaID: 1, Points: points(-5)},
		{MediaID: 2, Points: points(-5)},
	}

	if pool := BuildPool(candidates, -5); len(pool) != 0 {
		t.Errorf("pool size = %d for all-at-floor candidates, want 0", len(pool))
	}
}

func TestBuildPoolEmptyCandidates(t *testing.T) {
	if pool := BuildPool(nil, -5); len(pool) != 0 {
		t.Errorf("pool size = %d for no candidates, want 0", len(pool))
	}
}

func boundConfig(channelID string) *models.ChannelConfig {
	return &models.ChannelConfig{
		ChannelConfigID: 1,
		MediaChannelID:  "submit",
		RollChannelID:   sql.NullString{String: channelID, Valid: true},
		RollCommand:     "roll",
	}
}

func rollCommand(channelID string) *discordgo.Message {
	return &discordgo.Message{ID: "cmd-1", ChannelID: channelID, GuildID: "guild"}
}

func TestStartRollRejectsUnboundConfig(t *testing.T) {
	e := New(nil, nil)

	if _, _, err := e.StartRoll(nil, rollCommand("chan"), 1, 1, 3); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("StartRoll(nil config) = %v, want ErrNotConfigured", err)
	}

	half := &models.ChannelConfig{ChannelConfigID: 1, MediaChannelID: "submit"}
	if _, _, err := e.StartRoll(half, rollCommand("submit"), 1, 1, 3); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("StartRoll(half-bound config) = %v, want ErrNotConfigured", err)
	}
}

func TestStartRollRejectsWrongChannel(t *testing.T) {
	e := New(nil, nil)

	if _, _, err := e.StartRoll(boundConfig("rollchan"), rollCommand("other"), 1, 1, 3); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("StartRoll in non-roll channel = %v, want ErrNotConfigured", err)
	}
}

func TestStartRollRejectsOverlongSequence(t *testing.T) {
	e := New(nil, nil)

	count, interval, err := e.StartRoll(boundConfig("rollchan"), rollCommand("rollchan"), 1, 200, 10)
	if !errors.Is(err, ErrTooLong) {
		t.Fatalf("StartRoll(200, 10) = %v, want ErrTooLong", err)
	}
	if count != 200 || interval != 10 {
		t.Errorf("normalized sequence = (%d, %d), want (200, 10)", count, interval)
	}

	// Just past the ceiling is rejected too.
	if _, _, err := e.StartRoll(boundConfig("rollchan"), rollCommand("rollchan"), 1, 301, 1); !errors.Is(err, ErrTooLong) {
		t.Errorf("StartRoll(301, 1) = %v, want ErrTooLong", err)
	}
}

func TestEmptyDrawRepliesToCommand(t *testing.T) {
	cmd := rollCommand("rollchan")
	seq := &sequence{command: cmd}

	// The first draw replies to the invoking command.
	ref := seq.replyReference()
	if ref == nil || ref.MessageID != cmd.ID {
		t.Fatalf("first-step reference = %+v, want a reply to message %s", ref, cmd.ID)
	}

	// Once media has been posted the notice is sent plain.
	seq.progress = 1
	if ref := seq.replyReference(); ref != nil {
		t.Errorf("reference after a successful post = %+v, want none", ref)
	}

	bare := &sequence{}
	if ref := bare.replyReference(); ref != nil {
		t.Errorf("reference without a command message = %+v, want none", ref)
	}
}
