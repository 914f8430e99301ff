package models

import "database/sql"

// MediaErrorLimit is the number of failed deliveries after which a media
// item is quarantined and no longer eligible for rolling.
const MediaErrorLimit = 5

// Default settings applied to a ChannelConfig when the configure command
// does not override them.
const (
	DefaultPrefix           = "!"
	DefaultBufferPercentage = 0.75
	DefaultMaximumPoints    = 20
	DefaultMinimumPoints    = -5
	DefaultRollCommand      = "roll"
)

// ChannelConfig binds a media submit channel to a roll channel and carries
// the per-pair rolling policy. RollChannelID stays empty until the creator
// completes the binding in a second channel.
type ChannelConfig struct {
	ChannelConfigID  int64
	Prefix           string
	MediaChannelID   string
	RollChannelID    sql.NullString
	BufferPercentage float64
	MaximumPoints    int
	MinimumPoints    int
	UpvoteEmoji      string
	DownvoteEmoji    string
	RollCommand      string
	CurrentlyRolling int64 // epoch seconds the active roll sequence ends at, 0 when idle
	CreatedBy        int64
	DateCreated      int64
	DateUpdated      int64
}

// Bound reports whether both channel sides are set.
func (c *ChannelConfig) Bound() bool {
	return c.RollChannelID.Valid && c.RollChannelID.String != ""
}

// Media is one submitted URL or attachment.
type Media struct {
	MediaID     int64
	ConfigID    int64
	URL         string
	MessageID   string
	CreatedBy   int64
	ErrorCount  int
	DateCreated int64
}

// Quarantined reports whether the item has failed delivery too many times
// to be rolled again.
func (m *Media) Quarantined() bool {
	return m.ErrorCount >= MediaErrorLimit
}

// Server maps a Discord guild to an internal id.
type Server struct {
	ServerID  int64
	DiscordID string
	Name      string
}

// User maps a Discord user, scoped to a server, to an internal id.
type User struct {
	UserID      int64
	DiscordID   string
	UserName    string
	DisplayName string
	ServerID    int64
}

// Candidate is one row of the roll engine's eligibility query. Points is
// NULL for media that has never been voted on; SQL SUM over zero rows
// yields NULL, not zero, and the two cases weigh differently.
type Candidate struct {
	MediaID int64
	URL     string
	Points  sql.NullInt64
}

// Score returns the aggregate vote score, treating never-voted as zero.
func (c Candidate) Score() int64 {
	if c.Points.Valid {
		return c.Points.Int64
	}
	return 0
}
