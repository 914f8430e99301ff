package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"mediabot/models"
)

const configColumns = `ChannelConfigId, Prefix, MediaChannelId, RollChannelId,
	BufferPercentage, MaximumPoints, MinimumPoints, UpvoteEmoji, DownvoteEmoji,
	RollCommand, CurrentlyRolling, CreatedBy, DateCreated, DateUpdated`

func scanConfig(row *sql.Row) (*models.ChannelConfig, error) {
	var c models.ChannelConfig
	err := row.Scan(
		&c.ChannelConfigID, &c.Prefix, &c.MediaChannelID, &c.RollChannelID,
		&c.BufferPercentage, &c.MaximumPoints, &c.MinimumPoints, &c.UpvoteEmoji,
		&c.DownvoteEmoji, &c.RollCommand, &c.CurrentlyRolling, &c.CreatedBy,
		&c.DateCreated, &c.DateUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan channel config: %w", err)
	}
	return &c, nil
}

// ResolveConfig finds the completed config whose submit side is the channel,
// or the config (complete or not) whose roll side is the channel. Returns
// nil without error when the channel is not bound to anything.
func (s *Store) ResolveConfig(channelID string) (*models.ChannelConfig, error) {
	row := s.db.QueryRow(
		"SELECT "+configColumns+" FROM ChannelConfig "+
			"WHERE (RollChannelId IS NOT NULL AND MediaChannelId = ?) OR RollChannelId = ? "+
			"LIMIT 1",
		channelID, channelID,
	)
	return scanConfig(row)
}

// GetConfig loads a config by id.
func (s *Store) GetConfig(configID int64) (*models.ChannelConfig, error) {
	row := s.db.QueryRow(
		"SELECT "+configColumns+" FROM ChannelConfig WHERE ChannelConfigId = ?", configID,
	)
	return scanConfig(row)
}

// FindHalfBoundConfig finds the config a user has started but not yet
// completed with a roll channel, if any.
func (s *Store) FindHalfBoundConfig(createdBy int64) (*models.ChannelConfig, error) {
	row := s.db.QueryRow(
		"SELECT "+configColumns+" FROM ChannelConfig "+
			"WHERE RollChannelId IS NULL AND CreatedBy = ? LIMIT 1",
		createdBy,
	)
	return scanConfig(row)
}

// CreateConfig inserts a new half-bound config and returns its id.
func (s *Store) CreateConfig(c *models.ChannelConfig) (int64, error) {
	now := time.Now().Unix()
	res, err := s.db.Exec(
		`INSERT INTO ChannelConfig (Prefix, MediaChannelId, RollChannelId,
			BufferPercentage, MaximumPoints, MinimumPoints, UpvoteEmoji,
			DownvoteEmoji, RollCommand, CurrentlyRolling, CreatedBy,
			DateCreated, DateUpdated)
		 VALUES (?, ?, NULL, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?)`,
		c.Prefix, c.MediaChannelID, c.BufferPercentage, c.MaximumPoints,
		c.MinimumPoints, c.UpvoteEmoji, c.DownvoteEmoji, c.RollCommand,
		c.CreatedBy, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert channel config: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read new config id: %w", err)
	}
	return id, nil
}

// CompleteConfig sets the roll channel on a half-bound config.
func (s *Store) CompleteConfig(configID int64, rollChannelID string) error {
	_, err := s.db.Exec(
		"UPDATE ChannelConfig SET RollChannelId = ?, DateUpdated = ? WHERE ChannelConfigId = ?",
		rollChannelID, time.Now().Unix(), configID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete channel config %d: %w", configID, err)
	}
	return nil
}

// UpdateSettings persists the tunable fields of an existing config and
// refreshes its update timestamp.
func (s *Store) UpdateSettings(c *models.ChannelConfig) error {
	_, err := s.db.Exec(
		`UPDATE ChannelConfig SET Prefix = ?, BufferPercentage = ?,
			MaximumPoints = ?, MinimumPoints = ?, UpvoteEmoji = ?,
			DownvoteEmoji = ?, RollCommand = ?, DateUpdated = ?
		 WHERE ChannelConfigId = ?`,
		c.Prefix, c.BufferPercentage, c.MaximumPoints, c.MinimumPoints,
		c.UpvoteEmoji, c.DownvoteEmoji, c.RollCommand, time.Now().Unix(),
		c.ChannelConfigID,
	)
	if err != nil {
		return fmt.Errorf("failed to update channel config %d: %w", c.ChannelConfigID, err)
	}
	return nil
}

// DeleteConfig removes a config row. Media and logs that reference it are
// left in place.
func (s *Store) DeleteConfig(configID int64) error {
	_, err := s.db.Exec("DELETE FROM ChannelConfig WHERE ChannelConfigId = ?", configID)
	if err != nil {
		return fmt.Errorf("failed to delete channel config %d: %w", configID, err)
	}
	return nil
}

// TryBeginRoll transitions a config from Idle to Rolling in a single
// conditional update. It returns false when another sequence is still in
// flight, which is the concurrency guard against overlapping rolls.
func (s *Store) TryBeginRoll(configID, until int64) (bool, error) {
	now := time.Now().Unix()
	res, err := s.db.Exec(
		"UPDATE ChannelConfig SET CurrentlyRolling = ? WHERE ChannelConfigId = ? AND CurrentlyRolling <= ?",
		until, configID, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to begin roll on config %d: %w", configID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}

// SetIdle clears the rolling marker on a config.
func (s *Store) SetIdle(configID int64) error {
	_, err := s.db.Exec(
		"UPDATE ChannelConfig SET CurrentlyRolling = 0 WHERE ChannelConfigId = ?", configID,
	)
	if err != nil {
		return fmt.Errorf("failed to set config %d idle: %w", configID, err)
	}
	return nil
}

// DeleteStaleHalfBound removes half-bound configs created before the cutoff.
// Bindings the creator never completed would otherwise swallow their next
// configure command forever.
func (s *Store) DeleteStaleHalfBound(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(
		"DELETE FROM ChannelConfig WHERE RollChannelId IS NULL AND DateCreated < ?",
		cutoff.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale configs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected > 0 {
		log.Printf("Removed %d stale half-bound channel configs", affected)
	}
	return affected, nil
}
