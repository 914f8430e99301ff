package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

// InsertMediaRoll logs that a media item was posted as the given message.
func (s *Store) InsertMediaRoll(mediaID int64, messageID string, createdBy int64) error {
	_, err := s.db.Exec(
		"INSERT INTO MediaRoll (MediaId, MessageId, CreatedBy, DateCreated) VALUES (?, ?, ?, ?)",
		mediaID, messageID, createdBy, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert media roll: %w", err)
	}
	log.Printf("Saved MediaRoll entry from userId %d", createdBy)
	return nil
}

// MediaIDForRollMessage resolves a posted roll message back to its media.
// Returns 0 without error when the message is not a tracked roll, which is
// how stale or foreign reactions are recognised.
func (s *Store) MediaIDForRollMessage(messageID string) (int64, error) {
	var mediaID int64
	err := s.db.QueryRow(
		"SELECT MediaId FROM MediaRoll WHERE MessageId = ?", messageID,
	).Scan(&mediaID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up roll for message %s: %w", messageID, err)
	}
	return mediaID, nil
}
