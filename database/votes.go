package database

import (
	"fmt"
	"time"
)

// MediaScore returns the aggregate vote score for a media item. Media that
// has never been voted on scores zero here; the roll engine distinguishes
// the never-voted case separately via its aggregate queries.
func (s *Store) MediaScore(mediaID int64) (int64, error) {
	var score int64
	err := s.db.QueryRow(
		"SELECT COALESCE(SUM(IsUpvote), 0) FROM MediaVote WHERE MediaId = ?", mediaID,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("failed to compute score for media %d: %w", mediaID, err)
	}
	return score, nil
}

// InsertVote appends one vote row with weight +1 or -1. The cap check is the
// caller's responsibility; this is a plain append.
func (s *Store) InsertVote(mediaID int64, messageID string, weight int, createdBy int64) error {
	_, err := s.db.Exec(
		"INSERT INTO MediaVote (MediaId, MessageId, IsUpvote, CreatedBy, DateCreated) VALUES (?, ?, ?, ?, ?)",
		mediaID, messageID, weight, createdBy, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}

// DeleteLatestVote removes the most recent vote matching the message, actor
// and weight. Deleting a vote that does not exist is a no-op; earlier
// matching votes are left untouched.
func (s *Store) DeleteLatestVote(messageID string, weight int, createdBy int64) (bool, error) {
	res, err := s.db.Exec(
		`DELETE FROM MediaVote WHERE MediaVoteId = (
			SELECT MediaVoteId FROM MediaVote
			WHERE MessageId = ? AND IsUpvote = ? AND CreatedBy = ?
			ORDER BY MediaVoteId DESC LIMIT 1
		)`,
		messageID, weight, createdBy,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete vote: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected == 1, nil
}
