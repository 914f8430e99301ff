package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"mediabot/models"
)

// InsertMedia stores one submitted URL against a config.
func (s *Store) InsertMedia(configID int64, url, messageID string, createdBy int64) error {
	_, err := s.db.Exec(
		"INSERT INTO Media (ConfigId, Url, MessageId, CreatedBy, ErrorCount, DateCreated) VALUES (?, ?, ?, ?, 0, ?)",
		configID, url, messageID, createdBy, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert media: %w", err)
	}
	log.Printf("Saved media sent by userId %d", createdBy)
	return nil
}

// GetMedia loads a media row by id. Returns nil without error when the id is
// unknown.
func (s *Store) GetMedia(mediaID int64) (*models.Media, error) {
	var m models.Media
	err := s.db.QueryRow(
		"SELECT MediaId, ConfigId, Url, MessageId, CreatedBy, ErrorCount, DateCreated FROM Media WHERE MediaId = ?",
		mediaID,
	).Scan(&m.MediaID, &m.ConfigID, &m.URL, &m.MessageID, &m.CreatedBy, &m.ErrorCount, &m.DateCreated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load media %d: %w", mediaID, err)
	}
	return &m, nil
}

// IncrementErrorCount records one failed delivery attempt. At
// models.MediaErrorLimit failures the item drops out of the eligible pool
// for good.
func (s *Store) IncrementErrorCount(mediaID int64) error {
	_, err := s.db.Exec(
		"UPDATE Media SET ErrorCount = ErrorCount + 1 WHERE MediaId = ?", mediaID,
	)
	if err != nil {
		return fmt.Errorf("failed to increment error count for media %d: %w", mediaID, err)
	}
	return nil
}

// ResetErrorCount clears the failure streak after a successful delivery.
func (s *Store) ResetErrorCount(mediaID int64) error {
	_, err := s.db.Exec("UPDATE Media SET ErrorCount = 0 WHERE MediaId = ?", mediaID)
	if err != nil {
		return fmt.Errorf("failed to reset error count for media %d: %w", mediaID, err)
	}
	return nil
}

// eligibleHaving filters on the aggregate score. SUM over zero joined vote
// rows yields NULL rather than zero, so never-voted media needs an explicit
// IS NULL branch to stay eligible.
const eligibleHaving = "HAVING Points > ? OR Points IS NULL"

// CountEligibleMedia returns how many media items of a config pass the
// eligibility filter: not quarantined and scoring above the floor (or never
// voted on).
func (s *Store) CountEligibleMedia(configID int64, minimumPoints int) (int, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM (
			SELECT Media.MediaId, SUM(MediaVote.IsUpvote) AS Points
			FROM Media
			LEFT JOIN MediaVote ON MediaVote.MediaId = Media.MediaId
			WHERE Media.ConfigId = ? AND Media.ErrorCount < ?
			GROUP BY Media.MediaId
			`+eligibleHaving+`
		)`,
		configID, models.MediaErrorLimit, minimumPoints,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count eligible media: %w", err)
	}
	return count, nil
}

// EligibleCandidates returns the eligible media of a config, excluding the
// items among the config's bufferCount most recent rolls. The exclusion is
// the anti-repetition buffer.
func (s *Store) EligibleCandidates(configID int64, minimumPoints, bufferCount int) ([]models.Candidate, error) {
	rows, err := s.db.Query(
		`SELECT Media.MediaId, Media.Url, SUM(MediaVote.IsUpvote) AS Points
		 FROM Media
		 LEFT JOIN MediaVote ON MediaVote.MediaId = Media.MediaId
		 WHERE Media.ConfigId = ? AND Media.ErrorCount < ?
		   AND Media.MediaId NOT IN (
			SELECT MediaRoll.MediaId FROM MediaRoll
			JOIN Media Rolled ON Rolled.MediaId = MediaRoll.MediaId
			WHERE Rolled.ConfigId = ?
			ORDER BY MediaRoll.MediaRollId DESC LIMIT ?
		   )
		 GROUP BY Media.MediaId
		 `+eligibleHaving,
		configID, models.MediaErrorLimit, configID, bufferCount, minimumPoints,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible candidates: %w", err)
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.MediaID, &c.URL, &c.Points); err != nil {
			return nil, fmt.Errorf("failed to scan candidate row: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
