package database

import (
	"database/sql"
	"fmt"

	"mediabot/models"
)

// ServerStats computes the server-wide rollups behind the stats command.
// Leaderboards keep every name tied for first place.
func (s *Store) ServerStats(serverID int64) (*models.ServerStats, error) {
	stats := &models.ServerStats{}

	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM Media JOIN User ON User.UserId = Media.CreatedBy WHERE User.ServerId = ?",
		serverID,
	).Scan(&stats.TotalMedia)
	if err != nil {
		return nil, fmt.Errorf("failed to count media: %w", err)
	}

	topScore, topNames, err := s.topScoredMedia(serverID)
	if err != nil {
		return nil, err
	}
	stats.TopScore = topScore
	stats.TopScoreNames = topNames

	if stats.TopUpvoters, err = s.voteLeaders(serverID, 1); err != nil {
		return nil, err
	}
	if stats.TopDownvoters, err = s.voteLeaders(serverID, -1); err != nil {
		return nil, err
	}

	err = s.db.QueryRow(
		"SELECT COUNT(*) FROM MediaRoll JOIN User ON User.UserId = MediaRoll.CreatedBy WHERE User.ServerId = ?",
		serverID,
	).Scan(&stats.TotalRolls)
	if err != nil {
		return nil, fmt.Errorf("failed to count rolls: %w", err)
	}

	if stats.TopRollers, err = s.rollLeaders(serverID); err != nil {
		return nil, err
	}

	return stats, nil
}

// topScoredMedia finds the highest aggregate media score in a server and
// the display names of everyone holding an item at that score.
func (s *Store) topScoredMedia(serverID int64) (int64, []string, error) {
	rows, err := s.db.Query(
		`SELECT COALESCE(SUM(MediaVote.IsUpvote), 0) AS Points, User.DisplayName
		 FROM Media
		 JOIN User ON User.UserId = Media.CreatedBy
		 LEFT JOIN MediaVote ON MediaVote.MediaId = Media.MediaId
		 WHERE User.ServerId = ?
		 GROUP BY Media.MediaId`,
		serverID,
	)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query media scores: %w", err)
	}
	defer rows.Close()

	var (
		top   int64
		names []string
		seen  = map[string]bool{}
		first = true
	)
	for rows.Next() {
		var points int64
		var name string
		if err := rows.Scan(&points, &name); err != nil {
			return 0, nil, fmt.Errorf("failed to scan media score row: %w", err)
		}
		switch {
		case first || points > top:
			top = points
			names = []string{name}
			seen = map[string]bool{name: true}
			first = false
		case points == top && !seen[name]:
			names = append(names, name)
			seen[name] = true
		}
	}
	return top, names, rows.Err()
}

// voteLeaders returns the users who cast the most votes of the given weight,
// including every user tied for first.
func (s *Store) voteLeaders(serverID int64, weight int) ([]models.NameCount, error) {
	rows, err := s.db.Query(
		`SELECT User.DisplayName, COUNT(*) AS Votes
		 FROM MediaVote
		 JOIN User ON User.UserId = MediaVote.CreatedBy
		 WHERE User.ServerId = ? AND MediaVote.IsUpvote = ?
		 GROUP BY MediaVote.CreatedBy
		 ORDER BY Votes DESC`,
		serverID, weight,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote leaders: %w", err)
	}
	defer rows.Close()
	return leadingCounts(rows)
}

// rollLeaders returns the users who started the most rolls, ties included.
func (s *Store) rollLeaders(serverID int64) ([]models.NameCount, error) {
	rows, err := s.db.Query(
		`SELECT User.DisplayName, COUNT(*) AS Rolls
		 FROM MediaRoll
		 JOIN User ON User.UserId = MediaRoll.CreatedBy
		 WHERE User.ServerId = ?
		 GROUP BY MediaRoll.CreatedBy
		 ORDER BY Rolls DESC`,
		serverID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query roll leaders: %w", err)
	}
	defer rows.Close()
	return leadingCounts(rows)
}

// leadingCounts consumes (name, count) rows ordered by count descending and
// keeps only the rows tied with the first one.
func leadingCounts(rows *sql.Rows) ([]models.NameCount, error) {
	var leaders []models.NameCount
	for rows.Next() {
		var nc models.NameCount
		if err := rows.Scan(&nc.DisplayName, &nc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		if len(leaders) > 0 && nc.Count < leaders[0].Count {
			break
		}
		leaders = append(leaders, nc)
	}
	return leaders, rows.Err()
}

// UserScore computes the per-user rollup behind the score command.
func (s *Store) UserScore(user models.User) (*models.UserScore, error) {
	score := &models.UserScore{DisplayName: user.DisplayName}

	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM Media WHERE CreatedBy = ?", user.UserID,
	).Scan(&score.MediaCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count user media: %w", err)
	}

	err = s.db.QueryRow(
		`SELECT COALESCE(SUM(MediaVote.IsUpvote), 0)
		 FROM MediaVote
		 JOIN Media ON Media.MediaId = MediaVote.MediaId
		 WHERE Media.CreatedBy = ?`,
		user.UserID,
	).Scan(&score.TotalScore)
	if err != nil {
		return nil, fmt.Errorf("failed to sum user media score: %w", err)
	}

	err = s.db.QueryRow(
		"SELECT COUNT(*) FROM MediaVote WHERE CreatedBy = ? AND IsUpvote = 1", user.UserID,
	).Scan(&score.UpvotesGiven)
	if err != nil {
		return nil, fmt.Errorf("failed to count upvotes given: %w", err)
	}

	err = s.db.QueryRow(
		"SELECT COUNT(*) FROM MediaVote WHERE CreatedBy = ? AND IsUpvote = -1", user.UserID,
	).Scan(&score.DownvotesGiven)
	if err != nil {
		return nil, fmt.Errorf("failed to count downvotes given: %w", err)
	}

	err = s.db.QueryRow(
		"SELECT COUNT(*) FROM MediaRoll WHERE CreatedBy = ?", user.UserID,
	).Scan(&score.RollsStarted)
	if err != nil {
		return nil, fmt.Errorf("failed to count rolls started: %w", err)
	}

	return score, nil
}
