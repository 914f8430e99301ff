package database

import (
	"database/sql"
	"fmt"
	"log"

	"mediabot/models"
)

// EnsureServer finds the internal id for a Discord guild, creating the row
// on first sight. The stored name is refreshed when it has changed.
func (s *Store) EnsureServer(discordID, name string) (int64, error) {
	var server models.Server
	err := s.db.QueryRow(
		"SELECT ServerId, DiscordId, Name FROM Server WHERE DiscordId = ?", discordID,
	).Scan(&server.ServerID, &server.DiscordID, &server.Name)

	if err == sql.ErrNoRows {
		res, err := s.db.Exec("INSERT INTO Server (DiscordId, Name) VALUES (?, ?)", discordID, name)
		if err != nil {
			return 0, fmt.Errorf("failed to insert server %s: %w", discordID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read new server id: %w", err)
		}
		log.Printf("Inserted new server: %s", name)
		return id, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query server %s: %w", discordID, err)
	}

	if name != "" && name != server.Name {
		if _, err := s.db.Exec("UPDATE Server SET Name = ? WHERE ServerId = ?", name, server.ServerID); err != nil {
			log.Printf("Warning: failed to refresh server name for %s: %v", discordID, err)
		}
	}
	return server.ServerID, nil
}

// EnsureUser finds the internal id for a Discord user within a server,
// creating the row on first sight and keeping the stored names in sync.
func (s *Store) EnsureUser(serverID int64, discordID, userName, displayName string) (int64, error) {
	var user models.User
	err := s.db.QueryRow(
		"SELECT UserId, UserName, DisplayName FROM User WHERE DiscordId = ? AND ServerId = ?",
		discordID, serverID,
	).Scan(&user.UserID, &user.UserName, &user.DisplayName)

	if err == sql.ErrNoRows {
		res, err := s.db.Exec(
			"INSERT INTO User (DiscordId, UserName, DisplayName, ServerId) VALUES (?, ?, ?, ?)",
			discordID, userName, displayName, serverID,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert user %s: %w", discordID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read new user id: %w", err)
		}
		log.Printf("Inserted new user: %s", userName)
		return id, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query user %s: %w", discordID, err)
	}

	if user.UserName != userName || user.DisplayName != displayName {
		if _, err := s.db.Exec(
			"UPDATE User SET UserName = ?, DisplayName = ? WHERE UserId = ?",
			userName, displayName, user.UserID,
		); err != nil {
			log.Printf("Warning: failed to refresh names for user %s: %v", discordID, err)
		}
	}
	return user.UserID, nil
}

// FindUsersByName returns the users in a server whose UserName contains the
// query. When no username matches, DisplayName is searched instead. The
// score command requires exactly one result; the caller decides what to do
// with zero or many.
func (s *Store) FindUsersByName(serverID int64, query string) ([]models.User, error) {
	users, err := s.searchUsers(serverID, "UserName", query)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 {
		return users, nil
	}
	return s.searchUsers(serverID, "DisplayName", query)
}

func (s *Store) searchUsers(serverID int64, column, query string) ([]models.User, error) {
	rows, err := s.db.Query(
		"SELECT UserId, DiscordId, UserName, DisplayName, ServerId FROM User "+
			"WHERE ServerId = ? AND instr("+column+", ?) > 0 ORDER BY UserId",
		serverID, query,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search users by %s: %w", column, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UserID, &u.DiscordID, &u.UserName, &u.DisplayName, &u.ServerID); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
