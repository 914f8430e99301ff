package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Import the SQLite3 driver
)

// Store wraps the SQLite connection and provides all persistence
// operations for the bot.
type Store struct {
	db *sql.DB
}

// New opens (creating if necessary) the SQLite database at dbPath and
// ensures the schema exists.
func New(dbPath string) (*Store, error) {
	// Ensure the directory for the database file exists.
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Ping the database to verify the connection.
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	log.Println("Successfully connected to the database at", dbPath)
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// initTables creates all tables if they don't already exist.
func (s *Store) initTables() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS Server (
			ServerId INTEGER PRIMARY KEY AUTOINCREMENT,
			DiscordId TEXT NOT NULL,
			Name TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS User (
			UserId INTEGER PRIMARY KEY AUTOINCREMENT,
			DiscordId TEXT NOT NULL,
			UserName TEXT,
			DisplayName TEXT,
			ServerId INTEGER NOT NULL,
			FOREIGN KEY (ServerId) REFERENCES Server(ServerId)
		);`,
		`CREATE TABLE IF NOT EXISTS ChannelConfig (
			ChannelConfigId INTEGER PRIMARY KEY AUTOINCREMENT,
			Prefix TEXT NOT NULL,
			MediaChannelId TEXT NOT NULL,
			RollChannelId TEXT,
			BufferPercentage REAL NOT NULL,
			MaximumPoints INTEGER NOT NULL,
			MinimumPoints INTEGER NOT NULL,
			UpvoteEmoji TEXT NOT NULL,
			DownvoteEmoji TEXT NOT NULL,
			RollCommand TEXT NOT NULL,
			CurrentlyRolling INTEGER NOT NULL DEFAULT 0,
			CreatedBy INTEGER NOT NULL,
			DateCreated INTEGER NOT NULL,
			DateUpdated INTEGER NOT NULL,
			FOREIGN KEY (CreatedBy) REFERENCES User(UserId),
			UNIQUE (MediaChannelId, RollChannelId)
		);`,
		`CREATE TABLE IF NOT EXISTS Media (
			MediaId INTEGER PRIMARY KEY AUTOINCREMENT,
			ConfigId INTEGER NOT NULL,
			Url TEXT NOT NULL,
			MessageId TEXT NOT NULL,
			CreatedBy INTEGER NOT NULL,
			ErrorCount INTEGER NOT NULL DEFAULT 0,
			DateCreated INTEGER NOT NULL,
			FOREIGN KEY (ConfigId) REFERENCES ChannelConfig(ChannelConfigId),
			FOREIGN KEY (CreatedBy) REFERENCES User(UserId)
		);`,
		`CREATE TABLE IF NOT EXISTS MediaRoll (
			MediaRollId INTEGER PRIMARY KEY AUTOINCREMENT,
			MediaId INTEGER NOT NULL,
			MessageId TEXT NOT NULL UNIQUE,
			CreatedBy INTEGER NOT NULL,
			DateCreated INTEGER NOT NULL,
			FOREIGN KEY (MediaId) REFERENCES Media(MediaId),
			FOREIGN KEY (CreatedBy) REFERENCES User(UserId)
		);`,
		`CREATE TABLE IF NOT EXISTS MediaVote (
			MediaVoteId INTEGER PRIMARY KEY AUTOINCREMENT,
			MediaId INTEGER NOT NULL,
			MessageId TEXT NOT NULL,
			IsUpvote INTEGER NOT NULL,
			CreatedBy INTEGER NOT NULL,
			DateCreated INTEGER NOT NULL,
			FOREIGN KEY (MediaId) REFERENCES Media(MediaId),
			FOREIGN KEY (MessageId) REFERENCES MediaRoll(MessageId),
			FOREIGN KEY (CreatedBy) REFERENCES User(UserId)
		);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	// Indexes for the hot lookup paths.
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_media_config ON Media(ConfigId);",
		"CREATE INDEX IF NOT EXISTS idx_mediaroll_message ON MediaRoll(MessageId);",
		"CREATE INDEX IF NOT EXISTS idx_mediavote_media ON MediaVote(MediaId);",
		"CREATE INDEX IF NOT EXISTS idx_mediavote_message ON MediaVote(MessageId);",
	}
	for _, indexQuery := range indexes {
		if _, err := s.db.Exec(indexQuery); err != nil {
			log.Printf("Warning: failed to create index: %v", err)
		}
	}

	return nil
}
