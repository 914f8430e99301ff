// Package scanner backfills media from a submit channel's recent history.
package scanner

import (
	"fmt"
	"log"

	"mediabot/database"
	"mediabot/intake"
	"mediabot/models"

	"github.com/bwmarrin/discordgo"
)

// backfillLimit bounds how far back a backfill reaches. One page of channel
// history keeps the one-time import cheap.
const backfillLimit = 100

// BackfillSubmitChannel imports the most recent messages of a config's
// submit channel as media submissions, offered once right after a binding
// completes. Returns how many media rows were saved.
func BackfillSubmitChannel(s *discordgo.Session, store *database.Store, cfg *models.ChannelConfig, serverID int64) (int, error) {
	log.Printf("Backfilling submit channel %s for config %d", cfg.MediaChannelID, cfg.ChannelConfigID)

	messages, err := s.ChannelMessages(cfg.MediaChannelID, backfillLimit, "", "", "")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch submit channel history: %w", err)
	}

	saved := 0
	for _, m := range messages {
		if m.Author == nil || m.Author.Bot {
			continue
		}
		userID, err := store.EnsureUser(serverID, m.Author.ID, m.Author.Username, m.Author.Username)
		if err != nil {
			log.Printf("Error resolving user %s during backfill: %v", m.Author.ID, err)
			continue
		}
		saved += intake.SaveFromMessage(store, cfg, userID, m.ID, m.Content, m.Attachments)
	}

	log.Printf("Backfill finished for config %d, saved %d media", cfg.ChannelConfigID, saved)
	return saved, nil
}
