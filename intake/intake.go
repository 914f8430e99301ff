// Package intake persists media submissions from the submit channel.
package intake

import (
	"log"
	"strings"

	"mediabot/database"
	"mediabot/models"

	"github.com/bwmarrin/discordgo"
)

// SaveFromMessage stores the media carried by one submit-channel message:
// one row per attachment, plus the whole text content as one more row when
// it contains a link-like substring. The "http" check is intentionally
// coarse; anything resembling a link is worth keeping.
// Returns how many rows were saved.
func SaveFromMessage(store *database.Store, cfg *models.ChannelConfig, userID int64, messageID, content string, attachments []*discordgo.MessageAttachment) int {
	saved := 0

	for _, a := range attachments {
		if err := store.InsertMedia(cfg.ChannelConfigID, a.URL, messageID, userID); err != nil {
			log.Printf("Error saving attachment media: %v", err)
			continue
		}
		saved++
	}

	if strings.Contains(content, "http") {
		if err := store.InsertMedia(cfg.ChannelConfigID, content, messageID, userID); err != nil {
			log.Printf("Error saving link media: %v", err)
		} else {
			saved++
		}
	}

	return saved
}
