package utils

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// CanManageChannels reports whether the message author holds the Manage
// Channels permission in the channel the message was sent to. Configuration
// commands require it.
func CanManageChannels(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		log.Printf("Failed to resolve permissions for user %s in channel %s: %v",
			m.Author.ID, m.ChannelID, err)
		return false
	}
	return perms&(discordgo.PermissionManageChannels|discordgo.PermissionAdministrator) != 0
}
