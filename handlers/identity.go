package handlers

import (
	"mediabot/database"

	"github.com/bwmarrin/discordgo"
)

// resolveIdentity ensures server and user rows exist for an event actor and
// returns their internal ids. Display names are refreshed as a side effect.
func resolveIdentity(store *database.Store, s *discordgo.Session, guildID string, user *discordgo.User, member *discordgo.Member) (int64, int64, error) {
	guildName := ""
	if guild, err := s.State.Guild(guildID); err == nil {
		guildName = guild.Name
	} else if guild, err := s.Guild(guildID); err == nil {
		guildName = guild.Name
	}

	serverID, err := store.EnsureServer(guildID, guildName)
	if err != nil {
		return 0, 0, err
	}

	displayName := user.Username
	if member != nil && member.Nick != "" {
		displayName = member.Nick
	}

	userID, err := store.EnsureUser(serverID, user.ID, user.Username, displayName)
	if err != nil {
		return 0, 0, err
	}
	return serverID, userID, nil
}
