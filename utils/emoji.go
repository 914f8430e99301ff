package utils

import (
	"regexp"

	"github.com/bwmarrin/discordgo"
)

// customEmojiPattern matches the <:name:id> and <a:name:id> forms a user
// pastes when configuring a custom emoji.
var customEmojiPattern = regexp.MustCompile(`^<(a?):([A-Za-z0-9_~]+):([0-9]+)>$`)

// ParseCustomEmoji splits a configured custom emoji into its name and id.
// ok is false for unicode emoji and bare names.
func ParseCustomEmoji(configured string) (name, id string, ok bool) {
	parts := customEmojiPattern.FindStringSubmatch(configured)
	if parts == nil {
		return "", "", false
	}
	return parts[2], parts[3], true
}

// ReactionAPIName returns the identifier MessageReactionAdd expects for a
// configured emoji: "name:id" for custom emoji, with bare names resolved
// against the guild's emoji list, and the raw string for everything else.
func ReactionAPIName(s *discordgo.Session, guildID, configured string) string {
	if name, id, ok := ParseCustomEmoji(configured); ok {
		return name + ":" + id
	}

	if guild, err := s.State.Guild(guildID); err == nil {
		for _, em := range guild.Emojis {
			if em.Name == configured {
				return em.APIName()
			}
		}
	}
	// No matching custom emoji; fall back to the raw configured value.
	return configured
}

// EmojiMatches reports whether a reaction event's emoji is the configured
// vote emoji.
func EmojiMatches(configured string, reacted *discordgo.Emoji) bool {
	if reacted == nil {
		return false
	}
	if name, id, ok := ParseCustomEmoji(configured); ok {
		if reacted.ID != "" {
			return reacted.ID == id
		}
		return reacted.Name == name
	}
	return reacted.Name == configured || reacted.APIName() == configured
}
