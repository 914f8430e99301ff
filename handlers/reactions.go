package handlers

import (
	"log"

	"mediabot/bot"
	"mediabot/utils"

	"github.com/bwmarrin/discordgo"
)

// ReactionAdd records a vote when the added emoji matches a config's vote
// emoji. The emoji match is the only guard; any other reaction is ignored.
func ReactionAdd(b *bot.Bot) func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	return func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		handleReaction(b, s, r.MessageReaction, r.Member, true)
	}
}

// ReactionRemove retracts the most recent matching vote.
func ReactionRemove(b *bot.Bot) func(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
	return func(s *discordgo.Session, r *discordgo.MessageReactionRemove) {
		handleReaction(b, s, r.MessageReaction, nil, false)
	}
}

func handleReaction(b *bot.Bot, s *discordgo.Session, r *discordgo.MessageReaction, member *discordgo.Member, added bool) {
	if r.GuildID == "" {
		return
	}

	cfg, err := b.Store.ResolveConfig(r.ChannelID)
	if err != nil {
		log.Printf("Error resolving config for channel %s: %v", r.ChannelID, err)
		return
	}
	if cfg == nil {
		return
	}

	var weight int
	switch {
	case utils.EmojiMatches(cfg.UpvoteEmoji, &r.Emoji):
		weight = 1
	case utils.EmojiMatches(cfg.DownvoteEmoji, &r.Emoji):
		weight = -1
	default:
		return
	}

	// Reaction remove events carry no member payload; fetch the reactor.
	if member == nil || member.User == nil {
		member, err = s.GuildMember(r.GuildID, r.UserID)
		if err != nil {
			log.Printf("Error fetching member %s: %v", r.UserID, err)
			return
		}
	}

	_, userID, err := resolveIdentity(b.Store, s, r.GuildID, member.User, member)
	if err != nil {
		log.Printf("Error resolving identity for reactor %s: %v", r.UserID, err)
		return
	}

	if added {
		addVote(b, cfg.MaximumPoints, r.MessageID, weight, userID)
	} else {
		removeVote(b, r.MessageID, weight, userID)
	}
}

// addVote inserts a vote unless the media already sits at the score cap.
// The cap check reads the score just before inserting; a burst of
// simultaneous votes can overshoot the cap slightly, which is accepted.
func addVote(b *bot.Bot, maximumPoints int, messageID string, weight int, userID int64) {
	mediaID, err := b.Store.MediaIDForRollMessage(messageID)
	if err != nil {
		log.Printf("Error looking up roll for message %s: %v", messageID, err)
		return
	}
	if mediaID == 0 {
		log.Printf("Warning: vote reaction on untracked message %s", messageID)
		return
	}

	score, err := b.Store.MediaScore(mediaID)
	if err != nil {
		log.Printf("Error computing score for media %d: %v", mediaID, err)
		return
	}
	if score >= int64(maximumPoints) {
		log.Printf("Media %d reached maximum points, vote not recorded", mediaID)
		return
	}

	if err := b.Store.InsertVote(mediaID, messageID, weight, userID); err != nil {
		log.Printf("Error recording vote on media %d: %v", mediaID, err)
	}
}

func removeVote(b *bot.Bot, messageID string, weight int, userID int64) {
	deleted, err := b.Store.DeleteLatestVote(messageID, weight, userID)
	if err != nil {
		log.Printf("Error removing vote on message %s: %v", messageID, err)
		return
	}
	if !deleted {
		// No matching vote, e.g. a reaction the cap rejected earlier.
		log.Printf("No vote to remove on message %s for user %d", messageID, userID)
	}
}
