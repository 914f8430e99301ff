package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"mediabot/bot"
	"mediabot/command"
	"mediabot/intake"
	"mediabot/models"
	"mediabot/roller"
	"mediabot/utils"

	"github.com/bwmarrin/discordgo"
)

// MessageCreate dispatches every incoming guild message: media commands,
// the roll command, or a plain submission in a submit channel. The channel
// config is resolved fresh per event; nothing is cached between handler
// invocations.
func MessageCreate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		// Ignore all messages created by the bot itself
		if m.Author == nil || m.Author.ID == s.State.User.ID {
			return
		}
		if m.GuildID == "" {
			return
		}

		serverID, userID, err := resolveIdentity(b.Store, s, m.GuildID, m.Author, m.Member)
		if err != nil {
			log.Printf("Error resolving identity for user %s: %v", m.Author.ID, err)
			return
		}

		cfg, err := b.Store.ResolveConfig(m.ChannelID)
		if err != nil {
			log.Printf("Error resolving config for channel %s: %v", m.ChannelID, err)
			return
		}

		prefix := models.DefaultPrefix
		rollCommand := models.DefaultRollCommand
		if cfg != nil {
			prefix = cfg.Prefix
			rollCommand = cfg.RollCommand
		}

		args := strings.Fields(m.Content)
		if len(args) > 0 {
			switch args[0] {
			case prefix + "media":
				handleMediaCommand(b, s, m, cfg, serverID, userID, args)
				return
			case prefix + rollCommand:
				handleRoll(b, s, m, cfg, userID, args)
				return
			}
		}

		// Plain message: counts as a submission when this is the submit
		// channel of a completed binding.
		if cfg != nil && m.ChannelID == cfg.MediaChannelID {
			intake.SaveFromMessage(b.Store, cfg, userID, m.ID, m.Content, m.Attachments)
		}
	}
}

// handleMediaCommand routes "{prefix}media <subcommand>" through the static
// command registry.
func handleMediaCommand(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, cfg *models.ChannelConfig, serverID, userID int64, args []string) {
	prefix := models.DefaultPrefix
	if cfg != nil {
		prefix = cfg.Prefix
	}

	if len(args) < 2 {
		s.ChannelMessageSend(m.ChannelID,
			fmt.Sprintf("Usage: %smedia <configure|delete|score|stats>", prefix))
		return
	}

	cmd, ok := command.Registry[args[1]]
	if !ok {
		s.ChannelMessageSend(m.ChannelID,
			fmt.Sprintf("Unknown subcommand %q. Try configure, delete, score or stats.", args[1]))
		return
	}

	ctx := &command.Context{
		Session:  s,
		Message:  m,
		Store:    b.Store,
		Config:   cfg,
		ServerID: serverID,
		UserID:   userID,
		Args:     args[2:],
	}
	if err := cmd.Execute(ctx); err != nil {
		log.Printf("Error executing media %s: %v", args[1], err)
		utils.Error("media", args[1], err.Error())
	}
}

// handleRoll starts a roll sequence. Non-numeric count or interval
// arguments silently fall back to their defaults.
func handleRoll(b *bot.Bot, s *discordgo.Session, m *discordgo.MessageCreate, cfg *models.ChannelConfig, userID int64, args []string) {
	var count, interval int
	if len(args) > 1 {
		if v, err := strconv.Atoi(args[1]); err == nil {
			count = v
		}
	}
	if len(args) > 2 {
		if v, err := strconv.Atoi(args[2]); err == nil {
			interval = v
		}
	}

	count, interval, err := b.Roller.StartRoll(cfg, m.Message, userID, count, interval)
	switch {
	case errors.Is(err, roller.ErrNotConfigured):
		s.ChannelMessageSend(m.ChannelID, "Rolling is not configured in this channel.")
	case errors.Is(err, roller.ErrAlreadyRolling):
		s.ChannelMessageSend(m.ChannelID, "Can't roll twice at once! Wait for the other roll to end.")
	case errors.Is(err, roller.ErrTooLong):
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
			"Rolling %d medias every %d seconds takes too long, sequences are capped at %d seconds.",
			count, interval, roller.MaxSequenceSeconds))
	case err != nil:
		log.Printf("Error starting roll on channel %s: %v", m.ChannelID, err)
		s.ChannelMessageSend(m.ChannelID, "Something went wrong starting the roll.")
	default:
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
			"Rolling %d medias with an interval of %d seconds", count, interval))
	}
}
