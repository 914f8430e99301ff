package command

import (
	"log"

	"mediabot/database"
	"mediabot/models"

	"github.com/bwmarrin/discordgo"
)

// Context carries everything a media subcommand needs: the session, the
// invoking message, the resolved channel config (nil when the channel is
// not bound) and the internal identity of the actor.
type Context struct {
	Session  *discordgo.Session
	Message  *discordgo.MessageCreate
	Store    *database.Store
	Config   *models.ChannelConfig
	ServerID int64
	UserID   int64
	Args     []string // tokens after the subcommand keyword
}

// Reply answers the invoking message.
func (ctx *Context) Reply(content string) {
	_, err := ctx.Session.ChannelMessageSendReply(
		ctx.Message.ChannelID, content, ctx.Message.Reference(),
	)
	if err != nil {
		log.Printf("Error replying in channel %s: %v", ctx.Message.ChannelID, err)
	}
}

// MessageCommand is one subcommand of the prefixed media command.
type MessageCommand interface {
	Name() string
	Execute(ctx *Context) error
}

// Registry maps subcommand keywords under "{prefix}media" to their
// implementations. The mapping is fixed at compile time.
var Registry = buildRegistry()

func buildRegistry() map[string]MessageCommand {
	commands := []MessageCommand{
		&ConfigureCommand{},
		&DeleteCommand{},
		&StatsCommand{},
		&ScoreCommand{},
	}
	registry := make(map[string]MessageCommand, len(commands))
	for _, cmd := range commands {
		registry[cmd.Name()] = cmd
	}
	return registry
}
