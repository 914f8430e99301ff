package command

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/enescakir/emoji"
)

// confirmWindow is how long confirmation prompts wait for a reaction.
const confirmWindow = 10 * time.Second

var confirmEmoji = emoji.CheckMarkButton.String()

// awaitConfirmation sends a prompt, attaches the confirmation emoji as an
// affordance and waits for the user to react with it. Returns false when
// the window elapses without a matching reaction.
func awaitConfirmation(s *discordgo.Session, channelID, userID, prompt string) bool {
	msg, err := s.ChannelMessageSend(channelID, prompt)
	if err != nil {
		log.Printf("Error sending confirmation prompt: %v", err)
		return false
	}
	if err := s.MessageReactionAdd(channelID, msg.ID, confirmEmoji); err != nil {
		log.Printf("Error adding confirmation reaction: %v", err)
	}

	confirmed := make(chan struct{}, 1)
	remove := s.AddHandler(func(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
		if r.MessageID == msg.ID && r.UserID == userID && r.Emoji.Name == confirmEmoji {
			select {
			case confirmed <- struct{}{}:
			default:
			}
		}
	})
	defer remove()

	select {
	case <-confirmed:
		return true
	case <-time.After(confirmWindow):
		return false
	}
}
