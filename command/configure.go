package command

import (
	"fmt"
	"log"
	"strings"

	"mediabot/scanner"
	"mediabot/utils"
)

// ConfigureCommand creates, completes or updates a channel binding.
type ConfigureCommand struct{}

func (c *ConfigureCommand) Name() string { return "configure" }

func (c *ConfigureCommand) Execute(ctx *Context) error {
	if !utils.CanManageChannels(ctx.Session, ctx.Message) {
		ctx.Reply("You are not authorized to configure the media channels. You must have a role that has the 'Manage Channels' permission.")
		return nil
	}

	if ctx.Config != nil {
		return c.updateExisting(ctx)
	}
	return c.beginOrComplete(ctx)
}

// updateExisting applies flag overrides to the channel's resolved config.
func (c *ConfigureCommand) updateExisting(ctx *Context) error {
	updated := *ctx.Config
	if bad := ParseSettings(&updated, ctx.Args); len(bad) > 0 {
		ctx.Reply(fmt.Sprintf("Argument error! Occurred at: %s", strings.Join(bad, ", ")))
		return nil
	}

	if err := ctx.Store.UpdateSettings(&updated); err != nil {
		ctx.Reply("Something went wrong saving the channel config.")
		return err
	}

	log.Printf("User %d updated channel config. ConfigId: %d", ctx.UserID, updated.ChannelConfigID)
	ctx.Reply("Updated channel config!")
	return nil
}

// beginOrComplete either starts a new binding with the current channel as
// the submit side, or completes the actor's half-bound config with the
// current channel as the roll side.
func (c *ConfigureCommand) beginOrComplete(ctx *Context) error {
	half, err := ctx.Store.FindHalfBoundConfig(ctx.UserID)
	if err != nil {
		ctx.Reply("Something went wrong looking up your channel config.")
		return err
	}

	if half == nil {
		cfg := DefaultSettings()
		if bad := ParseSettings(&cfg, ctx.Args); len(bad) > 0 {
			ctx.Reply(fmt.Sprintf("Argument error! Occurred at: %s", strings.Join(bad, ", ")))
			return nil
		}
		cfg.MediaChannelID = ctx.Message.ChannelID
		cfg.CreatedBy = ctx.UserID

		if _, err := ctx.Store.CreateConfig(&cfg); err != nil {
			ctx.Reply("Something went wrong saving the channel config.")
			return err
		}

		log.Printf("Created initial channel config. Waiting for next message from %d", ctx.UserID)
		utils.Info("config", "create",
			fmt.Sprintf("channel %s set as submit channel by user %d", ctx.Message.ChannelID, ctx.UserID))
		ctx.Reply("Channel set as the media submit channel!\n\nPlease run the same command in the channel you want to roll media.")
		return nil
	}

	if err := ctx.Store.CompleteConfig(half.ChannelConfigID, ctx.Message.ChannelID); err != nil {
		ctx.Reply("Something went wrong completing the channel config.")
		return err
	}
	log.Printf("Updated channel config. ChannelConfig completed!")
	utils.Info("config", "complete",
		fmt.Sprintf("channel %s bound as roll channel of config %d", ctx.Message.ChannelID, half.ChannelConfigID))
	ctx.Reply(fmt.Sprintf("Channel config completed! This channel will now accept the %s%s command",
		half.Prefix, half.RollCommand))

	c.offerBackfill(ctx, half.ChannelConfigID)
	return nil
}

// offerBackfill gives the creator a one-time chance to import the submit
// channel's recent history.
func (c *ConfigureCommand) offerBackfill(ctx *Context, configID int64) {
	prompt := fmt.Sprintf("React with %s within 10 seconds to import the last 100 messages of the submit channel.", confirmEmoji)
	if !awaitConfirmation(ctx.Session, ctx.Message.ChannelID, ctx.Message.Author.ID, prompt) {
		return
	}

	cfg, err := ctx.Store.GetConfig(configID)
	if err != nil || cfg == nil {
		log.Printf("Error reloading config %d for backfill: %v", configID, err)
		return
	}

	saved, err := scanner.BackfillSubmitChannel(ctx.Session, ctx.Store, cfg, ctx.ServerID)
	if err != nil {
		log.Printf("Error backfilling config %d: %v", configID, err)
		ctx.Reply("Backfill failed, see the logs for details.")
		return
	}
	ctx.Reply(fmt.Sprintf("Imported %d media from the submit channel.", saved))
}

// DeleteCommand removes a channel binding after an explicit confirmation.
type DeleteCommand struct{}

func (c *DeleteCommand) Name() string { return "delete" }

func (c *DeleteCommand) Execute(ctx *Context) error {
	if !utils.CanManageChannels(ctx.Session, ctx.Message) {
		ctx.Reply("You are not authorized to delete the media channel config. You must have a role that has the 'Manage Channels' permission.")
		return nil
	}
	if ctx.Config == nil {
		ctx.Reply("There is no channel config to delete here.")
		return nil
	}

	prompt := fmt.Sprintf("This removes the media channel binding (submitted media and votes are kept). React with %s within 10 seconds to confirm.", confirmEmoji)
	if !awaitConfirmation(ctx.Session, ctx.Message.ChannelID, ctx.Message.Author.ID, prompt) {
		ctx.Reply("Timed out waiting for confirmation, the channel config was not deleted.")
		return nil
	}

	if err := ctx.Store.DeleteConfig(ctx.Config.ChannelConfigID); err != nil {
		ctx.Reply("Something went wrong deleting the channel config.")
		return err
	}

	log.Printf("User %d deleted channel config %d", ctx.UserID, ctx.Config.ChannelConfigID)
	utils.Info("config", "delete",
		fmt.Sprintf("config %d deleted by user %d", ctx.Config.ChannelConfigID, ctx.UserID))
	ctx.Reply("Channel config deleted.")
	return nil
}
