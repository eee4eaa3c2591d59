package main

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
)

// targetChannelID returns the channel argument of a ticket channel
// subcommand, falling back to the invoking channel.
func targetChannelID(i *discordgo.InteractionCreate) string {
	if opt, ok := subcommandOptions(i)["channel"]; ok {
		return opt.ChannelValue(nil).ID
	}
	return i.ChannelID
}

func channelOpenProcessor(a IApp, i *discordgo.InteractionCreate) error {
	channelID := targetChannelID(i)

	if err := a.Engine().Open(context.Background(), i.GuildID, channelID, actorFromInteraction(i)); err != nil {
		return fmt.Errorf("error opening ticket: %w", err)
	}

	return respondSlash(a, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Ticket <#%s> has been reopened by <@%s>.", channelID, i.Member.User.ID),
	})
}

func channelCloseProcessor(a IApp, i *discordgo.InteractionCreate) error {
	channelID := targetChannelID(i)

	if err := a.Engine().Close(context.Background(), i.GuildID, channelID, actorFromInteraction(i)); err != nil {
		return fmt.Errorf("error closing ticket: %w", err)
	}

	return respondSlash(a, i, &discordgo.InteractionResponseData{
		Content:    fmt.Sprintf("Ticket <#%s> has been closed by <@%s>.", channelID, i.Member.User.ID),
		Components: closedTicketComponents(),
	})
}

func channelDeleteProcessor(a IApp, i *discordgo.InteractionCreate) error {
	channelID := targetChannelID(i)

	if err := a.Engine().Delete(context.Background(), i.GuildID, channelID, actorFromInteraction(i)); err != nil {
		return fmt.Errorf("error deleting ticket: %w", err)
	}

	return respondSlashEphemeral(a, i, "Deleting the ticket in a few seconds.")
}

func channelRenameProcessor(a IApp, i *discordgo.InteractionCreate) error {
	channelID := targetChannelID(i)
	name := subcommandOptions(i)["name"].StringValue()

	if err := a.Engine().Rename(context.Background(), i.GuildID, channelID, name, actorFromInteraction(i)); err != nil {
		return fmt.Errorf("error renaming ticket: %w", err)
	}

	return respondSlashEphemeral(a, i, fmt.Sprintf("Ticket renamed to **%s**.", name))
}
