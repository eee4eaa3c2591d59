package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
)

func panelSetupProcessor(a IApp, i *discordgo.InteractionCreate) error {
	opts := subcommandOptions(i)

	panel := &entities.Panel{
		PanelName:  opts["name"].StringValue(),
		ChannelID:  opts["channel"].ChannelValue(nil).ID,
		CategoryID: opts["category"].ChannelValue(nil).ID,
	}
	if opt, ok := opts["logs"]; ok {
		panel.LogsChannelID = opt.ChannelValue(nil).ID
	}
	if opt, ok := opts["transcripts"]; ok {
		panel.TranscriptChannelID = opt.ChannelValue(nil).ID
	}
	if opt, ok := opts["support"]; ok {
		panel.SupportRoleID = opt.RoleValue(nil, "").ID
	}
	if opt, ok := opts["staff"]; ok {
		panel.StaffRoleID = opt.RoleValue(nil, "").ID
	}

	created, err := a.Panels().CreatePanel(context.Background(), i.GuildID, panel)
	if err != nil {
		return fmt.Errorf("error creating panel: %w", err)
	}

	// Post the entry message that members press to open tickets.
	if err := sendPanelMessage(a, created); err != nil {
		a.Log().Error("Error sending panel message", slog.String(logging.KeyError, err.Error()))
		return respondSlashEphemeral(a, i,
			fmt.Sprintf("Panel **%s** was created, but the panel message could not be posted in <#%s>.", created.PanelName, created.ChannelID))
	}

	return respondSlashEphemeral(a, i, fmt.Sprintf("Panel **%s** created in <#%s>.", created.PanelName, created.ChannelID))
}

// sendPanelMessage posts the panel entry message, with its open-ticket
// button, into the panel's configured channel.
func sendPanelMessage(a IApp, panel *entities.Panel) error {
	// The ticket emoji is the emoji that will be used for the button. (Envelope with arrow)
	const ticketEmoji = "\U0001F4E9"

	button := discordgo.Button{
		Label:    fmt.Sprintf("%s Open Ticket", ticketEmoji),
		Style:    discordgo.PrimaryButton,
		CustomID: TicketSetupButtonPrefix + panel.PanelID,
	}

	message := discordgo.MessageSend{
		Embed: &discordgo.MessageEmbed{
			Title:       panel.PanelName,
			Description: "Press the button below to open a ticket.",
			Color:       embedColourBlue,
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					button,
				},
			},
		},
	}

	if _, err := a.Session().ChannelMessageSendComplex(panel.ChannelID, &message); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

func panelEnableProcessor(a IApp, i *discordgo.InteractionCreate) error {
	return setPanelEnabled(a, i, true)
}

func panelDisableProcessor(a IApp, i *discordgo.InteractionCreate) error {
	return setPanelEnabled(a, i, false)
}

func setPanelEnabled(a IApp, i *discordgo.InteractionCreate, enabled bool) error {
	name := subcommandOptions(i)["name"].StringValue()

	panel, err := a.Panels().SetPanelEnabled(context.Background(), i.GuildID, name, enabled)
	if err != nil {
		stateErr := new(ticketing.AlreadyInStateError)
		if errors.As(err, &stateErr) {
			return respondSlashEphemeral(a, i, fmt.Sprintf("Panel **%s** is already %s.", name, stateErr.State))
		}
		if errors.Is(err, ticketing.ErrPanelNotFound) {
			return respondSlashEphemeral(a, i, messages.ErrPanelNotFound)
		}
		return fmt.Errorf("error updating panel: %w", err)
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	return respondSlashEphemeral(a, i, fmt.Sprintf("Panel **%s** has been %s.", panel.PanelName, state))
}

func panelResetProcessor(a IApp, i *discordgo.InteractionCreate) error {
	target := subcommandOptions(i)["panel"].StringValue()

	if err := a.Panels().RemovePanel(context.Background(), i.GuildID, target); err != nil {
		if errors.Is(err, ticketing.ErrPanelNotFound) {
			return respondSlashEphemeral(a, i, messages.ErrPanelNotFound)
		}
		return fmt.Errorf("error removing panel: %w", err)
	}

	if strings.EqualFold(target, ticketing.RemoveAll) {
		return respondSlashEphemeral(a, i, "Successfully cleared all ticket panels.")
	}
	return respondSlashEphemeral(a, i, fmt.Sprintf("Successfully reset the panel **%s**.", target))
}

func panelListProcessor(a IApp, i *discordgo.InteractionCreate) error {
	panels, err := a.Panels().ListPanels(context.Background(), i.GuildID)
	if err != nil {
		return fmt.Errorf("error listing panels: %w", err)
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(panels))
	for _, panel := range panels {
		state := "Disabled"
		if panel.Enabled {
			state = "Enabled"
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: panel.PanelName,
			Value: fmt.Sprintf("ID: `%s`\nState: %s\nChannel: <#%s>\nOpen tickets: %d",
				panel.PanelID, state, panel.ChannelID, len(panel.Channels)),
		})
	}

	return respondSlash(a, i, &discordgo.InteractionResponseData{
		Flags: discordgo.MessageFlagsEphemeral,
		Embeds: []*discordgo.MessageEmbed{
			{
				Title:  "Ticket Panels",
				Color:  embedColourBlue,
				Fields: fields,
			},
		},
	})
}
