package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
)

const (
	// TicketSetupButtonPrefix prefixes the panel entry buttons. The panel ID
	// follows the prefix in the custom ID.
	TicketSetupButtonPrefix = "ticket_setup_"

	// CloseTicketButtonID is the custom ID of the close button.
	CloseTicketButtonID = "close"

	// OpenTicketButtonID is the custom ID of the reopen button.
	OpenTicketButtonID = "Open"

	// DeleteTicketButtonID is the custom ID of the delete button.
	DeleteTicketButtonID = "delete"

	// TranscriptButtonID is the custom ID of the transcript button.
	TranscriptButtonID = "transcript"
)

// closedTicketComponents is the row of controls offered once a ticket has
// been closed.
func closedTicketComponents() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "\U0001F513 Reopen",
					Style:    discordgo.PrimaryButton,
					CustomID: OpenTicketButtonID,
				},
				discordgo.Button{
					Label:    "\U0001F4DC Transcript",
					Style:    discordgo.SecondaryButton,
					CustomID: TranscriptButtonID,
				},
				discordgo.Button{
					Label:    "⛔ Delete",
					Style:    discordgo.DangerButton,
					CustomID: DeleteTicketButtonID,
				},
			},
		},
	}
}

// createTicketHandler handles a press on a panel entry button.
func createTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	panelID := strings.TrimPrefix(i.MessageComponentData().CustomID, TicketSetupButtonPrefix)

	channelID, err := a.Engine().CreateTicket(context.Background(), i.GuildID, actorFromInteraction(i), panelID)
	if err != nil {
		// A stale entry button can outlive its panel.
		if errors.Is(err, ticketing.ErrPanelNotFound) {
			return respondSlashEphemeral(a, i, messages.ErrPanelNotFound)
		}
		return fmt.Errorf("error creating ticket: %w", err)
	}

	return respondSlashEphemeral(a, i, fmt.Sprintf("Your ticket has been created: <#%s>", channelID))
}

func closeTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := a.Engine().Close(context.Background(), i.GuildID, i.ChannelID, actorFromInteraction(i)); err != nil {
		return fmt.Errorf("error closing ticket: %w", err)
	}

	return respondSlash(a, i, &discordgo.InteractionResponseData{
		Content:    fmt.Sprintf("Ticket closed by <@%s>.", i.Member.User.ID),
		Components: closedTicketComponents(),
	})
}

func openTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := a.Engine().Open(context.Background(), i.GuildID, i.ChannelID, actorFromInteraction(i)); err != nil {
		return fmt.Errorf("error reopening ticket: %w", err)
	}

	return respondSlash(a, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Ticket reopened by <@%s>.", i.Member.User.ID),
	})
}

func deleteTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := a.Engine().Delete(context.Background(), i.GuildID, i.ChannelID, actorFromInteraction(i)); err != nil {
		return fmt.Errorf("error deleting ticket: %w", err)
	}

	return respondSlashEphemeral(a, i, "Deleting this ticket in a few seconds.")
}

// transcriptHandler generates and posts a transcript. Fetching the channel
// history can exceed the interaction response window, so the response is
// deferred and edited once the transcript has been posted.
func transcriptHandler(a IApp, i *discordgo.InteractionCreate) error {
	if err := a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		return fmt.Errorf("error deferring interaction: %w", err)
	}

	content := "The transcript has been saved to the transcript channel."
	if err := a.Engine().Transcript(context.Background(), i.GuildID, i.ChannelID, actorFromInteraction(i)); err != nil {
		a.Log().Error("Error generating transcript", slog.String(logging.KeyError, err.Error()))
		content = userErrorMessage(err)
	}

	if _, err := a.Session().InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		return fmt.Errorf("error editing interaction response: %w", err)
	}
	return nil
}
