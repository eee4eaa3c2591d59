package main

import (
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
)

func respondSlashError(a IApp, i *discordgo.InteractionCreate) error {
	return respondSlashEphemeral(a, i, messages.ErrUserErrorProcessing)
}

func respondSlashEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respondSlash(a IApp, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// userErrorMessage maps an error from the ticketing engine to the text shown
// to the member who triggered it.
func userErrorMessage(err error) string {
	cooldownErr := new(ticketing.CooldownError)
	if errors.As(err, &cooldownErr) {
		return fmt.Sprintf("Please wait %d seconds before doing that again.", cooldownErr.Remaining)
	}

	stateErr := new(ticketing.AlreadyInStateError)
	if errors.As(err, &stateErr) {
		return fmt.Sprintf("This ticket is already %s.", stateErr.State)
	}

	switch {
	case errors.Is(err, ticketing.ErrNotConfigured):
		return messages.ErrNotConfigured
	case errors.Is(err, ticketing.ErrPanelNotFound):
		// The lifecycle operations address the engine by channel, so a
		// missing panel means the channel is not a ticket channel. Handlers
		// that look panels up by name reply before the error reaches here.
		return messages.ErrChannelNotTicket
	case errors.Is(err, ticketing.ErrPanelDisabled):
		return messages.ErrPanelDisabled
	case errors.Is(err, ticketing.ErrDuplicateOpenTicket):
		return messages.ErrDuplicateOpenTicket
	case errors.Is(err, ticketing.ErrLimitExceeded):
		return messages.ErrPanelLimit
	case errors.Is(err, ticketing.ErrDuplicateName):
		return messages.ErrPanelNameTaken
	case errors.Is(err, ticketing.ErrInvalidName):
		return messages.ErrPanelNameInvalid
	case errors.Is(err, ticketing.ErrTicketNotFound):
		return messages.ErrTicketNotFound
	case errors.Is(err, ticketing.ErrUnauthorized):
		return messages.ErrUnauthorized
	case errors.Is(err, ticketing.ErrTranscriptNotConfigured):
		return messages.ErrTranscriptNotConfigured
	default:
		return messages.ErrUserErrorProcessing
	}
}

// actorFromInteraction builds the engine actor from the invoking member.
func actorFromInteraction(i *discordgo.InteractionCreate) ticketing.Actor {
	return ticketing.Actor{
		UserID:         i.Member.User.ID,
		Username:       i.Member.User.Username,
		ManageChannels: i.Member.Permissions&discordgo.PermissionManageChannels != 0,
	}
}

// isAdministrator reports whether the invoking member holds the Administrator
// permission in the guild.
func isAdministrator(i *discordgo.InteractionCreate) bool {
	return i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

// subcommandOptions indexes the options of the invoked subcommand by name.
// The ticket command nests its arguments two levels deep (group, subcommand).
func subcommandOptions(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := i.ApplicationCommandData().Options
	for len(opts) == 1 && (opts[0].Type == discordgo.ApplicationCommandOptionSubCommandGroup ||
		opts[0].Type == discordgo.ApplicationCommandOptionSubCommand) {
		opts = opts[0].Options
	}

	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(opts))
	for _, opt := range opts {
		out[opt.Name] = opt
	}
	return out
}

// hasRole reports whether the member holds the given role.
func hasRole(member *discordgo.Member, roleID string) bool {
	for _, role := range member.Roles {
		if role == roleID {
			return true
		}
	}
	return false
}
