package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
)

// MaxTicketMembers is the maximum number of members a ticket channel can
// hold, including the creator.
const MaxTicketMembers = 10

func memberAddProcessor(a IApp, i *discordgo.InteractionCreate) error {
	panel, _, err := resolveTicketChannel(a, i)
	if err != nil {
		return err
	}

	user := subcommandOptions(i)["user"].UserValue(nil)

	// The cap counts the member overwrites already on the channel.
	channel, err := a.Session().Channel(i.ChannelID)
	if err != nil {
		return fmt.Errorf("error getting channel: %w", err)
	}
	members := 0
	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.Type == discordgo.PermissionOverwriteTypeMember {
			members++
		}
	}
	if members >= MaxTicketMembers {
		return respondSlashEphemeral(a, i, messages.ErrMemberLimit)
	}

	if err := a.Session().ChannelPermissionSet(i.ChannelID, user.ID, discordgo.PermissionOverwriteTypeMember,
		discordgo.PermissionAllText, discordgo.PermissionMentionEveryone); err != nil {
		return fmt.Errorf("error setting channel permissions: %w", err)
	}

	// Mirror the panel's support and staff roles onto the member so they can
	// be pinged with the rest of the team. Losing a role is not fatal.
	for _, roleID := range panelMemberRoles(panel) {
		if err := a.Session().GuildMemberRoleAdd(i.GuildID, user.ID, roleID); err != nil {
			a.Log().Warn("Error adding panel role to member", slog.String(logging.KeyError, err.Error()))
		}
	}

	return respondSlash(a, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Added <@%s> to the ticket.", user.ID),
	})
}

func memberRemoveProcessor(a IApp, i *discordgo.InteractionCreate) error {
	panel, ticket, err := resolveTicketChannel(a, i)
	if err != nil {
		return err
	}

	user := subcommandOptions(i)["user"].UserValue(nil)

	// The creator cannot be removed from their own ticket.
	if user.ID == ticket.UserID {
		return respondSlashEphemeral(a, i, "You cannot remove the ticket creator from the ticket.")
	}

	if err := a.Session().ChannelPermissionDelete(i.ChannelID, user.ID); err != nil {
		return fmt.Errorf("error removing channel permissions: %w", err)
	}

	for _, roleID := range panelMemberRoles(panel) {
		if err := a.Session().GuildMemberRoleRemove(i.GuildID, user.ID, roleID); err != nil {
			a.Log().Warn("Error removing panel role from member", slog.String(logging.KeyError, err.Error()))
		}
	}

	return respondSlash(a, i, &discordgo.InteractionResponseData{
		Content: fmt.Sprintf("Removed <@%s> from the ticket.", user.ID),
	})
}

// panelMemberRoles returns the panel roles mirrored onto members as they are
// added to or removed from a ticket.
func panelMemberRoles(panel *entities.Panel) []string {
	roles := make([]string, 0, 2)
	if panel.SupportRoleID != "" {
		roles = append(roles, panel.SupportRoleID)
	}
	if panel.StaffRoleID != "" {
		roles = append(roles, panel.StaffRoleID)
	}
	return roles
}

// resolveTicketChannel resolves the invoking channel to its panel and ticket
// and checks that the actor may manage the ticket's members.
func resolveTicketChannel(a IApp, i *discordgo.InteractionCreate) (*entities.Panel, *entities.Ticket, error) {
	cfg, err := a.Store().Load(context.Background(), i.GuildID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading ticket configuration: %w", err)
	} else if cfg == nil {
		return nil, nil, ticketing.ErrNotConfigured
	}

	panel, ticket := ticketing.FindByChannel(cfg, i.ChannelID)
	if panel == nil {
		return nil, nil, ticketing.ErrPanelNotFound
	} else if ticket == nil {
		return nil, nil, ticketing.ErrTicketNotFound
	}

	// The creator, channel managers and the support team can manage members.
	if ticket.UserID != i.Member.User.ID &&
		i.Member.Permissions&discordgo.PermissionManageChannels == 0 &&
		!(panel.SupportRoleID != "" && hasRole(i.Member, panel.SupportRoleID)) {
		return nil, nil, ticketing.ErrUnauthorized
	}
	return panel, ticket, nil
}
