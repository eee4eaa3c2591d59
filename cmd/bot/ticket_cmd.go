package main

import (
	"fmt"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
)

// ticketCmd is the /ticket slash command. All ticket system interactions hang
// off its panel, member and channel subcommand groups.
var ticketCmd = &discordgo.ApplicationCommand{
	Name:        "ticket",
	Description: "Manage the ticket system",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        "panel",
			Description: "Manage ticket panels",
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "setup",
					Description: "Create a new ticket panel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "name",
							Description: "The name of the panel",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
						{
							Name:        "channel",
							Description: "The channel to post the panel message in",
							Type:        discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
							Required: true,
						},
						{
							Name:        "category",
							Description: "The category to create ticket channels under",
							Type:        discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildCategory,
							},
							Required: true,
						},
						{
							Name:        "logs",
							Description: "The channel to post ticket logs in",
							Type:        discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
						{
							Name:        "transcripts",
							Description: "The channel to post ticket transcripts in",
							Type:        discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
						{
							Name:        "support",
							Description: "The support role for tickets on this panel",
							Type:        discordgo.ApplicationCommandOptionRole,
						},
						{
							Name:        "staff",
							Description: "The staff role pinged when a ticket is created",
							Type:        discordgo.ApplicationCommandOptionRole,
						},
					},
				},
				{
					Name:        "enable",
					Description: "Enable a ticket panel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "name",
							Description: "The name of the panel",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
					},
				},
				{
					Name:        "disable",
					Description: "Disable a ticket panel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "name",
							Description: "The name of the panel",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
					},
				},
				{
					Name:        "reset",
					Description: "Remove a ticket panel, or all of them",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "panel",
							Description: "The name of the panel, or 'all'",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
					},
				},
				{
					Name:        "list",
					Description: "List the ticket panels in this server",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
				},
			},
		},
		{
			Name:        "member",
			Description: "Manage the members of a ticket",
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "add",
					Description: "Add a member to this ticket",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "user",
							Description: "The member to add",
							Type:        discordgo.ApplicationCommandOptionUser,
							Required:    true,
						},
					},
				},
				{
					Name:        "remove",
					Description: "Remove a member from this ticket",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "user",
							Description: "The member to remove",
							Type:        discordgo.ApplicationCommandOptionUser,
							Required:    true,
						},
					},
				},
			},
		},
		{
			Name:        "channel",
			Description: "Manage ticket channels",
			Type:        discordgo.ApplicationCommandOptionSubCommandGroup,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Name:        "open",
					Description: "Reopen a closed ticket channel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "channel",
							Description: "The ticket channel, defaults to the current channel",
							Type:        discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
					},
				},
				{
					Name:        "close",
					Description: "Close a ticket channel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "channel",
							Description: "The ticket channel, defaults to the current channel",
							Type:        discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
					},
				},
				{
					Name:        "delete",
					Description: "Delete a ticket channel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "channel",
							Description: "The ticket channel, defaults to the current channel",
							Type:        discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
					},
				},
				{
					Name:        "rename",
					Description: "Rename a ticket channel",
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Options: []*discordgo.ApplicationCommandOption{
						{
							Name:        "name",
							Description: "The new name for the channel",
							Type:        discordgo.ApplicationCommandOptionString,
							Required:    true,
						},
						{
							Name:        "channel",
							Description: "The ticket channel, defaults to the current channel",
							Type:        discordgo.ApplicationCommandOptionChannel,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
					},
				},
			},
		},
	},
}

// ticketCmdController routes a /ticket invocation to the processor for its
// subcommand.
func ticketCmdController(_ IApp, i *discordgo.InteractionCreate) (commandProcessor, error) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 || len(data.Options[0].Options) == 0 {
		return nil, fmt.Errorf("no subcommand provided for command %s", data.Name)
	}

	group := data.Options[0]
	sub := group.Options[0].Name

	switch group.Name {
	case "panel":
		// Panel management is restricted to administrators.
		if !isAdministrator(i) {
			return nil, ticketing.ErrUnauthorized
		}

		switch sub {
		case "setup":
			return panelSetupProcessor, nil
		case "enable":
			return panelEnableProcessor, nil
		case "disable":
			return panelDisableProcessor, nil
		case "reset":
			return panelResetProcessor, nil
		case "list":
			return panelListProcessor, nil
		}
	case "member":
		switch sub {
		case "add":
			return memberAddProcessor, nil
		case "remove":
			return memberRemoveProcessor, nil
		}
	case "channel":
		switch sub {
		case "open":
			return channelOpenProcessor, nil
		case "close":
			return channelCloseProcessor, nil
		case "delete":
			return channelDeleteProcessor, nil
		case "rename":
			return channelRenameProcessor, nil
		}
	}
	return nil, fmt.Errorf("unknown subcommand %s %s", group.Name, sub)
}
