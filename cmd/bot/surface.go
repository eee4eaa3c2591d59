package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
	"github.com/Jacobbrewer1/warden/pkg/transcripts"
)

const (
	// embedColourGreen is used for creation and reopen notices.
	embedColourGreen = 0x00ff00

	// embedColourRed is used for close and delete notices.
	embedColourRed = 0xff0000

	// embedColourBlue is used for informational notices.
	embedColourBlue = 0x0000ff
)

// discordSurface drives the Discord API on behalf of the ticketing engine.
type discordSurface struct {
	s *discordgo.Session
	l *slog.Logger
}

func newDiscordSurface(s *discordgo.Session, l *slog.Logger) *discordSurface {
	return &discordSurface{
		s: s,
		l: l,
	}
}

func (d *discordSurface) SendMessage(channelID, content string) error {
	if _, err := d.s.ChannelMessageSend(channelID, content); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

func (d *discordSurface) SendWelcome(channelID, userID, staffRoleID string) error {
	content := fmt.Sprintf("<@%s>", userID)
	if staffRoleID != "" {
		content += fmt.Sprintf(" <@&%s>", staffRoleID)
	}

	// Create the close button. (Lock emoji)
	button := discordgo.Button{
		Label:    "\U0001F512 Close Ticket",
		Style:    discordgo.DangerButton,
		CustomID: CloseTicketButtonID,
	}

	message := discordgo.MessageSend{
		Content: content,
		Embed: &discordgo.MessageEmbed{
			Title:       "Ticket Created",
			Description: fmt.Sprintf("<@%s>, support will be with you shortly. Use the button below to close the ticket.", userID),
			Color:       embedColourGreen,
		},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					button,
				},
			},
		},
	}

	if _, err := d.s.ChannelMessageSendComplex(channelID, &message); err != nil {
		return fmt.Errorf("error sending welcome message: %w", err)
	}
	return nil
}

func (d *discordSurface) SendLog(channelID string, entry *ticketing.LogEntry) error {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Ticket %s", entry.Action),
		Description: fmt.Sprintf("Ticket <#%s> has been %s by <@%s>.", entry.ChannelID, entry.Action, entry.ActorID),
		Color:       logEmbedColour(entry.Action),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Panel",
				Value:  entry.PanelName,
				Inline: true,
			},
			{
				Name:   "Channel",
				Value:  entry.ChannelName,
				Inline: true,
			},
			{
				Name:   "Opened By",
				Value:  fmt.Sprintf("<@%s>", entry.OwnerID),
				Inline: true,
			},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if entry.TranscriptChannelID != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Transcript Channel",
			Value:  fmt.Sprintf("<#%s>", entry.TranscriptChannelID),
			Inline: true,
		})
	}

	if _, err := d.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embed: embed,
	}); err != nil {
		return fmt.Errorf("error sending log message: %w", err)
	}
	return nil
}

func (d *discordSurface) SendTranscript(channelID string, post *ticketing.TranscriptPost) error {
	participants := "None"
	if len(post.Participants) > 0 {
		participants = strings.Join(post.Participants, "\n")
	}

	message := discordgo.MessageSend{
		Embed: &discordgo.MessageEmbed{
			Title:       "Ticket Transcript",
			Description: fmt.Sprintf("Transcript of <#%s>, generated by %s.", post.Meta.ChannelID, post.Meta.GeneratedBy),
			Color:       embedColourBlue,
			Fields: []*discordgo.MessageEmbedField{
				{
					Name:   "Panel",
					Value:  post.Meta.PanelName,
					Inline: true,
				},
				{
					Name:   "Opened By",
					Value:  fmt.Sprintf("<@%s>", post.Meta.OwnerID),
					Inline: true,
				},
				{
					Name:  "Participants",
					Value: participants,
				},
			},
			Timestamp: post.Meta.GeneratedAt.Format(time.RFC3339),
		},
		Files: []*discordgo.File{
			{
				Name:        post.Meta.Filename(),
				ContentType: "text/html",
				Reader:      bytes.NewReader(post.Archive),
			},
		},
	}

	if _, err := d.s.ChannelMessageSendComplex(channelID, &message); err != nil {
		return fmt.Errorf("error sending transcript: %w", err)
	}
	return nil
}

func (d *discordSurface) CreateChannel(guildID string, data *ticketing.ChannelCreate) (string, error) {
	overwrites := make([]*discordgo.PermissionOverwrite, 0, len(data.Grants)+1)
	for _, grant := range data.Grants {
		overwrites = append(overwrites, overwriteFromGrant(grant))
	}

	// The bot keeps its own access to the channel.
	overwrites = append(overwrites, &discordgo.PermissionOverwrite{
		ID:    d.s.State.User.ID,
		Type:  discordgo.PermissionOverwriteTypeMember,
		Allow: discordgo.PermissionAllText,
		Deny:  0,
	})

	channel, err := d.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:                 data.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                data.Topic,
		PermissionOverwrites: overwrites,
		ParentID:             data.ParentID,
	})
	if err != nil {
		return "", fmt.Errorf("error creating channel: %w", err)
	}
	return channel.ID, nil
}

func (d *discordSurface) DeleteChannel(channelID string) error {
	if _, err := d.s.ChannelDelete(channelID); err != nil {
		return fmt.Errorf("error deleting channel: %w", err)
	}
	return nil
}

func (d *discordSurface) RenameChannel(channelID, name string) error {
	if _, err := d.s.ChannelEditComplex(channelID, &discordgo.ChannelEdit{
		Name: name,
	}); err != nil {
		return fmt.Errorf("error renaming channel: %w", err)
	}
	return nil
}

func (d *discordSurface) ChannelName(channelID string) (string, error) {
	channel, err := d.s.Channel(channelID)
	if err != nil {
		return "", fmt.Errorf("error getting channel: %w", err)
	}
	return channel.Name, nil
}

func (d *discordSurface) EditChannelPermissions(channelID, userID string, allow bool) error {
	var err error
	if allow {
		err = d.s.ChannelPermissionSet(channelID, userID, discordgo.PermissionOverwriteTypeMember,
			discordgo.PermissionAllText, discordgo.PermissionMentionEveryone)
	} else {
		err = d.s.ChannelPermissionSet(channelID, userID, discordgo.PermissionOverwriteTypeMember,
			0, discordgo.PermissionAllText)
	}
	if err != nil {
		return fmt.Errorf("error setting channel permissions: %w", err)
	}
	return nil
}

func (d *discordSurface) PermissionState(channelID, userID string) (ticketing.PermissionState, error) {
	channel, err := d.s.Channel(channelID)
	if err != nil {
		return ticketing.PermissionUnset, fmt.Errorf("error getting channel: %w", err)
	}

	for _, overwrite := range channel.PermissionOverwrites {
		if overwrite.ID != userID || overwrite.Type != discordgo.PermissionOverwriteTypeMember {
			continue
		}
		if overwrite.Deny&discordgo.PermissionViewChannel != 0 ||
			overwrite.Deny&discordgo.PermissionSendMessages != 0 {
			return ticketing.PermissionDenied, nil
		}
		if overwrite.Allow&discordgo.PermissionViewChannel != 0 ||
			overwrite.Allow&discordgo.PermissionSendMessages != 0 {
			return ticketing.PermissionGranted, nil
		}
	}
	return ticketing.PermissionUnset, nil
}

func (d *discordSurface) MessageHistory(channelID, beforeID string, limit int) ([]*transcripts.Message, error) {
	msgs, err := d.s.ChannelMessages(channelID, limit, beforeID, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting channel messages: %w", err)
	}

	out := make([]*transcripts.Message, 0, len(msgs))
	for _, msg := range msgs {
		attachments := make([]string, 0, len(msg.Attachments))
		for _, attachment := range msg.Attachments {
			attachments = append(attachments, attachment.URL)
		}

		out = append(out, &transcripts.Message{
			ID:          msg.ID,
			AuthorID:    msg.Author.ID,
			AuthorName:  msg.Author.Username,
			Content:     msg.Content,
			Timestamp:   msg.Timestamp,
			Attachments: attachments,
		})
	}
	return out, nil
}

func overwriteFromGrant(grant ticketing.PermissionGrant) *discordgo.PermissionOverwrite {
	overwriteType := discordgo.PermissionOverwriteTypeMember
	if grant.Kind == ticketing.SubjectRole {
		overwriteType = discordgo.PermissionOverwriteTypeRole
	}

	if grant.Allow {
		return &discordgo.PermissionOverwrite{
			ID:    grant.SubjectID,
			Type:  overwriteType,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone,
		}
	}
	return &discordgo.PermissionOverwrite{
		ID:    grant.SubjectID,
		Type:  overwriteType,
		Allow: 0,
		Deny:  discordgo.PermissionAll,
	}
}

func logEmbedColour(action ticketing.Action) int {
	switch action {
	case ticketing.ActionCreated, ticketing.ActionOpened:
		return embedColourGreen
	case ticketing.ActionClosed, ticketing.ActionDeleted:
		return embedColourRed
	default:
		return embedColourBlue
	}
}
