// Package transcripts renders the message history of a ticket channel into a
// self-contained HTML archive, together with a summary of the participants.
package transcripts

import (
	"fmt"
	"time"
)

// Message is one archived channel message, oldest messages first once
// sorted.
type Message struct {
	// ID is the ID of the message.
	ID string

	// AuthorID is the ID of the message author.
	AuthorID string

	// AuthorName is the display tag of the message author.
	AuthorName string

	// Content is the message text.
	Content string

	// Timestamp is when the message was sent.
	Timestamp time.Time

	// Attachments are the URLs of any attachments on the message.
	Attachments []string
}

// Metadata describes the ticket that a transcript belongs to.
type Metadata struct {
	// PanelName is the name of the panel that owns the ticket.
	PanelName string

	// ChannelID is the ID of the ticket channel.
	ChannelID string

	// ChannelName is the name of the ticket channel.
	ChannelName string

	// OwnerID is the ID of the ticket creator.
	OwnerID string

	// GeneratedBy is the tag of the user that requested the transcript.
	GeneratedBy string

	// GeneratedAt is when the transcript was generated.
	GeneratedAt time.Time
}

// Filename returns the name of the archive file for the ticket.
func (m *Metadata) Filename() string {
	return fmt.Sprintf("%s-%s-transcript.html", m.PanelName, m.ChannelName)
}

// Participants returns the distinct author tags in the messages, in order of
// first appearance.
func Participants(messages []*Message) []string {
	seen := make(map[string]struct{}, len(messages))
	participants := make([]string, 0, len(messages))
	for _, msg := range messages {
		if _, ok := seen[msg.AuthorName]; ok {
			continue
		}
		seen[msg.AuthorName] = struct{}{}
		participants = append(participants, msg.AuthorName)
	}
	return participants
}
