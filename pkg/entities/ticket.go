package entities

import "github.com/Jacobbrewer1/warden/pkg/custom"

// TicketStatus is the lifecycle status of a ticket.
type TicketStatus string

const (
	// TicketStatusOpen is an open ticket.
	TicketStatusOpen TicketStatus = "open"

	// TicketStatusClosed is a closed ticket.
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is one user-initiated support channel instance tied to a panel. A
// ticket record is removed entirely when the ticket is deleted.
type Ticket struct {
	// UserID is the ID of the user that created the ticket.
	UserID string `json:"userId" bson:"userId"`

	// PanelID is the ID of the panel that the ticket was created on.
	PanelID string `json:"panelId" bson:"panelId"`

	// ChannelID is the ID of the ticket channel.
	ChannelID string `json:"channelId" bson:"channelId"`

	// Status is the current status of the ticket.
	Status TicketStatus `json:"status" bson:"status"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.Datetime `json:"createdAt,omitempty" bson:"createdAt,omitempty"`
}
