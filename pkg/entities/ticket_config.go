package entities

import "strings"

// GuildTicketConfig is the ticketing configuration for a guild. It is the
// single persisted document for the guild and owns every panel and ticket
// record within it.
type GuildTicketConfig struct {
	// GuildID is the ID of the guild.
	GuildID string `json:"guildId" bson:"guildId"`

	// Panels are the ticket panels for the guild, in creation order.
	Panels []*Panel `json:"panels" bson:"panels"`

	// PanelCounter is the highest panel number ever assigned for the guild.
	// It only moves forward, so panel IDs are never reused after a panel is
	// removed.
	PanelCounter int `json:"panelCounter,omitempty" bson:"panelCounter,omitempty"`

	// Tickets are the ticket records for the guild. They are held on the
	// guild rather than nested under a panel so that a channel can be looked
	// up across panels.
	Tickets []*Ticket `json:"createdBy" bson:"createdBy"`
}

// PanelByName returns the panel with the given name, matched
// case-insensitively, or nil.
func (c *GuildTicketConfig) PanelByName(name string) *Panel {
	for _, p := range c.Panels {
		if strings.EqualFold(p.PanelName, name) {
			return p
		}
	}
	return nil
}

// PanelByID returns the panel with the given panel ID, or nil.
func (c *GuildTicketConfig) PanelByID(panelID string) *Panel {
	for _, p := range c.Panels {
		if p.PanelID == panelID {
			return p
		}
	}
	return nil
}

// PanelByChannel returns the panel that the given ticket channel belongs to.
// Ownership is exact membership of the panel's channel set, nothing else.
func (c *GuildTicketConfig) PanelByChannel(channelID string) *Panel {
	for _, p := range c.Panels {
		if p.HasChannel(channelID) {
			return p
		}
	}
	return nil
}

// TicketByChannel returns the ticket record for the given panel and channel,
// or nil.
func (c *GuildTicketConfig) TicketByChannel(panelID, channelID string) *Ticket {
	for _, t := range c.Tickets {
		if t.PanelID == panelID && t.ChannelID == channelID {
			return t
		}
	}
	return nil
}

// OpenTicket returns the open ticket held by the user on the given panel, or
// nil.
func (c *GuildTicketConfig) OpenTicket(userID, panelID string) *Ticket {
	for _, t := range c.Tickets {
		if t.UserID == userID && t.PanelID == panelID && t.Status == TicketStatusOpen {
			return t
		}
	}
	return nil
}
