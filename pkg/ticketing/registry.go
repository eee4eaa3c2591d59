package ticketing

import (
	"time"

	"github.com/Jacobbrewer1/warden/pkg/custom"
	"github.com/Jacobbrewer1/warden/pkg/entities"
)

// The ticket registry is a set of pure mutations over the in-memory
// aggregate. Callers persist the aggregate as one unit immediately after
// mutating it.

// FindByChannel returns the panel owning the channel and the matching ticket
// record. Either may be nil.
func FindByChannel(cfg *entities.GuildTicketConfig, channelID string) (*entities.Panel, *entities.Ticket) {
	panel := cfg.PanelByChannel(channelID)
	if panel == nil {
		return nil, nil
	}
	return panel, cfg.TicketByChannel(panel.PanelID, channelID)
}

// HasOpenTicket reports whether the user already holds an open ticket on the
// panel. This runs before any channel is created so that duplicate open
// tickets are rejected.
func HasOpenTicket(cfg *entities.GuildTicketConfig, userID, panelID string) bool {
	return cfg.OpenTicket(userID, panelID) != nil
}

// AppendTicket attributes the channel to the panel and records a new open
// ticket for the user.
func AppendTicket(cfg *entities.GuildTicketConfig, panel *entities.Panel, userID, channelID string, now time.Time) *entities.Ticket {
	panel.AddChannel(channelID)

	ticket := &entities.Ticket{
		UserID:    userID,
		PanelID:   panel.PanelID,
		ChannelID: channelID,
		Status:    entities.TicketStatusOpen,
		CreatedAt: custom.Datetime(now),
	}
	cfg.Tickets = append(cfg.Tickets, ticket)
	return ticket
}

// RemoveTicket removes the channel from the panel and drops the ticket
// record entirely. Deleted tickets are not soft-deleted.
func RemoveTicket(cfg *entities.GuildTicketConfig, panel *entities.Panel, channelID string) {
	panel.RemoveChannel(channelID)

	for i, t := range cfg.Tickets {
		if t.PanelID == panel.PanelID && t.ChannelID == channelID {
			cfg.Tickets = append(cfg.Tickets[:i], cfg.Tickets[i+1:]...)
			return
		}
	}
}
