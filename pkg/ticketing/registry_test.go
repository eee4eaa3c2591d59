package ticketing

import (
	"testing"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/stretchr/testify/require"
)

func registryConfig() *entities.GuildTicketConfig {
	return &entities.GuildTicketConfig{
		GuildID: "guild-1",
		Panels: []*entities.Panel{
			{PanelID: "panel-1", PanelName: "Support", Channels: []string{"chan-1"}},
			{PanelID: "panel-2", PanelName: "Billing", Channels: []string{"chan-2"}},
		},
		Tickets: []*entities.Ticket{
			{UserID: "user-1", PanelID: "panel-1", ChannelID: "chan-1", Status: entities.TicketStatusOpen},
		},
	}
}

func TestFindByChannel(t *testing.T) {
	cfg := registryConfig()

	t.Run("PanelAndTicket", func(t *testing.T) {
		panel, ticket := FindByChannel(cfg, "chan-1")
		require.NotNil(t, panel)
		require.Equal(t, "panel-1", panel.PanelID)
		require.NotNil(t, ticket)
		require.Equal(t, "user-1", ticket.UserID)
	})

	t.Run("PanelWithoutTicket", func(t *testing.T) {
		panel, ticket := FindByChannel(cfg, "chan-2")
		require.NotNil(t, panel)
		require.Equal(t, "panel-2", panel.PanelID)
		require.Nil(t, ticket)
	})

	t.Run("UnknownChannel", func(t *testing.T) {
		panel, ticket := FindByChannel(cfg, "chan-9")
		require.Nil(t, panel)
		require.Nil(t, ticket)
	})
}

func TestHasOpenTicket(t *testing.T) {
	cfg := registryConfig()

	require.True(t, HasOpenTicket(cfg, "user-1", "panel-1"))

	// Tickets are held per panel.
	require.False(t, HasOpenTicket(cfg, "user-1", "panel-2"))
	require.False(t, HasOpenTicket(cfg, "user-2", "panel-1"))

	// Closed tickets do not count against the holder.
	cfg.Tickets[0].Status = entities.TicketStatusClosed
	require.False(t, HasOpenTicket(cfg, "user-1", "panel-1"))
}

func TestAppendTicket(t *testing.T) {
	cfg := registryConfig()
	panel := cfg.Panels[1]
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	ticket := AppendTicket(cfg, panel, "user-2", "chan-3", now)

	require.True(t, panel.HasChannel("chan-3"))
	require.Equal(t, entities.TicketStatusOpen, ticket.Status)
	require.Equal(t, "panel-2", ticket.PanelID)
	require.Len(t, cfg.Tickets, 2)
}

func TestRemoveTicket(t *testing.T) {
	cfg := registryConfig()
	panel := cfg.Panels[0]

	RemoveTicket(cfg, panel, "chan-1")

	require.False(t, panel.HasChannel("chan-1"))
	require.Empty(t, cfg.Tickets)

	// Removing a channel with no record is a no-op.
	RemoveTicket(cfg, cfg.Panels[1], "chan-9")
	require.True(t, cfg.Panels[1].HasChannel("chan-2"))
}
