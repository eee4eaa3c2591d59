package entities

// Panel is a named ticket-creation configuration within a guild.
type Panel struct {
	// PanelID is the stable ID of the panel, assigned as "panel-<n>" at
	// creation time. IDs are never reused after a panel is removed.
	PanelID string `json:"panelId" bson:"panelId"`

	// PanelName is the display name of the panel. Names are unique within a
	// guild, compared case-insensitively.
	PanelName string `json:"panelName" bson:"panelName"`

	// Enabled is whether the panel accepts new tickets.
	Enabled bool `json:"enabled" bson:"enabled"`

	// ChannelID is the channel that hosts the panel's ticket-creation
	// message. Set once at setup.
	ChannelID string `json:"channelId" bson:"channelId"`

	// CategoryID is the category that spawned ticket channels are created
	// under. Set once at setup.
	CategoryID string `json:"categoryId" bson:"categoryId"`

	// LogsChannelID is the channel that lifecycle events are logged to.
	LogsChannelID string `json:"logsChannelId,omitempty" bson:"logsChannelId,omitempty"`

	// TranscriptChannelID is the channel that transcripts are posted to.
	TranscriptChannelID string `json:"transcriptChannelId,omitempty" bson:"transcriptChannelId,omitempty"`

	// SupportRoleID is the support role granted access to the panel's
	// tickets.
	SupportRoleID string `json:"supportRoleId,omitempty" bson:"supportRoleId,omitempty"`

	// StaffRoleID is the staff role granted access to the panel's tickets.
	StaffRoleID string `json:"staffRoleId,omitempty" bson:"staffRoleId,omitempty"`

	// Channels are the ticket channels currently attributed to this panel.
	Channels []string `json:"channels" bson:"channels"`
}

// HasChannel reports whether the given channel is attributed to this panel.
func (p *Panel) HasChannel(channelID string) bool {
	for _, id := range p.Channels {
		if id == channelID {
			return true
		}
	}
	return false
}

// AddChannel attributes a ticket channel to this panel.
func (p *Panel) AddChannel(channelID string) {
	if p.HasChannel(channelID) {
		return
	}
	p.Channels = append(p.Channels, channelID)
}

// RemoveChannel removes a ticket channel from this panel.
func (p *Panel) RemoveChannel(channelID string) {
	for i, id := range p.Channels {
		if id == channelID {
			p.Channels = append(p.Channels[:i], p.Channels[i+1:]...)
			return
		}
	}
}
