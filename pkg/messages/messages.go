// Package messages contains the user-facing message text sent by the bot.
package messages

const (
	// ErrUserErrorProcessing is sent when a command fails for an unexpected reason.
	ErrUserErrorProcessing = "Something went wrong while processing your request. Please try again later."

	// ErrNotConfigured is sent when the guild has no ticket setup.
	ErrNotConfigured = "The ticket system is not set up."

	// ErrPanelNotFound is sent when the named panel does not exist.
	ErrPanelNotFound = "Panel not found."

	// ErrChannelNotTicket is sent when the target channel belongs to no panel.
	ErrChannelNotTicket = "This channel isn't part of any ticket panel."

	// ErrPanelDisabled is sent when a ticket is requested on a disabled panel.
	ErrPanelDisabled = "This panel is currently disabled."

	// ErrDuplicateOpenTicket is sent when the user already holds an open ticket on the panel.
	ErrDuplicateOpenTicket = "You cannot create more than 1 ticket in this panel."

	// ErrTicketNotFound is sent when no ticket record exists for the channel.
	ErrTicketNotFound = "Could not find the ticket in the database."

	// ErrUnauthorized is sent when the actor lacks the required role or ownership.
	ErrUnauthorized = "You don't have permission to do that."

	// ErrTranscriptNotConfigured is sent when the panel has no transcript channel.
	ErrTranscriptNotConfigured = "Transcript channel is not set up for this ticket panel."

	// ErrPanelLimit is sent when the guild already has the maximum number of panels.
	ErrPanelLimit = "You can only have a maximum of 5 ticket panels per server."

	// ErrPanelNameTaken is sent when a panel with the given name already exists.
	ErrPanelNameTaken = "A panel with that name already exists."

	// ErrPanelNameInvalid is sent when the panel name is empty or too long.
	ErrPanelNameInvalid = "Please provide a panel name of 100 characters or fewer."

	// ErrMemberLimit is sent when a ticket channel already holds the maximum number of members.
	ErrMemberLimit = "You cannot add more than 10 members to a ticket."
)
