package ticketing

import (
	"errors"
	"fmt"

	"github.com/Jacobbrewer1/warden/pkg/entities"
)

var (
	// ErrNotConfigured is returned when the guild has no ticket
	// configuration.
	ErrNotConfigured = errors.New("ticket system is not set up")

	// ErrPanelNotFound is returned when no panel matches the given name, ID
	// or channel.
	ErrPanelNotFound = errors.New("panel not found")

	// ErrPanelDisabled is returned when a ticket is requested on a disabled
	// panel.
	ErrPanelDisabled = errors.New("panel is disabled")

	// ErrDuplicateOpenTicket is returned when the user already holds an open
	// ticket on the panel.
	ErrDuplicateOpenTicket = errors.New("user already has an open ticket on this panel")

	// ErrLimitExceeded is returned when the guild already has the maximum
	// number of panels.
	ErrLimitExceeded = errors.New("panel limit exceeded")

	// ErrDuplicateName is returned when a panel name collides
	// case-insensitively with an existing panel.
	ErrDuplicateName = errors.New("panel name already exists")

	// ErrTicketNotFound is returned when a channel belongs to a panel but no
	// ticket record exists for it.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrUnauthorized is returned when the actor is neither the ticket
	// creator nor holds channel-management authority.
	ErrUnauthorized = errors.New("actor is not permitted to manage this ticket")

	// ErrTranscriptNotConfigured is returned when the owning panel has no
	// transcript channel configured.
	ErrTranscriptNotConfigured = errors.New("transcript channel is not configured")

	// ErrExternalCall is the base error for failed messaging-surface calls.
	// Errors wrapping it are reported to the actor as a generic failure.
	ErrExternalCall = errors.New("external call failed")
)

// AlreadyInStateError is returned when an operation would not change the
// ticket or panel state. It is benign and user-visible, not a hard failure.
type AlreadyInStateError struct {
	// State is the state that the target is already in, e.g. "open",
	// "closed", "enabled" or "disabled".
	State string
}

func (e *AlreadyInStateError) Error() string {
	return fmt.Sprintf("already %s", e.State)
}

// ErrAlreadyOpen reports an open/reopen against an already open ticket.
func ErrAlreadyOpen() error {
	return &AlreadyInStateError{State: string(entities.TicketStatusOpen)}
}

// ErrAlreadyClosed reports a close against an already closed ticket.
func ErrAlreadyClosed() error {
	return &AlreadyInStateError{State: string(entities.TicketStatusClosed)}
}

// CooldownError is returned when an action is rejected by its cooldown
// window.
type CooldownError struct {
	// Remaining is the number of whole seconds left on the cooldown.
	Remaining int
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("on cooldown for another %d seconds", e.Remaining)
}

// externalErr wraps a messaging-surface failure so that callers can treat
// every surface error uniformly via errors.Is(err, ErrExternalCall).
func externalErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalCall, op, err)
}
