package main

import (
	"fmt"
	"testing"

	"github.com/Jacobbrewer1/warden/pkg/messages"
	"github.com/Jacobbrewer1/warden/pkg/ticketing"
	"github.com/stretchr/testify/require"
)

func TestUserErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Cooldown",
			err:  &ticketing.CooldownError{Remaining: 7},
			want: "Please wait 7 seconds before doing that again.",
		},
		{
			name: "AlreadyInState",
			err:  ticketing.ErrAlreadyClosed(),
			want: "This ticket is already closed.",
		},
		{
			name: "NotConfigured",
			err:  ticketing.ErrNotConfigured,
			want: messages.ErrNotConfigured,
		},
		{
			name: "ChannelOutsideEveryPanel",
			err:  fmt.Errorf("error closing ticket: %w", ticketing.ErrPanelNotFound),
			want: messages.ErrChannelNotTicket,
		},
		{
			name: "TicketNotFound",
			err:  ticketing.ErrTicketNotFound,
			want: messages.ErrTicketNotFound,
		},
		{
			name: "Unauthorized",
			err:  ticketing.ErrUnauthorized,
			want: messages.ErrUnauthorized,
		},
		{
			name: "PanelLimit",
			err:  ticketing.ErrLimitExceeded,
			want: messages.ErrPanelLimit,
		},
		{
			name: "ExternalCallFallsBackToGeneric",
			err:  fmt.Errorf("%w: boom", ticketing.ErrExternalCall),
			want: messages.ErrUserErrorProcessing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, userErrorMessage(tt.err))
		})
	}
}
