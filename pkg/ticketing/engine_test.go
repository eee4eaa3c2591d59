package ticketing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/transcripts"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestEngine(t *testing.T, db *fakeStore, surface *fakeSurface) *Engine {
	t.Helper()
	e := NewEngine(testLogger(t), db, surface, NewCooldownTracker())

	// Deferred deletions run inline and history pagination is unpaced.
	e.schedule = func(_ time.Duration, f func()) { f() }
	e.historyLimiter = rate.NewLimiter(rate.Inf, 1)
	return e
}

// seedTicket loads one guild with one panel and one open ticket on chan-1,
// owned by user-1.
func seedTicket(db *fakeStore, surface *fakeSurface) *entities.GuildTicketConfig {
	cfg := &entities.GuildTicketConfig{
		GuildID: "guild-1",
		Panels: []*entities.Panel{
			{
				PanelID:             "panel-1",
				PanelName:           "Support",
				Enabled:             true,
				ChannelID:           "entry-1",
				CategoryID:          "cat-1",
				LogsChannelID:       "logs-1",
				TranscriptChannelID: "transcripts-1",
				SupportRoleID:       "role-support",
				StaffRoleID:         "role-staff",
				Channels:            []string{"chan-1"},
			},
		},
		Tickets: []*entities.Ticket{
			{
				UserID:    "user-1",
				PanelID:   "panel-1",
				ChannelID: "chan-1",
				Status:    entities.TicketStatusOpen,
			},
		},
	}
	db.cfgs["guild-1"] = cfg
	surface.names["chan-1"] = "support-userone"
	surface.permissions[permKey("chan-1", "user-1")] = PermissionGranted
	return cfg
}

var (
	owner    = Actor{UserID: "user-1", Username: "User One"}
	staff    = Actor{UserID: "mod-1", Username: "Mod One", ManageChannels: true}
	stranger = Actor{UserID: "user-2", Username: "User Two"}
)

func TestEngine_CreateTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("HappyPath", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		cfg.Tickets = nil
		cfg.Panels[0].Channels = nil
		surface.nextChannelID = "chan-9"
		e := newTestEngine(t, db, surface)

		channelID, err := e.CreateTicket(ctx, "guild-1", owner, "panel-1")
		require.NoError(t, err)
		require.Equal(t, "chan-9", channelID)

		// The channel name is derived from the panel and the creator.
		require.Len(t, surface.created, 1)
		require.Equal(t, "support-user-one", surface.created[0].Name)
		require.Equal(t, "cat-1", surface.created[0].ParentID)

		// Everyone is denied, the creator and both roles are granted.
		grants := surface.created[0].Grants
		require.Len(t, grants, 4)
		require.Equal(t, PermissionGrant{SubjectID: "guild-1", Kind: SubjectRole, Allow: false}, grants[0])
		require.Equal(t, PermissionGrant{SubjectID: "user-1", Kind: SubjectMember, Allow: true}, grants[1])

		// The registry was updated and persisted.
		require.True(t, cfg.Panels[0].HasChannel("chan-9"))
		require.Len(t, cfg.Tickets, 1)
		require.Equal(t, entities.TicketStatusOpen, cfg.Tickets[0].Status)
		require.Equal(t, 1, db.saves)

		require.Len(t, surface.welcomed, 1)
		require.Len(t, surface.logs, 1)
		require.Equal(t, ActionCreated, surface.logs[0].Action)
	})

	t.Run("DuplicateOpenTicket", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		_, err := e.CreateTicket(ctx, "guild-1", owner, "panel-1")
		require.ErrorIs(t, err, ErrDuplicateOpenTicket)
		require.Empty(t, surface.created, "no channel may be created for a rejected ticket")
	})

	t.Run("ClosedTicketDoesNotBlockNewOne", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		cfg.Tickets[0].Status = entities.TicketStatusClosed
		surface.nextChannelID = "chan-9"
		e := newTestEngine(t, db, surface)

		_, err := e.CreateTicket(ctx, "guild-1", owner, "panel-1")
		require.NoError(t, err)
	})

	t.Run("PanelDisabled", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		cfg.Panels[0].Enabled = false
		e := newTestEngine(t, db, surface)

		_, err := e.CreateTicket(ctx, "guild-1", owner, "panel-1")
		require.ErrorIs(t, err, ErrPanelDisabled)
	})

	t.Run("PanelNotFound", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		_, err := e.CreateTicket(ctx, "guild-1", owner, "panel-9")
		require.ErrorIs(t, err, ErrPanelNotFound)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		e := newTestEngine(t, newFakeStore(), newFakeSurface())

		_, err := e.CreateTicket(ctx, "guild-1", owner, "panel-1")
		require.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("ChannelCreateFails", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		cfg.Tickets = nil
		cfg.Panels[0].Channels = nil
		surface.createErr = errors.New("boom")
		e := newTestEngine(t, db, surface)

		_, err := e.CreateTicket(ctx, "guild-1", owner, "panel-1")
		require.ErrorIs(t, err, ErrExternalCall)
		require.Zero(t, db.saves, "a failed create must not write")
	})
}

func TestEngine_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("HappyPath", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Close(ctx, "guild-1", "chan-1", owner))

		require.Equal(t, PermissionDenied, surface.permissions[permKey("chan-1", "user-1")])
		require.Equal(t, entities.TicketStatusClosed, cfg.Tickets[0].Status)
		require.Equal(t, "closed-support-userone", surface.names["chan-1"])
		require.Equal(t, 1, db.saves)
		require.Equal(t, ActionClosed, surface.logs[0].Action)
	})

	t.Run("CloseCooldown", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Close(ctx, "guild-1", "chan-1", owner))

		// Reopen, then close again inside the window.
		require.NoError(t, e.Open(ctx, "guild-1", "chan-1", owner))

		err := e.Close(ctx, "guild-1", "chan-1", owner)
		cd := new(CooldownError)
		require.ErrorAs(t, err, &cd)
		require.Positive(t, cd.Remaining)
	})

	t.Run("AlreadyClosed", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		surface.permissions[permKey("chan-1", "user-1")] = PermissionDenied
		e := newTestEngine(t, db, surface)

		err := e.Close(ctx, "guild-1", "chan-1", owner)
		stateErr := new(AlreadyInStateError)
		require.ErrorAs(t, err, &stateErr)
		require.Equal(t, "closed", stateErr.State)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.ErrorIs(t, e.Close(ctx, "guild-1", "chan-1", stranger), ErrUnauthorized)
	})

	t.Run("ChannelManagerMayClose", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Close(ctx, "guild-1", "chan-1", staff))
	})

	t.Run("PrefixIsNeverDoubled", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		surface.names["chan-1"] = "closed-support-userone"
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Close(ctx, "guild-1", "chan-1", owner))
		require.Equal(t, "closed-support-userone", surface.names["chan-1"])
	})

	t.Run("RenameCooldownSkipsRenameOnly", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		// First close arms the close-side rename cooldown.
		require.NoError(t, e.Close(ctx, "guild-1", "chan-1", owner))
		require.NoError(t, e.Open(ctx, "guild-1", "chan-1", owner))

		// Move past the close cooldown but stay inside the rename window.
		e.cooldowns.Clear(closeKey("chan-1"))

		require.NoError(t, e.Close(ctx, "guild-1", "chan-1", owner))
		require.Equal(t, entities.TicketStatusClosed, cfg.Tickets[0].Status)
		require.Equal(t, "support-userone", surface.names["chan-1"], "the rename is skipped, not the close")
	})
}

func TestEngine_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("HappyPath", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Close(ctx, "guild-1", "chan-1", owner))
		require.NoError(t, e.Open(ctx, "guild-1", "chan-1", owner))

		require.Equal(t, PermissionGranted, surface.permissions[permKey("chan-1", "user-1")])
		require.Equal(t, entities.TicketStatusOpen, cfg.Tickets[0].Status)
		require.Equal(t, "support-userone", surface.names["chan-1"])
	})

	t.Run("AlreadyOpen", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		err := e.Open(ctx, "guild-1", "chan-1", owner)
		stateErr := new(AlreadyInStateError)
		require.ErrorAs(t, err, &stateErr)
		require.Equal(t, "open", stateErr.State)
	})

	t.Run("TicketNotFound", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		cfg.Tickets = nil
		e := newTestEngine(t, db, surface)

		require.ErrorIs(t, e.Open(ctx, "guild-1", "chan-1", owner), ErrTicketNotFound)
	})
}

func TestEngine_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("HappyPath", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Delete(ctx, "guild-1", "chan-1", owner))

		// The registry entry goes before the channel does.
		require.False(t, cfg.Panels[0].HasChannel("chan-1"))
		require.Empty(t, cfg.Tickets)
		require.Equal(t, 1, db.saves)
		require.Equal(t, []string{"chan-1"}, surface.deleted)

		// The channel is warned before it goes.
		require.Equal(t, []string{"chan-1: This ticket will be deleted in a few seconds."}, surface.notices)

		require.Equal(t, ActionDeleted, surface.logs[0].Action)
		require.Equal(t, "support-userone", surface.logs[0].ChannelName, "the name is captured before deletion")
	})

	t.Run("DeleteCooldown", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Delete(ctx, "guild-1", "chan-1", owner))

		err := e.Delete(ctx, "guild-1", "chan-1", owner)
		cd := new(CooldownError)
		require.ErrorAs(t, err, &cd)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.ErrorIs(t, e.Delete(ctx, "guild-1", "chan-1", stranger), ErrUnauthorized)
		require.Empty(t, surface.deleted)
	})
}

func TestEngine_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("HappyPath", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Rename(ctx, "guild-1", "chan-1", "support-renamed", owner))
		require.Equal(t, "support-renamed", surface.names["chan-1"])
	})

	t.Run("RenameCooldown", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Rename(ctx, "guild-1", "chan-1", "first", owner))

		err := e.Rename(ctx, "guild-1", "chan-1", "second", owner)
		cd := new(CooldownError)
		require.ErrorAs(t, err, &cd)
		require.Equal(t, "first", surface.names["chan-1"])
	})

	t.Run("NotATicketChannel", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.ErrorIs(t, e.Rename(ctx, "guild-1", "chan-9", "name", owner), ErrPanelNotFound)
	})
}

func TestEngine_Transcript(t *testing.T) {
	ctx := context.Background()

	t.Run("PaginatesAndReordersHistory", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		// 150 messages, newest first, so two pages are fetched.
		for i := 150; i >= 1; i-- {
			surface.history = append(surface.history, &transcripts.Message{
				ID:         fmt.Sprintf("m%d", i),
				AuthorID:   "user-1",
				AuthorName: "User One",
				Content:    fmt.Sprintf("message %d", i),
			})
		}

		require.NoError(t, e.Transcript(ctx, "guild-1", "chan-1", owner))

		require.Len(t, surface.transcripts, 1)
		post := surface.transcripts[0]
		require.Equal(t, "Support", post.Meta.PanelName)
		require.Equal(t, "user-1", post.Meta.OwnerID)
		require.Equal(t, []string{"User One"}, post.Participants)
		require.NotEmpty(t, post.Archive)

		require.Equal(t, ActionTranscript, surface.logs[0].Action)
		require.Equal(t, "transcripts-1", surface.logs[0].TranscriptChannelID)
	})

	t.Run("TranscriptCooldown", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		seedTicket(db, surface)
		e := newTestEngine(t, db, surface)

		require.NoError(t, e.Transcript(ctx, "guild-1", "chan-1", owner))

		err := e.Transcript(ctx, "guild-1", "chan-1", owner)
		cd := new(CooldownError)
		require.ErrorAs(t, err, &cd)
		require.Len(t, surface.transcripts, 1)
	})

	t.Run("NotConfiguredBeforeFetch", func(t *testing.T) {
		db := newFakeStore()
		surface := newFakeSurface()
		cfg := seedTicket(db, surface)
		cfg.Panels[0].TranscriptChannelID = ""
		surface.historyErr = errors.New("must not be called")
		e := newTestEngine(t, db, surface)

		require.ErrorIs(t, e.Transcript(ctx, "guild-1", "chan-1", owner), ErrTranscriptNotConfigured)
	})
}

func TestLogEmitter_SelfHeal(t *testing.T) {
	ctx := context.Background()

	db := newFakeStore()
	surface := newFakeSurface()
	cfg := seedTicket(db, surface)
	surface.sendLogErr = errors.New("unknown channel")
	e := newTestEngine(t, db, surface)

	require.NoError(t, e.Close(ctx, "guild-1", "chan-1", owner))

	// The failed send clears the stale log channel and persists the change.
	require.Empty(t, cfg.Panels[0].LogsChannelID)
	require.Equal(t, 2, db.saves)
}
