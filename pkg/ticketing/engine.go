package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/ticketing/monitoring"
	"github.com/Jacobbrewer1/warden/pkg/transcripts"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

const (
	// closedPrefix marks a closed ticket in its channel name. The prefix is
	// applied at most once.
	closedPrefix = "closed-"

	// deleteGraceDelay is the wait between announcing a deletion and
	// removing the channel.
	deleteGraceDelay = 3 * time.Second

	// historyPageSize is the page size for transcript history pagination.
	historyPageSize = 100
)

// Actor identifies the user performing a lifecycle action.
type Actor struct {
	// UserID is the user's ID.
	UserID string

	// Username is the user's display tag.
	Username string

	// ManageChannels is whether the user holds channel-management authority
	// in the guild.
	ManageChannels bool
}

// canManage reports whether the actor may close, open or delete the ticket.
func (a Actor) canManage(ticket *entities.Ticket) bool {
	return a.ManageChannels || a.UserID == ticket.UserID
}

// Engine orchestrates the ticket lifecycle. Every operation serializes on a
// per-guild mutex, so the load-mutate-save sequence on a guild's
// configuration never interleaves with another operation on the same guild.
type Engine struct {
	// l is the logger.
	l *slog.Logger

	// db is the persistent store.
	db ConfigStore

	// surface is the messaging surface.
	surface Surface

	// cooldowns rate-limits repeated actions.
	cooldowns *CooldownTracker

	// emitter dispatches audit records.
	emitter *LogEmitter

	// mu guards guildLocks.
	mu sync.Mutex

	// guildLocks holds one lock per guild.
	guildLocks map[string]*sync.Mutex

	// now is the clock, replaceable in tests.
	now func() time.Time

	// deleteDelay is the grace before a deleted ticket's channel is removed.
	deleteDelay time.Duration

	// schedule runs f after d. The deferred channel deletion is fire and
	// forget: a restart during the delay leaves the channel in place.
	schedule func(d time.Duration, f func())

	// historyLimiter paces history pagination against the REST API.
	historyLimiter *rate.Limiter
}

// NewEngine creates a new ticket lifecycle engine.
func NewEngine(l *slog.Logger, db ConfigStore, surface Surface, cooldowns *CooldownTracker) *Engine {
	return &Engine{
		l:           l,
		db:          db,
		surface:     surface,
		cooldowns:   cooldowns,
		emitter:     NewLogEmitter(l, db, surface),
		guildLocks:  make(map[string]*sync.Mutex),
		now:         time.Now,
		deleteDelay: deleteGraceDelay,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		historyLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
	}
}

// lockGuild locks the guild and returns the unlock function.
func (e *Engine) lockGuild(guildID string) func() {
	e.mu.Lock()
	l, ok := e.guildLocks[guildID]
	if !ok {
		l = new(sync.Mutex)
		e.guildLocks[guildID] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// observe starts the metrics for an action and returns the completion
// function.
func observe(action Action) func(error) {
	t := prometheus.NewTimer(monitoring.TicketActionDuration.WithLabelValues(string(action)))
	return func(err error) {
		t.ObserveDuration()
		monitoring.TicketActions.WithLabelValues(string(action), outcomeLabel(err)).Inc()
	}
}

func outcomeLabel(err error) string {
	ais := new(AlreadyInStateError)
	cd := new(CooldownError)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &ais), errors.As(err, &cd):
		return "noop"
	default:
		return "error"
	}
}

// channelName builds the name of a fresh ticket channel from the panel name
// and the creator's username.
func channelName(panelName, username string) string {
	name := strings.ToLower(fmt.Sprintf("%s-%s", panelName, username))
	return strings.ReplaceAll(name, " ", "-")
}

// CreateTicket creates a ticket for the actor on the given panel and returns
// the new channel's ID.
func (e *Engine) CreateTicket(ctx context.Context, guildID string, actor Actor, panelID string) (channelID string, err error) {
	done := observe(ActionCreated)
	defer func() { done(err) }()

	unlock := e.lockGuild(guildID)
	defer unlock()

	cfg, err := e.db.Load(ctx, guildID)
	if err != nil {
		return "", fmt.Errorf("error loading ticket configuration: %w", err)
	}
	if cfg == nil {
		return "", ErrNotConfigured
	}

	panel := cfg.PanelByID(panelID)
	if panel == nil {
		return "", ErrPanelNotFound
	}
	if !panel.Enabled {
		return "", ErrPanelDisabled
	}

	// One open ticket per user per panel. Checked before any channel is
	// created.
	if HasOpenTicket(cfg, actor.UserID, panel.PanelID) {
		return "", ErrDuplicateOpenTicket
	}

	grants := []PermissionGrant{
		// Deny @everyone from seeing the ticket.
		{SubjectID: guildID, Kind: SubjectRole, Allow: false},
		// The creator of the ticket can see the ticket.
		{SubjectID: actor.UserID, Kind: SubjectMember, Allow: true},
	}
	if panel.StaffRoleID != "" {
		grants = append(grants, PermissionGrant{SubjectID: panel.StaffRoleID, Kind: SubjectRole, Allow: true})
	}
	if panel.SupportRoleID != "" {
		grants = append(grants, PermissionGrant{SubjectID: panel.SupportRoleID, Kind: SubjectRole, Allow: true})
	}

	channelID, err = e.surface.CreateChannel(guildID, &ChannelCreate{
		Name:     channelName(panel.PanelName, actor.Username),
		ParentID: panel.CategoryID,
		Topic:    fmt.Sprintf("Ticket created by %s", actor.Username),
		Grants:   grants,
	})
	if err != nil {
		return "", externalErr("create channel", err)
	}

	AppendTicket(cfg, panel, actor.UserID, channelID, e.now())

	if err := e.db.Save(ctx, cfg); err != nil {
		return "", fmt.Errorf("error saving ticket configuration: %w", err)
	}

	// The welcome message is best effort; the ticket already exists.
	if err := e.surface.SendWelcome(channelID, actor.UserID, panel.StaffRoleID); err != nil {
		e.l.Error("Error sending welcome message",
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	e.emitter.Emit(ctx, cfg, panel, &LogEntry{
		Action:    ActionCreated,
		PanelName: panel.PanelName,
		PanelID:   panel.PanelID,
		ChannelID: channelID,
		OwnerID:   actor.UserID,
		ActorID:   actor.UserID,
	})

	return channelID, nil
}

// Close closes the ticket held in the given channel, denying the creator
// view/send access and prefixing the channel name with "closed-".
func (e *Engine) Close(ctx context.Context, guildID, channelID string, actor Actor) (err error) {
	done := observe(ActionClosed)
	defer func() { done(err) }()

	unlock := e.lockGuild(guildID)
	defer unlock()

	if cd := e.cooldowns.Check(closeKey(channelID)); cd.OnCooldown {
		return &CooldownError{Remaining: cd.Remaining}
	}

	cfg, panel, ticket, err := e.resolveTicket(ctx, guildID, channelID)
	if err != nil {
		return err
	}

	if !actor.canManage(ticket) {
		return ErrUnauthorized
	}

	// The channel's permission state for the creator is the observable
	// open/closed state and is kept consistent with the stored status.
	state, err := e.surface.PermissionState(channelID, ticket.UserID)
	if err != nil {
		return externalErr("permission state", err)
	}
	if state == PermissionDenied {
		return ErrAlreadyClosed()
	}

	if err := e.surface.EditChannelPermissions(channelID, ticket.UserID, false); err != nil {
		return externalErr("edit permissions", err)
	}

	ticket.Status = entities.TicketStatusClosed

	e.applyClosedPrefix(channelID)

	if err := e.db.Save(ctx, cfg); err != nil {
		return fmt.Errorf("error saving ticket configuration: %w", err)
	}

	chName := e.channelNameOrID(channelID)
	e.emitter.Emit(ctx, cfg, panel, &LogEntry{
		Action:      ActionClosed,
		PanelName:   panel.PanelName,
		PanelID:     panel.PanelID,
		ChannelID:   channelID,
		ChannelName: chName,
		OwnerID:     ticket.UserID,
		ActorID:     actor.UserID,
	})

	e.cooldowns.Set(closeKey(channelID), CloseCooldown)
	return nil
}

// applyClosedPrefix renames the channel to carry the closed prefix, gated by
// the close-side rename cooldown. Already prefixed names are left untouched.
func (e *Engine) applyClosedPrefix(channelID string) {
	if cd := e.cooldowns.Check(closeRenameKey(channelID)); cd.OnCooldown {
		return
	}

	name, err := e.surface.ChannelName(channelID)
	if err != nil {
		e.l.Warn("Error getting channel name for close rename",
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	}
	if strings.HasPrefix(name, closedPrefix) {
		return
	}

	if err := e.surface.RenameChannel(channelID, closedPrefix+name); err != nil {
		e.l.Warn("Error renaming closed channel",
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	}
	e.cooldowns.Set(closeRenameKey(channelID), RenameCooldown)
}

// Open reopens the ticket held in the given channel, restoring the creator's
// view/send access and stripping the closed prefix from the channel name.
func (e *Engine) Open(ctx context.Context, guildID, channelID string, actor Actor) (err error) {
	done := observe(ActionOpened)
	defer func() { done(err) }()

	unlock := e.lockGuild(guildID)
	defer unlock()

	cfg, panel, ticket, err := e.resolveTicket(ctx, guildID, channelID)
	if err != nil {
		return err
	}

	state, err := e.surface.PermissionState(channelID, ticket.UserID)
	if err != nil {
		return externalErr("permission state", err)
	}
	if state == PermissionGranted {
		return ErrAlreadyOpen()
	}

	if err := e.surface.EditChannelPermissions(channelID, ticket.UserID, true); err != nil {
		return externalErr("edit permissions", err)
	}

	ticket.Status = entities.TicketStatusOpen

	e.stripClosedPrefix(channelID)

	if err := e.db.Save(ctx, cfg); err != nil {
		return fmt.Errorf("error saving ticket configuration: %w", err)
	}

	e.emitter.Emit(ctx, cfg, panel, &LogEntry{
		Action:      ActionOpened,
		PanelName:   panel.PanelName,
		PanelID:     panel.PanelID,
		ChannelID:   channelID,
		ChannelName: e.channelNameOrID(channelID),
		OwnerID:     ticket.UserID,
		ActorID:     actor.UserID,
	})

	return nil
}

// stripClosedPrefix removes the closed prefix from the channel name, gated
// by the open-side rename cooldown, which is independent of the close-side
// one.
func (e *Engine) stripClosedPrefix(channelID string) {
	name, err := e.surface.ChannelName(channelID)
	if err != nil {
		e.l.Warn("Error getting channel name for open rename",
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	}
	if !strings.HasPrefix(name, closedPrefix) {
		return
	}

	if cd := e.cooldowns.Check(openRenameKey(channelID)); cd.OnCooldown {
		e.l.Debug("Open rename on cooldown, skipping",
			slog.String(logging.KeyChannelID, channelID),
		)
		return
	}

	if err := e.surface.RenameChannel(channelID, strings.TrimPrefix(name, closedPrefix)); err != nil {
		e.l.Warn("Error renaming reopened channel",
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return
	}
	e.cooldowns.Set(openRenameKey(channelID), RenameCooldown)
}

// Delete removes the ticket record and, after a grace delay, the channel
// itself. The registry mutation is persisted before the channel goes away; a
// restart during the delay leaves the channel in place with no registry
// entry.
func (e *Engine) Delete(ctx context.Context, guildID, channelID string, actor Actor) (err error) {
	done := observe(ActionDeleted)
	defer func() { done(err) }()

	unlock := e.lockGuild(guildID)
	defer unlock()

	if cd := e.cooldowns.Check(deleteKey(channelID)); cd.OnCooldown {
		return &CooldownError{Remaining: cd.Remaining}
	}

	cfg, panel, ticket, err := e.resolveTicket(ctx, guildID, channelID)
	if err != nil {
		return err
	}

	if !actor.canManage(ticket) {
		return ErrUnauthorized
	}

	chName := e.channelNameOrID(channelID)

	RemoveTicket(cfg, panel, channelID)

	if err := e.db.Save(ctx, cfg); err != nil {
		return fmt.Errorf("error saving ticket configuration: %w", err)
	}

	e.emitter.Emit(ctx, cfg, panel, &LogEntry{
		Action:      ActionDeleted,
		PanelName:   panel.PanelName,
		PanelID:     panel.PanelID,
		ChannelID:   channelID,
		ChannelName: chName,
		OwnerID:     ticket.UserID,
		ActorID:     actor.UserID,
	})

	e.cooldowns.Set(deleteKey(channelID), DeleteCooldown)

	// The channel is about to go away, so a failed notice is only logged.
	if err := e.surface.SendMessage(channelID, "This ticket will be deleted in a few seconds."); err != nil {
		e.l.Warn("Error sending deletion notice",
			slog.String(logging.KeyChannelID, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
	}

	e.schedule(e.deleteDelay, func() {
		if err := e.surface.DeleteChannel(channelID); err != nil {
			e.l.Error("Error deleting ticket channel",
				slog.String(logging.KeyChannelID, channelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	})

	return nil
}

// Rename renames a ticket channel to a free-form name, subject to the
// rename cooldown.
func (e *Engine) Rename(ctx context.Context, guildID, channelID, newName string, actor Actor) (err error) {
	done := observe(ActionRenamed)
	defer func() { done(err) }()

	unlock := e.lockGuild(guildID)
	defer unlock()

	cfg, err := e.db.Load(ctx, guildID)
	if err != nil {
		return fmt.Errorf("error loading ticket configuration: %w", err)
	}
	if cfg == nil {
		return ErrNotConfigured
	}

	if cfg.PanelByChannel(channelID) == nil {
		return ErrPanelNotFound
	}

	if cd := e.cooldowns.Check(renameKey(channelID)); cd.OnCooldown {
		return &CooldownError{Remaining: cd.Remaining}
	}

	if err := e.surface.RenameChannel(channelID, newName); err != nil {
		return externalErr("rename channel", err)
	}

	e.cooldowns.Set(renameKey(channelID), RenameCooldown)
	return nil
}

// Transcript archives the channel's full message history, oldest first, and
// posts it to the panel's transcript channel.
func (e *Engine) Transcript(ctx context.Context, guildID, channelID string, actor Actor) (err error) {
	done := observe(ActionTranscript)
	defer func() { done(err) }()

	unlock := e.lockGuild(guildID)
	defer unlock()

	cfg, err := e.db.Load(ctx, guildID)
	if err != nil {
		return fmt.Errorf("error loading ticket configuration: %w", err)
	}
	if cfg == nil {
		return ErrNotConfigured
	}

	panel, ticket := FindByChannel(cfg, channelID)
	if panel == nil {
		return ErrPanelNotFound
	}

	// Checked before any history is fetched.
	if panel.TranscriptChannelID == "" {
		return ErrTranscriptNotConfigured
	}

	if cd := e.cooldowns.Check(transcriptKey(channelID)); cd.OnCooldown {
		return &CooldownError{Remaining: cd.Remaining}
	}

	messages, err := e.fetchHistory(ctx, channelID)
	if err != nil {
		return err
	}

	ownerID := ""
	if ticket != nil {
		ownerID = ticket.UserID
	}

	meta := &transcripts.Metadata{
		PanelName:   panel.PanelName,
		ChannelID:   channelID,
		ChannelName: e.channelNameOrID(channelID),
		OwnerID:     ownerID,
		GeneratedBy: actor.Username,
		GeneratedAt: e.now(),
	}

	archive, err := transcripts.Render(meta, messages)
	if err != nil {
		return fmt.Errorf("error rendering transcript: %w", err)
	}

	post := &TranscriptPost{
		Meta:         meta,
		Archive:      archive,
		Participants: transcripts.Participants(messages),
	}
	if err := e.surface.SendTranscript(panel.TranscriptChannelID, post); err != nil {
		return externalErr("send transcript", err)
	}

	e.cooldowns.Set(transcriptKey(channelID), TranscriptCooldown)

	e.emitter.Emit(ctx, cfg, panel, &LogEntry{
		Action:              ActionTranscript,
		PanelName:           panel.PanelName,
		PanelID:             panel.PanelID,
		ChannelID:           channelID,
		ChannelName:         meta.ChannelName,
		OwnerID:             ownerID,
		ActorID:             actor.UserID,
		TranscriptChannelID: panel.TranscriptChannelID,
	})

	return nil
}

// fetchHistory pages backwards through the channel's history and returns the
// messages oldest first. Page fetches are paced by the history limiter.
func (e *Engine) fetchHistory(ctx context.Context, channelID string) ([]*transcripts.Message, error) {
	var all []*transcripts.Message
	beforeID := ""

	for {
		if err := e.historyLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("error waiting for history limiter: %w", err)
		}

		page, err := e.surface.MessageHistory(channelID, beforeID, historyPageSize)
		if err != nil {
			return nil, externalErr("message history", err)
		}
		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		beforeID = page[len(page)-1].ID

		if len(page) < historyPageSize {
			break
		}
	}

	// Pages arrive newest first.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}

// resolveTicket loads the configuration and resolves the panel and ticket
// for a channel.
func (e *Engine) resolveTicket(ctx context.Context, guildID, channelID string) (*entities.GuildTicketConfig, *entities.Panel, *entities.Ticket, error) {
	cfg, err := e.db.Load(ctx, guildID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("error loading ticket configuration: %w", err)
	}
	if cfg == nil {
		return nil, nil, nil, ErrNotConfigured
	}

	panel, ticket := FindByChannel(cfg, channelID)
	if panel == nil {
		return nil, nil, nil, ErrPanelNotFound
	}
	if ticket == nil {
		return nil, nil, nil, ErrTicketNotFound
	}
	return cfg, panel, ticket, nil
}

// channelNameOrID returns the channel's current name, falling back to the ID
// when the surface call fails.
func (e *Engine) channelNameOrID(channelID string) string {
	name, err := e.surface.ChannelName(channelID)
	if err != nil {
		return channelID
	}
	return name
}
