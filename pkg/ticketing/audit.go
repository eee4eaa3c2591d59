package ticketing

import (
	"context"
	"log/slog"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
)

// LogEmitter dispatches lifecycle events to a panel's configured log
// channel. Send failures are never fatal: a failed send is taken to mean the
// log channel no longer exists, so the stale reference is cleared from the
// panel and the configuration is persisted.
type LogEmitter struct {
	// l is the logger.
	l *slog.Logger

	// db is the persistent store, used for the self-heal write.
	db ConfigStore

	// surface is the messaging surface.
	surface Surface
}

// NewLogEmitter creates a new log emitter.
func NewLogEmitter(l *slog.Logger, db ConfigStore, surface Surface) *LogEmitter {
	return &LogEmitter{
		l:       l,
		db:      db,
		surface: surface,
	}
}

// Emit sends the entry to the panel's log channel, if one is configured.
func (e *LogEmitter) Emit(ctx context.Context, cfg *entities.GuildTicketConfig, panel *entities.Panel, entry *LogEntry) {
	if panel.LogsChannelID == "" {
		return
	}

	if err := e.surface.SendLog(panel.LogsChannelID, entry); err != nil {
		e.l.Warn("Log channel send failed, clearing stale log channel",
			slog.String(logging.KeyGuildID, cfg.GuildID),
			slog.String(logging.KeyPanel, panel.PanelID),
			slog.String(logging.KeyChannelID, panel.LogsChannelID),
			slog.String(logging.KeyError, err.Error()),
		)

		panel.LogsChannelID = ""
		if err := e.db.Save(ctx, cfg); err != nil {
			e.l.Error("Error persisting cleared log channel",
				slog.String(logging.KeyGuildID, cfg.GuildID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	}
}
