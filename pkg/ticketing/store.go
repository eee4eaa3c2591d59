package ticketing

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
)

const (
	// MaxPanels is the maximum number of panels per guild.
	MaxPanels = 5

	// MaxPanelNameLen is the maximum length of a panel name.
	MaxPanelNameLen = 100

	// panelIDPrefix prefixes every assigned panel ID.
	panelIDPrefix = "panel-"

	// RemoveAll is the reset target that removes every panel at once.
	RemoveAll = "all"
)

// ErrInvalidName is returned when a panel name is empty or too long.
var ErrInvalidName = fmt.Errorf("panel name must be between 1 and %d characters", MaxPanelNameLen)

// PanelStore manages the panel collection of a guild's ticket configuration.
type PanelStore struct {
	// l is the logger.
	l *slog.Logger

	// db is the persistent store.
	db ConfigStore
}

// NewPanelStore creates a new panel store.
func NewPanelStore(l *slog.Logger, db ConfigStore) *PanelStore {
	return &PanelStore{
		l:  l,
		db: db,
	}
}

// CreatePanel appends a new panel to the guild's configuration, creating the
// configuration if the guild has none. The panel's ID is assigned here;
// name, entry channel and category are taken from the given panel.
func (s *PanelStore) CreatePanel(ctx context.Context, guildID string, panel *entities.Panel) (*entities.Panel, error) {
	if panel.PanelName == "" || len(panel.PanelName) > MaxPanelNameLen {
		return nil, ErrInvalidName
	}

	cfg, err := s.db.Load(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error loading ticket configuration: %w", err)
	}

	if cfg == nil {
		cfg = &entities.GuildTicketConfig{
			GuildID: guildID,
		}
	}

	if len(cfg.Panels) >= MaxPanels {
		return nil, ErrLimitExceeded
	}

	if cfg.PanelByName(panel.PanelName) != nil {
		return nil, ErrDuplicateName
	}

	panel.PanelID = nextPanelID(cfg)
	panel.Enabled = true

	cfg.Panels = append(cfg.Panels, panel)

	if err := s.db.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("error saving ticket configuration: %w", err)
	}

	s.l.Info("Ticket panel created",
		slog.String(logging.KeyGuildID, guildID),
		slog.String(logging.KeyPanel, panel.PanelID),
	)
	return panel, nil
}

// nextPanelID assigns the next sequential panel ID. The counter on the
// aggregate only moves forward, so IDs of removed panels are never reused.
// Documents written before the counter existed recover the floor from the
// surviving panels and ticket records.
func nextPanelID(cfg *entities.GuildTicketConfig) string {
	highest := cfg.PanelCounter
	bump := func(panelID string) {
		n, err := strconv.Atoi(strings.TrimPrefix(panelID, panelIDPrefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	for _, p := range cfg.Panels {
		bump(p.PanelID)
	}
	for _, t := range cfg.Tickets {
		bump(t.PanelID)
	}

	cfg.PanelCounter = highest + 1
	return panelIDPrefix + strconv.Itoa(cfg.PanelCounter)
}

// SetPanelEnabled flips the enabled flag of a named panel. Flipping to the
// current state returns an AlreadyInStateError rather than a hard failure.
func (s *PanelStore) SetPanelEnabled(ctx context.Context, guildID, panelName string, enabled bool) (*entities.Panel, error) {
	cfg, err := s.db.Load(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error loading ticket configuration: %w", err)
	}
	if cfg == nil {
		return nil, ErrNotConfigured
	}

	panel := cfg.PanelByName(panelName)
	if panel == nil {
		return nil, ErrPanelNotFound
	}

	if panel.Enabled == enabled {
		state := "disabled"
		if enabled {
			state = "enabled"
		}
		return nil, &AlreadyInStateError{State: state}
	}

	panel.Enabled = enabled

	if err := s.db.Save(ctx, cfg); err != nil {
		return nil, fmt.Errorf("error saving ticket configuration: %w", err)
	}
	return panel, nil
}

// RemovePanel removes a named panel, or the entire configuration when the
// target is RemoveAll. Removing the last panel also removes the
// configuration document rather than leaving an empty panel list behind.
func (s *PanelStore) RemovePanel(ctx context.Context, guildID, target string) error {
	cfg, err := s.db.Load(ctx, guildID)
	if err != nil {
		return fmt.Errorf("error loading ticket configuration: %w", err)
	}
	if cfg == nil || len(cfg.Panels) == 0 {
		return ErrNotConfigured
	}

	if strings.EqualFold(target, RemoveAll) {
		if err := s.db.Delete(ctx, guildID); err != nil {
			return fmt.Errorf("error deleting ticket configuration: %w", err)
		}
		s.l.Info("Ticket configuration reset", slog.String(logging.KeyGuildID, guildID))
		return nil
	}

	idx := -1
	for i, p := range cfg.Panels {
		if strings.EqualFold(p.PanelName, target) {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrPanelNotFound
	}

	cfg.Panels = append(cfg.Panels[:idx], cfg.Panels[idx+1:]...)

	if len(cfg.Panels) == 0 {
		if err := s.db.Delete(ctx, guildID); err != nil {
			return fmt.Errorf("error deleting ticket configuration: %w", err)
		}
		return nil
	}

	if err := s.db.Save(ctx, cfg); err != nil {
		return fmt.Errorf("error saving ticket configuration: %w", err)
	}
	return nil
}

// ListPanels returns the guild's panels in stored order.
func (s *PanelStore) ListPanels(ctx context.Context, guildID string) ([]*entities.Panel, error) {
	cfg, err := s.db.Load(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error loading ticket configuration: %w", err)
	}
	if cfg == nil || len(cfg.Panels) == 0 {
		return nil, ErrNotConfigured
	}
	return cfg.Panels, nil
}
