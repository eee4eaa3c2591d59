package ticketing

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/logging"
	"github.com/Jacobbrewer1/warden/pkg/transcripts"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *slog.Logger {
	t.Helper()
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")
	return l
}

// fakeStore is an in-memory ConfigStore.
type fakeStore struct {
	cfgs map[string]*entities.GuildTicketConfig

	saves   int
	deletes int

	loadErr error
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		cfgs: make(map[string]*entities.GuildTicketConfig),
	}
}

func (f *fakeStore) Load(_ context.Context, guildID string) (*entities.GuildTicketConfig, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.cfgs[guildID], nil
}

func (f *fakeStore) Save(_ context.Context, cfg *entities.GuildTicketConfig) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.cfgs[cfg.GuildID] = cfg
	return nil
}

func (f *fakeStore) Delete(_ context.Context, guildID string) error {
	f.deletes++
	delete(f.cfgs, guildID)
	return nil
}

// fakeSurface is a scripted messaging surface. Channel names and member
// permissions are tracked so that renames and permission edits can be
// asserted on.
type fakeSurface struct {
	nextChannelID string

	names       map[string]string
	permissions map[string]PermissionState

	created     []*ChannelCreate
	deleted     []string
	welcomed    []string
	logs        []*LogEntry
	transcripts []*TranscriptPost
	notices     []string

	// history holds the channel's messages newest first, paged by
	// MessageHistory.
	history []*transcripts.Message

	createErr     error
	sendLogErr    error
	renameErr     error
	historyErr    error
	transcriptErr error
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		nextChannelID: "chan-1",
		names:         make(map[string]string),
		permissions:   make(map[string]PermissionState),
	}
}

func permKey(channelID, userID string) string { return channelID + "|" + userID }

func (f *fakeSurface) SendMessage(channelID, content string) error {
	f.notices = append(f.notices, channelID+": "+content)
	return nil
}

func (f *fakeSurface) SendWelcome(channelID, userID, _ string) error {
	f.welcomed = append(f.welcomed, permKey(channelID, userID))
	return nil
}

func (f *fakeSurface) SendLog(_ string, entry *LogEntry) error {
	if f.sendLogErr != nil {
		return f.sendLogErr
	}
	f.logs = append(f.logs, entry)
	return nil
}

func (f *fakeSurface) SendTranscript(_ string, post *TranscriptPost) error {
	if f.transcriptErr != nil {
		return f.transcriptErr
	}
	f.transcripts = append(f.transcripts, post)
	return nil
}

func (f *fakeSurface) CreateChannel(_ string, data *ChannelCreate) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, data)
	f.names[f.nextChannelID] = data.Name
	return f.nextChannelID, nil
}

func (f *fakeSurface) DeleteChannel(channelID string) error {
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakeSurface) RenameChannel(channelID, name string) error {
	if f.renameErr != nil {
		return f.renameErr
	}
	f.names[channelID] = name
	return nil
}

func (f *fakeSurface) ChannelName(channelID string) (string, error) {
	name, ok := f.names[channelID]
	if !ok {
		return "", errors.New("unknown channel")
	}
	return name, nil
}

func (f *fakeSurface) EditChannelPermissions(channelID, userID string, allow bool) error {
	state := PermissionDenied
	if allow {
		state = PermissionGranted
	}
	f.permissions[permKey(channelID, userID)] = state
	return nil
}

func (f *fakeSurface) PermissionState(channelID, userID string) (PermissionState, error) {
	return f.permissions[permKey(channelID, userID)], nil
}

func (f *fakeSurface) MessageHistory(_, beforeID string, limit int) ([]*transcripts.Message, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}

	start := 0
	if beforeID != "" {
		for i, msg := range f.history {
			if msg.ID == beforeID {
				start = i + 1
				break
			}
		}
	}
	if start >= len(f.history) {
		return nil, nil
	}

	end := start + limit
	if end > len(f.history) {
		end = len(f.history)
	}
	return f.history[start:end], nil
}
