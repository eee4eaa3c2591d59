package ticketing

import (
	"context"

	"github.com/Jacobbrewer1/warden/pkg/entities"
	"github.com/Jacobbrewer1/warden/pkg/transcripts"
)

// ConfigStore is the persistent store for guild ticket configurations. The
// configuration is always loaded and saved as one unit.
type ConfigStore interface {
	// Load returns the configuration for the guild, or nil when the guild
	// has none.
	Load(ctx context.Context, guildID string) (*entities.GuildTicketConfig, error)

	// Save upserts the configuration.
	Save(ctx context.Context, cfg *entities.GuildTicketConfig) error

	// Delete removes the configuration entirely.
	Delete(ctx context.Context, guildID string) error
}

// SubjectKind is the kind of subject a permission grant applies to.
type SubjectKind int

const (
	// SubjectMember grants to a single member.
	SubjectMember SubjectKind = iota

	// SubjectRole grants to a role. The guild ID doubles as the everyone
	// role.
	SubjectRole
)

// PermissionGrant is one view/send permission entry on a channel.
type PermissionGrant struct {
	// SubjectID is the member or role the grant applies to.
	SubjectID string

	// Kind is the subject kind.
	Kind SubjectKind

	// Allow grants view/send when true and denies when false.
	Allow bool
}

// ChannelCreate describes a ticket channel to create.
type ChannelCreate struct {
	// Name is the channel name.
	Name string

	// ParentID is the category to create the channel under.
	ParentID string

	// Topic is the channel topic.
	Topic string

	// Grants are the permission entries for the channel. The adapter adds
	// the bot's own access on top.
	Grants []PermissionGrant
}

// PermissionState is the current view/send state of a subject on a channel.
type PermissionState int

const (
	// PermissionUnset means the channel holds no overwrite for the subject.
	PermissionUnset PermissionState = iota

	// PermissionGranted means view and send are allowed.
	PermissionGranted

	// PermissionDenied means view and send are denied.
	PermissionDenied
)

// Action is a lifecycle action, used for audit logging and metrics.
type Action string

const (
	ActionCreated    Action = "created"
	ActionClosed     Action = "closed"
	ActionOpened     Action = "opened"
	ActionDeleted    Action = "deleted"
	ActionRenamed    Action = "renamed"
	ActionTranscript Action = "transcript"
)

// LogEntry is one audit record dispatched to a panel's log channel.
type LogEntry struct {
	// Action is the lifecycle action that happened.
	Action Action

	// PanelName and PanelID identify the owning panel.
	PanelName string
	PanelID   string

	// ChannelID and ChannelName identify the ticket channel.
	ChannelID   string
	ChannelName string

	// OwnerID is the ticket creator.
	OwnerID string

	// ActorID is the user that performed the action.
	ActorID string

	// TranscriptChannelID is set for transcript actions.
	TranscriptChannelID string
}

// TranscriptPost is a rendered transcript ready to post to the transcript
// channel.
type TranscriptPost struct {
	// Meta is the transcript metadata.
	Meta *transcripts.Metadata

	// Archive is the rendered archive file.
	Archive []byte

	// Participants are the distinct author tags in the archive.
	Participants []string
}

// Surface is the messaging-surface collaborator that the engine drives. The
// adapter owns all rendering; the engine deals in IDs and small value types
// only.
type Surface interface {
	// SendMessage sends a plain notice to a channel.
	SendMessage(channelID, content string) error

	// SendWelcome posts the welcome message, with its close control, into a
	// freshly created ticket channel.
	SendWelcome(channelID, userID, staffRoleID string) error

	// SendLog posts an audit record to a log channel.
	SendLog(channelID string, entry *LogEntry) error

	// SendTranscript posts the archive and participant summary to the
	// transcript channel.
	SendTranscript(channelID string, post *TranscriptPost) error

	// CreateChannel creates a ticket channel and returns its ID.
	CreateChannel(guildID string, data *ChannelCreate) (string, error)

	// DeleteChannel deletes a channel.
	DeleteChannel(channelID string) error

	// RenameChannel renames a channel.
	RenameChannel(channelID, name string) error

	// ChannelName returns the current name of a channel.
	ChannelName(channelID string) (string, error)

	// EditChannelPermissions sets the view/send overwrite for a member on a
	// channel.
	EditChannelPermissions(channelID, userID string, allow bool) error

	// PermissionState returns the current view/send overwrite state for a
	// member on a channel.
	PermissionState(channelID, userID string) (PermissionState, error)

	// MessageHistory returns up to limit messages sent before the given
	// message ID, newest first. An empty beforeID starts from the latest
	// message.
	MessageHistory(channelID, beforeID string, limit int) ([]*transcripts.Message, error)
}
