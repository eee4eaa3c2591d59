package logging

const (
	// KeyAppName is the logging key for the application name.
	KeyAppName = `app`

	// KeyError is the logging key for errors.
	KeyError = `err`

	// KeyDal is the logging key for the data access layer in use.
	KeyDal = `dal`

	// KeyGuildID is the logging key for the guild ID.
	KeyGuildID = `guild_id`

	// KeyChannelID is the logging key for the channel ID.
	KeyChannelID = `channel_id`

	// KeyPanel is the logging key for the panel ID.
	KeyPanel = `panel`

	// KeySignal is the logging key for OS signals.
	KeySignal = `signal`
)
