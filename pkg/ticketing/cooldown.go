package ticketing

import (
	"sync"
	"time"
)

// Cooldown windows per action class. Each class uses its own key space so
// that one action's cooldown never blocks another.
const (
	// CloseCooldown is the wait between close actions on a channel.
	CloseCooldown = 10 * time.Second

	// DeleteCooldown is the wait between delete attempts on a channel.
	DeleteCooldown = 10 * time.Second

	// TranscriptCooldown is the wait between transcripts for a channel.
	TranscriptCooldown = 60 * time.Second

	// RenameCooldown is the wait between channel renames. It applies to the
	// free-form rename and, under separate keys, to the automatic
	// closed-prefix renames on close and open.
	RenameCooldown = 10 * time.Minute
)

// Cooldown key builders. Keys are composed of the action class and the
// target channel.
func closeKey(channelID string) string      { return "close_" + channelID }
func deleteKey(channelID string) string     { return "delete_" + channelID }
func transcriptKey(channelID string) string { return "transcript_" + channelID }
func renameKey(channelID string) string     { return "rename_" + channelID }

// The close-side and open-side automatic renames cool down independently.
func closeRenameKey(channelID string) string { return "closeRename_" + channelID }
func openRenameKey(channelID string) string  { return "openRename_" + channelID }

// CooldownStatus is the result of a cooldown check.
type CooldownStatus struct {
	// OnCooldown is whether the key is still within its window.
	OnCooldown bool

	// Remaining is the number of whole seconds left, rounded up.
	Remaining int
}

// CooldownTracker rate-limits repeated actions by key. State is process
// local and non-persistent; entries expire lazily on the next Check.
type CooldownTracker struct {
	mu sync.Mutex

	// expiries maps a cooldown key to its absolute expiry time.
	expiries map[string]time.Time

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewCooldownTracker creates a new cooldown tracker.
func NewCooldownTracker() *CooldownTracker {
	return &CooldownTracker{
		expiries: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Check reports whether the key is on cooldown and removes it if it has
// expired.
func (c *CooldownTracker) Check(key string) CooldownStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiry, ok := c.expiries[key]
	if !ok {
		return CooldownStatus{}
	}

	now := c.now()
	if now.Before(expiry) {
		remaining := int((expiry.Sub(now) + time.Second - 1) / time.Second)
		return CooldownStatus{
			OnCooldown: true,
			Remaining:  remaining,
		}
	}

	delete(c.expiries, key)
	return CooldownStatus{}
}

// Set arms the cooldown for the key. It is called on successful completion
// of the action, so the window is measured from completion rather than from
// the request.
func (c *CooldownTracker) Set(key string, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiries[key] = c.now().Add(duration)
}

// Clear removes the cooldown for the key.
func (c *CooldownTracker) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.expiries, key)
}
