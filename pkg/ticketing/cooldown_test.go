package ticketing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCooldownTracker_Check(t *testing.T) {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		duration  time.Duration
		elapsed   time.Duration
		want      bool
		remaining int
	}{
		{
			name:      "WithinWindow",
			duration:  10 * time.Second,
			elapsed:   4 * time.Second,
			want:      true,
			remaining: 6,
		},
		{
			name:      "RemainingRoundsUp",
			duration:  10 * time.Second,
			elapsed:   4*time.Second + 500*time.Millisecond,
			want:      true,
			remaining: 6,
		},
		{
			name:     "ExactExpiry",
			duration: 10 * time.Second,
			elapsed:  10 * time.Second,
			want:     false,
		},
		{
			name:     "PastExpiry",
			duration: 10 * time.Second,
			elapsed:  time.Minute,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := base
			c := NewCooldownTracker()
			c.now = func() time.Time { return now }

			c.Set(closeKey("chan-1"), tt.duration)
			now = now.Add(tt.elapsed)

			got := c.Check(closeKey("chan-1"))
			require.Equal(t, tt.want, got.OnCooldown)
			require.Equal(t, tt.remaining, got.Remaining)
		})
	}
}

func TestCooldownTracker_LazyExpiry(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c := NewCooldownTracker()
	c.now = func() time.Time { return now }

	c.Set(deleteKey("chan-1"), DeleteCooldown)
	require.Len(t, c.expiries, 1)

	// The entry stays until the next check after expiry.
	now = now.Add(DeleteCooldown + time.Second)
	require.Len(t, c.expiries, 1)

	require.False(t, c.Check(deleteKey("chan-1")).OnCooldown)
	require.Empty(t, c.expiries)
}

func TestCooldownTracker_KeysAreIndependent(t *testing.T) {
	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	c := NewCooldownTracker()
	c.now = func() time.Time { return now }

	c.Set(closeKey("chan-1"), CloseCooldown)

	// The same channel under other action classes is unaffected.
	require.False(t, c.Check(deleteKey("chan-1")).OnCooldown)
	require.False(t, c.Check(transcriptKey("chan-1")).OnCooldown)
	require.False(t, c.Check(renameKey("chan-1")).OnCooldown)
	require.False(t, c.Check(closeRenameKey("chan-1")).OnCooldown)
	require.False(t, c.Check(openRenameKey("chan-1")).OnCooldown)

	// Other channels under the same class are unaffected.
	require.False(t, c.Check(closeKey("chan-2")).OnCooldown)

	require.True(t, c.Check(closeKey("chan-1")).OnCooldown)
}

func TestCooldownTracker_Clear(t *testing.T) {
	c := NewCooldownTracker()

	c.Set(renameKey("chan-1"), RenameCooldown)
	require.True(t, c.Check(renameKey("chan-1")).OnCooldown)

	c.Clear(renameKey("chan-1"))
	require.False(t, c.Check(renameKey("chan-1")).OnCooldown)
}
