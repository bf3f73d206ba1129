package domain

import "time"

// LastSeenLayout is ISO-8601 UTC with a fixed microsecond width so stored
// values sort lexically.
const LastSeenLayout = "2006-01-02T15:04:05.000000Z"

// UserRecord is the per-chat activity entry in the user directory.
type UserRecord struct {
	UserID   string
	LastSeen string
}

// FormatLastSeen renders t in LastSeenLayout.
func FormatLastSeen(t time.Time) string {
	return t.UTC().Format(LastSeenLayout)
}
