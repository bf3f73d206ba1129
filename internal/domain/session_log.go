package domain

import "time"

const (
	// DefaultLogTTL is how long a session log record is retained.
	DefaultLogTTL = 60 * time.Minute

	timestampStrLayout = "2006-01-02 15:04:05"
)

// LogZone is the fixed UTC+9 offset used for human-readable timestamps.
var LogZone = time.FixedZone("UTC+9", 9*60*60)

// SessionLogRecord is one dispatched turn. It is written once and expires at ExpireAt.
type SessionLogRecord struct {
	UserID       string
	Timestamp    int64
	TimestampStr string
	InputMessage string
	BotResponse  string
	ExpireAt     int64
	MessageID    string
}

// NewSessionLogRecord builds a record stamped at now that expires ttl later.
// A non-positive ttl falls back to DefaultLogTTL.
func NewSessionLogRecord(userID, input, response string, now time.Time, ttl time.Duration) SessionLogRecord {
	if ttl <= 0 {
		ttl = DefaultLogTTL
	}
	ts := now.Unix()
	return SessionLogRecord{
		UserID:       userID,
		Timestamp:    ts,
		TimestampStr: now.In(LogZone).Format(timestampStrLayout),
		InputMessage: input,
		BotResponse:  response,
		ExpireAt:     ts + int64(ttl/time.Second),
	}
}
