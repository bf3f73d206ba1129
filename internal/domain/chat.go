package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// AnonymousUserID is the directory and session key used when an inbound
// message carries no chat identity.
const AnonymousUserID = "anonymous"

// ChatMessage is the provider-agnostic chat message shape used by the router
// and LLM integrations.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatID keeps the chat identity exactly as it appeared on the wire: a
// number, a string, or null. It is forwarded unchanged through the queue.
type ChatID struct {
	raw json.RawMessage
}

// ChatIDFromInt returns the ChatID for a numeric Telegram chat id.
func ChatIDFromInt(id int64) ChatID {
	return ChatID{raw: json.RawMessage(strconv.FormatInt(id, 10))}
}

// NullChatID is the identity of a message without a chat.
func NullChatID() ChatID {
	return ChatID{}
}

// IsNull reports whether the id is absent or JSON null.
func (c ChatID) IsNull() bool {
	return len(c.raw) == 0
}

// Key returns the textual form of the id used as a directory and session
// key. Null and empty ids map to AnonymousUserID.
func (c ChatID) Key() string {
	if c.IsNull() {
		return AnonymousUserID
	}
	if c.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(c.raw, &s); err != nil || s == "" {
			return AnonymousUserID
		}
		return s
	}
	return string(c.raw)
}

// MarshalJSON writes the id exactly as it was read, or null.
func (c ChatID) MarshalJSON() ([]byte, error) {
	if c.IsNull() {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// UnmarshalJSON keeps any JSON value as the id; null clears it.
func (c *ChatID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		c.raw = nil
		return nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}
	c.raw = compact.Bytes()
	return nil
}
