package models

import "time"

// Message roles. Exactly two actors write into a chat log, alternately.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message content types.
const (
	TypeText  = "text"
	TypeImage = "image"
)

// Message is one turn in a (user, character) chat log. Messages are
// append-only and never mutated after being persisted.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Type      string `json:"type,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewMessage builds a message stamped with the current wall clock in
// milliseconds, which is the unit the clients render.
func NewMessage(role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ChatHistoryEntry is one row of the per-user recency index: the character,
// a truncated preview of the last assistant reply, and when it happened.
type ChatHistoryEntry struct {
	CharID    string `json:"char_id"`
	LastMsg   string `json:"last_msg"`
	Timestamp int64  `json:"timestamp"`
}

// RecentLimit caps the recency index. Older entries fall off the end.
const RecentLimit = 20
