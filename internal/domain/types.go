package domain

import "time"

type ThreadID string
type MessageID string
type AgentName string

type Role string

const (
	RoleUser      Role = "user"
	RoleAgent     Role = "agent"
	RoleAssistant Role = "assistant"
)

type Timestamp = time.Time

// NewThreadID derives an identifier from the given instant. Thread ids are
// time-based, so lexicographic order is chronological order.
func NewThreadID(t time.Time) ThreadID {
	return ThreadID(t.Format("20060102150405.000000000"))
}
