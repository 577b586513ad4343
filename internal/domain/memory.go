package domain

import "time"

// LogRecord is one append-only memory log entry: a prompt/response pair with
// its thread and agent attribution. Records are written as single JSON lines
// to a per-calendar-day file and are never read back by this service.
type LogRecord struct {
	ThreadID   ThreadID  `json:"thread_id"`
	Agent      AgentName `json:"agent"`
	Prompt     string    `json:"prompt"`
	Response   string    `json:"response"`
	Reflection string    `json:"reflection,omitempty"`
	Timestamp  time.Time `json:"timestamp"`

	// Extra carries fields from callers that log arbitrary records through
	// the HTTP sink endpoint.
	Extra map[string]any `json:"extra,omitempty"`
}
