package domain

// Message is one entry in a thread's timeline (user, assistant, or a named
// cabinet agent).
type Message struct {
	ID        MessageID
	ThreadID  ThreadID
	Role      Role
	Agent     AgentName // set when Role is RoleAgent
	Text      string
	CreatedAt Timestamp
}

// Thread is a persisted, ordered conversation between a user and one or
// more agents. Messages are append-only: no edits, no deletions.
type Thread struct {
	ID        ThreadID
	Title     string
	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// SetTitle derives a title from the first message when none was provided.
func (t *Thread) SetTitle(content string) {
	const maxLen = 40
	runes := []rune(content)
	if len(runes) > maxLen {
		t.Title = string(runes[:maxLen])
	} else {
		t.Title = content
	}
}
