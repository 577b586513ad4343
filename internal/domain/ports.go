package domain

import (
	"context"
	"errors"
)

var ErrThreadNotFound = errors.New("thread not found")

// ChatTurn is one prior role/content pair handed to the chat gateway.
type ChatTurn struct {
	Role    Role
	Content string
}

// LLMClient is the chat gateway: it forwards a prompt plus prior context to
// a hosted model and returns the first candidate's text, or "" when the
// provider returned nothing. Provider failures surface as errors; there is
// no retry or backoff at this layer.
type LLMClient interface {
	GenerateReply(ctx context.Context, prompt string, chatCtx ChatContext) (string, error)
}

// ChatContext gives the gateway minimal context about the conversation.
type ChatContext struct {
	ThreadID ThreadID
	Agent    AgentName // overrides the default preamble persona when set
	Preamble string    // extra system instruction for a cabinet minister
	History  []ChatTurn
}

// ThreadStore persists threads and their ordered messages. AppendMessages
// must be atomic per thread id so that interleaved writers cannot clobber
// each other's appends.
type ThreadStore interface {
	CreateThread(ctx context.Context, thread *Thread) error
	UpdateThread(ctx context.Context, thread *Thread) error
	GetThread(ctx context.Context, id ThreadID) (*Thread, error)
	AppendMessages(ctx context.Context, id ThreadID, msgs ...*Message) error
	Messages(ctx context.Context, id ThreadID) ([]*Message, error)
	ListThreadIDs(ctx context.Context) ([]ThreadID, error)
}

// MemoryLog is the fire-and-forget sink for LogRecords. Record never blocks
// the caller: when the sink's queue is full the record is dropped and
// counted. Flush waits for queued records to reach the backing file.
type MemoryLog interface {
	Record(rec *LogRecord)
	Flush()
	Close() error
}
