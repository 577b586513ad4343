package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aetheroos/aethero-core/internal/app/cabinet"
	"github.com/aetheroos/aethero-core/internal/app/reflection"
	"github.com/aetheroos/aethero-core/internal/domain"
	"github.com/aetheroos/aethero-core/internal/observability"
)

// Service ties the thread store, the chat gateway, the cabinet, and the
// memory log together. The memory log is fire-and-forget: a full sink never
// fails a chat turn.
type Service struct {
	llm       domain.LLMClient
	threads   domain.ThreadStore
	memoryLog domain.MemoryLog
	cab       *cabinet.Cabinet
	now       func() time.Time
}

func NewService(
	llm domain.LLMClient,
	threads domain.ThreadStore,
	memoryLog domain.MemoryLog,
	cab *cabinet.Cabinet,
) *Service {
	if cab == nil {
		cab = cabinet.Default()
	}
	return &Service{
		llm:       llm,
		threads:   threads,
		memoryLog: memoryLog,
		cab:       cab,
		now:       time.Now,
	}
}

type StartThreadInput struct {
	Title string
}

type StartThreadOutput struct {
	Thread *domain.Thread
}

// StartThread creates an empty thread with a time-based id.
func (s *Service) StartThread(ctx context.Context, in StartThreadInput) (*StartThreadOutput, error) {
	now := s.now()

	log := observability.LoggerFromContext(ctx)
	log.Info("starting new thread", "title", in.Title)

	thread := &domain.Thread{
		ID:        domain.NewThreadID(now),
		Title:     in.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.threads.CreateThread(ctx, thread); err != nil {
		log.Error("failed to create thread", "error", err)
		return nil, err
	}

	log.Info("thread started", "thread_id", thread.ID)
	return &StartThreadOutput{Thread: thread}, nil
}

type SendMessageInput struct {
	ThreadID domain.ThreadID
	Text     string
}

type SendMessageOutput struct {
	UserMessage  *domain.Message
	AgentMessage *domain.Message
}

// SendMessage appends the user's message, asks the gateway for a reply with
// the thread's history as context, appends the reply, and logs the exchange.
func (s *Service) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	thread, err := s.threads.GetThread(ctx, in.ThreadID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("thread_id", thread.ID)
	log.Info("sending message")

	history, err := s.threads.Messages(ctx, thread.ID)
	if err != nil {
		log.Error("failed to load history", "error", err)
		return nil, err
	}

	now := s.now()
	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		ThreadID:  thread.ID,
		Role:      domain.RoleUser,
		Text:      in.Text,
		CreatedAt: now,
	}
	if err := s.threads.AppendMessages(ctx, thread.ID, userMsg); err != nil {
		log.Error("failed to append user message", "error", err)
		return nil, err
	}

	chatCtx := domain.ChatContext{
		ThreadID: thread.ID,
		History:  toTurns(history),
	}

	replyText, err := s.llm.GenerateReply(ctx, in.Text, chatCtx)
	if err != nil {
		log.Error("chat gateway failed", "error", err)
		return nil, fmt.Errorf("chat gateway: %w", err)
	}

	agentMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		ThreadID:  thread.ID,
		Role:      domain.RoleAssistant,
		Text:      replyText,
		CreatedAt: s.now(),
	}
	if err := s.threads.AppendMessages(ctx, thread.ID, agentMsg); err != nil {
		log.Error("failed to append agent reply", "error", err)
		return nil, err
	}

	if thread.Title == "" {
		thread.SetTitle(in.Text)
	}
	thread.UpdatedAt = s.now()
	if err := s.threads.UpdateThread(ctx, thread); err != nil {
		log.Error("failed to update thread", "error", err)
		return nil, err
	}

	s.logExchange(thread.ID, "", in.Text, replyText)

	log.Info("send message completed")
	return &SendMessageOutput{
		UserMessage:  userMsg,
		AgentMessage: agentMsg,
	}, nil
}

// Chat is the direct gateway passthrough: no thread, caller-supplied
// context, fixed preamble injected downstream.
func (s *Service) Chat(ctx context.Context, prompt string, history []domain.ChatTurn) (string, error) {
	log := observability.LoggerFromContext(ctx)
	log.Info("gateway chat", "context_len", len(history))

	reply, err := s.llm.GenerateReply(ctx, prompt, domain.ChatContext{History: history})
	if err != nil {
		log.Error("chat gateway failed", "error", err)
		return "", fmt.Errorf("chat gateway: %w", err)
	}
	return reply, nil
}

type BroadcastOutput struct {
	Replies []*domain.Message
}

// Broadcast fans the prompt out to every minister in roster order. The
// round-trips are strictly sequential: one provider call completes before
// the next starts. A minister failure aborts the remainder.
func (s *Service) Broadcast(ctx context.Context, threadID domain.ThreadID, prompt string) (*BroadcastOutput, error) {
	thread, err := s.threads.GetThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	log := observability.LoggerFromContext(ctx).With("thread_id", thread.ID)

	history, err := s.threads.Messages(ctx, thread.ID)
	if err != nil {
		return nil, err
	}

	userMsg := &domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		ThreadID:  thread.ID,
		Role:      domain.RoleUser,
		Text:      prompt,
		CreatedAt: s.now(),
	}
	if err := s.threads.AppendMessages(ctx, thread.ID, userMsg); err != nil {
		return nil, err
	}

	turns := toTurns(history)
	out := &BroadcastOutput{}

	for _, minister := range s.cab.Ministers() {
		start := time.Now()
		log.Info("broadcast round-trip start", "minister", minister.Name)

		chatCtx := domain.ChatContext{
			ThreadID: thread.ID,
			Agent:    minister.Name,
			Preamble: minister.Preamble,
			History:  turns,
		}

		replyText, err := s.llm.GenerateReply(ctx, prompt, chatCtx)
		if err != nil {
			log.Error("broadcast round-trip failed", "minister", minister.Name, "error", err)
			return nil, fmt.Errorf("minister %s: %w", minister.Name, err)
		}

		msg := &domain.Message{
			ID:        domain.MessageID(uuid.NewString()),
			ThreadID:  thread.ID,
			Role:      domain.RoleAgent,
			Agent:     minister.Name,
			Text:      replyText,
			CreatedAt: s.now(),
		}
		if err := s.threads.AppendMessages(ctx, thread.ID, msg); err != nil {
			return nil, err
		}

		s.logExchange(thread.ID, minister.Name, prompt, replyText)
		out.Replies = append(out.Replies, msg)

		log.Info("broadcast round-trip end", "minister", minister.Name,
			"elapsed_ms", time.Since(start).Milliseconds())
	}

	return out, nil
}

// Timeline returns a thread and its messages in send order.
func (s *Service) Timeline(ctx context.Context, id domain.ThreadID) (*domain.Thread, []*domain.Message, error) {
	thread, err := s.threads.GetThread(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.threads.Messages(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return thread, msgs, nil
}

// ListThreads returns all thread ids, oldest first.
func (s *Service) ListThreads(ctx context.Context) ([]domain.ThreadID, error) {
	return s.threads.ListThreadIDs(ctx)
}

// ExportText renders a thread as plain text: one line header per message,
// then its content. Every message appears exactly once, in original order.
func (s *Service) ExportText(ctx context.Context, id domain.ThreadID) (string, error) {
	_, msgs, err := s.Timeline(ctx, id)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Thread %s\n\n", id))
	for _, m := range msgs {
		who := string(m.Role)
		if m.Agent != "" {
			who = fmt.Sprintf("%s (%s)", m.Role, m.Agent)
		}
		b.WriteString(fmt.Sprintf("[%s] %s:\n%s\n\n",
			m.CreatedAt.UTC().Format(time.RFC3339), who, m.Text))
	}
	return b.String(), nil
}

// logExchange records a prompt/response pair, with a reflection note, to
// the memory log. Never blocks and never fails the caller.
func (s *Service) logExchange(threadID domain.ThreadID, agent domain.AgentName, prompt, response string) {
	if s.memoryLog == nil {
		return
	}

	note, err := reflection.SummarizeJSON([]reflection.Pair{{Prompt: prompt, Response: response}})
	if err != nil {
		note = ""
	}

	s.memoryLog.Record(&domain.LogRecord{
		ThreadID:   threadID,
		Agent:      agent,
		Prompt:     prompt,
		Response:   response,
		Reflection: note,
		Timestamp:  s.now(),
	})
}

func toTurns(msgs []*domain.Message) []domain.ChatTurn {
	turns := make([]domain.ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, domain.ChatTurn{Role: m.Role, Content: m.Text})
	}
	return turns
}
