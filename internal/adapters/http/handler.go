package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aetheroos/aethero-core/internal/app/conversation"
	"github.com/aetheroos/aethero-core/internal/app/insights"
	"github.com/aetheroos/aethero-core/internal/domain"
)

// SinkStats is what the status endpoint reads off the memory log sink.
type SinkStats interface {
	Written() int64
	Dropped() int64
	QueueDepth() int
}

type Server struct {
	svc     *conversation.Service
	memLog  domain.MemoryLog
	backend string
}

func NewServer(svc *conversation.Service, memLog domain.MemoryLog, backend string) http.Handler {
	s := &Server{svc: svc, memLog: memLog, backend: backend}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/status", s.handleStatus)

	// /chat → POST: gateway passthrough
	mux.HandleFunc("/chat", s.handleChat)

	// /audit/{threadID} → intentionally unimplemented
	mux.HandleFunc("/audit/", s.handleAudit)

	// /memory/log → POST: fire-and-forget log record
	mux.HandleFunc("/memory/log", s.handleMemoryLog)

	// /threads            → POST: create, GET: list ids
	// /threads/{id}           → GET: thread + messages
	// /threads/{id}/messages  → POST: send message
	// /threads/{id}/export    → GET: plain-text export
	// /threads/{id}/broadcast → POST: cabinet fan-out
	mux.HandleFunc("/threads", s.handleThreads)
	mux.HandleFunc("/threads/", s.handleThreadWithID)

	mux.HandleFunc("/insights/market-growth", s.handleInsight(insights.MarketGrowth))
	mux.HandleFunc("/insights/demographics", s.handleInsight(insights.Demographics))
	mux.HandleFunc("/insights/trend", s.handleInsight(insights.PredictiveTrend))

	return chainMiddlewares(mux, withRequestID, withCORS, withLogging)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	Prompt  string `json:"prompt"`
	Context []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"context"`
}

type chatResponse struct {
	Content string `json:"content"`
}

type createThreadRequest struct {
	Title string `json:"title,omitempty"`
}

type threadResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type messageResponse struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id"`
	Role      string    `json:"role"`
	Agent     string    `json:"agent,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	UserMessage  messageResponse `json:"user_message"`
	AgentMessage messageResponse `json:"agent_message"`
}

type broadcastRequest struct {
	Prompt string `json:"prompt"`
}

type broadcastResponse struct {
	Replies []messageResponse `json:"replies"`
}

type getThreadResponse struct {
	Thread   threadResponse    `json:"thread"`
	Messages []messageResponse `json:"messages"`
}

type listThreadsResponse struct {
	ThreadIDs []string `json:"thread_ids"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	resp := map[string]any{
		"service": "aethero-api",
		"backend": s.backend,
	}
	if stats, ok := s.memLog.(SinkStats); ok {
		resp["memory_log"] = map[string]any{
			"written":     stats.Written(),
			"dropped":     stats.Dropped(),
			"queue_depth": stats.QueueDepth(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		badRequest(w, "prompt is required")
		return
	}

	history := make([]domain.ChatTurn, 0, len(req.Context))
	for _, t := range req.Context {
		history = append(history, domain.ChatTurn{
			Role:    domain.Role(t.Role),
			Content: t.Content,
		})
	}

	content, err := s.svc.Chat(r.Context(), req.Prompt, history)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Content: content})
}

// handleAudit is an intentional stub: audit retrieval by thread is not
// implemented, whatever the thread id.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotImplemented, map[string]string{
		"error": "audit retrieval by thread is not implemented",
	})
}

func (s *Server) handleMemoryLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	s.memLog.Record(toLogRecord(raw))

	writeJSON(w, http.StatusOK, map[string]string{"status": "Logged"})
}

// /threads
func (s *Server) handleThreads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateThread(w, r)
	case http.MethodGet:
		s.handleListThreads(w, r)
	default:
		methodNotAllowed(w)
	}
}

// /threads/{id} or /threads/{id}/{action}
func (s *Server) handleThreadWithID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/threads/")
	if path == "" {
		http.NotFound(w, r)
		return
	}

	parts := strings.Split(path, "/")
	id := domain.ThreadID(parts[0])
	if id == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleGetThread(w, r, id)
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "messages":
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			s.handleSendMessage(w, r, id)
			return
		case "export":
			if r.Method != http.MethodGet {
				methodNotAllowed(w)
				return
			}
			s.handleExport(w, r, id)
			return
		case "broadcast":
			if r.Method != http.MethodPost {
				methodNotAllowed(w)
				return
			}
			s.handleBroadcast(w, r, id)
			return
		}
	}

	http.NotFound(w, r)
}

func (s *Server) handleCreateThread(w http.ResponseWriter, r *http.Request) {
	var req createThreadRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	}

	out, err := s.svc.StartThread(r.Context(), conversation.StartThreadInput{Title: req.Title})
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toThreadResponse(out.Thread))
}

func (s *Server) handleListThreads(w http.ResponseWriter, r *http.Request) {
	ids, err := s.svc.ListThreads(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}

	resp := listThreadsResponse{ThreadIDs: make([]string, 0, len(ids))}
	for _, id := range ids {
		resp.ThreadIDs = append(resp.ThreadIDs, string(id))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetThread(w http.ResponseWriter, r *http.Request, id domain.ThreadID) {
	thread, msgs, err := s.svc.Timeline(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, getThreadResponse{
		Thread:   toThreadResponse(thread),
		Messages: toMessagesResponse(msgs),
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, id domain.ThreadID) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		badRequest(w, "text is required")
		return
	}

	out, err := s.svc.SendMessage(r.Context(), conversation.SendMessageInput{
		ThreadID: id,
		Text:     req.Text,
	})
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendMessageResponse{
		UserMessage:  toMessageResponse(out.UserMessage),
		AgentMessage: toMessageResponse(out.AgentMessage),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, id domain.ThreadID) {
	text, err := s.svc.ExportText(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request, id domain.ThreadID) {
	var req broadcastRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		badRequest(w, "prompt is required")
		return
	}

	out, err := s.svc.Broadcast(r.Context(), id, req.Prompt)
	if err != nil {
		if errors.Is(err, domain.ErrThreadNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, broadcastResponse{Replies: toMessagesResponse(out.Replies)})
}

func (s *Server) handleInsight(dataset func() insights.Dataset) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		writeJSON(w, http.StatusOK, dataset())
	}
}

// ─────────────────────────────────────────────
// Conversion helpers
// ─────────────────────────────────────────────

func toThreadResponse(t *domain.Thread) threadResponse {
	return threadResponse{
		ID:        string(t.ID),
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:        string(m.ID),
		ThreadID:  string(m.ThreadID),
		Role:      string(m.Role),
		Agent:     string(m.Agent),
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}

// toLogRecord lifts the known fields out of an arbitrary record and keeps
// the rest under Extra.
func toLogRecord(raw map[string]any) *domain.LogRecord {
	rec := &domain.LogRecord{}

	getStr := func(key string) string {
		v, _ := raw[key].(string)
		delete(raw, key)
		return v
	}

	rec.ThreadID = domain.ThreadID(getStr("thread_id"))
	rec.Agent = domain.AgentName(getStr("agent"))
	rec.Prompt = getStr("prompt")
	rec.Response = getStr("response")
	rec.Reflection = getStr("reflection")
	if ts := getStr("timestamp"); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			rec.Timestamp = t
		}
	}
	if len(raw) > 0 {
		rec.Extra = raw
	}
	return rec
}

// ─────────────────────────────────────────────
// HTTP helpers
// ─────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
