package httpadapter_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	httpadapter "github.com/aetheroos/aethero-core/internal/adapters/http"
	"github.com/aetheroos/aethero-core/internal/adapters/llm"
	"github.com/aetheroos/aethero-core/internal/adapters/memorylog"
	"github.com/aetheroos/aethero-core/internal/adapters/storage/memory"
	"github.com/aetheroos/aethero-core/internal/app/conversation"
)

type testEnv struct {
	srv  http.Handler
	sink *memorylog.FileSink
}

func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	sink, err := memorylog.NewFileSink(t.TempDir(), 16)
	if err != nil {
		t.Fatalf("NewFileSink failed: %v", err)
	}
	t.Cleanup(func() { sink.Close() })

	svc := conversation.NewService(llm.NewMockLLM(), memory.NewThreadStore(), sink, nil)
	return &testEnv{
		srv:  httpadapter.NewServer(svc, sink, "memory"),
		sink: sink,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateThreadThenReadEmpty(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/threads", []byte(`{"title":"Test"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected thread id in response")
	}

	w = env.do(t, http.MethodGet, "/threads/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got struct {
		Messages []any `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding get response: %v", err)
	}
	if len(got.Messages) != 0 {
		t.Fatalf("new thread should have no messages, got %d", len(got.Messages))
	}
}

func TestSendMessageRoundTrip(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/threads", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}

	w = env.do(t, http.MethodPost, "/threads/"+created.ID+"/messages", []byte(`{"text":"hello"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		UserMessage struct {
			Text string `json:"text"`
		} `json:"user_message"`
		AgentMessage struct {
			Text string `json:"text"`
		} `json:"agent_message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding send response: %v", err)
	}
	if resp.UserMessage.Text != "hello" || resp.AgentMessage.Text == "" {
		t.Fatalf("unexpected round trip: %+v", resp)
	}

	// the exchange lands in the memory log
	env.sink.Flush()
	if env.sink.Written() != 1 {
		t.Fatalf("expected 1 memory log record, got %d", env.sink.Written())
	}
}

func TestSendMessageUnknownThreadIs404(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/threads/missing/messages", []byte(`{"text":"hi"}`))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestChatPassthroughWithEmptyContext(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/chat", []byte(`{"prompt":"ping","context":[]}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding chat response: %v", err)
	}
	if resp.Content == "" {
		t.Fatalf("expected non-empty content")
	}
}

func TestAuditAlwaysNotImplemented(t *testing.T) {
	env := newTestServer(t)

	for _, id := range []string{"abc", "20260824120000.000000000", "../../etc"} {
		w := env.do(t, http.MethodGet, "/audit/"+id, nil)
		if w.Code != http.StatusNotImplemented {
			t.Fatalf("audit for %q: expected 501, got %d", id, w.Code)
		}
		var resp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Error == "" {
			t.Fatalf("audit for %q: expected explanatory error body, got %s", id, w.Body.String())
		}
	}
}

func TestMemoryLogEndpoint(t *testing.T) {
	env := newTestServer(t)

	body := []byte(`{"prompt":"p","response":"r","thread_id":"t1","agent":"archivus","custom":"field"}`)
	w := env.do(t, http.MethodPost, "/memory/log", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp["status"] != "Logged" {
		t.Fatalf("expected status Logged, got %q", resp["status"])
	}

	env.sink.Flush()
	if env.sink.Written() != 1 {
		t.Fatalf("expected the record to reach the sink, written=%d", env.sink.Written())
	}
}

func TestExportText(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/threads", nil)
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}

	env.do(t, http.MethodPost, "/threads/"+created.ID+"/messages", []byte(`{"text":"export me"}`))

	w = env.do(t, http.MethodGet, "/threads/"+created.ID+"/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Fatalf("expected plain text export, got %q", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("export me")) {
		t.Fatalf("export missing message content:\n%s", w.Body.String())
	}
}

func TestBroadcast(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodPost, "/threads", nil)
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}

	w = env.do(t, http.MethodPost, "/threads/"+created.ID+"/broadcast", []byte(`{"prompt":"status report"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Replies []struct {
			Agent string `json:"agent"`
		} `json:"replies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding broadcast response: %v", err)
	}
	if len(resp.Replies) != 4 {
		t.Fatalf("expected a reply per minister, got %d", len(resp.Replies))
	}
	if resp.Replies[0].Agent != "primus" {
		t.Fatalf("expected primus first, got %q", resp.Replies[0].Agent)
	}
}

func TestInsights(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodGet, "/insights/market-growth", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/insights/trend", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var trend struct {
		Points []any  `json:"points"`
		Notice string `json:"notice"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &trend); err != nil {
		t.Fatalf("decoding trend: %v", err)
	}
	if len(trend.Points) != 0 || trend.Notice == "" {
		t.Fatalf("expected no-data trend panel, got %+v", trend)
	}
}

func TestStatusExposesSinkCounters(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodGet, "/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Service   string `json:"service"`
		Backend   string `json:"backend"`
		MemoryLog *struct {
			Written int64 `json:"written"`
			Dropped int64 `json:"dropped"`
		} `json:"memory_log"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding status: %v", err)
	}
	if resp.Service != "aethero-api" || resp.Backend != "memory" {
		t.Fatalf("unexpected status: %+v", resp)
	}
	if resp.MemoryLog == nil {
		t.Fatalf("expected memory log counters in status")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestServer(t)

	w := env.do(t, http.MethodGet, "/chat", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
	w = env.do(t, http.MethodPost, "/threads/abc", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}
