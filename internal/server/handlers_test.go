package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/govgpt/govgpt/internal/config"
	"github.com/govgpt/govgpt/internal/models"
	"github.com/govgpt/govgpt/internal/pipeline"
)

type fakeChat struct {
	events    []models.StreamEvent
	response  *models.ChatResponse
	report    *models.DecisionReport
	reportErr error

	lastQuestion string
	lastOpts     pipeline.Options
}

func (f *fakeChat) Stream(_ context.Context, question string, opts pipeline.Options) <-chan models.StreamEvent {
	f.lastQuestion = question
	f.lastOpts = opts
	out := make(chan models.StreamEvent, len(f.events))
	for _, ev := range f.events {
		out <- ev
	}
	close(out)
	return out
}

func (f *fakeChat) Message(_ context.Context, question string, opts pipeline.Options) *models.ChatResponse {
	f.lastQuestion = question
	f.lastOpts = opts
	return f.response
}

func (f *fakeChat) Report(_ context.Context, question string, opts pipeline.Options) (*models.DecisionReport, error) {
	f.lastQuestion = question
	f.lastOpts = opts
	return f.report, f.reportErr
}

type fakeIndexer struct {
	id        string
	indexErr  error
	deleteErr error
	docs      int64
	chunks    int64

	deletedID string
}

func (f *fakeIndexer) IndexDocument(_ context.Context, input *models.DocumentInput) (string, error) {
	if f.indexErr != nil {
		return "", f.indexErr
	}
	if f.id != "" {
		return f.id, nil
	}
	return input.ID, nil
}

func (f *fakeIndexer) DeleteDocument(_ context.Context, id string) error {
	f.deletedID = id
	return f.deleteErr
}

func (f *fakeIndexer) Counts(_ context.Context) (int64, int64, error) {
	return f.docs, f.chunks, nil
}

func newTestServer(chat *fakeChat, idx *fakeIndexer) *Server {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return NewServer(chat, idx, cfg, zap.NewNop())
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	s.Routes().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(&fakeChat{}, &fakeIndexer{})
	w := doRequest(t, s, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestChatMessage(t *testing.T) {
	chat := &fakeChat{response: &models.ChatResponse{
		Answer:    "Phased rollout is advisable.",
		Citations: []models.Citation{},
	}}
	s := newTestServer(chat, &fakeIndexer{})

	w := doRequest(t, s, http.MethodPost, "/api/v1/chat/message", `{"message": "Should we expand coverage?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp models.ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Answer != "Phased rollout is advisable." {
		t.Errorf("answer = %q", resp.Answer)
	}
	if chat.lastQuestion != "Should we expand coverage?" {
		t.Errorf("question = %q", chat.lastQuestion)
	}
}

func TestChatMessage_IncludeFlagsDefaultTrue(t *testing.T) {
	chat := &fakeChat{response: &models.ChatResponse{}}
	s := newTestServer(chat, &fakeIndexer{})

	doRequest(t, s, http.MethodPost, "/api/v1/chat/message", `{"message": "q"}`)
	if !chat.lastOpts.IncludeNews || !chat.lastOpts.IncludeSentiment {
		t.Errorf("absent flags should default true, got %+v", chat.lastOpts)
	}

	doRequest(t, s, http.MethodPost, "/api/v1/chat/message",
		`{"message": "q", "include_news": false, "include_sentiment": false}`)
	if chat.lastOpts.IncludeNews || chat.lastOpts.IncludeSentiment {
		t.Errorf("explicit false should be honored, got %+v", chat.lastOpts)
	}
}

func TestChatMessage_BadRequest(t *testing.T) {
	s := newTestServer(&fakeChat{response: &models.ChatResponse{}}, &fakeIndexer{})

	for name, body := range map[string]string{
		"malformed JSON":  `{"message": `,
		"missing message": `{}`,
		"blank message":   `{"message": "   "}`,
	} {
		w := doRequest(t, s, http.MethodPost, "/api/v1/chat/message", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
	}
}

func TestChatStream(t *testing.T) {
	chat := &fakeChat{events: []models.StreamEvent{
		{Type: models.EventClassification, Data: models.Classification{Type: "exploratory", Confidence: 0.9}},
		{Type: models.EventContextStats, Data: models.ContextStats{Documents: 2}},
		{Type: models.EventContent, Data: "partial answer"},
		{Type: models.EventCitations, Data: []models.Citation{}},
	}}
	s := newTestServer(chat, &fakeIndexer{})

	w := doRequest(t, s, http.MethodPost, "/api/v1/chat/stream", `{"message": "What is devolution?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("content type = %q", ct)
	}

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d: %q", len(lines), w.Body.String())
	}
	var types []string
	for _, line := range lines {
		payload, found := strings.CutPrefix(line, "data: ")
		if !found {
			t.Fatalf("line missing data prefix: %q", line)
		}
		var ev models.StreamEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			t.Fatalf("unparseable event %q: %v", payload, err)
		}
		types = append(types, ev.Type)
	}
	want := []string{
		models.EventClassification,
		models.EventContextStats,
		models.EventContent,
		models.EventCitations,
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d: type = %q, want %q", i, types[i], want[i])
		}
	}
}

func TestChatStream_BadRequest(t *testing.T) {
	s := newTestServer(&fakeChat{}, &fakeIndexer{})
	w := doRequest(t, s, http.MethodPost, "/api/v1/chat/stream", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChatReport(t *testing.T) {
	chat := &fakeChat{report: &models.DecisionReport{
		DecisionRequired:  "Expand coverage or not",
		RecommendedOption: "Phased expansion",
	}}
	s := newTestServer(chat, &fakeIndexer{})

	w := doRequest(t, s, http.MethodPost, "/api/v1/chat/report", `{"message": "Should we expand coverage?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var report models.DecisionReport
	if err := json.Unmarshal(w.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if report.DecisionRequired != "Expand coverage or not" {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestChatReport_GenerationError(t *testing.T) {
	chat := &fakeChat{reportErr: errors.New("model returned malformed JSON")}
	s := newTestServer(chat, &fakeIndexer{})

	w := doRequest(t, s, http.MethodPost, "/api/v1/chat/report", `{"message": "Should we expand coverage?"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["error"] == "" {
		t.Error("error payload should carry a message")
	}
}

func TestIndexDocument(t *testing.T) {
	idx := &fakeIndexer{id: "generated-id"}
	s := newTestServer(&fakeChat{}, idx)

	w := doRequest(t, s, http.MethodPost, "/api/v1/documents",
		`{"filename": "water_policy.txt", "content": "County water allocation rules."}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["id"] != "generated-id" || resp["status"] != "indexed" {
		t.Errorf("unexpected response: %v", resp)
	}
}

func TestIndexDocument_Failure(t *testing.T) {
	idx := &fakeIndexer{indexErr: errors.New("document content cannot be empty")}
	s := newTestServer(&fakeChat{}, idx)

	w := doRequest(t, s, http.MethodPost, "/api/v1/documents", `{"filename": "x.txt"}`)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestDeleteDocument(t *testing.T) {
	idx := &fakeIndexer{}
	s := newTestServer(&fakeChat{}, idx)

	w := doRequest(t, s, http.MethodDelete, "/api/v1/documents/doc-42", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if idx.deletedID != "doc-42" {
		t.Errorf("deleted id = %q", idx.deletedID)
	}
}

func TestStatus(t *testing.T) {
	idx := &fakeIndexer{docs: 4, chunks: 19}
	s := newTestServer(&fakeChat{}, idx)

	w := doRequest(t, s, http.MethodGet, "/api/v1/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["documents"].(float64) != 4 || resp["chunks"].(float64) != 19 {
		t.Errorf("counts: %v", resp)
	}
	cfg, ok := resp["config"].(map[string]interface{})
	if !ok {
		t.Fatal("status should include config info")
	}
	if cfg["topic_anchor"] != "kenya" {
		t.Errorf("topic anchor: %v", cfg["topic_anchor"])
	}
}
