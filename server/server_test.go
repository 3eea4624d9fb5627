package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	contractx "bankbot/bot/contract"
	enginex "bankbot/bot/engine"
	"bankbot/interaction"
)

type fakeEngine struct {
	reply contractx.Reply
	err   error

	calls       int
	lastSession string
	lastText    string
}

func (f *fakeEngine) HandleMessage(_ context.Context, sessionID string, text string) (contractx.Reply, error) {
	f.calls++
	f.lastSession = sessionID
	f.lastText = text
	if f.err != nil {
		return contractx.Reply{}, f.err
	}
	return f.reply, nil
}

type fakeAnalytics struct {
	summary *interaction.Summary
	stats   []interaction.IntentStat
	recent  []contractx.Interaction
	err     error

	lastLimit int
}

func (f *fakeAnalytics) Summary(context.Context) (*interaction.Summary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func (f *fakeAnalytics) IntentBreakdown(context.Context) ([]interaction.IntentStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeAnalytics) Recent(_ context.Context, limit int) ([]contractx.Interaction, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.recent, nil
}

type fakeResponder struct {
	answer string
	err    error

	lastQuery string
}

func (f *fakeResponder) Generate(_ context.Context, query string) (string, error) {
	f.lastQuery = query
	return f.answer, f.err
}

func newTestServer(t *testing.T, engine ChatEngine, analytics interaction.Analytics, opts ...Option) *Server {
	t.Helper()

	s, err := New(Config{}, engine, analytics, opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return s
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeChat(t *testing.T, rec *httptest.ResponseRecorder) chatResponse {
	t.Helper()

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode chat response: %v (body %q)", err, rec.Body.String())
	}
	return resp
}

func TestChatReturnsEngineReply(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{reply: contractx.MessageReply("Hello 👋 How can I help you today?")}
	s := newTestServer(t, eng, &fakeAnalytics{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"session_id":"s-1","text":"hello bank"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	resp := decodeChat(t, rec)
	if resp.SessionID != "s-1" || resp.Kind != "message" || resp.Reply != "Hello 👋 How can I help you today?" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if eng.lastSession != "s-1" || eng.lastText != "hello bank" {
		t.Fatalf("engine saw session %q text %q", eng.lastSession, eng.lastText)
	}
}

func TestChatMintsSessionID(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{reply: contractx.MessageReply("ok")}
	s := newTestServer(t, eng, &fakeAnalytics{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"text":"check my balance"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeChat(t, rec)
	if _, err := uuid.Parse(resp.SessionID); err != nil {
		t.Fatalf("expected a minted uuid session, got %q", resp.SessionID)
	}
	if eng.lastSession != resp.SessionID {
		t.Fatalf("engine must receive the minted session, saw %q", eng.lastSession)
	}
}

func TestChatRejectsBadRequests(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{reply: contractx.MessageReply("ok")}
	s := newTestServer(t, eng, &fakeAnalytics{})
	handler := s.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/chat", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad JSON: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, handler, http.MethodPost, "/api/chat", `{"session_id":"s-1","text":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank text: expected 400, got %d", rec.Code)
	}
	if eng.calls != 0 {
		t.Fatalf("rejected requests must not reach the engine, got %d calls", eng.calls)
	}
}

func TestChatDeferAnsweredByResponder(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{reply: contractx.DeferReply()}
	responder := &fakeResponder{answer: "Paris is the capital of France."}
	s := newTestServer(t, eng, &fakeAnalytics{}, WithFallbackResponder(responder))

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"session_id":"s-1","text":"capital of france?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decodeChat(t, rec)
	if resp.Kind != "defer" {
		t.Fatalf("kind must stay defer, got %q", resp.Kind)
	}
	if resp.Reply != fallbackBanner+"Paris is the capital of France." {
		t.Fatalf("unexpected reply: %q", resp.Reply)
	}
	if responder.lastQuery != "capital of france?" {
		t.Fatalf("responder saw query %q", responder.lastQuery)
	}
}

func TestChatDeferWithoutResponderApologizes(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{reply: contractx.DeferReply()}
	s := newTestServer(t, eng, &fakeAnalytics{})

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"session_id":"s-1","text":"capital of france?"}`)
	resp := decodeChat(t, rec)
	if resp.Reply != outOfScopeApology {
		t.Fatalf("unexpected reply: %q", resp.Reply)
	}
}

func TestChatDeferResponderFailureApologizes(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{reply: contractx.DeferReply()}
	responder := &fakeResponder{err: errors.New("llm down")}
	s := newTestServer(t, eng, &fakeAnalytics{}, WithFallbackResponder(responder))

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"session_id":"s-1","text":"capital of france?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("responder failure must not fail the turn, got %d", rec.Code)
	}
	resp := decodeChat(t, rec)
	if resp.Reply != outOfScopeApology {
		t.Fatalf("unexpected reply: %q", resp.Reply)
	}
}

func TestChatErrorStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid message", enginex.ErrInvalidMessage, http.StatusBadRequest},
		{"classifier outage", fmt.Errorf("predict: %w", contractx.ErrClassifier), http.StatusBadGateway},
		{"gateway outage", fmt.Errorf("transfer: %w", contractx.ErrGateway), http.StatusBadGateway},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := newTestServer(t, &fakeEngine{err: tc.err}, &fakeAnalytics{})
			rec := doJSON(t, s.Handler(), http.MethodPost, "/api/chat", `{"session_id":"s-1","text":"hi bank"}`)
			if rec.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAnalyticsSummary(t *testing.T) {
	t.Parallel()

	analytics := &fakeAnalytics{summary: &interaction.Summary{Total: 7, SuccessRate: 85.7, UniqueIntents: 3, Predictions: 7}}
	s := newTestServer(t, &fakeEngine{}, analytics)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/analytics/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got interaction.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if got.Total != 7 || got.SuccessRate != 85.7 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestAnalyticsIntentsEmptyIsArray(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeEngine{}, &fakeAnalytics{})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/analytics/intents", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty JSON array, got %q", got)
	}
}

func TestAnalyticsRecentLimit(t *testing.T) {
	t.Parallel()

	analytics := &fakeAnalytics{recent: []contractx.Interaction{{Text: "hi", Intent: contractx.IntentGreet}}}
	s := newTestServer(t, &fakeEngine{}, analytics)
	handler := s.Handler()

	rec := doJSON(t, handler, http.MethodGet, "/api/analytics/recent?limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if analytics.lastLimit != 5 {
		t.Fatalf("expected limit 5, got %d", analytics.lastLimit)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/analytics/recent?limit=zero", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for junk limit, got %d", rec.Code)
	}
}

func TestAnalyticsFailure(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeEngine{}, &fakeAnalytics{err: errors.New("db down")})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/analytics/summary", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeEngine{}, &fakeAnalytics{})

	rec := doJSON(t, s.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body: %q", rec.Body.String())
	}
}
