package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	contractx "bankbot/bot/contract"
)

func TestNewResponderRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewResponder(&Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewResponder(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestGenerateRejectsEmptyQuery(t *testing.T) {
	t.Parallel()

	r, err := NewResponder(&Config{APIKey: "test"})
	if err != nil {
		t.Fatalf("new responder: %v", err)
	}
	if _, err := r.Generate(context.Background(), "   "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGenerateSendsTemplatedQuestion(t *testing.T) {
	t.Parallel()

	var gotBody struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		Temperature float64 `json:"temperature"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 0,
			"model": "openai/gpt-oss-120b",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  RBI sets the repo rate.  "}, "finish_reason": "stop"}]
		}`))
	}))
	defer srv.Close()

	r, err := NewResponder(&Config{APIKey: "test", BaseURL: srv.URL, Model: "openai/gpt-oss-120b", Temperature: 0.3})
	if err != nil {
		t.Fatalf("new responder: %v", err)
	}

	answer, err := r.Generate(context.Background(), "what is the repo rate?")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if answer != "RBI sets the repo rate." {
		t.Fatalf("expected trimmed answer, got %q", answer)
	}

	if gotBody.Model != "openai/gpt-oss-120b" {
		t.Fatalf("unexpected model: %q", gotBody.Model)
	}
	if gotBody.Temperature != 0.3 {
		t.Fatalf("unexpected temperature: %v", gotBody.Temperature)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
	if !strings.Contains(gotBody.Messages[0].Content, "what is the repo rate?") {
		t.Fatalf("question missing from prompt: %q", gotBody.Messages[0].Content)
	}
	if !strings.Contains(gotBody.Messages[0].Content, "general informational answer") {
		t.Fatalf("template missing from prompt: %q", gotBody.Messages[0].Content)
	}
}

func TestGenerateSurfacesUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error": {"message": "model not found"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	r, err := NewResponder(&Config{APIKey: "test", BaseURL: srv.URL, Model: "m"})
	if err != nil {
		t.Fatalf("new responder: %v", err)
	}
	if _, err := r.Generate(context.Background(), "hello"); err == nil {
		t.Fatal("expected upstream error")
	}
}
