package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAICompleteBuildsChatPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Fatalf("unexpected authorization header: %s", got)
		}
		var payload struct {
			Model       string              `json:"model"`
			Messages    []map[string]string `json:"messages"`
			Temperature float64             `json:"temperature"`
			MaxTokens   int                 `json:"max_tokens"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Model != "gpt-4o-mini" {
			t.Fatalf("unexpected model: %s", payload.Model)
		}
		if len(payload.Messages) != 2 || payload.Messages[0]["role"] != "system" {
			t.Fatalf("unexpected messages: %+v", payload.Messages)
		}
		if payload.Temperature != 0.1 {
			t.Fatalf("unexpected temperature: %v", payload.Temperature)
		}
		if payload.MaxTokens != 2048 {
			t.Fatalf("unexpected max_tokens: %d", payload.MaxTokens)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"# Summary\nDone."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "sk-test", base: server.URL, models: []string{"gpt-4o-mini"}, client: server.Client()}
	text, err := client.Complete(context.Background(), "render the document", Options{
		SystemPrompt: "You write task documentation.",
		MaxTokens:    2048,
		Temperature:  0.1,
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if text != "# Summary\nDone." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestOpenAICompleteContentFilterFailsModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		if payload.Model == "gpt-4o-mini" {
			w.Write([]byte(`{"choices":[{"message":{"content":""},"finish_reason":"content_filter"}]}`))
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "sk-test", base: server.URL, models: []string{"gpt-4o-mini", "gpt-4o"}, client: server.Client()}
	text, err := client.Complete(context.Background(), "prompt", Options{})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if text != "ok" {
		t.Fatalf("expected fallback model to answer, got %q", text)
	}
}
