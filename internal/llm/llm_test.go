package llm

import (
	"net/http"
	"testing"
	"time"
)

func TestPickHTTPClientHonorsCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	if got := pickHTTPClient(custom); got != custom {
		t.Fatalf("expected custom client to be returned")
	}
}

func TestPickHTTPClientUsesLongerTimeout(t *testing.T) {
	client := pickHTTPClient(nil)
	if client.Timeout != defaultLLMHTTPTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultLLMHTTPTimeout, client.Timeout)
	}
}

func TestNewFromEnvRequiresOpenAIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewFromEnv(Config{Provider: "openai"}); err == nil {
		t.Fatal("expected missing-key configuration error")
	}
}

func TestNewFromEnvDefaultsToOllama(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "")
	t.Setenv("OLLAMA_MODEL", "")
	client, err := NewFromEnv(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollama, ok := client.(*ollamaClient)
	if !ok {
		t.Fatalf("expected ollama client, got %T", client)
	}
	if ollama.models[0] != defaultOllamaModel {
		t.Fatalf("unexpected preferred model: %v", ollama.models)
	}
}

func TestNewFromEnvDedupesPreferredModel(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	client, err := NewFromEnv(Config{Provider: "ollama", Model: "llama3.1:8b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollama := client.(*ollamaClient)
	seen := map[string]int{}
	for _, model := range ollama.models {
		seen[model]++
	}
	if seen["llama3.1:8b"] != 1 {
		t.Fatalf("preferred model must appear exactly once: %v", ollama.models)
	}
	if ollama.models[0] != "llama3.1:8b" {
		t.Fatalf("preferred model must be first: %v", ollama.models)
	}
}

func TestUnknownProviderRejected(t *testing.T) {
	if _, err := NewFromEnv(Config{Provider: "bedrock"}); err == nil {
		t.Fatal("expected unknown provider error")
	}
}
