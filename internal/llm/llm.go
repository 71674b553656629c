package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultOllamaModel = "qwen3:8b"
	defaultOpenAIBase  = "https://api.openai.com/v1"
	// Generations can run long; the caller's context handles cancellation.
	defaultLLMHTTPTimeout = 3 * time.Minute
	defaultTemperature    = 0.3
)

// Fixed fallback chains per provider. The configured preferred model is tried first,
// then these in order, with the preferred model deduplicated out.
var (
	ollamaFallbackModels = []string{"qwen3:8b", "llama3.1:8b", "mistral:7b"}
	openAIFallbackModels = []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini"}
)

// Options tune a single completion request.
type Options struct {
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

func (o Options) temperature() float64 {
	if o.Temperature == 0 {
		return defaultTemperature
	}
	return o.Temperature
}

// Client executes one free-text completion request, trying an ordered list of model
// identifiers until one succeeds.
type Client interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
	Name() string
}

// Config describes how to build a generation client.
type Config struct {
	Provider       string
	Model          string
	FallbackModels []string
	Endpoint       string
	APIKey         string
	HTTPClient     *http.Client
}

// NewFromEnv builds a client from explicit config plus environment variables. With no
// provider set it prefers OpenAI when an API key is available and falls back to a
// local Ollama host otherwise.
func NewFromEnv(cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if provider == "" {
		if apiKey != "" {
			provider = "openai"
		} else {
			provider = "ollama"
		}
	}

	switch provider {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider selected but OPENAI_API_KEY is not set")
		}
		base := cfg.Endpoint
		if base == "" {
			base = defaultOpenAIBase
		}
		model := cfg.Model
		if model == "" {
			model = openAIFallbackModels[0]
		}
		return &openAIClient{
			apiKey: apiKey,
			base:   strings.TrimRight(base, "/"),
			models: modelChain(model, fallbackChain(cfg.FallbackModels, openAIFallbackModels)),
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	case "ollama":
		host := cfg.Endpoint
		if host == "" {
			if env := os.Getenv("OLLAMA_HOST"); env != "" {
				host = env
			} else {
				host = "http://localhost:11434"
			}
		}
		model := cfg.Model
		if model == "" {
			if env := os.Getenv("OLLAMA_MODEL"); env != "" {
				model = env
			} else {
				model = defaultOllamaModel
			}
		}
		return &ollamaClient{
			host:   strings.TrimRight(host, "/"),
			models: modelChain(model, fallbackChain(cfg.FallbackModels, ollamaFallbackModels)),
			client: pickHTTPClient(cfg.HTTPClient),
		}, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", provider)
	}
}

func fallbackChain(configured, fixed []string) []string {
	if len(configured) > 0 {
		return configured
	}
	return fixed
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}
