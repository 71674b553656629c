package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type ollamaClient struct {
	host   string
	models []string
	client *http.Client
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s)", strings.Join(c.models, " → "))
}

func (c *ollamaClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	return runChain(c.models, func(model string) (string, error) {
		return c.generate(ctx, model, prompt, opts)
	})
}

func (c *ollamaClient) generate(ctx context.Context, model, prompt string, opts Options) (string, error) {
	options := map[string]any{"temperature": opts.temperature()}
	if opts.MaxTokens > 0 {
		options["num_predict"] = opts.MaxTokens
	}
	payload := map[string]any{
		"model":   model,
		"prompt":  prompt,
		"stream":  false,
		"options": options,
	}
	if opts.SystemPrompt != "" {
		payload["system"] = opts.SystemPrompt
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("ollama API error: %s (%s)", resp.Status, string(body))
	}

	var parsed struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if parsed.Response == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}
	if !parsed.Done {
		return "", fmt.Errorf("ollama response was truncated")
	}
	return strings.TrimSpace(parsed.Response), nil
}
