// Package inference classifies workflow sessions with an LLM: what was the
// user trying to do, where was the friction, and what would a fundamentally
// better workflow look like. All providers speak simple JSON over HTTP; the
// provider is chosen once at startup from configuration.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/blackwell-systems/workflowx/internal/config"
)

// Client is a minimal LLM completion interface.
type Client interface {
	// Complete sends one system + user prompt pair and returns the raw text
	// of the model's reply.
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// NewClient builds the provider named in the configuration. The provider
// name is validated at config load, so an unknown value here is a bug.
func NewClient(cfg config.Inference) (Client, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic provider selected but ANTHROPIC_API_KEY is not set")
		}
		return &anthropicClient{
			apiKey: cfg.AnthropicAPIKey,
			model:  cfg.Model,
			http:   &http.Client{Timeout: 60 * time.Second},
		}, nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but OPENAI_API_KEY is not set")
		}
		return &openAIClient{
			baseURL: "https://api.openai.com/v1",
			apiKey:  cfg.OpenAIAPIKey,
			model:   cfg.Model,
			http:    &http.Client{Timeout: 60 * time.Second},
		}, nil
	case "ollama":
		// Ollama exposes an OpenAI-compatible endpoint; any token works.
		return &openAIClient{
			baseURL: strings.TrimRight(cfg.OllamaBaseURL, "/") + "/v1",
			apiKey:  "ollama",
			model:   cfg.Model,
			http:    &http.Client{Timeout: 120 * time.Second},
		}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

type anthropicClient struct {
	apiKey string
	model  string
	http   *http.Client
}

func (c *anthropicClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	body := map[string]any{
		"model":      c.model,
		"max_tokens": maxTokens,
		"system":     system,
		"messages": []map[string]string{
			{"role": "user", "content": user},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("anthropic status %d: %s", resp.StatusCode, msg)
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding anthropic response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("anthropic response had no content")
	}
	return parsed.Content[0].Text, nil
}

// openAIClient speaks the chat completions wire format, which covers both
// OpenAI itself and Ollama's compatibility endpoint.
type openAIClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func (c *openAIClient) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	body := map[string]any{
		"model":      c.model,
		"max_tokens": maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("chat completion status %d: %s", resp.StatusCode, msg)
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding chat completion: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion had no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// stripCodeFences removes a markdown code fence wrapper from a model reply.
// Models often wrap JSON in ```json ... ``` despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
