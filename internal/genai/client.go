// Package genai provides the client for the external generative completion service.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrNotConfigured is returned when the client has no API key.
	ErrNotConfigured = errors.New("generative service not configured")
	// ErrEmptyCompletion is returned when the service answers without content.
	ErrEmptyCompletion = errors.New("empty completion")
	// ErrNoJSONDocument is returned when the completion carries no JSON object.
	ErrNoJSONDocument = errors.New("completion does not contain a JSON document")
)

// Message is a role-tagged prompt fragment.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single structured completion request.
type Request struct {
	Messages    []Message
	Shape       string
	Temperature float64
	MaxTokens   int
}

// Completer returns a single structured document for a request, or an error.
type Completer interface {
	Complete(ctx context.Context, req Request) (json.RawMessage, error)
}

// Config holds client tunables.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a Client. It is created once at process start and shared.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one request and returns the JSON document found in the reply.
// It never retries.
func (c *Client) Complete(ctx context.Context, req Request) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	messages := make([]Message, 0, len(req.Messages)+1)
	messages = append(messages, req.Messages...)
	if req.Shape != "" {
		messages = append(messages, Message{
			Role:    "system",
			Content: "Respond with a single JSON object and nothing else. Required shape:\n" + req.Shape,
		})
	}

	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("completion service returned %s: %s", resp.Status, truncate(string(data), 256))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("completion service error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyCompletion
	}

	return ExtractJSON(parsed.Choices[0].Message.Content)
}

// ExtractJSON returns the outermost JSON object in content, tolerating markdown fences.
func ExtractJSON(content string) (json.RawMessage, error) {
	if idx := strings.Index(content, "```json"); idx != -1 {
		content = content[idx+len("```json"):]
	} else if idx := strings.Index(content, "```"); idx != -1 {
		content = content[idx+3:]
	}
	if idx := strings.LastIndex(content, "```"); idx != -1 {
		content = content[:idx]
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return nil, ErrNoJSONDocument
	}

	raw := json.RawMessage(content[start : end+1])
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrNoJSONDocument)
	}
	return raw, nil
}

// truncate cuts value to at most limit bytes on a rune boundary.
func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	for limit > 0 && !utf8.RuneStart(value[limit]) {
		limit--
	}
	return value[:limit] + "..."
}
