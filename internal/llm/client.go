// Package llm wraps an OpenAI-compatible chat-completions endpoint
// (Ollama, LM Studio, vLLM, hosted gateways). No vendor SDK on purpose:
// any endpoint speaking /v1/chat/completions works.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client produces a completion for a prompt.
// Implementations may call an LLM or return canned results (for tests).
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is one completion request.
type Request struct {
	System      string  // optional system instruction
	Prompt      string  // user message
	Temperature float64
	Model       string // optional override of the client's default model
}

// Error is returned when a completion fails so the caller can distinguish
// "the model returned something unusable" from "the endpoint was unreachable."
type Error struct {
	Reason  string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("llm: %s: %v", e.Reason, e.Wrapped)
	}
	return fmt.Sprintf("llm: %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// HTTPClient calls an OpenAI-compatible endpoint.
type HTTPClient struct {
	url    string       // e.g. "http://localhost:1234"
	model  string       // default model name
	client *http.Client // reused across calls
}

// Compile-time check: *HTTPClient satisfies the Client interface.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the given endpoint and default model.
func NewHTTPClient(url, model string) *HTTPClient {
	return &HTTPClient{
		url:   url,
		model: model,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single chat-completion request and returns the raw text.
func (c *HTTPClient) Complete(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}

	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", &Error{Reason: "failed to marshal request", Wrapped: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", &Error{Reason: "failed to create request", Wrapped: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", &Error{Reason: "request failed", Wrapped: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &Error{Reason: fmt.Sprintf("endpoint returned status %d", resp.StatusCode)}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", &Error{Reason: "failed to decode response", Wrapped: err}
	}

	if len(chatResp.Choices) == 0 {
		return "", &Error{Reason: "endpoint returned no choices"}
	}

	content := chatResp.Choices[0].Message.Content
	if content == "" {
		return "", &Error{Reason: "endpoint returned empty content"}
	}

	return content, nil
}
