// Package ai provides a minimal client for an OpenAI-compatible
// chat-completions endpoint, plus the permissive JSON extraction applied to
// model replies. The mood suggestion flow is its only consumer.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrRateLimited is returned when the upstream gateway answers 429. The
// caller surfaces it as its own 429 so the client can back off; no retry
// happens on the server side.
var ErrRateLimited = errors.New("ai: rate limited")

// ErrQuotaExceeded is returned when the upstream gateway answers 402
// (workspace out of funds). Distinguished from ErrRateLimited because the
// two need different user-facing messaging.
var ErrQuotaExceeded = errors.New("ai: quota exceeded")

// Config carries the connection parameters for the completion gateway.
type Config struct {
	BaseURL string        // e.g. "https://ai.gateway.lovable.dev"
	APIKey  string        // bearer credential for the gateway
	Model   string        // model identifier, e.g. "google/gemini-2.5-flash"
	Timeout time.Duration // bound on the whole request; zero means 8s
}

// Client calls the chat-completions endpoint. It is safe for concurrent use.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a Client from the given config, applying the default
// timeout when none is set. A misbehaving upstream must not hold a request
// handler forever, so the timeout is always enforced.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user message pair and returns the raw text of
// the model's reply. Rate-limit and quota failures map to the sentinel
// errors above; every other non-2xx status and transport failure (timeouts
// included) is a generic upstream error.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: gateway request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	case http.StatusPaymentRequired:
		return "", ErrQuotaExceeded
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("ai: gateway returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("ai: response contained no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
