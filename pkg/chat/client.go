// Package chat is the client for the stateless chat-assistant collaborator.
// The assistant is not part of the review workflow; the console only relays
// a question with some report context and shows whatever comes back.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// FallbackReply is shown whenever the assistant cannot be reached or
// declines the request.
const FallbackReply = "Sorry, I'm having trouble connecting right now. Please try again later."

// DefaultTimeout bounds one assistant round trip.
const DefaultTimeout = 20 * time.Second

// Asker answers a free-text question in the context of the current review.
type Asker interface {
	Ask(ctx context.Context, message, contextNote string) string
}

// Client reaches the assistant over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an assistant client. A zero timeout falls back to
// DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

type chatResponse struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply"`
}

// Ask sends the question and returns the assistant's reply. Every failure
// mode collapses to FallbackReply; the caller always has something to show.
func (c *Client) Ask(ctx context.Context, message, contextNote string) string {
	payload, err := json.Marshal(chatRequest{Message: message, Context: contextNote})
	if err != nil {
		return FallbackReply
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chatbot", bytes.NewReader(payload))
	if err != nil {
		return FallbackReply
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return FallbackReply
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return FallbackReply
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return FallbackReply
	}
	if !parsed.Success || parsed.Reply == "" {
		return FallbackReply
	}
	return parsed.Reply
}
