// Package llm implements the completion gateway: a stateless adapter that
// forwards a bounded conversation window to the Groq chat-completions API
// and returns the generated reply.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/saathi/saathi-go/internal/models"
)

// DefaultEndpoint is the Groq OpenAI-compatible completions endpoint.
const DefaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"

// SystemPrompt pins the companion persona for every completion request.
const SystemPrompt = "You are Saathi AI, a calm, warm emotional companion. You listen without judgment, respond gently, and encourage healthy real-world support when necessary. You are not a therapist."

const (
	model         = "llama-3.3-70b-versatile"
	maxTokens     = 400
	temperature   = 0.8
	historyWindow = 10
)

// ProviderError is returned for any transport failure, non-success response,
// or malformed payload from the completion service. The caller must not
// retry automatically.
type ProviderError struct {
	// Message carries the provider's own error text when available.
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("completion provider: %s", e.Message)
}

// message is one {role, content} pair of the wire payload.
type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client submits completion requests over HTTP. It holds no conversation
// state and never touches persistence.
type Client struct {
	http     *http.Client
	endpoint string
	log      *zap.Logger
}

// NewClient constructs a gateway client. An empty endpoint falls back to
// DefaultEndpoint; timeout bounds the whole request and, on expiry, the
// call fails like any other provider error.
func NewClient(endpoint string, timeout time.Duration, log *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: endpoint,
		log:      log,
	}
}

// Complete sends the fixed system prompt, the last 10 entries of history
// (oldest of the window first), and the new user message, returning the
// first choice's content. credential is passed as a bearer token.
func (c *Client) Complete(ctx context.Context, credential string, history []models.ChatMessage, userMessage string) (string, error) {
	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	messages := make([]message, 0, len(window)+2)
	messages = append(messages, message{Role: "system", Content: SystemPrompt})
	for _, m := range window {
		messages = append(messages, message{Role: string(m.Role), Content: m.Message})
	}
	messages = append(messages, message{Role: "user", Content: userMessage})

	body, err := json.Marshal(completionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("completion request failed", zap.Error(err))
		return "", &ProviderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ProviderError{Message: "malformed provider response"}
	}
	// The provider reports failures in the body; prefer its message over
	// the HTTP status.
	if out.Error != nil {
		return "", &ProviderError{Message: out.Error.Message}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ProviderError{Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}
	if len(out.Choices) == 0 {
		return "", &ProviderError{Message: "empty choices in provider response"}
	}
	return out.Choices[0].Message.Content, nil
}
