package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/afterhack/afterhack-api/internal/domain"
)

// ErrMalformedResponse indicates the provider answered 2xx but the body did
// not contain a completion choice.
var ErrMalformedResponse = errors.New("completion response missing choices")

// UpstreamError is a non-success status from the completion provider. The
// caller decides how to surface it (e.g. map 429 to a rate-limit message).
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("openrouter api error: %d - %s", e.StatusCode, e.Body)
}

// TransportError is a network-level failure (timeout, DNS, reset) before any
// upstream status was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "openrouter transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// OpenRouterClient implements domain.CompletionClient against the OpenRouter
// chat-completions endpoint. One outbound call per invocation, no retries;
// retry policy belongs to the caller.
type OpenRouterClient struct {
	httpClient   *http.Client
	apiKey       string
	endpoint     string
	siteURL      string
	siteName     string
	defaultModel string
}

type OpenRouterConfig struct {
	APIKey       string
	Endpoint     string // defaults to the public OpenRouter URL
	SiteURL      string // sent as HTTP-Referer
	SiteName     string // sent as X-Title
	DefaultModel string
	Timeout      time.Duration
	HTTPClient   *http.Client // overrides Timeout when set
}

func NewOpenRouterClient(cfg OpenRouterConfig) (*OpenRouterClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter api key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://openrouter.ai/api/v1/chat/completions"
	}

	model := cfg.DefaultModel
	if model == "" {
		model = "google/gemini-2.0-flash-001"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &OpenRouterClient{
		httpClient:   httpClient,
		apiKey:       cfg.APIKey,
		endpoint:     endpoint,
		siteURL:      cfg.SiteURL,
		siteName:     cfg.SiteName,
		defaultModel: model,
	}, nil
}

type completionRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete implements domain.CompletionClient.
func (c *OpenRouterClient) Complete(ctx context.Context, messages []domain.ChatMessage, model string) (string, error) {
	if model == "" {
		model = c.defaultModel
	}

	body, err := json.Marshal(completionRequest{Model: model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.siteURL)
	req.Header.Set("X-Title", c.siteName)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errText, _ := io.ReadAll(resp.Body)
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(errText)}
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode completion response: %w", ErrMalformedResponse)
	}
	if len(out.Choices) == 0 {
		return "", ErrMalformedResponse
	}

	return out.Choices[0].Message.Content, nil
}
