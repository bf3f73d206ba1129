package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"chat-relay/internal/domain"
)

// ErrUnexpectedResponse is returned when a response carries neither choices nor an error.
var ErrUnexpectedResponse = errors.New("openai: unexpected response format")

// chatRequest is the minimal request shape for the Chat Completions endpoint.
type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
}

// chatResponse is the minimal response shape returned by the Chat Completions endpoint.
type chatResponse struct {
	Choices []struct {
		Index   int                `json:"index"`
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
	Error *errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

type TokenGetter interface {
	GetToken(ctx context.Context, name string) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses without an error payload.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("openai: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// APIError is an error reported by the provider in the response body.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: api error (status %d, type %q): %s", e.StatusCode, e.Type, e.Message)
}

func (e *APIError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a focused OpenAI-compatible client for chat completions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	getter     TokenGetter
	tokenParam string

	keyMu  sync.Mutex
	apiKey string
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSpace(baseURL)
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIKey sets a static API key. It takes precedence over WithParamStore.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithParamStore resolves the API key from the named parameter on first use.
func WithParamStore(getter TokenGetter, name string) Option {
	return func(c *Client) {
		c.getter = getter
		c.tokenParam = strings.TrimSpace(name)
	}
}

// NewClient creates a new Client. Either a static key or a parameter store
// source for it must be configured.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    "https://api.openai.com/v1",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.apiKey == "" && (c.getter == nil || c.tokenParam == "") {
		return nil, errors.New("openai: an API key or a paramstore token source is required")
	}
	return c, nil
}

// resolveAPIKey returns the static key, or fetches it from the parameter
// store. Only a successfully fetched key is kept, so a failed fetch is
// retried on the next call.
func (c *Client) resolveAPIKey(ctx context.Context) (string, error) {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	if c.apiKey != "" {
		return c.apiKey, nil
	}
	key, err := c.getter.GetToken(ctx, c.tokenParam)
	if err != nil {
		return "", fmt.Errorf("openai: fetch token from paramstore: %w", err)
	}
	c.apiKey = key
	return key, nil
}

// resolvedHTTPClient returns the configured HTTP client, or a default with a
// 10s timeout if none was set.
func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func chatURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/chat/completions"
	}
	return base + "/v1/chat/completions"
}

// Chat sends messages to the Chat Completions endpoint and returns the
// content of the first choice. Provider-reported failures are *APIError.
func (c *Client) Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	if model == "" {
		return "", errors.New("openai: model must not be empty")
	}

	apiKey, err := c.resolveAPIKey(ctx)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	url := chatURL(c.baseURL)

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if reqErr != nil {
		return "", fmt.Errorf("openai: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	status, raw, err := c.doJSONRequest(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}

	var payload chatResponse
	decErr := json.Unmarshal(raw, &payload)
	success := status >= 200 && status < 300

	if !success {
		if decErr == nil && payload.Error != nil {
			return "", newAPIError(status, payload.Error)
		}
		return "", &HTTPStatusError{StatusCode: status, URL: url, Body: truncate(string(raw), 4096)}
	}
	if decErr != nil {
		return "", fmt.Errorf("openai: decode response: %w", decErr)
	}
	switch {
	case len(payload.Choices) > 0:
		return payload.Choices[0].Message.Content, nil
	case payload.Error != nil:
		return "", newAPIError(status, payload.Error)
	default:
		return "", ErrUnexpectedResponse
	}
}

func newAPIError(status int, body *errorBody) *APIError {
	return &APIError{StatusCode: status, Message: body.Message, Type: body.Type}
}

func (c *Client) doJSONRequest(req *http.Request) (int, []byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return 0, nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return res.StatusCode, buf, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
