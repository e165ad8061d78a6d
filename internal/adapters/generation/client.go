// Package generation implements the client for the external video
// generation endpoint.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"aivideogen/internal/core/domain"
)

// requestTimeout bounds the generation request. The upstream service has no
// contract for response time, so the transport default is not relied on.
const requestTimeout = 30 * time.Second

// CompletionCallback is invoked after every submit: with the media URL on
// success, or with an empty URL on failure.
type CompletionCallback func(mediaURL string, ok bool)

// Client implements ports.Generator against the remote generation endpoint.
//
// The client itself performs no locking; serializing submissions is the
// caller's responsibility. Overlapping submits are last-response-wins.
type Client struct {
	baseURL    string
	client     *http.Client
	logger     *zap.Logger
	sim        *Simulator
	onComplete CompletionCallback
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithCompletionCallback registers a callback fired after every submit.
func WithCompletionCallback(fn CompletionCallback) Option {
	return func(c *Client) { c.onComplete = fn }
}

// NewClient creates a client for the given endpoint base URL.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
		sim:     NewSimulator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Progress returns the current simulated progress percent.
func (c *Client) Progress() int {
	return c.sim.Percent()
}

// Submit runs one generation request for the given prompt.
//
// A prompt that is empty after trimming fails with domain.ErrEmptyPrompt
// without touching the network. Every remote-side problem — transport
// failure, non-2xx status, malformed JSON, or a structured failure from the
// service — collapses into domain.ErrGenerationFailed; the detail is only
// visible in debug logs.
func (c *Client) Submit(ctx context.Context, promptText string) (*domain.GenerationResult, error) {
	prompt := strings.TrimSpace(promptText)
	if prompt == "" {
		return nil, domain.ErrEmptyPrompt
	}

	c.sim.Start()

	endpoint := c.baseURL + "?prompt=" + url.QueryEscape(prompt)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Debug("could not build generation request", zap.Error(err))
		return c.fail()
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("generation request failed", zap.Error(err))
		return c.fail()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("generation endpoint returned error status", zap.Int("status", resp.StatusCode))
		return c.fail()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Debug("could not read generation response", zap.Error(err))
		return c.fail()
	}

	result, err := parseResult(body, prompt)
	if err != nil {
		c.logger.Debug("generation response rejected", zap.Error(err))
		return c.fail()
	}

	c.sim.Finish(true)
	if c.onComplete != nil {
		c.onComplete(result.MediaURL, true)
	}
	return result, nil
}

func (c *Client) fail() (*domain.GenerationResult, error) {
	c.sim.Finish(false)
	if c.onComplete != nil {
		c.onComplete("", false)
	}
	return nil, domain.ErrGenerationFailed
}

// parseResult validates the duck-typed service payload into a typed result.
// Any missing or wrong-typed field rejects the payload.
func parseResult(body []byte, prompt string) (*domain.GenerationResult, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	success, _ := payload["success"].(bool)
	if !success {
		return nil, errors.New("service reported failure")
	}
	mediaURL, _ := payload["url"].(string)
	if mediaURL == "" {
		return nil, errors.New("no media url in response")
	}

	return &domain.GenerationResult{
		MediaURL:   mediaURL,
		PromptText: prompt,
		CreatedAt:  time.Now().UnixMilli(),
	}, nil
}
