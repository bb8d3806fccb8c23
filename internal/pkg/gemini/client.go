// Package gemini is a minimal client for the Gemini generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var (
	ErrEmptyResponse = errors.New("gemini returned no text")
	ErrNotConfigured = errors.New("gemini api key is not configured")
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	// InitialInterval is the first backoff wait; zero uses the backoff default.
	InitialInterval time.Duration
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Model() string {
	return c.cfg.Model
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini returned status %d: %s", e.StatusCode, e.Body)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// Generate sends prompt to the configured model and returns the concatenated
// text parts of the first candidate. 429 and 5xx responses are retried with
// exponential backoff.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("failed to encode gemini request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)

	expo := backoff.NewExponentialBackOff()
	if c.cfg.InitialInterval > 0 {
		expo.InitialInterval = c.cfg.InitialInterval
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(expo, c.cfg.MaxRetries), ctx)

	var text string
	attempt := 0
	op := func() error {
		attempt++
		t, err := c.do(ctx, endpoint, body)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !retryable(statusErr.StatusCode) {
				return backoff.Permanent(err)
			}
			if errors.Is(err, ErrEmptyResponse) {
				return backoff.Permanent(err)
			}
			slog.Warn("gemini request failed", "attempt", attempt, "error", err)
			return err
		}
		text = t
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) do(ctx context.Context, endpoint string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
