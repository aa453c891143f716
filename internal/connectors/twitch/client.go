package twitch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/clipper/internal/core/ports/driven"
	"github.com/custodia-labs/clipper/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxRetries is the maximum number of retries for transient errors.
	MaxRetries = 3

	// RetryDelay is the initial delay between retries. It doubles per retry.
	RetryDelay = time.Second

	// HeaderClientID carries the application client ID.
	HeaderClientID = "Client-Id"

	// maxErrorBody caps how much of an error response is kept for messages.
	maxErrorBody = 4 << 10
)

// Client performs authenticated Helix requests.
type Client struct {
	http        *http.Client
	cfg         Config
	rateLimiter *RateLimiter
}

// NewClient creates a Helix client.
// httpClient, when non-nil, is the base client the bearer transport wraps.
func NewClient(cfg Config, tokenProvider driven.TokenProvider, httpClient *http.Client) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tokenProvider == nil {
		return nil, fmt.Errorf("twitch: token provider is required")
	}
	cfg = cfg.withDefaults()

	ctx := context.Background()
	if httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	}
	tc := oauth2.NewClient(ctx, NewTokenSource(ctx, tokenProvider))
	tc.Timeout = DefaultTimeout

	return &Client{
		http:        tc,
		cfg:         cfg,
		rateLimiter: NewRateLimiter(cfg.RequestsPerSecond),
	}, nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// getJSON issues GET {base}{path}?{query} and decodes the response into out.
// Transient failures are retried; the returned error is classified into
// the domain error taxonomy.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.cfg.RetryDelay << (attempt - 1)
			logger.Debug("twitch: retry %d/%d for %s in %s: %v", attempt, MaxRetries, path, delay, lastErr)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = c.doGet(ctx, endpoint, out)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retryable(lastErr) {
			break
		}
	}

	return classify(lastErr)
}

// doGet performs a single attempt.
func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	req.Header.Set(HeaderClientID, c.cfg.ClientID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.Body),
			URL:        req.URL.String(),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return nil
}

// errorMessage extracts Helix's {"message": ...} or falls back to raw text.
func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return "empty response"
	}

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return string(raw)
}

// isContextError reports whether err came from context cancellation.
func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
