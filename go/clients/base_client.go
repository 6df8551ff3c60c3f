package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// BaseClient is the shared HTTP client embedded by provider-specific clients.
// GETs retry transient failures (network errors and non-2xx responses) with a
// bounded attempt count and linear backoff; callers see only the final error.
type BaseClient struct {
	baseURL     string
	client      *http.Client
	headers     map[string]string
	maxAttempts int
	backoff     time.Duration
}

func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		headers:     make(map[string]string),
		maxAttempts: 3,
		backoff:     2 * time.Second,
	}
}

func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// SetRetry overrides the retry policy. Attempts below 1 are clamped to 1.
func (c *BaseClient) SetRetry(maxAttempts int, backoff time.Duration) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	c.maxAttempts = maxAttempts
	c.backoff = backoff
}

func (c *BaseClient) MakeRequest(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status code: %d, response: %s", resp.StatusCode, string(responseBody))
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return responseBody, nil
}

// Get fetches an endpoint with the client's retry policy. Backoff is linear:
// backoff * attempt between tries.
func (c *BaseClient) Get(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 {
			wait := c.backoff * time.Duration(attempt-1)
			log.Debug().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Dur("backoff", wait).
				Msg("retrying request")

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		body, err := c.MakeRequest(ctx, http.MethodGet, endpoint, nil)
		if err == nil {
			return body, nil
		}
		lastErr = err

		// Context errors are terminal, not transient.
		if ctx.Err() != nil {
			return nil, lastErr
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.maxAttempts, lastErr)
}
