package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/buildlens/buildlens/pkg/config"
)

// client is the log vault API client
type client struct {
	config     *config.Config
	httpClient *http.Client
}

var _ Client = (*client)(nil)

// NewClient creates a new vault API client
func NewClient(cfg *config.Config) (Client, error) {
	return &client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

var (
	sharedOnce   sync.Once
	sharedClient Client
	sharedErr    error
)

// Shared returns the process-wide client handle, built lazily on first use
// and reused across requests. Configuration changes after the first call do
// not refresh the held client; a restart is required.
func Shared(cfg *config.Config) (Client, error) {
	sharedOnce.Do(func() {
		sharedClient, sharedErr = NewClient(cfg)
	})
	return sharedClient, sharedErr
}

// request makes an HTTP request to the vault API with retry logic
func (c *client) request(ctx context.Context, method, path string, body any) ([]byte, error) {
	var respBody []byte
	attempt := 0

	err := retry.Do(
		func() error {
			attempt++

			// Construct full URL
			reqURL := c.config.GetEnvConfig().VaultURL + "/" + path

			slog.Debug("vault API request",
				"method", method,
				"path", path,
				"url", reqURL,
				"attempt", attempt,
			)

			// Marshal body if present
			var bodyReader io.Reader
			if body != nil {
				jsonBody, err := json.Marshal(body)
				if err != nil {
					slog.Error("Failed to marshal request body", "error", err, "path", path)
					return retry.Unrecoverable(fmt.Errorf("failed to marshal request body: %w", err))
				}
				bodyReader = bytes.NewBuffer(jsonBody)
				slog.Debug("Request body marshalled", "size", len(jsonBody))
			}

			// Create request with context
			req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
			if err != nil {
				slog.Error("Failed to create HTTP request", "error", err, "method", method, "url", reqURL)
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}

			// Set headers
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Source", "cli")
			if c.config.APIToken != "" {
				req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
			}

			// Make request
			startTime := time.Now()
			resp, err := c.httpClient.Do(req)
			duration := time.Since(startTime)

			if err != nil {
				slog.Warn("HTTP request failed",
					"error", err,
					"method", method,
					"path", path,
					"duration", duration,
					"attempt", attempt,
				)
				return fmt.Errorf("request failed: %w", err)
			}
			defer resp.Body.Close() //nolint:errcheck // Deferred close, error not actionable

			// Read response body
			respBody, err = io.ReadAll(resp.Body)
			if err != nil {
				slog.Error("Failed to read response body", "error", err, "statusCode", resp.StatusCode)
				return fmt.Errorf("failed to read response: %w", err)
			}

			slog.Debug("vault API response",
				"statusCode", resp.StatusCode,
				"responseSize", len(respBody),
				"duration", duration,
				"method", method,
				"path", path,
			)

			// Check status code
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil // Success
			}

			// Handle authentication errors specially
			if resp.StatusCode == 401 || resp.StatusCode == 403 {
				slog.Warn("Authentication failed", "statusCode", resp.StatusCode, "path", path)
				return retry.Unrecoverable(fmt.Errorf("vault API rejected the configured token. Set a valid token with 'buildlens config set api-token TOKEN'"))
			}

			// All other errors carry the vault's structured error body when available
			apiErr := &APIError{StatusCode: resp.StatusCode}
			var errResp ErrorResponse
			if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
				apiErr.Code = errResp.Code
				apiErr.Message = errResp.Message
			} else {
				apiErr.Message = string(respBody)
			}

			slog.Error("vault API error",
				"statusCode", resp.StatusCode,
				"code", apiErr.Code,
				"message", apiErr.Message,
				"path", path,
				"method", method,
			)
			return retry.Unrecoverable(apiErr)
		},
		retry.Attempts(2),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	return respBody, nil
}

// DescribeStreams lists log streams in a group matching the name prefix
func (c *client) DescribeStreams(ctx context.Context, group, prefix, nextToken string) (*StreamPage, error) {
	params := url.Values{}
	if prefix != "" {
		params.Set("prefix", prefix)
	}
	if nextToken != "" {
		params.Set("nextToken", nextToken)
	}

	path := fmt.Sprintf("v1/groups/%s/streams", url.PathEscape(group))
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	body, err := c.request(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var page StreamPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse streams response: %w", err)
	}

	return &page, nil
}

// FilterEvents runs a filtered, paginated event query against a group
func (c *client) FilterEvents(ctx context.Context, group string, query FilterQuery) (*EventPage, error) {
	path := fmt.Sprintf("v1/groups/%s/events/filter", url.PathEscape(group))

	body, err := c.request(ctx, "POST", path, query)
	if err != nil {
		return nil, err
	}

	var page EventPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse events response: %w", err)
	}

	return &page, nil
}
