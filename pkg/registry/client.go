package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/platinummonkey/protoreg/pkg/observability"
)

// Client is the registry capability consumed by the publish and retrieve
// pipelines. Implementations own transport, authentication, and logical
// retries; callers own nothing of the connection lifecycle.
type Client interface {
	// GetLatestVersion returns the latest registered version for a subject,
	// or a NotFoundError if the subject has none.
	GetLatestVersion(ctx context.Context, subject string) (*RegisteredSchema, error)

	// GetByVersion returns a specific registered version for a subject
	GetByVersion(ctx context.Context, subject string, version int) (*RegisteredSchema, error)

	// Register creates a new version under the subject and returns the
	// registry-assigned version number and global schema id.
	Register(ctx context.Context, subject, schema string, schemaType SchemaType, references []Reference) (version int, id int, err error)
}

// Options configures an HTTPClient
type Options struct {
	// URLs are the registry base URLs; each request tries them in order
	URLs []string

	// Timeout applies per HTTP request
	Timeout time.Duration

	// Retry bounds transient-failure retries
	Retry RetryConfig

	// CacheSize bounds the LRU cache of immutable (subject, version) lookups
	CacheSize int

	// BearerToken, if set, is sent as an Authorization: Bearer header
	BearerToken string

	// BasicUser/BasicPassword, if set, are sent as HTTP basic auth
	BasicUser     string
	BasicPassword string
}

// HTTPClient talks to a schema registry over its REST API
type HTTPClient struct {
	urls   []string
	client *http.Client
	retry  *RetryPolicy
	cache  *lru.Cache[string, *RegisteredSchema]
	opts   Options
}

// NewHTTPClient creates a registry client for the given base URLs
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	if len(opts.URLs) == 0 {
		return nil, fmt.Errorf("at least one registry URL is required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}

	urls := make([]string, 0, len(opts.URLs))
	for _, u := range opts.URLs {
		urls = append(urls, strings.TrimRight(u, "/"))
	}

	cache, err := lru.New[string, *RegisteredSchema](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema cache: %w", err)
	}

	return &HTTPClient{
		urls: urls,
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		retry: NewRetryPolicy(opts.Retry),
		cache: cache,
		opts:  opts,
	}, nil
}

// GetLatestVersion returns the latest registered version for a subject.
// Latest is mutable, so the result is never cached.
func (c *HTTPClient) GetLatestVersion(ctx context.Context, subject string) (*RegisteredSchema, error) {
	path := fmt.Sprintf("/subjects/%s/versions/latest", subject)

	var reg RegisteredSchema
	status, err := c.do(ctx, http.MethodGet, path, nil, &reg)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusNotFound:
		return nil, &NotFoundError{Subject: subject}
	case status != http.StatusOK:
		return nil, fmt.Errorf("unexpected registry status %d for subject %s", status, subject)
	}

	if reg.Subject == "" {
		reg.Subject = subject
	}
	return &reg, nil
}

// GetByVersion returns a specific registered version for a subject.
// Registered versions are immutable, so results are cached.
func (c *HTTPClient) GetByVersion(ctx context.Context, subject string, version int) (*RegisteredSchema, error) {
	key := fmt.Sprintf("%s@%d", subject, version)
	if reg, ok := c.cache.Get(key); ok {
		return reg, nil
	}

	path := fmt.Sprintf("/subjects/%s/versions/%d", subject, version)

	var reg RegisteredSchema
	status, err := c.do(ctx, http.MethodGet, path, nil, &reg)
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusNotFound:
		return nil, &NotFoundError{Subject: subject, Version: version}
	case status != http.StatusOK:
		return nil, fmt.Errorf("unexpected registry status %d for %s version %d", status, subject, version)
	}

	if reg.Subject == "" {
		reg.Subject = subject
	}
	if reg.Version == 0 {
		reg.Version = version
	}

	c.cache.Add(key, &reg)
	return &reg, nil
}

// Register creates a new schema version under the subject
func (c *HTTPClient) Register(ctx context.Context, subject, schema string, schemaType SchemaType, references []Reference) (int, int, error) {
	if !schemaType.Valid() {
		return 0, 0, fmt.Errorf("invalid schema type: %s", schemaType)
	}

	path := fmt.Sprintf("/subjects/%s/versions", subject)
	req := registerRequest{
		Schema:     schema,
		SchemaType: schemaType,
		References: references,
	}

	var resp registerResponse
	status, err := c.doWithBody(ctx, http.MethodPost, path, req, &resp, subject)
	if err != nil {
		return 0, 0, err
	}

	if status != http.StatusOK && status != http.StatusCreated {
		return 0, 0, fmt.Errorf("unexpected registry status %d registering subject %s", status, subject)
	}

	return resp.Version, resp.ID, nil
}

// do issues a request without a body; see doWithBody
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	return c.doWithBody(ctx, method, path, body, out, "")
}

// doWithBody issues a request against each configured base URL in order,
// retrying transient failures (transport errors, 5xx, 429) with bounded
// exponential backoff. Non-transient statuses are mapped to typed errors
// where the taxonomy demands it and otherwise returned to the caller.
func (c *HTTPClient) doWithBody(ctx context.Context, method, path string, body, out interface{}, subject string) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	logger := observability.FromContext(ctx)

	var lastErr error
	attempts := 0
	for attempts < c.retry.MaxAttempts() {
		attempts++

		for _, base := range c.urls {
			status, transient, err := c.attempt(ctx, method, base+path, payload, out, subject)
			if err == nil {
				return status, nil
			}
			if !transient {
				return 0, err
			}
			lastErr = err
			logger.WithError(err).WithFields(map[string]interface{}{
				"url":     base + path,
				"attempt": attempts,
			}).Warn("transient registry failure")
		}

		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		if c.retry.ShouldRetry(attempts, lastErr) {
			if err := c.retry.Wait(ctx, attempts); err != nil {
				return 0, err
			}
		}
	}

	return 0, &UnavailableError{Attempts: attempts, Err: lastErr}
}

// attempt performs a single HTTP exchange. The second return value
// reports whether the failure is transient and eligible for retry.
func (c *HTTPClient) attempt(ctx context.Context, method, url string, payload []byte, out interface{}, subject string) (int, bool, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, false, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, true, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, true, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return 0, true, fmt.Errorf("registry returned %d from %s: %s", resp.StatusCode, url, summarize(respBody))

	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		var regErr errorResponse
		_ = json.Unmarshal(respBody, &regErr)
		msg := regErr.Message
		if msg == "" {
			msg = summarize(respBody)
		}
		return 0, false, &RejectedError{Subject: subject, StatusCode: resp.StatusCode, Message: msg}

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return 0, false, fmt.Errorf("failed to decode registry response: %w", err)
			}
		}
		return resp.StatusCode, false, nil

	default:
		// 404 and other client errors are mapped by the caller
		return resp.StatusCode, false, nil
	}
}

// authorize attaches configured credentials to the request
func (c *HTTPClient) authorize(req *http.Request) {
	if c.opts.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.BearerToken)
		return
	}
	if c.opts.BasicUser != "" {
		req.SetBasicAuth(c.opts.BasicUser, c.opts.BasicPassword)
	}
}

// summarize truncates a response body for error messages
func summarize(body []byte) string {
	const max = 256
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
