// Package remote talks to the story search service.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"hnstories/internal/domain"
)

// DefaultEndpoint is the query prefix of the Hacker News search API
const DefaultEndpoint = "https://hn.algolia.com/api/v1/search?query="

// DefaultTimeout bounds a single request
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent identifies us to the service
const DefaultUserAgent = "hnstories/1.0"

var (
	// ErrStatus is wrapped when the service answers with a non-2xx status
	ErrStatus = errors.New("unexpected status")
	// ErrDecode is wrapped when the body is not the expected JSON
	ErrDecode = errors.New("malformed response")
)

// maxErrorBody caps how much of an error body ends up in the error text
const maxErrorBody = 512

// Fetcher retrieves the stories at a request target
type Fetcher interface {
	Fetch(ctx context.Context, target string) ([]domain.Story, error)
}

// searchResponse is the subset of the search API response we use
type searchResponse struct {
	Hits []domain.Story `json:"hits"`
}

// Options configures a Client
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	RatePerSecond float64 // 0 disables client-side rate limiting
	HTTPClient    *http.Client
}

// Client is an HTTP implementation of Fetcher
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient creates a story service client
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	c := &Client{
		httpClient: httpClient,
		userAgent:  opts.UserAgent,
	}
	if opts.RatePerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return c
}

// Fetch issues one GET to target and parses the hits list
func (c *Client) Fetch(ctx context.Context, target string) ([]domain.Story, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: server returned %d: %s", ErrStatus, resp.StatusCode, string(body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if payload.Hits == nil {
		return nil, fmt.Errorf("%w: missing hits list", ErrDecode)
	}

	return payload.Hits, nil
}

// BuildTarget joins the endpoint prefix and the query-escaped search term
func BuildTarget(endpoint, term string) string {
	return endpoint + url.QueryEscape(term)
}
