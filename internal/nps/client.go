// Package nps talks to the National Park Service data API
package nps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/ngmaloney/park-terminal/internal/config"
	"github.com/ngmaloney/park-terminal/internal/metrics"
)

// DefaultCacheFor is the freshness window used when a call does not set one
const DefaultCacheFor = time.Hour

// ErrMissingAPIKey is returned by every call made without a configured key
var ErrMissingAPIKey = config.ErrMissingAPIKey

// APIError is returned when the NPS API answers with a non-2xx status
type APIError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("NPS API error: %s returned %s", e.Endpoint, e.Status)
}

// FetchOptions controls caching for a single call
type FetchOptions struct {
	// CacheFor reuses a cached response younger than this. Zero means
	// DefaultCacheFor; negative bypasses the cache.
	CacheFor time.Duration
}

type cacheEntry struct {
	body      []byte
	fetchedAt time.Time
}

// Client performs authenticated GETs against the NPS API
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time

	cache map[string]cacheEntry
	mu    sync.RWMutex
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request failures
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records upstream calls and cache hits
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithClock overrides time.Now for freshness checks
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a client from the nps config section.
// A missing API key is not an error here; calls fail with ErrMissingAPIKey instead.
func NewClient(cfg config.NPS, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	c := &Client{
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: slog.Default(),
		now:    time.Now,
		cache:  make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs one GET of endpoint with params and decodes the JSON body into T.
// There are no retries; the first failure is returned.
func Fetch[T any](ctx context.Context, c *Client, endpoint string, params map[string]string, opts FetchOptions) (T, error) {
	var out T

	if c.apiKey == "" {
		return out, ErrMissingAPIKey
	}

	window := opts.CacheFor
	if window == 0 {
		window = DefaultCacheFor
	}

	key := cacheKey(endpoint, params)
	if window > 0 {
		if body, ok := c.lookup(key, window); ok {
			c.metrics.CacheHit(endpoint)
			if err := json.Unmarshal(body, &out); err == nil {
				return out, nil
			}
			// Unreadable cache entries fall through to a fresh fetch
			c.evict(key)
		}
	}

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return out, err
	}

	if err := json.Unmarshal(body, &out); err != nil {
		c.metrics.ObserveUpstream(endpoint, "decode_error", 0)
		return out, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}

	if window > 0 {
		c.store(key, body)
	}
	return out, nil
}

// get issues the request and returns the raw body of a 2xx response
func (c *Client) get(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	query := url.Values{}
	query.Set("api_key", c.apiKey)
	for k, v := range params {
		query.Set(k, v)
	}
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", endpoint, err)
	}

	// The API accepts the key as a query parameter or a header; send both
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, "network_error", c.now().Sub(start))
		return nil, fmt.Errorf("fetching %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveUpstream(endpoint, "http_error", c.now().Sub(start))
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.ObserveUpstream(endpoint, "network_error", c.now().Sub(start))
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	c.metrics.ObserveUpstream(endpoint, "ok", c.now().Sub(start))

	c.logger.Debug("nps request", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

func (c *Client) lookup(key string, window time.Duration) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.cache[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.fetchedAt) >= window {
		return nil, false
	}
	return entry.body, true
}

func (c *Client) store(key string, body []byte) {
	c.mu.Lock()
	c.cache[key] = cacheEntry{body: body, fetchedAt: c.now()}
	c.mu.Unlock()
}

func (c *Client) evict(key string) {
	c.mu.Lock()
	delete(c.cache, key)
	c.mu.Unlock()
}

// Purge drops every cached response
func (c *Client) Purge() {
	c.mu.Lock()
	c.cache = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// cacheKey identifies a request without the credential
func cacheKey(endpoint string, params map[string]string) string {
	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}
	return endpoint + "?" + query.Encode()
}
