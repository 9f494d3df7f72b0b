package dpd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxResponseSize bounds how much of a response body is read.
const maxResponseSize = 32 * 1024 * 1024

// Client is a blocking client for the Drug Product Database API. It
// layers caching, retries with backoff, optional rate limiting, optional
// call coalescing and metrics around one GET request pattern per
// resource. It is safe for concurrent use.
type Client struct {
	httpClient        *http.Client
	baseURL           string
	lang              string
	userAgent         string
	timeout           time.Duration
	maxRetries        int
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	jitter            float64
	backoffStrategy   BackoffStrategy
	retryPolicy       RetryPolicy
	rateLimiter       *RateLimiter
	cache             Cache
	cacheTTL          time.Duration
	dedup             *dedupTracker
	metrics           *MetricsCollector
	debug             *DebugConfig
	logger            Logger
	sleep             func(ctx context.Context, d time.Duration) error
	validationError   error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL:           DefaultBaseURL,
		lang:              "en",
		timeout:           15 * time.Second,
		maxRetries:        3,
		initialBackoff:    500 * time.Millisecond,
		maxBackoff:        4 * time.Second,
		backoffMultiplier: 2.0,
		jitter:            0.1,
		backoffStrategy:   ExponentialJitter,
		retryPolicy:       nil, // built from backoff settings below unless supplied
		rateLimiter:       nil,
		cache:             nil,
		cacheTTL:          5 * time.Minute,
		dedup:             nil,
		metrics:           nil,
		debug:             DefaultDebugConfig(),
		logger:            nil,
		sleep:             sleepContext,
	}

	for _, option := range options {
		option(client)
	}

	if client.retryPolicy == nil {
		client.retryPolicy = NewDefaultRetryPolicyWithStrategy(
			client.maxRetries,
			client.initialBackoff,
			client.maxBackoff,
			client.backoffMultiplier,
			client.jitter,
			client.backoffStrategy,
		)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Close releases the underlying transport resources. The cache lifetime
// is bound to the client, so it is discarded too.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
	if c.cache != nil {
		c.cache.Clear()
	}
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// fetch executes one logical call: signature -> dedup -> cache ->
// transport with retry -> decode -> cache store. Every resource method
// funnels through here, which is what keeps the sync and async variants
// behaviorally identical.
func (c *Client) fetch(ctx context.Context, ep Endpoint, ps *ParamSet) ([]Record, error) {
	if c.validationError != nil {
		return nil, c.validationError
	}

	start := time.Now()
	signature := ps.Signature(ep.Path)

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting call", "requestID", requestID, "endpoint", ep.Name, "signature", signature)
	}

	c.metrics.RecordRequestStart(ep.Name)
	defer c.metrics.RecordRequestEnd(ep.Name)

	if c.dedup == nil {
		return c.fetchOwned(ctx, ep, signature, requestID, start)
	}

	entry, isOwner := c.dedup.getOrCreate(signature)
	if !isOwner {
		c.metrics.RecordDeduplicationHit(ep.Name)
		if c.debug != nil && c.debug.Enabled && c.logger != nil {
			c.logger.Debug("Coalesced into in-flight call", "requestID", requestID, "signature", signature)
		}
		return entry.wait(ctx)
	}

	records, err := c.fetchOwned(ctx, ep, signature, requestID, start)
	c.dedup.complete(signature, records, err)
	return records, err
}

func (c *Client) fetchOwned(ctx context.Context, ep Endpoint, signature, requestID string, start time.Time) ([]Record, error) {
	if c.cache != nil {
		if entry, found := c.cache.Get(signature); found {
			c.metrics.RecordCacheHit(ep.Name)
			c.metrics.RecordRequest(ep.Name, http.StatusOK, time.Since(start))
			if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
				c.logger.Debug("Cache hit", "requestID", requestID, "signature", signature)
			}
			return entry.Records, nil
		}
		c.metrics.RecordCacheMiss(ep.Name)
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("Cache miss", "requestID", requestID, "signature", signature)
		}
	}

	records, statusCode, err := c.doWithRetry(ctx, ep, signature, requestID)
	c.metrics.RecordRequest(ep.Name, statusCode, time.Since(start))

	if err != nil {
		var clientErr *ClientError
		if errors.As(err, &clientErr) {
			c.metrics.RecordError(clientErr.Type, ep.Name)
		} else {
			c.metrics.RecordError(ErrorTypeTransport, ep.Name)
		}
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(signature, &CacheEntry{Records: records}, c.cacheTTL)
		if mem, ok := c.cache.(*InMemoryCache); ok {
			c.metrics.RecordCacheSize(mem.Len())
		}
		if c.debug != nil && c.debug.Enabled && c.debug.LogCache && c.logger != nil {
			c.logger.Debug("Result cached", "requestID", requestID, "signature", signature, "ttl", c.cacheTTL)
		}
	}

	return records, nil
}

// doWithRetry runs the transport loop. Transport failures, 429 and 5xx
// responses retry per policy; any other 4xx and decode failures fail on
// the spot.
func (c *Client) doWithRetry(ctx context.Context, ep Endpoint, signature, requestID string) ([]Record, int, error) {
	reqURL := c.baseURL + signature

	var lastStatus int
	var lastBody []byte
	var lastHeader http.Header
	var lastErr error

	for attempt := 0; ; attempt++ {
		if c.rateLimiter != nil && !c.rateLimiter.Allow() {
			if c.debug != nil && c.debug.Enabled && c.logger != nil {
				c.logger.Warn("Rate limit exceeded", "requestID", requestID, "endpoint", ep.Name)
			}
			return nil, 0, &ClientError{
				Type:      ErrorTypeRateLimit,
				Message:   "rate limit exceeded",
				Endpoint:  ep.Name,
				URL:       reqURL,
				RequestID: requestID,
			}
		}

		if attempt > 0 {
			c.metrics.RecordRetry(ep.Name)
			if c.debug != nil && c.debug.Enabled && c.debug.LogRetries && c.logger != nil {
				c.logger.Info("Retry attempt", "requestID", requestID, "attempt", attempt, "maxRetries", c.maxRetries, "endpoint", ep.Name)
			}
		}

		status, header, body, err := c.roundTrip(ctx, reqURL)

		if err == nil {
			if status >= 200 && status < 300 {
				records, decErr := decodeRecords(body)
				if decErr != nil {
					// Decode failures are not transient; retrying would
					// replay the same malformed payload.
					return nil, status, &ClientError{
						Type:       ErrorTypeDecode,
						Message:    "failed to decode JSON response",
						Endpoint:   ep.Name,
						URL:        reqURL,
						StatusCode: status,
						Body:       bodySnippet(body),
						RequestID:  requestID,
						Cause:      decErr,
					}
				}
				return records, status, nil
			}
			if status != 429 && status < 500 {
				return nil, status, &ClientError{
					Type:       ErrorTypeHTTP,
					Message:    "unexpected response status",
					Endpoint:   ep.Name,
					URL:        reqURL,
					StatusCode: status,
					Body:       bodySnippet(body),
					Attempt:    attempt,
					MaxRetries: c.maxRetries,
					RequestID:  requestID,
				}
			}
			lastStatus, lastHeader, lastBody, lastErr = status, header, body, nil
		} else {
			if ctx.Err() != nil {
				return nil, 0, &ClientError{
					Type:      ErrorTypeTransport,
					Message:   "request canceled",
					Endpoint:  ep.Name,
					URL:       reqURL,
					Attempt:   attempt,
					RequestID: requestID,
					Cause:     err,
				}
			}
			lastStatus, lastHeader, lastBody, lastErr = 0, nil, nil, err
		}

		var resp *http.Response
		if lastErr == nil {
			resp = &http.Response{StatusCode: lastStatus, Header: lastHeader}
		}

		delay, retry := c.retryPolicy.ShouldRetry(resp, lastErr, attempt)
		if !retry {
			if lastErr != nil {
				return nil, 0, &ClientError{
					Type:       ErrorTypeTransport,
					Message:    "transport request failed",
					Endpoint:   ep.Name,
					URL:        reqURL,
					Attempt:    attempt,
					MaxRetries: c.maxRetries,
					RequestID:  requestID,
					Cause:      lastErr,
				}
			}
			return nil, lastStatus, &ClientError{
				Type:       ErrorTypeHTTP,
				Message:    "retries exhausted",
				Endpoint:   ep.Name,
				URL:        reqURL,
				StatusCode: lastStatus,
				Body:       bodySnippet(lastBody),
				Attempt:    attempt,
				MaxRetries: c.maxRetries,
				RequestID:  requestID,
			}
		}

		if c.debug != nil && c.debug.Enabled && c.debug.LogRetries && c.logger != nil {
			c.logger.Info("Scheduling retry", "requestID", requestID, "attempt", attempt+1, "backoff", delay, "endpoint", ep.Name)
		}

		if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
			return nil, lastStatus, &ClientError{
				Type:       ErrorTypeTransport,
				Message:    "backoff wait interrupted",
				Endpoint:   ep.Name,
				URL:        reqURL,
				Attempt:    attempt,
				MaxRetries: c.maxRetries,
				RequestID:  requestID,
				Cause:      sleepErr,
			}
		}
	}
}

// roundTrip issues one GET and drains the body. The body is read up front
// so retries and error snippets never race the connection.
func (c *Client) roundTrip(ctx context.Context, reqURL string) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, nil, err
	}
	return resp.StatusCode, resp.Header, body, nil
}

// sleepContext waits d or until the context is canceled. This is the
// only suspension point between retry attempts.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// normalizeBaseURL guarantees exactly one trailing slash.
func normalizeBaseURL(u string) string {
	return strings.TrimRight(u, "/") + "/"
}
