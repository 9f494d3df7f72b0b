package dpd

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	internalbackoff "github.com/tlow22/dpd-client/internal/backoff"
)

// RetryPolicy decides whether a failed attempt is re-issued and how long
// to wait first. Implementations see the raw transport outcome: a nil
// response with a transport error, or a response with a non-2xx status.
type RetryPolicy interface {
	ShouldRetry(resp *http.Response, err error, attempt int) (time.Duration, bool)
}

// BackoffStrategy selects the delay schedule used between attempts.
type BackoffStrategy int

const (
	// ExponentialJitter doubles the base delay each attempt with uniform jitter.
	ExponentialJitter BackoffStrategy = iota
	// DecorrelatedJitter uses AWS-style decorrelated jitter.
	DecorrelatedJitter
)

// DefaultRetryPolicy retries transport failures, 429 and 5xx responses up
// to a fixed attempt budget. Any other status fails immediately: bad
// identifiers and malformed filters are always 4xx and retrying them
// would only mask caller mistakes.
type DefaultRetryPolicy struct {
	maxRetries        int
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	jitter            float64
	strategy          internalbackoff.Strategy
}

// NewDefaultRetryPolicy creates a retry policy using exponential backoff
// with jitter.
func NewDefaultRetryPolicy(maxRetries int, initialBackoff, maxBackoff time.Duration, multiplier, jitter float64) *DefaultRetryPolicy {
	return NewDefaultRetryPolicyWithStrategy(maxRetries, initialBackoff, maxBackoff, multiplier, jitter, ExponentialJitter)
}

// NewDefaultRetryPolicyWithStrategy creates a retry policy with a specific
// backoff strategy.
func NewDefaultRetryPolicyWithStrategy(maxRetries int, initialBackoff, maxBackoff time.Duration, multiplier, jitter float64, strategy BackoffStrategy) *DefaultRetryPolicy {
	policy := &DefaultRetryPolicy{
		maxRetries:        maxRetries,
		initialBackoff:    initialBackoff,
		maxBackoff:        maxBackoff,
		backoffMultiplier: multiplier,
		jitter:            jitter,
	}
	switch strategy {
	case DecorrelatedJitter:
		policy.strategy = internalbackoff.DecorrelatedJitter{}
	default:
		policy.strategy = internalbackoff.ExponentialJitter{}
	}
	return policy
}

// ShouldRetry implements the RetryPolicy interface.
func (p *DefaultRetryPolicy) ShouldRetry(resp *http.Response, err error, attempt int) (time.Duration, bool) {
	if attempt >= p.maxRetries {
		return 0, false
	}

	retryable := false
	var delay time.Duration

	if err != nil {
		// Transport failures (connection reset, timeout) are retryable.
		retryable = true
	} else if resp != nil {
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			retryable = true
			delay = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
	}

	if !retryable {
		return 0, false
	}

	if delay == 0 {
		delay = p.strategy.Calculate(attempt, p.initialBackoff, p.maxBackoff, p.backoffMultiplier, p.jitter)
	}
	return delay, true
}

// parseRetryAfter parses the Retry-After header value. Both delay-seconds
// and HTTP-date formats are supported; values over an hour are capped.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if seconds > 0 {
			delay := time.Duration(seconds) * time.Second
			if delay > time.Hour {
				delay = time.Hour
			}
			return delay
		}
		return 0
	}

	if t, err := http.ParseTime(value); err == nil {
		delay := time.Until(t)
		if delay > 0 && delay <= time.Hour {
			return delay
		}
	}

	return 0
}
