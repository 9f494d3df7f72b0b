// Package backoff holds the pure delay math used by the retry policy.
// Strategies are stateless functions from attempt number to duration, so
// they are unit-testable without real waiting.
package backoff

import (
	"math/rand"
	"time"
)

// Strategy computes the wait before re-issuing a failed request.
type Strategy interface {
	// Calculate returns the backoff duration for the given attempt number and parameters.
	Calculate(attempt int, initialBackoff, maxBackoff time.Duration, multiplier, jitter float64) time.Duration
}

// ExponentialJitter doubles (or multiplies) the base delay each attempt
// and adds uniform jitter. The default strategy.
type ExponentialJitter struct{}

// Calculate implements Strategy.
func (ExponentialJitter) Calculate(attempt int, initialBackoff, maxBackoff time.Duration, multiplier, jitter float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Cap the exponent so the float math cannot overflow.
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(float64(initialBackoff) * pow(multiplier, attempt))
	if delay < 0 || delay > maxBackoff {
		delay = maxBackoff
	}

	jitter = clampJitter(jitter)
	if jitter > 0 {
		amount := time.Duration(float64(delay) * jitter * rand.Float64())
		if delay+amount > maxBackoff {
			delay = maxBackoff
		} else {
			delay += amount
		}
	}
	return delay
}

// DecorrelatedJitter implements AWS-style decorrelated jitter:
// random_between(base, min(cap, base * 3^attempt)). Smoother tail
// latencies than plain exponential jitter under sustained failure.
type DecorrelatedJitter struct{}

// Calculate implements Strategy. The multiplier and jitter parameters are
// ignored; the strategy fixes its growth factor at 3.
func (DecorrelatedJitter) Calculate(attempt int, initialBackoff, maxBackoff time.Duration, _, _ float64) time.Duration {
	if attempt <= 0 {
		return initialBackoff
	}
	if attempt > 10 {
		attempt = 10
	}

	base := float64(initialBackoff)
	upper := base * pow(3.0, attempt)

	capf := float64(maxBackoff)
	if upper > capf || upper < 0 {
		upper = capf
	}
	if upper < base {
		upper = base
	}

	delay := time.Duration(base + rand.Float64()*(upper-base))
	if delay < 0 || delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
