package dpd

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func newTestPolicy(maxRetries int) *DefaultRetryPolicy {
	// Zero jitter so delays are deterministic.
	return NewDefaultRetryPolicy(maxRetries, 100*time.Millisecond, 5*time.Second, 2.0, 0.0)
}

func TestShouldRetryTransportError(t *testing.T) {
	policy := newTestPolicy(3)

	delay, retry := policy.ShouldRetry(nil, errors.New("connection reset"), 0)
	if !retry {
		t.Fatal("transport errors must be retryable")
	}
	if delay != 100*time.Millisecond {
		t.Errorf("attempt 0 delay = %v, want 100ms", delay)
	}
}

func TestShouldRetryStatusCodes(t *testing.T) {
	policy := newTestPolicy(3)

	tests := []struct {
		status string
		code   int
		want   bool
	}{
		{"429 retryable", 429, true},
		{"500 retryable", 500, true},
		{"503 retryable", 503, true},
		{"400 not retryable", 400, false},
		{"404 not retryable", 404, false},
		{"418 not retryable", 418, false},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			resp := &http.Response{StatusCode: tt.code, Header: http.Header{}}
			_, retry := policy.ShouldRetry(resp, nil, 0)
			if retry != tt.want {
				t.Errorf("ShouldRetry(%d) = %v, want %v", tt.code, retry, tt.want)
			}
		})
	}
}

func TestShouldRetryExhaustedBudget(t *testing.T) {
	policy := newTestPolicy(2)

	resp := &http.Response{StatusCode: 503, Header: http.Header{}}
	if _, retry := policy.ShouldRetry(resp, nil, 2); retry {
		t.Error("attempt at the budget must not retry")
	}
	if _, retry := policy.ShouldRetry(resp, nil, 1); !retry {
		t.Error("attempt under the budget must retry")
	}
}

func TestShouldRetryExponentialGrowth(t *testing.T) {
	policy := newTestPolicy(10)
	resp := &http.Response{StatusCode: 503, Header: http.Header{}}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}
	for attempt, expected := range want {
		delay, retry := policy.ShouldRetry(resp, nil, attempt)
		if !retry {
			t.Fatalf("attempt %d should retry", attempt)
		}
		if delay != expected {
			t.Errorf("attempt %d delay = %v, want %v", attempt, delay, expected)
		}
	}
}

func TestShouldRetryHonorsRetryAfter(t *testing.T) {
	policy := newTestPolicy(3)

	header := http.Header{}
	header.Set("Retry-After", "2")
	resp := &http.Response{StatusCode: 429, Header: header}

	delay, retry := policy.ShouldRetry(resp, nil, 0)
	if !retry {
		t.Fatal("429 must be retryable")
	}
	if delay != 2*time.Second {
		t.Errorf("delay = %v, want Retry-After value of 2s", delay)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "5", 5 * time.Second},
		{"zero", "0", 0},
		{"negative", "-3", 0},
		{"garbage", "soon", 0},
		{"capped", "7200", time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRetryAfter(tt.value); got != tt.want {
				t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseRetryAfterHTTPDate(t *testing.T) {
	future := time.Now().Add(30 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(future)
	if got <= 0 || got > 31*time.Second {
		t.Errorf("parseRetryAfter(http-date) = %v, want ~30s", got)
	}
}
