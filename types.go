package dpd

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is one row of an API result set. The upstream schema evolves
// without notice, so records stay open: unknown fields are preserved
// rather than rejected. Numeric values decode as json.Number.
type Record map[string]any

// String returns the value for key as a string. Numbers are rendered in
// their JSON form; absent or non-scalar values return "".
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Int returns the value for key as an int64. The second return value
// reports whether the field was present and numeric.
func (r Record) Int(key string) (int64, bool) {
	n, ok := r[key].(json.Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// Has reports whether the record contains key.
func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

// CacheEntry holds one decoded result set together with its expiry.
type CacheEntry struct {
	Records   []Record
	ExpiresAt time.Time
}

// Cache is the interface for result-set caching. A single request
// signature maps to at most one entry at a time.
type Cache interface {
	Get(key string) (*CacheEntry, bool)
	Set(key string, entry *CacheEntry, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Result carries the outcome of one asynchronous call.
type Result struct {
	Records []Record
	Err     error
}

// Logger receives structured debug output. Messages carry alternating
// key/value pairs, zerolog style.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// DebugConfig gates per-area debug logging.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogRetries   bool
	LogCache     bool
	RequestIDGen func() string
}

// DefaultDebugConfig enables all log areas with UUID request IDs.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogRetries:   true,
		LogCache:     true,
		RequestIDGen: uuid.NewString,
	}
}

// Option represents a configuration option
type Option func(*Client)
