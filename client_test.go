package dpd

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	client := New(append([]Option{WithBaseURL(baseURL)}, opts...)...)
	if !client.IsValid() {
		t.Fatalf("invalid test client configuration: %v", client.ValidationError())
	}
	// Skip real backoff waits in tests.
	client.sleep = func(context.Context, time.Duration) error { return nil }
	return client
}

func TestDrugProductByDIN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("din"); got != "00326925" {
			t.Errorf("din = %q, want 00326925", got)
		}
		if got := r.URL.Query().Get("lang"); got != "en" {
			t.Errorf("lang = %q, want default en", got)
		}
		if got := r.URL.Query().Get("type"); got != "json" {
			t.Errorf("type = %q, want json", got)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"brand_name":"X","drug_identification_number":"00326925","number_of_ais":"1"}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	defer client.Close()

	records, err := client.DrugProduct(context.Background(), DrugProductQuery{DIN: "00326925"})
	if err != nil {
		t.Fatalf("DrugProduct returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.String("brand_name") != "X" {
		t.Errorf("brand_name = %q, want X", rec.String("brand_name"))
	}
	if rec.String("drug_identification_number") != "00326925" {
		t.Errorf("drug_identification_number = %q", rec.String("drug_identification_number"))
	}
	if !rec.Has("number_of_ais") {
		t.Error("extra fields must pass through unchanged")
	}
}

func TestRetryOn503ThenSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxRetries(3))
	defer client.Close()

	records, err := client.Company(context.Background(), CompanyQuery{ID: 10846})
	if err != nil {
		t.Fatalf("expected success within retry budget, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 transport attempts, got %d", got)
	}
	if len(records) != 1 {
		t.Fatalf("expected one-element sequence, got %d", len(records))
	}
	if id, ok := records[0].Int("id"); !ok || id != 1 {
		t.Errorf("record = %v, want {id:1}", records[0])
	}
}

func TestRetryOn429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	defer client.Close()

	if _, err := client.Company(context.Background(), CompanyQuery{ID: 1}); err != nil {
		t.Fatalf("expected 429 to be retried, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 transport attempts, got %d", got)
	}
}

func TestNoRetryOn404(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`not found`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxRetries(5))
	defer client.Close()

	_, err := client.Company(context.Background(), CompanyQuery{ID: 99999})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("4xx must yield exactly one transport attempt, got %d", got)
	}

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected *ClientError, got %T", err)
	}
	if clientErr.Type != ErrorTypeHTTP {
		t.Errorf("error type = %q, want %q", clientErr.Type, ErrorTypeHTTP)
	}
	if clientErr.StatusCode != 404 {
		t.Errorf("status = %d, want 404", clientErr.StatusCode)
	}
	if clientErr.Body != "not found" {
		t.Errorf("error should carry the response body, got %q", clientErr.Body)
	}
	if IsTransient(err) {
		t.Error("404 is not transient")
	}
}

func TestRetriesExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`upstream sad`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxRetries(2))
	defer client.Close()

	_, err := client.Company(context.Background(), CompanyQuery{ID: 1})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	// Initial attempt plus two retries.
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 transport attempts, got %d", got)
	}

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected *ClientError, got %T", err)
	}
	if clientErr.StatusCode != 503 {
		t.Errorf("error must carry the last observed status, got %d", clientErr.StatusCode)
	}
	if !IsTransient(err) {
		t.Error("exhausted 503 should still classify as transient")
	}
}

func TestDecodeErrorNoRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"drug_code": <oops>`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMaxRetries(5))
	defer client.Close()

	_, err := client.Company(context.Background(), CompanyQuery{ID: 1})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !IsDecodeError(err) {
		t.Errorf("expected Decode error, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("decode failures must not retry, got %d attempts", got)
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		if clientErr.Endpoint != "company" {
			t.Errorf("error should name the endpoint, got %q", clientErr.Endpoint)
		}
		if clientErr.Body == "" {
			t.Error("error should carry a body snippet for diagnosis")
		}
	}
}

func TestTransportErrorRetriedThenSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connections now refused

	client := newTestClient(t, server.URL, WithMaxRetries(2))
	defer client.Close()

	_, err := client.Company(context.Background(), CompanyQuery{ID: 1})
	if err == nil {
		t.Fatal("expected transport error")
	}
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("expected *ClientError, got %T", err)
	}
	if clientErr.Type != ErrorTypeTransport {
		t.Errorf("error type = %q, want %q", clientErr.Type, ErrorTypeTransport)
	}
	if clientErr.Cause == nil {
		t.Error("transport error must wrap the underlying cause")
	}
	if !IsTransient(err) {
		t.Error("transport failures are transient")
	}
}

func TestCacheSingleTransportInvocation(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"drug_code":2049}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithCache(time.Hour))
	defer client.Close()

	ctx := context.Background()
	first, err := client.Company(ctx, CompanyQuery{ID: 2049})
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := client.Company(ctx, CompanyQuery{ID: 2049})
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 transport invocation within TTL, got %d", got)
	}
	if len(first) != 1 || len(second) != 1 || first[0].String("drug_code") != second[0].String("drug_code") {
		t.Error("cached call must yield identical results")
	}

	// A different parameter set misses the cache.
	if _, err := client.Company(ctx, CompanyQuery{ID: 2050}); err != nil {
		t.Fatalf("third call failed: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("different signature must reach transport, got %d invocations", got)
	}
}

func TestCacheExpiryTriggersNewTransportCall(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithCache(30*time.Millisecond))
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Company(ctx, CompanyQuery{ID: 1}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, err := client.Company(ctx, CompanyQuery{ID: 1}); err != nil {
		t.Fatal(err)
	}

	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected a fresh transport call after TTL expiry, got %d", got)
	}
}

func TestLangOverridePerCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("lang"); got != "fr" {
			t.Errorf("lang = %q, want fr", got)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	defer client.Close()

	if _, err := client.Company(context.Background(), CompanyQuery{ID: 1, Lang: "fr"}); err != nil {
		t.Fatalf("Company returned error: %v", err)
	}
}

func TestInvalidLangFailsBeforeTransport(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	defer client.Close()

	_, err := client.Company(context.Background(), CompanyQuery{ID: 1, Lang: "de"})
	if !IsInvalidParam(err) {
		t.Fatalf("expected InvalidParameter, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("validation failures must never reach the transport")
	}
}

func TestMissingSelectorFailsBeforeTransport(t *testing.T) {
	client := newTestClient(t, "http://localhost:0")
	defer client.Close()

	ctx := context.Background()

	if _, err := client.DrugProduct(ctx, DrugProductQuery{}); !IsInvalidParam(err) {
		t.Errorf("DrugProduct with no selector: got %v", err)
	}
	if _, err := client.ActiveIngredient(ctx, ActiveIngredientQuery{}); !IsInvalidParam(err) {
		t.Errorf("ActiveIngredient with no selector: got %v", err)
	}
	if _, err := client.Company(ctx, CompanyQuery{}); !IsInvalidParam(err) {
		t.Errorf("Company without id: got %v", err)
	}
	if _, err := client.Packaging(ctx, PackagingQuery{}); !IsInvalidParam(err) {
		t.Errorf("Packaging without id: got %v", err)
	}
}

func TestActiveFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("active"); got != "yes" {
			t.Errorf("active = %q, want yes", got)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	defer client.Close()

	if _, err := client.Form(context.Background(), FormQuery{ID: 1, Active: true}); err != nil {
		t.Fatalf("Form returned error: %v", err)
	}
}

func TestRateLimiterDeniesWhenExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithRateLimiter(1, time.Hour))
	defer client.Close()

	ctx := context.Background()
	if _, err := client.Company(ctx, CompanyQuery{ID: 1}); err != nil {
		t.Fatalf("first call should pass the limiter: %v", err)
	}

	_, err := client.Company(ctx, CompanyQuery{ID: 2})
	var clientErr *ClientError
	if !errors.As(err, &clientErr) || clientErr.Type != ErrorTypeRateLimit {
		t.Fatalf("expected RateLimit error, got %v", err)
	}
}

func TestContextCancellationDuringBackoff(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(WithBaseURL(server.URL), WithMaxRetries(5), WithInitialBackoff(time.Second), WithMaxBackoff(4*time.Second))
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.Company(ctx, CompanyQuery{ID: 1})
	if err == nil {
		t.Fatal("expected error after cancellation")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got > 2 {
		t.Errorf("cancellation during backoff should stop retries, got %d attempts", got)
	}
}

func TestEmptyArrayIsNoMatchesNotError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	defer client.Close()

	records, err := client.DrugProduct(context.Background(), DrugProductQuery{BrandName: "NOSUCH"})
	if err != nil {
		t.Fatalf("empty result set is not an error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty sequence, got %d records", len(records))
	}
}

func TestBaseURLNormalization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/drug/company/" {
			t.Errorf("path = %q, want /api/drug/company/", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	// Trailing slash supplied twice; client must not double it.
	client := newTestClient(t, server.URL+"/api/drug//")
	defer client.Close()

	if _, err := client.Company(context.Background(), CompanyQuery{ID: 1}); err != nil {
		t.Fatalf("Company returned error: %v", err)
	}
}
