// Package dpd is a client for the Health Canada Drug Product Database API,
// layering the reliability features a public registry client needs in practice:
//
//   - Retries with exponential backoff + jitter (429 / 5xx / transport only)
//   - In-memory TTL caching of decoded result sets
//   - Optional coalescing of identical in-flight calls
//   - Optional rate limiting (token bucket)
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - One method per API resource, returning an ordered []Record
//   - Safe concurrent use of a single *Client instance
//   - Sync and async variants driven by the same execution engine
//
// Typical usage:
//
//	client := dpd.New(
//	    dpd.WithMaxRetries(3),
//	    dpd.WithCache(5*time.Minute),
//	)
//	defer client.Close()
//	records, err := client.DrugProduct(ctx, dpd.DrugProductQuery{DIN: "00326925"})
//
// Records are open maps: fields the upstream API adds later pass through
// untouched. Use the typed accessors (Record.String, Record.Int) for the
// fields you rely on. Client errors (bad identifiers, unknown languages,
// other 4xx responses) surface immediately; only transient failures retry.
package dpd
