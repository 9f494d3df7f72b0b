package dpd

import "context"

// AsyncClient is the non-blocking variant. Each method dispatches the
// call on its own goroutine and delivers exactly one Result on the
// returned channel. It wraps the same execution engine as Client, so
// cache, retry and error behavior are identical; concurrent calls share
// one cache instance, and backoff waits suspend only the call that is
// waiting.
type AsyncClient struct {
	client *Client
}

// NewAsync constructs an AsyncClient using the same functional options as New.
func NewAsync(options ...Option) *AsyncClient {
	return &AsyncClient{client: New(options...)}
}

// WrapAsync returns an AsyncClient sharing the given Client's engine and
// cache. Sync and async calls through the pair see the same cached
// results.
func WrapAsync(c *Client) *AsyncClient {
	return &AsyncClient{client: c}
}

// Client returns the underlying blocking client.
func (a *AsyncClient) Client() *Client {
	return a.client
}

// Close releases the underlying transport resources.
func (a *AsyncClient) Close() {
	a.client.Close()
}

// IsValid reports whether configuration validation passed at construction.
func (a *AsyncClient) IsValid() bool {
	return a.client.IsValid()
}

func dispatch(fn func() ([]Record, error)) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		records, err := fn()
		out <- Result{Records: records, Err: err}
		close(out)
	}()
	return out
}

// DrugProduct fetches drug product records without blocking the caller.
func (a *AsyncClient) DrugProduct(ctx context.Context, q DrugProductQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.DrugProduct(ctx, q) })
}

// Company fetches the company record for a company code.
func (a *AsyncClient) Company(ctx context.Context, q CompanyQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.Company(ctx, q) })
}

// ActiveIngredient fetches active ingredient records matching the query.
func (a *AsyncClient) ActiveIngredient(ctx context.Context, q ActiveIngredientQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.ActiveIngredient(ctx, q) })
}

// Form fetches dosage form records for a drug code.
func (a *AsyncClient) Form(ctx context.Context, q FormQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.Form(ctx, q) })
}

// Packaging fetches packaging records for a drug code.
func (a *AsyncClient) Packaging(ctx context.Context, q PackagingQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.Packaging(ctx, q) })
}

// PharmaceuticalStd fetches pharmaceutical standard records for a drug code.
func (a *AsyncClient) PharmaceuticalStd(ctx context.Context, q PharmaceuticalStdQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.PharmaceuticalStd(ctx, q) })
}

// Route fetches route of administration records for a drug code.
func (a *AsyncClient) Route(ctx context.Context, q RouteQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.Route(ctx, q) })
}

// Schedule fetches schedule records for a drug code.
func (a *AsyncClient) Schedule(ctx context.Context, q ScheduleQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.Schedule(ctx, q) })
}

// Status fetches product status records for a drug code.
func (a *AsyncClient) Status(ctx context.Context, q StatusQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.Status(ctx, q) })
}

// TherapeuticClass fetches therapeutic class records for a drug code.
func (a *AsyncClient) TherapeuticClass(ctx context.Context, q TherapeuticClassQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.TherapeuticClass(ctx, q) })
}

// VeterinarySpecies fetches veterinary species records for a drug code.
func (a *AsyncClient) VeterinarySpecies(ctx context.Context, q VeterinarySpeciesQuery) <-chan Result {
	return dispatch(func() ([]Record, error) { return a.client.VeterinarySpecies(ctx, q) })
}
