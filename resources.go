package dpd

import (
	"context"
	"strconv"
)

// DrugProductQuery selects drug products. At least one of ID, DIN,
// BrandName or Status must be set; listing the entire registry is
// rejected up front.
type DrugProductQuery struct {
	// ID is the internal drug code.
	ID int
	// DIN is the drug identification number, e.g. "00326925".
	DIN string
	// BrandName filters by brand name (upstream supports partial matches).
	BrandName string
	// Status filters by product status codes. Duplicates are dropped,
	// order is preserved.
	Status []string
	// Lang overrides the client default language for this call.
	Lang string
}

// CompanyQuery selects a company by its company code.
type CompanyQuery struct {
	ID   int
	Lang string
}

// ActiveIngredientQuery selects active ingredients by drug code or
// ingredient name; at least one is required.
type ActiveIngredientQuery struct {
	ID             int
	IngredientName string
	Lang           string
}

// FormQuery selects dosage forms for a drug code.
type FormQuery struct {
	ID int
	// Active restricts results to active forms (active=yes upstream).
	Active bool
	Lang   string
}

// PackagingQuery selects packaging records for a drug code. The
// packaging endpoint has no language variant.
type PackagingQuery struct {
	ID int
}

// PharmaceuticalStdQuery selects pharmaceutical standards for a drug
// code. No language variant upstream.
type PharmaceuticalStdQuery struct {
	ID int
}

// RouteQuery selects routes of administration for a drug code.
type RouteQuery struct {
	ID     int
	Active bool
	Lang   string
}

// ScheduleQuery selects schedules for a drug code.
type ScheduleQuery struct {
	ID     int
	Active bool
	Lang   string
}

// StatusQuery selects product status history for a drug code.
type StatusQuery struct {
	ID   int
	Lang string
}

// TherapeuticClassQuery selects therapeutic classes for a drug code.
type TherapeuticClassQuery struct {
	ID   int
	Lang string
}

// VeterinarySpeciesQuery selects veterinary species for a drug code.
type VeterinarySpeciesQuery struct {
	ID   int
	Lang string
}

// DrugProduct fetches drug product records matching the query.
func (c *Client) DrugProduct(ctx context.Context, q DrugProductQuery) ([]Record, error) {
	ps := newParamSet()
	if q.ID != 0 {
		ps.add("id", strconv.Itoa(q.ID))
	}
	if q.DIN != "" {
		ps.add("din", q.DIN)
	}
	if q.BrandName != "" {
		ps.add("brandname", q.BrandName)
	}
	ps.addList("status", q.Status)
	if err := requireSelector(epDrugProduct, ps); err != nil {
		return nil, err
	}
	if err := ps.applyDefaults(epDrugProduct, q.Lang, c.lang); err != nil {
		return nil, err
	}
	return c.fetch(ctx, epDrugProduct, ps)
}

// Company fetches the company record for a company code.
func (c *Client) Company(ctx context.Context, q CompanyQuery) ([]Record, error) {
	return c.idLookup(ctx, epCompany, q.ID, q.Lang)
}

// ActiveIngredient fetches active ingredient records matching the query.
func (c *Client) ActiveIngredient(ctx context.Context, q ActiveIngredientQuery) ([]Record, error) {
	ps := newParamSet()
	if q.ID != 0 {
		ps.add("id", strconv.Itoa(q.ID))
	}
	if q.IngredientName != "" {
		ps.add("ingredientname", q.IngredientName)
	}
	if err := requireSelector(epActiveIngredient, ps); err != nil {
		return nil, err
	}
	if err := ps.applyDefaults(epActiveIngredient, q.Lang, c.lang); err != nil {
		return nil, err
	}
	return c.fetch(ctx, epActiveIngredient, ps)
}

// Form fetches dosage form records for a drug code.
func (c *Client) Form(ctx context.Context, q FormQuery) ([]Record, error) {
	return c.idActiveLookup(ctx, epForm, q.ID, q.Active, q.Lang)
}

// Packaging fetches packaging records for a drug code.
func (c *Client) Packaging(ctx context.Context, q PackagingQuery) ([]Record, error) {
	return c.idLookup(ctx, epPackaging, q.ID, "")
}

// PharmaceuticalStd fetches pharmaceutical standard records for a drug code.
func (c *Client) PharmaceuticalStd(ctx context.Context, q PharmaceuticalStdQuery) ([]Record, error) {
	return c.idLookup(ctx, epPharmaceuticalStd, q.ID, "")
}

// Route fetches route of administration records for a drug code.
func (c *Client) Route(ctx context.Context, q RouteQuery) ([]Record, error) {
	return c.idActiveLookup(ctx, epRoute, q.ID, q.Active, q.Lang)
}

// Schedule fetches schedule records for a drug code.
func (c *Client) Schedule(ctx context.Context, q ScheduleQuery) ([]Record, error) {
	return c.idActiveLookup(ctx, epSchedule, q.ID, q.Active, q.Lang)
}

// Status fetches product status records for a drug code.
func (c *Client) Status(ctx context.Context, q StatusQuery) ([]Record, error) {
	return c.idLookup(ctx, epStatus, q.ID, q.Lang)
}

// TherapeuticClass fetches therapeutic class records for a drug code.
func (c *Client) TherapeuticClass(ctx context.Context, q TherapeuticClassQuery) ([]Record, error) {
	return c.idLookup(ctx, epTherapeuticClass, q.ID, q.Lang)
}

// VeterinarySpecies fetches veterinary species records for a drug code.
func (c *Client) VeterinarySpecies(ctx context.Context, q VeterinarySpeciesQuery) ([]Record, error) {
	return c.idLookup(ctx, epVeterinarySpecies, q.ID, q.Lang)
}

// idLookup covers the endpoints whose only selector is an id.
func (c *Client) idLookup(ctx context.Context, ep Endpoint, id int, lang string) ([]Record, error) {
	ps := newParamSet()
	if id != 0 {
		ps.add("id", strconv.Itoa(id))
	}
	if err := requireSelector(ep, ps); err != nil {
		return nil, err
	}
	if err := ps.applyDefaults(ep, lang, c.lang); err != nil {
		return nil, err
	}
	return c.fetch(ctx, ep, ps)
}

// idActiveLookup covers id-selected endpoints with an optional active=yes filter.
func (c *Client) idActiveLookup(ctx context.Context, ep Endpoint, id int, active bool, lang string) ([]Record, error) {
	ps := newParamSet()
	if id != 0 {
		ps.add("id", strconv.Itoa(id))
	}
	if active {
		ps.add("active", "yes")
	}
	if err := requireSelector(ep, ps); err != nil {
		return nil, err
	}
	if err := ps.applyDefaults(ep, lang, c.lang); err != nil {
		return nil, err
	}
	return c.fetch(ctx, ep, ps)
}
