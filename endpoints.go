package dpd

// DefaultBaseURL is the official Drug Product Database API endpoint.
const DefaultBaseURL = "https://health-products.canada.ca/api/drug/"

// Endpoint describes one resource exposed by the API. Descriptors are
// built at init and never mutated.
type Endpoint struct {
	// Name identifies the resource in errors and metrics.
	Name string
	// Path is the URL path segment relative to the base URL.
	Path string
	// Selectors lists the query parameters accepted as selection
	// criteria; at least one must be present on each call.
	Selectors []string
	// HasLang indicates the endpoint accepts a lang parameter.
	HasLang bool
}

var (
	epDrugProduct = Endpoint{
		Name:      "drugproduct",
		Path:      "drugproduct/",
		Selectors: []string{"id", "din", "brandname", "status"},
		HasLang:   true,
	}
	epCompany = Endpoint{
		Name:      "company",
		Path:      "company/",
		Selectors: []string{"id"},
		HasLang:   true,
	}
	epActiveIngredient = Endpoint{
		Name:      "activeingredient",
		Path:      "activeingredient/",
		Selectors: []string{"id", "ingredientname"},
		HasLang:   true,
	}
	epForm = Endpoint{
		Name:      "form",
		Path:      "form/",
		Selectors: []string{"id"},
		HasLang:   true,
	}
	epPackaging = Endpoint{
		Name:      "packaging",
		Path:      "packaging/",
		Selectors: []string{"id"},
	}
	epPharmaceuticalStd = Endpoint{
		Name:      "pharmaceuticalstd",
		Path:      "pharmaceuticalstd/",
		Selectors: []string{"id"},
	}
	epRoute = Endpoint{
		Name:      "route",
		Path:      "route/",
		Selectors: []string{"id"},
		HasLang:   true,
	}
	epSchedule = Endpoint{
		Name:      "schedule",
		Path:      "schedule/",
		Selectors: []string{"id"},
		HasLang:   true,
	}
	epStatus = Endpoint{
		Name:      "status",
		Path:      "status/",
		Selectors: []string{"id"},
		HasLang:   true,
	}
	epTherapeuticClass = Endpoint{
		Name:      "therapeuticclass",
		Path:      "therapeuticclass/",
		Selectors: []string{"id"},
		HasLang:   true,
	}
	epVeterinarySpecies = Endpoint{
		Name:      "veterinaryspecies",
		Path:      "veterinaryspecies/",
		Selectors: []string{"id"},
		HasLang:   true,
	}
)

// Endpoints returns the descriptors for every supported resource.
func Endpoints() []Endpoint {
	return []Endpoint{
		epDrugProduct,
		epCompany,
		epActiveIngredient,
		epForm,
		epPackaging,
		epPharmaceuticalStd,
		epRoute,
		epSchedule,
		epStatus,
		epTherapeuticClass,
		epVeterinarySpecies,
	}
}
