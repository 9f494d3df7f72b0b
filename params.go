package dpd

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Languages accepted by the API.
var supportedLangs = map[string]bool{
	"en": true,
	"fr": true,
}

// ParamSet is a validated, canonical query parameter mapping. Two
// logically identical calls produce identical signatures regardless of
// the order parameters were added in.
type ParamSet struct {
	values url.Values
}

func newParamSet() *ParamSet {
	return &ParamSet{values: url.Values{}}
}

func (ps *ParamSet) add(key, value string) {
	ps.values.Set(key, value)
}

// addList normalizes a list-valued filter: duplicates are dropped,
// first-seen order is kept (not sorted), so the same caller list always
// yields the same signature.
func (ps *ParamSet) addList(key string, items []string) {
	if len(items) == 0 {
		return
	}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		ps.values.Add(key, item)
	}
}

func (ps *ParamSet) has(key string) bool {
	return len(ps.values[key]) > 0
}

// applyDefaults resolves the effective language and output type. The
// caller's lang wins over the client default; both are validated. Type is
// always json — the API's XML mode is not supported here.
func (ps *ParamSet) applyDefaults(ep Endpoint, lang, defaultLang string) error {
	ps.add("type", "json")
	if !ep.HasLang {
		return nil
	}
	effective := lang
	if effective == "" {
		effective = defaultLang
	}
	if effective == "" {
		effective = "en"
	}
	if !supportedLangs[effective] {
		return newInvalidParamError(ep.Name, fmt.Sprintf("unsupported language %q (want en or fr)", effective))
	}
	ps.add("lang", effective)
	return nil
}

// requireSelector fails unless at least one of the endpoint's selector
// parameters is present.
func requireSelector(ep Endpoint, ps *ParamSet) error {
	for _, sel := range ep.Selectors {
		if ps.has(sel) {
			return nil
		}
	}
	if len(ep.Selectors) == 1 {
		return newInvalidParamError(ep.Name, fmt.Sprintf("missing required parameter %q", ep.Selectors[0]))
	}
	return newInvalidParamError(ep.Name, "provide at least one of "+strings.Join(ep.Selectors, ", "))
}

// Encode renders the parameters in canonical form: keys sorted, repeated
// values in insertion order.
func (ps *ParamSet) Encode() string {
	return ps.values.Encode()
}

// Signature derives the cache key for this parameter set against an
// endpoint path. url.Values.Encode sorts keys, which makes the signature
// insertion-order independent.
func (ps *ParamSet) Signature(path string) string {
	return path + "?" + ps.Encode()
}

// Keys returns the parameter names present, sorted.
func (ps *ParamSet) Keys() []string {
	keys := make([]string, 0, len(ps.values))
	for k := range ps.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
