package query

import (
	"net/http"
	"net/url"
)

// Request parameter names read by the refinement steps.
const (
	ParamTerm   = "term"
	ParamFilter = "filter"
	ParamSort   = "sort"
	ParamLimit  = "limit"
	ParamPage   = "page"
	ParamStart  = "start"
)

// Params are the query-string parameters of a request.
type Params url.Values

// ParamsFromRequest returns the query-string parameters of r.
func ParamsFromRequest(r *http.Request) Params {
	return Params(r.URL.Query())
}

// Has reports whether key is present, even with an empty value.
func (p Params) Has(key string) bool {
	return url.Values(p).Has(key)
}

// Get returns the first value of key or "".
func (p Params) Get(key string) string {
	return url.Values(p).Get(key)
}
