package fetch

import (
	"net/url"
	"strings"
)

// Params maps query keys to values; a nil value means "undefined" and is dropped.
type Params map[string]*string

// Value returns a defined parameter value.
func Value(s string) *string { return &s }

// BuildParams serializes the defined params as a query string prefixed with "?".
// An empty or fully undefined set yields "".
func BuildParams(params Params) string {
	values := make(url.Values, len(params))
	for k, v := range params {
		if v == nil {
			continue
		}
		values.Set(k, *v)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// BuildURL joins baseURL and endpoint unless endpoint is already absolute.
func BuildURL(baseURL, endpoint string, params Params) string {
	if strings.HasPrefix(endpoint, "http") {
		return endpoint + BuildParams(params)
	}
	return baseURL + endpoint + BuildParams(params)
}
