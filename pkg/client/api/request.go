package api

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"
)

// Method is the HTTP verb of a request.
type Method string

// Supported request methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// ParseMethod resolves a case-insensitive verb name to a Method.
func ParseMethod(name string) (Method, error) {
	method := Method(strings.ToUpper(strings.TrimSpace(name)))

	switch method {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete:
		return method, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
	}
}

// HasBody reports whether the payload travels as a JSON body.
func (m Method) HasBody() bool {
	return m == MethodPost || m == MethodPut || m == MethodPatch
}

// UsesQuery reports whether the payload travels as URL query parameters.
func (m Method) UsesQuery() bool {
	return m == MethodGet || m == MethodDelete
}

// RequestSpec describes a single request. Header names keep the case they
// were given in.
type RequestSpec struct {
	Method  Method            `json:"method"            yaml:"method"`
	URL     string            `json:"url"               yaml:"url"`
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// Clone returns a copy whose Headers map can be modified independently.
func (s RequestSpec) Clone() RequestSpec {
	s.Headers = maps.Clone(s.Headers)

	return s
}

// setHeader writes value under name, replacing any existing header whose
// name matches case-insensitively.
func setHeader(header http.Header, name, value string) {
	for existing := range header {
		if strings.EqualFold(existing, name) {
			delete(header, existing)
		}
	}

	header[name] = []string{value}
}

// applyHeaders writes headers in sorted-name order so the outcome of
// case-insensitive collisions does not depend on map iteration.
func applyHeaders(header http.Header, headers map[string]string) {
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		setHeader(header, name, headers[name])
	}
}
