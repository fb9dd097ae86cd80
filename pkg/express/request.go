// Package express adapts handlers written against an Express-style
// request/response contract to a plain net/http boundary. Handlers receive
// an immutable Request with accessor methods and a shared mutable Response
// builder; the adapter materializes whatever state the builder holds when
// the handler chain finishes.
package express

import (
	"encoding/json"
	"net/url"
	"strings"

	"serverless-adapter-kit/pkg/normalize"
)

// Request is the Express-style view of an inbound request. Accessors compute
// from the already-normalized state; no further parsing of the underlying
// request happens here.
type Request struct {
	Method  string
	Path    string
	Params  map[string]string
	Query   map[string]normalize.QueryValue
	Cookies map[string]string

	// Body is the parsed payload: a map/slice for JSON bodies, url.Values
	// for urlencoded forms, a string for other text, []byte for binary, nil
	// when there was no body. A declared-JSON body that fails to parse
	// becomes an empty map rather than failing the request.
	Body interface{}

	headers     map[string]string
	contentType string
}

// NewRequest projects a normalized request and matched route parameters into
// the Express-style shape. A nil pathParams (no route matched) becomes an
// empty Params map, matching the framework being emulated.
func NewRequest(n *normalize.Request, pathParams map[string]string) *Request {
	params := pathParams
	if params == nil {
		params = map[string]string{}
	}

	r := &Request{
		Method:      n.Method,
		Path:        n.Path,
		Params:      params,
		Query:       n.Query,
		Cookies:     n.Cookies,
		headers:     n.Headers,
		contentType: n.ContentType(),
	}
	r.Body = parseBody(n, r.contentType)
	return r
}

func parseBody(n *normalize.Request, contentType string) interface{} {
	if n.Body == nil {
		return nil
	}

	switch {
	case contentType == "application/json" || strings.HasSuffix(contentType, "+json"):
		var parsed interface{}
		if err := json.Unmarshal([]byte(n.Body.Text), &parsed); err != nil {
			// Partial functionality over total failure: malformed JSON
			// degrades to an empty object.
			return map[string]interface{}{}
		}
		return parsed
	case contentType == "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(n.Body.Text)
		if err != nil {
			return url.Values{}
		}
		return form
	case n.Body.Kind == normalize.BodyBinary:
		raw, err := n.Body.Bytes()
		if err != nil {
			return []byte(nil)
		}
		return raw
	default:
		return n.Body.Text
	}
}

// Get returns a header value by case-insensitive name.
func (r *Request) Get(name string) string {
	return r.headers[strings.ToLower(name)]
}

// Param returns a route parameter, or "" when absent.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// QueryFirst returns the first value for a query key.
func (r *Request) QueryFirst(key string) string {
	return r.Query[key].First()
}

// Is reports whether the request Content-Type matches the given type. The
// argument may be a shorthand ("json"), a full type ("application/json"), a
// wildcard ("text/*"), or a bare subtype ("html").
func (r *Request) Is(kind string) bool {
	ct := r.contentType
	if ct == "" {
		return false
	}

	switch {
	case kind == "json":
		return ct == "application/json" || strings.HasSuffix(ct, "+json")
	case strings.HasSuffix(kind, "/*"):
		return strings.HasPrefix(ct, strings.TrimSuffix(kind, "*"))
	case strings.Contains(kind, "/"):
		return ct == kind
	default:
		return strings.HasSuffix(ct, "/"+kind)
	}
}

// typeAliases maps common shorthand names to full media types for Accepts.
var typeAliases = map[string]string{
	"json": "application/json",
	"html": "text/html",
	"text": "text/plain",
	"xml":  "application/xml",
}

// Accepts returns the first offered type acceptable to the client, or ""
// when none is. A missing Accept header accepts anything, so the first
// offered type wins.
func (r *Request) Accepts(offered ...string) string {
	if len(offered) == 0 {
		return ""
	}

	accept := r.Get("accept")
	if accept == "" {
		return offered[0]
	}

	var ranges []string
	for _, part := range strings.Split(accept, ",") {
		mr := strings.TrimSpace(part)
		if i := strings.Index(mr, ";"); i >= 0 {
			mr = strings.TrimSpace(mr[:i])
		}
		if mr != "" {
			ranges = append(ranges, strings.ToLower(mr))
		}
	}

	for _, offer := range offered {
		full := offer
		if alias, ok := typeAliases[offer]; ok {
			full = alias
		}
		for _, mr := range ranges {
			if acceptMatch(mr, full) {
				return offer
			}
		}
	}
	return ""
}

func acceptMatch(mediaRange, mediaType string) bool {
	if mediaRange == "*/*" || mediaRange == mediaType {
		return true
	}
	if strings.HasSuffix(mediaRange, "/*") {
		return strings.HasPrefix(mediaType, strings.TrimSuffix(mediaRange, "*"))
	}
	return false
}
