// Package normalize converts an incoming *http.Request into a plain,
// framework-agnostic descriptor that the Lambda-mode and Express-mode
// projectors consume. Normalization drains the request body, so it must be
// called at most once per request.
package normalize

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// BodyKind distinguishes text payloads from binary payloads carried as
// base64.
type BodyKind string

const (
	BodyText   BodyKind = "text"
	BodyBinary BodyKind = "binary"
)

// Body describes a request payload. For BodyText the Text field holds the
// payload as-is; for BodyBinary the Base64 field holds the standard-encoded
// bytes.
type Body struct {
	Kind   BodyKind
	Text   string
	Base64 string
}

// Bytes returns the raw payload bytes, decoding base64 for binary bodies.
func (b *Body) Bytes() ([]byte, error) {
	if b == nil {
		return nil, nil
	}
	if b.Kind == BodyBinary {
		return base64.StdEncoding.DecodeString(b.Base64)
	}
	return []byte(b.Text), nil
}

// Request is the normalized, per-request immutable view of an inbound HTTP
// request. Header keys are lower-cased so downstream consumers can do
// exact-match lookups. Body is nil for GET and HEAD requests, and for
// requests whose body drained empty.
type Request struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]QueryValue
	Cookies map[string]string
	Body    *Body
}

// Header returns the header value for a case-insensitive name lookup.
func (r *Request) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

// ContentType returns the media type portion of the Content-Type header,
// lower-cased, without parameters. Empty when the header is absent or
// unparseable.
func (r *Request) ContentType() string {
	return mediaType(r.Header("Content-Type"))
}

// Normalize builds a Request from an *http.Request, draining its body. A
// failure to read the body propagates up; the adapter entry point converts
// it into a 500.
func Normalize(req *http.Request) (*Request, error) {
	n := &Request{
		Method:  req.Method,
		Path:    req.URL.Path,
		Headers: normalizeHeaders(req.Header),
		Query:   normalizeQuery(req.URL.Query()),
		Cookies: ParseCookies(req.Header.Get("Cookie")),
	}

	// GET and HEAD carry no body regardless of content type.
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		return n, nil
	}

	if req.Body == nil {
		return n, nil
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	if len(raw) == 0 {
		return n, nil
	}

	if IsTextContent(n.Header("content-type")) {
		n.Body = &Body{Kind: BodyText, Text: string(raw)}
	} else {
		n.Body = &Body{Kind: BodyBinary, Base64: base64.StdEncoding.EncodeToString(raw)}
	}

	return n, nil
}

// IsTextContent reports whether a Content-Type denotes a payload that is
// safe to carry as a string: JSON, any text/* type, and URL-encoded forms.
// Everything else is treated as binary and base64-encoded.
func IsTextContent(contentType string) bool {
	mt := mediaType(contentType)
	switch {
	case mt == "application/json", strings.HasSuffix(mt, "+json"):
		return true
	case strings.HasPrefix(mt, "text/"):
		return true
	case mt == "application/x-www-form-urlencoded":
		return true
	}
	return false
}

// ParseCookies parses a Cookie header value. Pairs are split on ';' and each
// pair on the first '=' only, so cookie values containing '=' (base64 tokens
// and the like) survive intact. Pairs without '=' are skipped.
func ParseCookies(header string) map[string]string {
	cookies := make(map[string]string)
	if header == "" {
		return cookies
	}
	for _, pair := range strings.Split(header, ";") {
		pair = strings.TrimSpace(pair)
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			continue
		}
		cookies[name] = value
	}
	return cookies
}

func normalizeHeaders(h http.Header) map[string]string {
	headers := make(map[string]string, len(h))
	for name, values := range h {
		// Multi-value headers collapse to a single comma-joined value,
		// matching Headers.get semantics on the platform being emulated.
		headers[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	return headers
}

func normalizeQuery(values map[string][]string) map[string]QueryValue {
	if len(values) == 0 {
		return nil
	}
	query := make(map[string]QueryValue, len(values))
	for key, vals := range values {
		qv := make(QueryValue, len(vals))
		copy(qv, vals)
		query[key] = qv
	}
	return query
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Fall back to the bare type when parameters are malformed.
		mt = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	return strings.ToLower(mt)
}
