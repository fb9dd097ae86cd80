package express

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Response is the mutable builder an Express-style handler populates. Every
// method mutates in place and returns the same builder so handlers can
// chain fluently. The builder is shared between the handler and the adapter
// for the lifetime of one request; no other component holds it.
//
// There is no sealing: a handler may keep mutating after Send/JSON/End, and
// only the state present at materialization time is honored. That matches
// the permissive behavior of the framework being emulated.
type Response struct {
	status   int
	headers  headerSet
	cookies  []string
	body     []byte
	isBase64 bool
	sent     bool
	err      error
}

// NewResponse returns a builder with status 200 and empty header and cookie
// state.
func NewResponse() *Response {
	return &Response{status: http.StatusOK}
}

// Status sets the response status code.
func (r *Response) Status(code int) *Response {
	r.status = code
	return r
}

// Set replaces the value(s) for a header.
func (r *Response) Set(name, value string) *Response {
	r.headers.set(name, value)
	return r
}

// Append adds a value to a header without clobbering values appended
// earlier for the same name.
func (r *Response) Append(name, value string) *Response {
	r.headers.append(name, value)
	return r
}

// Get returns the first value currently set for a header.
func (r *Response) Get(name string) string {
	return r.headers.get(name)
}

// Type sets the Content-Type header. Shorthand names ("json", "html",
// "text", "xml") expand to full media types; anything containing '/' is
// used as-is.
func (r *Response) Type(kind string) *Response {
	full := kind
	if !strings.Contains(kind, "/") {
		if alias, ok := typeAliases[kind]; ok {
			full = alias
		}
	}
	return r.Set("Content-Type", full)
}

// CookieOptions are the supported Set-Cookie attributes.
type CookieOptions struct {
	Path     string
	Domain   string
	MaxAge   int
	Expires  time.Time
	HTTPOnly bool
	Secure   bool
	SameSite string
}

// Cookie appends a Set-Cookie directive built independently from every other
// one; cookies are never merged into a single header value.
func (r *Response) Cookie(name, value string, opts *CookieOptions) *Response {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('=')
	b.WriteString(value)

	if opts != nil {
		if opts.Path != "" {
			fmt.Fprintf(&b, "; Path=%s", opts.Path)
		}
		if opts.Domain != "" {
			fmt.Fprintf(&b, "; Domain=%s", opts.Domain)
		}
		if opts.MaxAge != 0 {
			fmt.Fprintf(&b, "; Max-Age=%d", opts.MaxAge)
		}
		if !opts.Expires.IsZero() {
			fmt.Fprintf(&b, "; Expires=%s", opts.Expires.UTC().Format(http.TimeFormat))
		}
		if opts.HTTPOnly {
			b.WriteString("; HttpOnly")
		}
		if opts.Secure {
			b.WriteString("; Secure")
		}
		if opts.SameSite != "" {
			fmt.Fprintf(&b, "; SameSite=%s", opts.SameSite)
		}
	}

	r.cookies = append(r.cookies, b.String())
	return r
}

// Send sets the response body and marks the response sent. Strings are sent
// as-is, byte slices as raw bytes, and any other value is serialized to
// JSON exactly as if JSON had been called — object bodies are never sent
// as-is.
func (r *Response) Send(body interface{}) *Response {
	switch v := body.(type) {
	case string:
		r.body = []byte(v)
		r.isBase64 = false
		if r.Get("Content-Type") == "" {
			r.Set("Content-Type", "text/html; charset=utf-8")
		}
	case []byte:
		r.body = v
		r.isBase64 = false
		if r.Get("Content-Type") == "" {
			r.Set("Content-Type", "application/octet-stream")
		}
	case nil:
		r.body = nil
	default:
		return r.JSON(body)
	}
	r.sent = true
	return r
}

// JSON serializes the value and sends it with an application/json
// Content-Type. A serialization failure is held on the builder and surfaces
// as a 500 at materialization.
func (r *Response) JSON(v interface{}) *Response {
	data, err := json.Marshal(v)
	if err != nil {
		r.err = fmt.Errorf("serializing JSON response: %w", err)
		r.sent = true
		return r
	}
	r.body = data
	r.isBase64 = false
	r.Set("Content-Type", "application/json")
	r.sent = true
	return r
}

// SendBase64 sends a base64-encoded payload that is decoded to raw bytes at
// materialization time.
func (r *Response) SendBase64(encoded string) *Response {
	r.body = []byte(encoded)
	r.isBase64 = true
	r.sent = true
	return r
}

// End marks the response complete without touching the body.
func (r *Response) End() *Response {
	r.sent = true
	return r
}

// Redirect sends a 302 redirect to the given location.
func (r *Response) Redirect(location string) *Response {
	return r.RedirectStatus(http.StatusFound, location)
}

// RedirectStatus sends a redirect with an explicit status code.
func (r *Response) RedirectStatus(code int, location string) *Response {
	r.status = code
	r.Set("Location", location)
	r.sent = true
	return r
}

// Sent reports whether a terminal method has been invoked.
func (r *Response) Sent() bool {
	return r.sent
}

// StatusCode returns the status the builder currently holds.
func (r *Response) StatusCode() int {
	return r.status
}

// WriteTo materializes the builder onto the platform response: single-value
// headers via set, appended values in registration order, each cookie as its
// own Set-Cookie entry, the body decoded from base64 when flagged. The body
// is resolved before any header is written so failures produce a clean 500
// instead of a torn response.
func (r *Response) WriteTo(w http.ResponseWriter) error {
	if r.err != nil {
		return r.err
	}

	body := r.body
	if r.isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(string(r.body))
		if err != nil {
			return fmt.Errorf("decoding base64 response body: %w", err)
		}
		body = decoded
	}

	header := w.Header()
	for _, name := range r.headers.keys {
		for i, value := range r.headers.values[name] {
			if i == 0 {
				header.Set(name, value)
			} else {
				header.Add(name, value)
			}
		}
	}
	for _, cookie := range r.cookies {
		header.Add("Set-Cookie", cookie)
	}

	w.WriteHeader(r.status)
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("writing response body: %w", err)
		}
	}
	return nil
}

// headerSet is an ordered header multimap with distinct set and append
// semantics, so single-value and multi-value headers never collide.
type headerSet struct {
	keys   []string
	values map[string][]string
}

func (h *headerSet) canonical(name string) string {
	return http.CanonicalHeaderKey(name)
}

func (h *headerSet) set(name, value string) {
	name = h.canonical(name)
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	if _, exists := h.values[name]; !exists {
		h.keys = append(h.keys, name)
	}
	h.values[name] = []string{value}
}

func (h *headerSet) append(name, value string) {
	name = h.canonical(name)
	if h.values == nil {
		h.values = make(map[string][]string)
	}
	if _, exists := h.values[name]; !exists {
		h.keys = append(h.keys, name)
	}
	h.values[name] = append(h.values[name], value)
}

func (h *headerSet) get(name string) string {
	values := h.values[h.canonical(name)]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
