package express

import (
	"net/http"

	"serverless-adapter-kit/pkg/adapter"
	"serverless-adapter-kit/pkg/normalize"
	"serverless-adapter-kit/pkg/pattern"
)

// HandlerFunc is the wrapped handler contract. Handlers mutate res rather
// than returning a value. Returning nil without sending continues to the
// next handler in the chain (the next() convention); returning an error or
// sending the response stops the chain.
type HandlerFunc func(req *Request, res *Response) error

// Adapter turns an Express-style handler chain into an http.Handler. The
// compiled route registry is built once at construction and read-only
// afterward.
type Adapter struct {
	chain  []HandlerFunc
	routes *pattern.Registry
}

// Option configures an Adapter.
type Option func(*config)

type config struct {
	templates  []string
	middleware []HandlerFunc
}

// WithRoutes registers path templates matched in order against the request
// path; the first match fills req.Params.
func WithRoutes(templates ...string) Option {
	return func(c *config) {
		c.templates = append(c.templates, templates...)
	}
}

// WithMiddleware prepends handlers that run before the terminal handler,
// in the order given.
func WithMiddleware(mw ...HandlerFunc) Option {
	return func(c *config) {
		c.middleware = append(c.middleware, mw...)
	}
}

// New builds an Adapter around handler. Malformed route templates fail
// construction.
func New(handler HandlerFunc, opts ...Option) (*Adapter, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	routes, err := pattern.NewRegistry(cfg.templates...)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		chain:  append(cfg.middleware, handler),
		routes: routes,
	}, nil
}

// ServeHTTP runs normalize → project → handler chain → materialize. The
// chain stops at the first handler that sends the response or returns an
// error; an error or panic anywhere becomes the structured 500 envelope. If
// the chain finishes without a terminal call, whatever state the builder
// holds is materialized as-is.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			adapter.WriteError(w, adapter.Recovered(rec))
		}
	}()

	n, err := normalize.Normalize(r)
	if err != nil {
		adapter.WriteError(w, err)
		return
	}

	req := NewRequest(n, a.routes.Match(n.Path))
	res := NewResponse()

	for _, h := range a.chain {
		if err := h(req, res); err != nil {
			adapter.WriteError(w, err)
			return
		}
		if res.Sent() {
			break
		}
	}

	if err := res.WriteTo(w); err != nil {
		adapter.WriteError(w, err)
	}
}
