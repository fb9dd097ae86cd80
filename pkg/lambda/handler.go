package lambda

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"serverless-adapter-kit/pkg/adapter"
	"serverless-adapter-kit/pkg/normalize"
	"serverless-adapter-kit/pkg/pattern"
)

// HandlerFunc is the wrapped handler contract: the aws-lambda-go proxy
// integration signature. The context carries the invocation request ID and a
// deadline derived from the adapter's time budget.
type HandlerFunc func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Adapter turns a Lambda-style handler into an http.Handler. Its compiled
// route registry is built once at construction and read-only afterward, so a
// single Adapter serves arbitrarily many concurrent requests without
// locking.
type Adapter struct {
	handler HandlerFunc
	routes  *pattern.Registry
	budget  time.Duration
}

// Option configures an Adapter.
type Option func(*config)

type config struct {
	templates []string
	budget    time.Duration
}

// WithRoutes registers path templates matched in order against the request
// path; the first match fills the event's PathParameters.
func WithRoutes(templates ...string) Option {
	return func(c *config) {
		c.templates = append(c.templates, templates...)
	}
}

// WithTimeBudget sets the platform time budget exposed to handlers through
// the invocation context deadline.
func WithTimeBudget(d time.Duration) Option {
	return func(c *config) {
		c.budget = d
	}
}

// New builds an Adapter around handler. Route templates are compiled here;
// a malformed template (for example duplicate parameter names) fails
// construction rather than surfacing at request time.
func New(handler HandlerFunc, opts ...Option) (*Adapter, error) {
	cfg := &config{budget: DefaultTimeBudget}
	for _, opt := range opts {
		opt(cfg)
	}

	routes, err := pattern.NewRegistry(cfg.templates...)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		handler: handler,
		routes:  routes,
		budget:  cfg.budget,
	}, nil
}

// ServeHTTP runs the full adapter sequence: normalize, project, invoke,
// materialize. Any failure at any step, including a panic in the wrapped
// handler, becomes a single structured 500 response; there is no retry and
// no partial output.
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

	event := ToEvent(n, a.routes.Match(n.Path))

	ic := NewInvocationContext(a.budget)
	ctx, cancel := ic.Attach(r.Context())
	defer cancel()

	resp, err := a.handler(ctx, event)
	if err != nil {
		adapter.WriteError(w, err)
		return
	}

	if err := WriteResponse(w, resp); err != nil {
		adapter.WriteError(w, err)
	}
}
