package lambda

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

// DefaultTimeBudget is the platform time budget assumed when the adapter is
// constructed without one.
const DefaultTimeBudget = 30 * time.Second

// InvocationContext carries the per-invocation identity and time budget a
// Lambda-style handler expects. It is created immediately before the handler
// runs and discarded afterward.
type InvocationContext struct {
	RequestID string
	Start     time.Time
	Budget    time.Duration
}

// NewInvocationContext creates a context with a fresh request ID and the
// invocation start pinned to now.
func NewInvocationContext(budget time.Duration) *InvocationContext {
	if budget <= 0 {
		budget = DefaultTimeBudget
	}
	return &InvocationContext{
		RequestID: uuid.New().String(),
		Start:     time.Now(),
		Budget:    budget,
	}
}

// RemainingTime returns budget minus elapsed wall-clock time. It is
// recomputed on every call, never cached, and may go negative once the
// budget is exhausted.
func (ic *InvocationContext) RemainingTime() time.Duration {
	return ic.Budget - time.Since(ic.Start)
}

// RemainingTimeMillis is RemainingTime in milliseconds, matching the shape
// handlers ported from the native runtime read.
func (ic *InvocationContext) RemainingTimeMillis() int64 {
	return ic.RemainingTime().Milliseconds()
}

// Attach derives a context.Context carrying the invocation identity (via
// lambdacontext) and a deadline at budget exhaustion, so handlers written
// against aws-lambda-go observe the same request ID and remaining time they
// would natively.
func (ic *InvocationContext) Attach(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := lambdacontext.NewContext(parent, &lambdacontext.LambdaContext{
		AwsRequestID: ic.RequestID,
	})
	return context.WithDeadline(ctx, ic.Start.Add(ic.Budget))
}
