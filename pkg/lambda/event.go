// Package lambda adapts handlers written against the AWS Lambda proxy
// integration contract (aws-lambda-go events) to a plain net/http boundary.
// The adapter normalizes the inbound request, projects it into an
// events.APIGatewayProxyRequest, invokes the wrapped handler with an
// invocation context, and materializes the returned proxy response.
package lambda

import (
	"github.com/aws/aws-lambda-go/events"

	"serverless-adapter-kit/pkg/normalize"
)

// ToEvent projects a normalized request into the event shape a Lambda proxy
// handler expects.
//
// Absence is represented as nil, never as an empty map: QueryStringParameters
// is nil when the query string is empty, and PathParameters is nil when no
// route pattern matched. A route that matched with zero parameters projects
// as a non-nil empty map, mirroring the platform being emulated.
func ToEvent(n *normalize.Request, pathParams map[string]string) events.APIGatewayProxyRequest {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:     n.Method,
		Path:           n.Path,
		Headers:        n.Headers,
		PathParameters: pathParams,
	}

	if len(n.Query) > 0 {
		single := make(map[string]string, len(n.Query))
		multi := make(map[string][]string, len(n.Query))
		for key, values := range n.Query {
			// Single-value consumption reads the first occurrence.
			single[key] = values.First()
			multi[key] = append([]string(nil), values...)
		}
		event.QueryStringParameters = single
		event.MultiValueQueryStringParameters = multi
	}

	if n.Body != nil {
		if n.Body.Kind == normalize.BodyBinary {
			event.Body = n.Body.Base64
			event.IsBase64Encoded = true
		} else {
			event.Body = n.Body.Text
		}
	}

	return event
}
