package handlers

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// LambdaEcho returns the event it received, plus the invocation identity,
// as JSON. Useful for verifying what a ported handler actually observes.
func LambdaEcho(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	payload := map[string]interface{}{
		"event": event,
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		payload["requestId"] = lc.AwsRequestID
	}
	if deadline, ok := ctx.Deadline(); ok {
		payload["deadline"] = deadline
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}
