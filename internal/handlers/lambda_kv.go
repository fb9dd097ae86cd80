// Package handlers provides the example handlers served by the demo server:
// a Lambda-style API over the key-value storage capability and an
// Express-style API demonstrating the request accessors and response
// builder.
package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"

	"serverless-adapter-kit/internal/adapters/storage"
)

// LambdaKVHandler exposes the storage capability through a Lambda-style
// handler: get/put/delete by key plus a key-condition query endpoint.
type LambdaKVHandler struct {
	store storage.KVStore
}

// NewLambdaKVHandler creates a new handler over the given store.
func NewLambdaKVHandler(store storage.KVStore) *LambdaKVHandler {
	return &LambdaKVHandler{store: store}
}

// Handle routes the event by method and matched path parameters.
func (h *LambdaKVHandler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	key := event.PathParameters["key"]

	switch {
	case event.HTTPMethod == http.MethodGet && key != "":
		return h.handleGet(ctx, key)
	case event.HTTPMethod == http.MethodPut && key != "":
		return h.handlePut(ctx, key, event)
	case event.HTTPMethod == http.MethodDelete && key != "":
		return h.handleDelete(ctx, key)
	case event.HTTPMethod == http.MethodGet && strings.HasSuffix(event.Path, "/keys"):
		return h.handleQuery(ctx, event)
	default:
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusNotFound,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       errorBody("Not Found", "no route for "+event.HTTPMethod+" "+event.Path),
		}, nil
	}
}

func (h *LambdaKVHandler) handleGet(ctx context.Context, key string) (events.APIGatewayProxyResponse, error) {
	value, err := h.store.Get(ctx, key)
	if storage.IsNotFound(err) {
		return notFound(key), nil
	}
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	// Stored values are opaque bytes; return them through the base64 pair.
	return events.APIGatewayProxyResponse{
		StatusCode:      http.StatusOK,
		Headers:         map[string]string{"Content-Type": "application/octet-stream"},
		Body:            base64.StdEncoding.EncodeToString(value),
		IsBase64Encoded: true,
	}, nil
}

func (h *LambdaKVHandler) handlePut(ctx context.Context, key string, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	value := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusBadRequest,
				Headers:    map[string]string{"Content-Type": "application/json"},
				Body:       errorBody("Bad Request", "malformed base64 body"),
			}, nil
		}
		value = decoded
	}

	if err := h.store.Put(ctx, key, value); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	logrus.WithFields(logrus.Fields{"key": key, "bytes": len(value)}).Info("Stored value")

	body, err := json.Marshal(map[string]string{"key": key})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusCreated,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func (h *LambdaKVHandler) handleDelete(ctx context.Context, key string) (events.APIGatewayProxyResponse, error) {
	err := h.store.Delete(ctx, key)
	if storage.IsNotFound(err) {
		return notFound(key), nil
	}
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent}, nil
}

func (h *LambdaKVHandler) handleQuery(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	condition := event.QueryStringParameters["match"]
	if condition == "" {
		condition = "prefix:"
	}

	keys, err := storage.Query(ctx, h.store, condition)
	if err != nil {
		// An unsupported condition is a caller mistake, not a server fault.
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       errorBody("Bad Request", err.Error()),
		}, nil
	}

	body, err := json.Marshal(map[string][]string{"keys": keys})
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

func notFound(key string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusNotFound,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       errorBody("Not Found", "key '"+key+"' does not exist"),
	}
}
