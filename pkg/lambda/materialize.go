package lambda

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// WriteResponse serializes a proxy response onto the platform response. It
// is a pure transformation: single-value headers are set, multi-value
// headers are appended in registration order, the body is base64-decoded
// when the response flags it, and a zero status code falls back to 200.
//
// The body is decoded before anything is written so a malformed base64
// payload surfaces as an error instead of a half-written response.
func WriteResponse(w http.ResponseWriter, resp events.APIGatewayProxyResponse) error {
	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			return fmt.Errorf("decoding base64 response body: %w", err)
		}
		body = decoded
	}

	header := w.Header()
	for name, value := range resp.Headers {
		header.Set(name, value)
	}
	for name, values := range resp.MultiValueHeaders {
		// Append keeps every value distinct; Set-Cookie in particular must
		// never be merged or deduplicated.
		for _, value := range values {
			header.Add(name, value)
		}
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return fmt.Errorf("writing response body: %w", err)
		}
	}
	return nil
}
