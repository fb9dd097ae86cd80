// Package adapter holds the pieces shared by the Lambda-mode and
// Express-mode entry points: the uniform 500 error envelope and panic
// conversion. Callers never see a raw stack trace; every failure surfaces as
// a JSON envelope with a generic error and, where available, the original
// message text.
package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the uniform JSON error envelope returned for any failure
// inside an adapter.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError serializes err as a 500 response. A nil or message-less error
// yields "Unknown error".
func WriteError(w http.ResponseWriter, err error) {
	message := "Unknown error"
	if err != nil && err.Error() != "" {
		message = err.Error()
	}

	body, marshalErr := json.Marshal(ErrorResponse{
		Error:   "Internal Server Error",
		Message: message,
	})
	if marshalErr != nil {
		body = []byte(`{"error": "Internal Server Error", "message": "Unknown error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write(body)
}

// Recovered converts a recovered panic value into an error suitable for
// WriteError.
func Recovered(v interface{}) error {
	switch e := v.(type) {
	case nil:
		return nil
	case error:
		return e
	case string:
		return fmt.Errorf("%s", e)
	default:
		return fmt.Errorf("%v", e)
	}
}
