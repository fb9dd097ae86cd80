package handlers

import "encoding/json"

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func errorBody(errText, message string) string {
	body, err := json.Marshal(ErrorResponse{Error: errText, Message: message})
	if err != nil {
		return `{"error": "Internal Server Error", "message": "Unknown error"}`
	}
	return string(body)
}
