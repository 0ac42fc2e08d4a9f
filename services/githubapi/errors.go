package githubapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is returned when GitHub answered with an unexpected status.
type Error struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("github %s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
}

func newError(operation string, statusCode int, body []byte) *Error {
	resp := struct {
		Message string `json:"message"`
	}{}
	_ = json.Unmarshal(body, &resp)
	if resp.Message == "" {
		resp.Message = http.StatusText(statusCode)
	}
	return &Error{
		Operation:  operation,
		StatusCode: statusCode,
		Message:    resp.Message,
	}
}

// StatusCode returns the status GitHub answered with, or 0 when err did not come from a GitHub response.
func StatusCode(err error) int {
	var ghErr *Error
	if errors.As(err, &ghErr) {
		return ghErr.StatusCode
	}
	return 0
}
