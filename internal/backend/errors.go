package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the backend.
type Error struct {
	StatusCode int
	// Message is the "message" field of a JSON body, else the HTTP status
	// text. Other body content never ends up here.
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// ConnectivityError means no response was received at all.
type ConnectivityError struct {
	Op  string
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// errorExcerptBytes bounds the error body excerpt logged at debug level.
const errorExcerptBytes = 256

// newError builds an Error from a failed response body.
func newError(statusCode int, body []byte) *Error {
	return &Error{StatusCode: statusCode, Message: extractMessage(statusCode, body)}
}

func extractMessage(statusCode int, body []byte) string {
	body = bytes.TrimSpace(body)

	var payload struct {
		Message json.RawMessage `json:"message"`
	}
	if len(body) > 0 && body[0] == '{' && json.Unmarshal(body, &payload) == nil && len(payload.Message) > 0 {
		var s string
		if json.Unmarshal(payload.Message, &s) == nil && s != "" {
			return s
		}
		// Validation pipes commonly send a list of messages.
		var list []string
		if json.Unmarshal(payload.Message, &list) == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}

	if text := http.StatusText(statusCode); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", statusCode)
}
