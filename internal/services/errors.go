package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Fixed messages for statuses whose body is ignored.
const (
	MsgUnauthorized = "Unauthorized - invalid credentials"
	MsgForbidden    = "Forbidden - insufficient permissions"
	MsgNotFound     = "Resource not found"
	MsgExists       = "Resource already exists"
	MsgServerError  = "Server error"
)

// APIError is the only error type the client returns. It carries a display string and nothing else.
type APIError struct {
	message string
}

func (e *APIError) Error() string {
	return e.message
}

// Message returns the text shown to the user.
func (e *APIError) Message() string {
	return e.message
}

// apiErrorBody mirrors the error document the API sends ({error, message, status, timestamp}).
type apiErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func newClientError(err error) *APIError {
	return &APIError{message: fmt.Sprintf("Error: %v", err)}
}

// errorForStatus maps a non-2xx response to the fixed message taxonomy.
func errorForStatus(status int, body []byte) *APIError {
	switch {
	case status == http.StatusUnauthorized:
		return &APIError{message: MsgUnauthorized}
	case status == http.StatusForbidden:
		return &APIError{message: MsgForbidden}
	case status == http.StatusNotFound:
		return &APIError{message: MsgNotFound}
	case status == http.StatusConflict:
		if msg := bodyMessage(body); msg != "" {
			return &APIError{message: msg}
		}
		return &APIError{message: MsgExists}
	case status >= http.StatusInternalServerError:
		return &APIError{message: MsgServerError}
	default:
		if msg := bodyMessage(body); msg != "" {
			return &APIError{message: msg}
		}
		return &APIError{message: fmt.Sprintf("HTTP error %d", status)}
	}
}

func bodyMessage(body []byte) string {
	var parsed apiErrorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Message)
}

// IsNotFound reports whether err is the API's 404 error.
// Client errors carry only their message, so other error types are matched on text.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.message == MsgNotFound
	}
	return err != nil && err.Error() == MsgNotFound
}
