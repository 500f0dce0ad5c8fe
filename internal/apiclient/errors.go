package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork means the request never got an HTTP response.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse means the response body could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")

	// Matched against *APIError by status code.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// APIError is an HTTP error status returned by the server.
type APIError struct {
	Status  int
	Code    string // "error" field of the body
	Message string // "message" field of the body
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Code
	}
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("API error %d: %s", e.Status, msg)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

// Unauthorized lets the session probe recognise a definitive 401.
func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized
}
