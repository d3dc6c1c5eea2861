package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorMessage is used when a failed response carries no message of its own.
const DefaultErrorMessage = "request failed"

// NetworkError means no response was received at all.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network failure: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.Status, e.Message)
}

// DecodeError is a 2xx response whose body does not have the expected shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding response of %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsAuthRejection reports whether err is the server refusing the bearer token:
// 401 for a missing or expired token, 422 for a malformed one.
func IsAuthRejection(err error) bool {
	var se *ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.Status == http.StatusUnauthorized || se.Status == http.StatusUnprocessableEntity
}

// Message returns the text a page should show for err, or fallback when err
// carries nothing user-facing.
func Message(err error, fallback string) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" && se.Message != DefaultErrorMessage {
		return se.Message
	}
	return fallback
}
