// Package apperr defines the error taxonomy shared by every layer of the
// API. Low-level failures (driver errors, bad tokens, missing rows) are
// reclassified into one of these kinds at the boundary where they occur;
// handlers never invent their own status codes for them. The echo error
// handler in handler.go renders every *Error as the uniform JSON envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single error type that crosses layer boundaries. Message is
// safe to show to clients. Err, when set, carries the internal cause and is
// only ever logged, never serialized.
type Error struct {
	Status  int    // HTTP status code
	Code    string // stable machine-readable code, may be empty
	Message string // client-visible message
	Err     error  // internal cause, for logs only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Authentication reports a missing, malformed or expired credential (401).
func Authentication(msg string) *Error {
	if msg == "" {
		msg = "Authentication failed"
	}
	return &Error{Status: http.StatusUnauthorized, Code: "AUTHENTICATION_ERROR", Message: msg}
}

// Authorization reports a caller whose role is not in the allow-set (403).
func Authorization(msg string) *Error {
	if msg == "" {
		msg = "Not authorized"
	}
	return &Error{Status: http.StatusForbidden, Code: "AUTHORIZATION_ERROR", Message: msg}
}

// NotFound reports a missing resource by name, e.g. NotFound("Patient") (404).
func NotFound(resource string) *Error {
	if resource == "" {
		resource = "Resource"
	}
	return &Error{Status: http.StatusNotFound, Code: "RESOURCE_NOT_FOUND", Message: resource + " not found"}
}

// Validation reports malformed input (422).
func Validation(msg string) *Error {
	if msg == "" {
		msg = "Validation error"
	}
	return &Error{Status: http.StatusUnprocessableEntity, Code: "VALIDATION_ERROR", Message: msg}
}

// Duplicate reports a uniqueness violation, e.g. Duplicate("Email") (409).
func Duplicate(resource string) *Error {
	if resource == "" {
		resource = "Resource"
	}
	return &Error{Status: http.StatusConflict, Code: "DUPLICATE_ERROR", Message: resource + " already exists"}
}

// Database wraps an internal data-layer failure (500). The cause is kept for
// logging; the client only sees msg.
func Database(msg string, err error) *Error {
	if msg == "" {
		msg = "Database error occurred"
	}
	return &Error{Status: http.StatusInternalServerError, Code: "DATABASE_ERROR", Message: msg, Err: err}
}

// BadRequest reports a request the endpoint rejects outright (400). The auth
// endpoints use it for weak passwords and invalid or expired reset tokens.
func BadRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// RateLimited reports a caller over their request budget (429).
func RateLimited(msg string) *Error {
	if msg == "" {
		msg = "Too many requests"
	}
	return &Error{Status: http.StatusTooManyRequests, Code: "RATE_LIMIT_EXCEEDED", Message: msg}
}

// As unwraps err into an *Error when possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
