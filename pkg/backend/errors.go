package backend

import (
	"errors"
	"fmt"
)

// duplicateEmailDetail is the backend's error detail for a duplicate
// registration. String-matched because the API reports conflicts as a plain
// 400 with this detail rather than a 409.
const duplicateEmailDetail = "Email already registered"

var (
	// ErrUnauthorized covers a missing, expired, or invalid token, and bad
	// login credentials. Callers must close the session when they see it.
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrConflict reports a duplicate registration.
	ErrConflict = errors.New("backend: email already registered")
	// ErrValidation reports malformed input rejected by the backend.
	ErrValidation = errors.New("backend: invalid request payload")
)

// APIError carries the HTTP status and backend-reported detail for a rejected
// request. It wraps one of the sentinel errors above when the status maps to
// a known category.
type APIError struct {
	Status int
	Detail string
	kind   error
}

// Error renders status and backend detail.
func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend: remote error %d", e.Status)
	}
	return fmt.Sprintf("backend: remote error %d: %s", e.Status, e.Detail)
}

// Unwrap exposes the sentinel category, if any.
func (e *APIError) Unwrap() error {
	return e.kind
}

func classify(status int, detail string) *APIError {
	err := &APIError{Status: status, Detail: detail}
	switch {
	case status == 401:
		err.kind = ErrUnauthorized
	case status == 400 && detail == duplicateEmailDetail:
		err.kind = ErrConflict
	case status == 422:
		err.kind = ErrValidation
	}
	return err
}
