package registry

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a subject or subject version does not exist
// in the registry.
type NotFoundError struct {
	Subject string
	Version int // 0 means "latest"
}

func (e *NotFoundError) Error() string {
	if e.Version > 0 {
		return fmt.Sprintf("subject %s version %d not found", e.Subject, e.Version)
	}
	return fmt.Sprintf("subject %s not found", e.Subject)
}

// RejectedError reports a registry-side semantic rejection of a
// registration, such as an incompatible schema or a malformed reference.
type RejectedError struct {
	Subject    string
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("registry rejected schema for subject %s (HTTP %d): %s", e.Subject, e.StatusCode, e.Message)
}

// UnavailableError reports that the registry could not be reached after
// exhausting all retry attempts.
type UnavailableError struct {
	Attempts int
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("registry unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the error chain contains a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsRejected reports whether the error chain contains a RejectedError
func IsRejected(err error) bool {
	var rej *RejectedError
	return errors.As(err, &rej)
}

// IsUnavailable reports whether the error chain contains an UnavailableError
func IsUnavailable(err error) bool {
	var ua *UnavailableError
	return errors.As(err, &ua)
}
