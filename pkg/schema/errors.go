package schema

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a schema source could not be read
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema source %s not found: %v", e.Path, e.Err)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ParseError reports a malformed declaration encountered while scanning
// a schema source, naming the offending file.
type ParseError struct {
	Path    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %s", e.Path, e.Message)
}

// CanonicalizationError reports that a schema is not well-formed enough
// to canonicalize.
type CanonicalizationError struct {
	Path string
	Err  error
}

func (e *CanonicalizationError) Error() string {
	return fmt.Sprintf("cannot canonicalize %s: %v", e.Path, e.Err)
}

func (e *CanonicalizationError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether the error chain contains a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
