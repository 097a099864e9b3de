package contentview

import (
	"errors"
	"fmt"
)

// Common error variables for view operations.
var (
	// ErrMalformedWireFormat indicates a buffer does not parse as a complete
	// sequence of valid protobuf field triples.
	ErrMalformedWireFormat = errors.New("malformed protobuf wire format")

	// ErrNotFramedMessage indicates no valid frame header was found at the
	// start of a buffer.
	ErrNotFramedMessage = errors.New("not a gRPC/Connect framed message")

	// ErrViewNotFound indicates a requested view is not registered.
	ErrViewNotFound = errors.New("contentview not found")

	// ErrViewExists indicates a view with the same name is already registered.
	ErrViewExists = errors.New("contentview already registered")
)

// RenderError reports a failure from a named view, preserving the cause.
type RenderError struct {
	// View is the name of the view that failed.
	View string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("contentview %q: %v", e.View, e.Cause)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Cause
}
