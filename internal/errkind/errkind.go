// Package errkind defines the closed set of failure categories used across
// the dispatcher. Fallible operations return a kinded error instead of
// relying on type switches over arbitrary error values; the dispatch boundary
// switches over the kind to pick an exit code and a one-line diagnostic.
package errkind

import (
	"errors"
	"fmt"
)

// Kind identifies a failure category.
type Kind int

const (
	// Load means a component unit could not be loaded at all (missing
	// manifest, unreadable file, HCL parse failure).
	Load Kind = iota

	// Shape means the unit loaded but does not expose the required
	// capability: no registered handler for its command, or the manifest
	// flags disagree with the handler's input struct.
	Shape

	// Cache means a descriptor cache read or write failed. Cache errors are
	// never fatal; callers log them and fall back to re-validation.
	Cache

	// Duplicate means two components claimed the same command name. The
	// first registration wins.
	Duplicate

	// Dispatch is the catch-all for failures escaping a component entry
	// point during execution.
	Dispatch

	// Interrupt means execution was cancelled by the user.
	Interrupt
)

// String returns the human-readable category label.
func (k Kind) String() string {
	switch k {
	case Load:
		return "load error"
	case Shape:
		return "shape error"
	case Cache:
		return "cache error"
	case Duplicate:
		return "duplicate command"
	case Dispatch:
		return "dispatch failure"
	case Interrupt:
		return "interrupted"
	default:
		return "unknown error"
	}
}

// Error pairs a failure category with an underlying cause.
type Error struct {
	Kind Kind
	Err  error
}

// New wraps err with the given kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf formats a new kinded error. The format string supports %w.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface with a category-labeled message.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure category from err. The boolean is false when
// err carries no kind, in which case callers should treat it as Dispatch.
func KindOf(err error) (Kind, bool) {
	var ke *Error
	if errors.As(err, &ke) {
		return ke.Kind, true
	}
	return Dispatch, false
}
