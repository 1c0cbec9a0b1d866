// Package apperr carries typed operation failures across service boundaries.
// Every core operation returns one of these instead of an ad-hoc error so the
// HTTP layer and the websocket gateway can map failures without string
// matching.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operation failure.
type Kind int

const (
	// KindUnknown is the zero kind, reported for errors from outside this package.
	KindUnknown Kind = iota

	// KindValidation marks malformed input rejected before any state change.
	KindValidation

	// KindPermissionDenied marks a contact-authorization failure.
	KindPermissionDenied

	// KindNotFound marks a reference to a missing record or a record not in
	// the state the operation requires.
	KindNotFound

	// KindConflict marks an operation that would duplicate or contradict
	// existing state.
	KindConflict

	// KindInfrastructure marks a storage or transport failure, opaque at this layer.
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Error is a failure with a kind and a human-readable message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a KindValidation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// PermissionDenied returns a KindPermissionDenied error.
func PermissionDenied(msg string) *Error {
	return &Error{Kind: KindPermissionDenied, Msg: msg}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Conflict returns a KindConflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// Infrastructure wraps a storage or transport failure.
func Infrastructure(msg string, err error) *Error {
	return &Error{Kind: KindInfrastructure, Msg: msg, Err: err}
}

// KindOf extracts the kind from err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// HTTPStatus maps an error kind to an HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
