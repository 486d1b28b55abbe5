// Package apperr defines the typed error taxonomy shared by every ingest and
// query entry point. Errors are constructed once here and converted to
// transport status codes only at the HTTP/gRPC boundary.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the taxonomy buckets a transport
// boundary maps to a status code.
type Kind int

const (
	// Internal is the zero value so an unclassified error still maps to a
	// 500/Internal rather than silently looking like a client error.
	Internal Kind = iota
	BadRequest
	NotFound
	UnsupportedMediaType
	Unimplemented
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad request"
	case NotFound:
		return "not found"
	case UnsupportedMediaType:
		return "unsupported media type"
	case Unimplemented:
		return "unimplemented"
	default:
		return "internal"
	}
}

// Error is an apperr-classified error. Use errors.As to recover it at a
// transport boundary.
type Error struct {
	Kind Kind
	Msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.err }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func BadRequestf(format string, args ...any) *Error {
	return newf(BadRequest, format, args...)
}

func NotFoundf(format string, args ...any) *Error {
	return newf(NotFound, format, args...)
}

func UnsupportedMediaTypef(format string, args ...any) *Error {
	return newf(UnsupportedMediaType, format, args...)
}

func Unimplementedf(format string, args ...any) *Error {
	return newf(Unimplemented, format, args...)
}

func Internalf(format string, args ...any) *Error {
	return newf(Internal, format, args...)
}

// Wrap classifies an existing error, preserving it for errors.Unwrap/Is.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, err: err}
}

// KindOf returns the Kind of err if it (or something it wraps) is an
// *Error, and Internal otherwise — an unclassified error is treated as a
// server-side fault, never surfaced as a 4xx to the caller.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}
