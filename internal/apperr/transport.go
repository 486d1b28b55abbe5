package apperr

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// HTTPStatus maps a Kind to the status code the query HTTP API writes.
func HTTPStatus(kind Kind) int {
	switch kind {
	case BadRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case UnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	case Unimplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode maps a Kind to the status code the Jaeger api_v2/OTLP gRPC
// collectors return.
func GRPCCode(kind Kind) codes.Code {
	switch kind {
	case BadRequest:
		return codes.InvalidArgument
	case NotFound:
		return codes.NotFound
	case UnsupportedMediaType:
		return codes.InvalidArgument
	case Unimplemented:
		return codes.Unimplemented
	default:
		return codes.Internal
	}
}

// HTTPStatusForError is a convenience wrapper combining KindOf and
// HTTPStatus for an arbitrary error value.
func HTTPStatusForError(err error) int {
	return HTTPStatus(KindOf(err))
}

// GRPCCodeForError is a convenience wrapper combining KindOf and GRPCCode
// for an arbitrary error value.
func GRPCCodeForError(err error) codes.Code {
	return GRPCCode(KindOf(err))
}
