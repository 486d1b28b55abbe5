package apperr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestKindOfUnclassifiedIsInternal(t *testing.T) {
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
}

func TestKindOfClassified(t *testing.T) {
	err := NotFoundf("trace %s not found", "abc")
	assert.Equal(t, NotFound, KindOf(err))
	assert.Equal(t, "trace abc not found", err.Error())
}

func TestWrapPreservesUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(Internal, "save spans", cause)
	assert.ErrorIs(t, err, cause)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		BadRequest:           http.StatusBadRequest,
		NotFound:             http.StatusNotFound,
		UnsupportedMediaType: http.StatusUnsupportedMediaType,
		Unimplemented:        http.StatusNotImplemented,
		Internal:             http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind))
	}
}

func TestGRPCCode(t *testing.T) {
	cases := map[Kind]codes.Code{
		BadRequest: codes.InvalidArgument,
		NotFound:   codes.NotFound,
		Internal:   codes.Internal,
	}
	for kind, want := range cases {
		assert.Equal(t, want, GRPCCode(kind))
	}
}

func TestHTTPStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusForError(NotFoundf("nope")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForError(errors.New("plain")))
}
