package queryapi

import (
	"encoding/json"
	"net/http"

	"github.com/archer-go/archer/internal/apperr"
)

// writeData writes a successful envelope carrying data and its total count.
func writeData(w http.ResponseWriter, data any, total int) {
	writeEnvelope(w, http.StatusOK, Envelope{Data: data, Total: total})
}

// writeError converts err to its apperr.Kind and writes the matching
// status code with a single-entry errors array.
func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	writeEnvelope(w, apperr.HTTPStatus(kind), Envelope{
		Data: nil,
		Errors: []EnvelopeError{{
			Code: apperr.HTTPStatus(kind),
			Msg:  err.Error(),
		}},
	})
}

func writeEnvelope(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
