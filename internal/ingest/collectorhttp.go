package ingest

import (
	"io"
	"net/http"

	"github.com/apache/thrift/lib/go/thrift"
	"go.uber.org/zap"

	"github.com/archer-go/archer/internal/apperr"
	"github.com/archer-go/archer/internal/convert"
	"github.com/archer-go/archer/internal/idlthrift"
)

// CollectorHTTPHandler implements POST /api/traces: a Thrift-binary encoded
// Batch in the request body. Decode failures are reported to the client
// (per the "known ambiguity" resolved toward reporting, not only logging).
type CollectorHTTPHandler struct {
	Sink   Sink
	Logger *zap.Logger
}

func (h *CollectorHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, apperr.BadRequestf("method %s not allowed", r.Method))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxAgentDatagram*16))
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.Internal, "read request body", err))
		return
	}

	mem := thrift.NewTMemoryBufferLen(len(body))
	mem.Write(body)
	iprot := thrift.NewTBinaryProtocolConf(mem, nil)

	batch := &idlthrift.Batch{}
	if err := batch.Read(r.Context(), iprot); err != nil {
		writeErr(w, apperr.Wrap(apperr.BadRequest, "decode thrift batch", err))
		return
	}

	spans := convert.ThriftBatchToSpans(batch)
	saveDetached(h.Logger, h.Sink, spans)

	w.WriteHeader(http.StatusAccepted)
}

func writeErr(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	w.WriteHeader(apperr.HTTPStatus(kind))
	_, _ = w.Write([]byte(err.Error()))
}
