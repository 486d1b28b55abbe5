package ingest

import (
	"io"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"

	collectortracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"

	"github.com/archer-go/archer/internal/apperr"
	"github.com/archer-go/archer/internal/convert"
)

// OTLPHTTPHandler implements POST /v1/traces: a protobuf-encoded
// ExportTraceServiceRequest body, Content-Type: application/x-protobuf
// required.
type OTLPHTTPHandler struct {
	Sink   Sink
	Logger *zap.Logger
}

func (h *OTLPHTTPHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, apperr.BadRequestf("method %s not allowed", r.Method))
		return
	}
	if r.Header.Get("Content-Type") != "application/x-protobuf" {
		writeErr(w, apperr.UnsupportedMediaTypef("expected application/x-protobuf"))
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxAgentDatagram*16))
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.Internal, "read request body", err))
		return
	}

	req := &collectortracepb.ExportTraceServiceRequest{}
	if err := proto.Unmarshal(body, req); err != nil {
		writeErr(w, apperr.Wrap(apperr.BadRequest, "decode otlp request", err))
		return
	}

	spans, err := convert.OTLPResourceSpansToSpans(req.GetResourceSpans())
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.BadRequest, "convert otlp spans", err))
		return
	}
	saveDetached(h.Logger, h.Sink, spans)

	resp, err := proto.Marshal(&collectortracepb.ExportTraceServiceResponse{})
	if err != nil {
		writeErr(w, apperr.Wrap(apperr.Internal, "encode otlp response", err))
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write(resp)
}
