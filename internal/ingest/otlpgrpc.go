package ingest

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	collectortracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"

	"github.com/archer-go/archer/internal/apperr"
	"github.com/archer-go/archer/internal/convert"
)

// OTLPGRPCServer implements the OTLP TraceService.Export RPC, using the
// generated go.opentelemetry.io/proto/otlp types directly (no adapter
// struct needed: grpc's default codec already understands them).
type OTLPGRPCServer struct {
	collectortracepb.UnimplementedTraceServiceServer
	Sink   Sink
	Logger *zap.Logger
}

func (s *OTLPGRPCServer) Export(ctx context.Context, req *collectortracepb.ExportTraceServiceRequest) (*collectortracepb.ExportTraceServiceResponse, error) {
	spans, err := convert.OTLPResourceSpansToSpans(req.GetResourceSpans())
	if err != nil {
		return nil, grpcError(apperr.Wrap(apperr.BadRequest, "convert otlp spans", err))
	}
	saveDetached(s.Logger, s.Sink, spans)
	return &collectortracepb.ExportTraceServiceResponse{}, nil
}

// RegisterOTLPGRPC wires an OTLPGRPCServer onto srv.
func RegisterOTLPGRPC(srv *grpc.Server, sink Sink, logger *zap.Logger) {
	collectortracepb.RegisterTraceServiceServer(srv, &OTLPGRPCServer{Sink: sink, Logger: logger})
}
