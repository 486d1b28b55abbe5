package ingest

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/archer-go/archer/internal/apperr"
	"github.com/archer-go/archer/internal/convert"
	"github.com/archer-go/archer/internal/idlpb"
)

// grpcError converts an apperr-classified error into the gRPC status the
// collector returns, mirroring the HTTP endpoints' taxonomy mapping.
func grpcError(err error) error {
	return status.Error(apperr.GRPCCodeForError(err), err.Error())
}

// CollectorGRPCServer implements idlpb.CollectorServiceServer, the api_v2
// Jaeger collector's PostSpans RPC.
type CollectorGRPCServer struct {
	Sink   Sink
	Logger *zap.Logger
}

func (s *CollectorGRPCServer) PostSpans(ctx context.Context, req *idlpb.PostSpansRequest) (*idlpb.PostSpansResponse, error) {
	if req.Batch == nil {
		return nil, grpcError(apperr.BadRequestf("post spans request has no batch"))
	}
	spans, err := convert.JaegerProtoBatchToSpans(req.Batch)
	if err != nil {
		return nil, grpcError(apperr.Wrap(apperr.BadRequest, "convert jaeger proto batch", err))
	}
	saveDetached(s.Logger, s.Sink, spans)
	return &idlpb.PostSpansResponse{}, nil
}

// RegisterCollectorGRPC wires a CollectorGRPCServer onto srv. It does not
// set the codec: srv has to be built with idlpb.ServerCodecOption(), since
// these hand-written messages never implement the golang/protobuf v2
// reflection API grpc's default codec expects.
func RegisterCollectorGRPC(srv *grpc.Server, sink Sink, logger *zap.Logger) {
	idlpb.RegisterCollectorServiceServer(srv, &CollectorGRPCServer{Sink: sink, Logger: logger})
}
