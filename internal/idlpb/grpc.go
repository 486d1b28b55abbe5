package idlpb

import (
	"context"
	"fmt"

	gogoproto "github.com/gogo/protobuf/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// codecName is registered as a distinct grpc.encoding.Codec name so the
// collector service never depends on the golang/protobuf v2 reflection API
// grpc's built-in "proto" codec expects; gogoproto.Marshal/Unmarshal
// dispatch straight to each message's own Marshal/Unmarshal fast path.
const codecName = "archer-gogoproto"

type gogoCodec struct{}

func (gogoCodec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(gogoproto.Message)
	if !ok {
		return nil, fmt.Errorf("idlpb: %T is not a gogo proto message", v)
	}
	return gogoproto.Marshal(m)
}

func (gogoCodec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(gogoproto.Message)
	if !ok {
		return fmt.Errorf("idlpb: %T is not a gogo proto message", v)
	}
	return gogoproto.Unmarshal(data, m)
}

func (gogoCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(gogoCodec{})
}

// CollectorServiceServer is the api_v2 CollectorService server contract.
type CollectorServiceServer interface {
	PostSpans(context.Context, *PostSpansRequest) (*PostSpansResponse, error)
}

func _CollectorService_PostSpans_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PostSpansRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CollectorServiceServer).PostSpans(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/jaeger.api_v2.CollectorService/PostSpans",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CollectorServiceServer).PostSpans(ctx, req.(*PostSpansRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// CollectorServiceServiceDesc is the manually authored equivalent of the
// generated grpc.ServiceDesc for CollectorService, since no .pb.go exists
// to emit one.
var CollectorServiceServiceDesc = grpc.ServiceDesc{
	ServiceName: "jaeger.api_v2.CollectorService",
	HandlerType: (*CollectorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PostSpans",
			Handler:    _CollectorService_PostSpans_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jaeger/api_v2/collector.proto",
}

// RegisterCollectorServiceServer registers srv on s. The gogo codec is not
// set here; s gets it from ServerCodecOption at construction.
func RegisterCollectorServiceServer(s *grpc.Server, srv CollectorServiceServer) {
	s.RegisterService(&CollectorServiceServiceDesc, srv)
}

// ServerCodecOption returns the grpc.ServerOption that forces this
// package's wire codec onto a grpc.Server hosting CollectorService.
func ServerCodecOption() grpc.ServerOption {
	return grpc.ForceServerCodec(gogoCodec{})
}

// CollectorServiceClient is the api_v2 CollectorService client contract.
type CollectorServiceClient interface {
	PostSpans(ctx context.Context, in *PostSpansRequest, opts ...grpc.CallOption) (*PostSpansResponse, error)
}

type collectorServiceClient struct {
	cc *grpc.ClientConn
}

// NewCollectorServiceClient builds a client for CollectorService over cc.
// Every PostSpans call requests this package's codec through
// grpc.CallContentSubtype itself, so cc needs no codec-specific dial option.
func NewCollectorServiceClient(cc *grpc.ClientConn) CollectorServiceClient {
	return &collectorServiceClient{cc: cc}
}

func (c *collectorServiceClient) PostSpans(ctx context.Context, in *PostSpansRequest, opts ...grpc.CallOption) (*PostSpansResponse, error) {
	out := new(PostSpansResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(gogoCodec{}.Name())}, opts...)
	err := c.cc.Invoke(ctx, "/jaeger.api_v2.CollectorService/PostSpans", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CodecName is the registered encoding.Codec name clients must request via
// grpc.CallContentSubtype to talk to this package's server.
const CodecName = codecName
