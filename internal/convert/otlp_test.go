package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

func strAttr(key, value string) *commonpb.KeyValue {
	return &commonpb.KeyValue{Key: key, Value: &commonpb.AnyValue{Value: &commonpb.AnyValue_StringValue{StringValue: value}}}
}

func TestOTLPZeroTraceIDIsSubstituted(t *testing.T) {
	rs := []*tracepb.ResourceSpans{
		{
			Resource: &resourcepb.Resource{Attributes: []*commonpb.KeyValue{strAttr("service.name", "widget-service")}},
			ScopeSpans: []*tracepb.ScopeSpans{
				{
					Spans: []*tracepb.Span{
						{
							TraceId:           make([]byte, 16),
							SpanId:            make([]byte, 8),
							Name:              "op",
							StartTimeUnixNano: 1_000_000_000,
							EndTimeUnixNano:   1_000_050_000,
						},
					},
				},
			},
		},
	}

	spans, err := OTLPResourceSpansToSpans(rs)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.False(t, spans[0].TraceID.IsZero())
	assert.False(t, spans[0].SpanID.IsZero())
	assert.Equal(t, "widget-service", spans[0].Process.Service)
}

func TestOTLPMissingResourceYieldsDefaultServiceName(t *testing.T) {
	rs := []*tracepb.ResourceSpans{
		{
			ScopeSpans: []*tracepb.ScopeSpans{
				{Spans: []*tracepb.Span{{TraceId: make([]byte, 16), SpanId: make([]byte, 8), Name: "op"}}},
			},
		},
	}
	spans, err := OTLPResourceSpansToSpans(rs)
	require.NoError(t, err)
	assert.Equal(t, resourceNoServiceName, spans[0].Process.Service)
}

func TestOTLPStatusAndKindEnrichment(t *testing.T) {
	rs := []*tracepb.ResourceSpans{
		{
			Resource: &resourcepb.Resource{Attributes: []*commonpb.KeyValue{strAttr("service.name", "svc")}},
			ScopeSpans: []*tracepb.ScopeSpans{
				{
					Scope: &commonpb.InstrumentationScope{Name: "my-lib", Version: "1.0"},
					Spans: []*tracepb.Span{
						{
							TraceId: make([]byte, 16), SpanId: make([]byte, 8),
							Name: "op",
							Kind: tracepb.Span_SPAN_KIND_SERVER,
							Status: &tracepb.Status{
								Code:    tracepb.Status_STATUS_CODE_ERROR,
								Message: "boom",
							},
						},
					},
				},
			},
		},
	}
	spans, err := OTLPResourceSpansToSpans(rs)
	require.NoError(t, err)
	tags := map[string]bool{}
	for _, tag := range spans[0].Tags {
		tags[tag.Key] = true
	}
	assert.True(t, tags["span.kind"])
	assert.True(t, tags["otel.status_code"])
	assert.True(t, tags["error"])
	assert.True(t, tags["otel.status_description"])
	assert.True(t, tags["otel.library.name"])
	assert.True(t, tags["otel.library.version"])
}
