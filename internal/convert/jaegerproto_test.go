package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archer-go/archer/internal/idlpb"
)

func TestJaegerProtoBatchToSpans(t *testing.T) {
	batch := &idlpb.Batch{
		Process: &idlpb.Process{ServiceName: "widget-service"},
		Spans: []*idlpb.Span{
			{
				TraceID:           []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
				SpanID:            []byte{0, 0, 0, 0, 0, 0, 0, 1},
				OperationName:     "op",
				StartTimeUnixNano: 1_000_000_000,
				DurationNanos:     5_000,
				Tags: []*idlpb.KeyValue{
					{Key: "http.method", VType: idlpb.ValueTypeString, VStr: "GET"},
				},
				References: []*idlpb.SpanRef{
					{
						TraceID: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
						SpanID:  []byte{0, 0, 0, 0, 0, 0, 0, 2},
						RefType: idlpb.SpanRefTypeChildOf,
					},
				},
			},
		},
	}

	spans, err := JaegerProtoBatchToSpans(batch)
	require.NoError(t, err)
	require.Len(t, spans, 1)

	span := spans[0]
	assert.Equal(t, "op", span.OperationName)
	assert.Equal(t, "widget-service", span.Process.Service)
	require.Len(t, span.References, 1)
	assert.Equal(t, "GET", span.Tags[0].VStr)
}

func TestJaegerProtoSpanProcessOverridesBatchProcess(t *testing.T) {
	batch := &idlpb.Batch{
		Process: &idlpb.Process{ServiceName: "batch-default"},
		Spans: []*idlpb.Span{
			{
				TraceID:       make([]byte, 16),
				SpanID:        make([]byte, 8),
				OperationName: "op",
				Process:       &idlpb.Process{ServiceName: "span-specific"},
			},
		},
	}
	spans, err := JaegerProtoBatchToSpans(batch)
	require.NoError(t, err)
	assert.Equal(t, "span-specific", spans[0].Process.Service)
}
