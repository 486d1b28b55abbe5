package idlpb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanMarshalUnmarshalRoundTrip(t *testing.T) {
	span := &Span{
		TraceID:           []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		SpanID:            []byte{1, 2, 3, 4, 5, 6, 7, 8},
		OperationName:     "do-work",
		Flags:             1,
		StartTimeUnixNano: 1_700_000_000_000_000_000,
		DurationNanos:     42_000,
		References: []*SpanRef{
			{TraceID: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, SpanID: []byte{9, 9, 9, 9, 9, 9, 9, 9}, RefType: SpanRefTypeChildOf},
		},
		Tags: []*KeyValue{
			{Key: "http.status_code", VType: ValueTypeInt64, VInt64: 200},
			{Key: "error", VType: ValueTypeBool, VBool: true},
		},
		Logs: []*Log{
			{TimestampUnixNano: 1_700_000_000_500_000_000, Fields: []*KeyValue{{Key: "event", VType: ValueTypeString, VStr: "retry"}}},
		},
		Process:   &Process{ServiceName: "widget-service", Tags: []*KeyValue{{Key: "host", VType: ValueTypeString, VStr: "node-1"}}},
		ProcessID: "p1",
		Warnings:  []string{"clock skew adjusted"},
	}

	raw, err := span.Marshal()
	require.NoError(t, err)

	got := &Span{}
	require.NoError(t, got.Unmarshal(raw))

	assert.Equal(t, span.OperationName, got.OperationName)
	assert.Equal(t, span.Flags, got.Flags)
	assert.Equal(t, span.StartTimeUnixNano, got.StartTimeUnixNano)
	assert.Equal(t, span.DurationNanos, got.DurationNanos)
	require.Len(t, got.References, 1)
	assert.Equal(t, SpanRefTypeChildOf, got.References[0].RefType)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, int64(200), got.Tags[0].VInt64)
	assert.True(t, got.Tags[1].VBool)
	require.Len(t, got.Logs, 1)
	assert.Equal(t, "retry", got.Logs[0].Fields[0].VStr)
	require.NotNil(t, got.Process)
	assert.Equal(t, "widget-service", got.Process.ServiceName)
	assert.Equal(t, []string{"clock skew adjusted"}, got.Warnings)
}

func TestBatchMarshalUnmarshalRoundTrip(t *testing.T) {
	batch := &Batch{
		Process: &Process{ServiceName: "svc"},
		Spans: []*Span{
			{TraceID: make([]byte, 16), SpanID: make([]byte, 8), OperationName: "a"},
			{TraceID: make([]byte, 16), SpanID: make([]byte, 8), OperationName: "b"},
		},
	}
	raw, err := batch.Marshal()
	require.NoError(t, err)

	got := &Batch{}
	require.NoError(t, got.Unmarshal(raw))
	require.Len(t, got.Spans, 2)
	assert.Equal(t, "a", got.Spans[0].OperationName)
	assert.Equal(t, "b", got.Spans[1].OperationName)
	assert.Equal(t, "svc", got.Process.ServiceName)
}

func TestPostSpansRequestRoundTrip(t *testing.T) {
	req := &PostSpansRequest{Batch: &Batch{Process: &Process{ServiceName: "svc"}}}
	raw, err := req.Marshal()
	require.NoError(t, err)

	got := &PostSpansRequest{}
	require.NoError(t, got.Unmarshal(raw))
	require.NotNil(t, got.Batch)
	assert.Equal(t, "svc", got.Batch.Process.ServiceName)
}
