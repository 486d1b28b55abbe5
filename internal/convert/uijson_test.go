package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archer-go/archer/internal/model"
)

func TestSpansToUITraceCoalescesProcesses(t *testing.T) {
	traceID := model.NewTraceID(1, 1)
	parent := model.NewSpanID(1)
	child := model.NewSpanID(2)

	proc := model.Process{Service: "widget-service", Tags: []model.Tag{model.NewStringTag("hostname", "box1")}}

	spanA := &model.Span{
		TraceID: traceID, SpanID: parent, OperationName: "op-a",
		Start: time.Now().UTC(), Duration: time.Millisecond, Process: proc,
	}
	spanB := &model.Span{
		TraceID: traceID, SpanID: child, OperationName: "op-b",
		Start: time.Now().UTC(), Duration: time.Millisecond, Process: proc,
		References: []model.Reference{{RefType: model.ChildOf, TraceID: traceID, SpanID: parent}},
	}
	spanC := &model.Span{
		TraceID: traceID, SpanID: model.NewSpanID(3), OperationName: "op-c",
		Start: time.Now().UTC(), Duration: time.Millisecond,
		Process: model.Process{Service: "other-service"},
	}
	trace := SpansToUITrace(traceID, []*model.Span{spanA, spanB, spanC})

	require.Len(t, trace.Processes, 2)
	assert.Equal(t, trace.Spans[0].ProcessID, trace.Spans[1].ProcessID)
	assert.NotEqual(t, trace.Spans[0].ProcessID, trace.Spans[2].ProcessID)
	assert.Equal(t, "p1", trace.Spans[0].ProcessID)
	assert.Equal(t, "p2", trace.Spans[2].ProcessID)
	assert.Equal(t, parent.String(), trace.Spans[1].ParentSpanID)
	assert.Empty(t, trace.Spans[0].ParentSpanID)
}

func TestSpansToUITraceProcessTagOrderIsSignificant(t *testing.T) {
	traceID := model.NewTraceID(1, 3)
	a := model.NewStringTag("hostname", "box1")
	b := model.NewStringTag("ip", "10.0.0.1")

	spanA := &model.Span{
		TraceID: traceID, SpanID: model.NewSpanID(1), OperationName: "op-a",
		Start: time.Now().UTC(), Duration: time.Millisecond,
		Process: model.Process{Service: "widget-service", Tags: []model.Tag{a, b}},
	}
	spanB := &model.Span{
		TraceID: traceID, SpanID: model.NewSpanID(2), OperationName: "op-b",
		Start: time.Now().UTC(), Duration: time.Millisecond,
		Process: model.Process{Service: "widget-service", Tags: []model.Tag{b, a}},
	}

	trace := SpansToUITrace(traceID, []*model.Span{spanA, spanB})

	// Same tag set in a different order is a different process.
	require.Len(t, trace.Processes, 2)
	assert.Equal(t, "p1", trace.Spans[0].ProcessID)
	assert.Equal(t, "p2", trace.Spans[1].ProcessID)
}

func TestSpansToUITraceTagTypes(t *testing.T) {
	traceID := model.NewTraceID(1, 2)
	span := &model.Span{
		TraceID: traceID, SpanID: model.NewSpanID(1), OperationName: "op",
		Start: time.Now().UTC(), Duration: time.Millisecond,
		Process: model.Process{Service: "svc"},
		Tags: []model.Tag{
			model.NewStringTag("a", "x"),
			model.NewBoolTag("b", true),
			model.NewInt64Tag("c", 7),
			model.NewFloat64Tag("d", 1.5),
			model.NewBinaryTag("e", []byte{0xab}),
		},
	}

	trace := SpansToUITrace(traceID, []*model.Span{span})
	tags := trace.Spans[0].Tags
	require.Len(t, tags, 5)
	assert.Equal(t, "string", tags[0].Type)
	assert.Equal(t, "bool", tags[1].Type)
	assert.Equal(t, true, tags[1].Value)
	assert.Equal(t, "int64", tags[2].Type)
	assert.Equal(t, "float64", tags[3].Type)
	assert.Equal(t, "binary", tags[4].Type)
	assert.Equal(t, "ab", tags[4].Value)
}
