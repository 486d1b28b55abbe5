package convert

import (
	"time"

	"github.com/archer-go/archer/internal/idlthrift"
	"github.com/archer-go/archer/internal/model"
)

// ThriftBatchToSpans converts one decoded Jaeger Thrift Batch into
// canonical spans. Thrift carries startTime/duration in microseconds,
// widened to nanoseconds here.
func ThriftBatchToSpans(batch *idlthrift.Batch) []*model.Span {
	process := thriftProcessToCanonical(batch.Process)

	spans := make([]*model.Span, 0, len(batch.Spans))
	for _, ts := range batch.Spans {
		spans = append(spans, thriftSpanToCanonical(ts, process))
	}
	return spans
}

func thriftSpanToCanonical(ts *idlthrift.Span, process model.Process) *model.Span {
	traceID := model.NewTraceID(uint64(ts.TraceIDHigh), uint64(ts.TraceIDLow))
	spanID := model.NewSpanID(uint64(ts.SpanID))

	references := make([]model.Reference, 0, len(ts.References)+1)
	parentReferenced := ts.ParentSpanID == 0
	for _, ref := range ts.References {
		refTraceID := model.NewTraceID(uint64(ref.TraceIDHigh), uint64(ref.TraceIDLow))
		refSpanID := model.NewSpanID(uint64(ref.SpanID))
		refType := model.ChildOf
		if ref.RefType == idlthrift.SpanRefTypeFollowsFrom {
			refType = model.FollowsFrom
		}
		if refTraceID == traceID && refSpanID.Uint64() == uint64(ts.ParentSpanID) {
			parentReferenced = true
		}
		references = append(references, model.Reference{RefType: refType, TraceID: refTraceID, SpanID: refSpanID})
	}
	// Rule: a non-zero parent_span_id with no existing reference to it
	// synthesizes a ChildOf reference.
	if !parentReferenced {
		references = append(references, model.Reference{
			RefType: model.ChildOf,
			TraceID: traceID,
			SpanID:  model.NewSpanID(uint64(ts.ParentSpanID)),
		})
	}

	return &model.Span{
		TraceID:       traceID,
		SpanID:        spanID,
		OperationName: ts.OperationName,
		Flags:         uint32(ts.Flags),
		References:    references,
		Start:         time.UnixMicro(ts.StartTime).UTC(),
		Duration:      time.Duration(ts.Duration) * time.Microsecond,
		Tags:          thriftTagsToCanonical(ts.Tags),
		Logs:          thriftLogsToCanonical(ts.Logs),
		Process:       process,
	}
}

func thriftProcessToCanonical(tp *idlthrift.Process) model.Process {
	if tp == nil {
		return model.Process{Service: resourceNoServiceName}
	}
	return model.Process{
		Service: tp.ServiceName,
		Tags:    thriftTagsToCanonical(tp.Tags),
	}
}

func thriftTagsToCanonical(tags []*idlthrift.Tag) []model.Tag {
	out := make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, thriftTagToCanonical(t))
	}
	return out
}

func thriftTagToCanonical(t *idlthrift.Tag) model.Tag {
	switch t.VType {
	case idlthrift.TagTypeDouble:
		v := 0.0
		if t.VDouble != nil {
			v = *t.VDouble
		}
		return model.NewFloat64Tag(t.Key, v)
	case idlthrift.TagTypeBool:
		v := false
		if t.VBool != nil {
			v = *t.VBool
		}
		return model.NewBoolTag(t.Key, v)
	case idlthrift.TagTypeLong:
		v := int64(0)
		if t.VLong != nil {
			v = *t.VLong
		}
		return model.NewInt64Tag(t.Key, v)
	case idlthrift.TagTypeBinary:
		return model.NewBinaryTag(t.Key, t.VBinary)
	default:
		v := ""
		if t.VStr != nil {
			v = *t.VStr
		}
		return model.NewStringTag(t.Key, v)
	}
}

func thriftLogsToCanonical(logs []*idlthrift.Log) []model.Log {
	out := make([]model.Log, 0, len(logs))
	for _, l := range logs {
		out = append(out, model.Log{
			Timestamp: time.UnixMicro(l.Timestamp).UTC(),
			Fields:    thriftTagsToCanonical(l.Fields),
		})
	}
	return out
}
