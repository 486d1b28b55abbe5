package convert

import (
	"time"

	"github.com/archer-go/archer/internal/idlpb"
	"github.com/archer-go/archer/internal/model"
)

// JaegerProtoBatchToSpans converts one api_v2 Batch into canonical spans.
// Mirrors ThriftBatchToSpans's reference-rewriting rule; unlike Thrift,
// api_v2 spans carry no separate parent_span_id field, so only existing
// references are consulted.
func JaegerProtoBatchToSpans(batch *idlpb.Batch) ([]*model.Span, error) {
	process := jaegerProtoProcessToCanonical(batch.Process)

	spans := make([]*model.Span, 0, len(batch.Spans))
	for _, ps := range batch.Spans {
		span, err := jaegerProtoSpanToCanonical(ps, process)
		if err != nil {
			return nil, err
		}
		spans = append(spans, span)
	}
	return spans, nil
}

func jaegerProtoSpanToCanonical(ps *idlpb.Span, batchProcess model.Process) (*model.Span, error) {
	traceID, err := model.TraceIDFromBytes(ps.TraceID)
	if err != nil {
		return nil, err
	}
	spanID, err := model.SpanIDFromBytes(ps.SpanID)
	if err != nil {
		return nil, err
	}

	references := make([]model.Reference, 0, len(ps.References))
	for _, ref := range ps.References {
		refTraceID, err := model.TraceIDFromBytes(ref.TraceID)
		if err != nil {
			return nil, err
		}
		refSpanID, err := model.SpanIDFromBytes(ref.SpanID)
		if err != nil {
			return nil, err
		}
		refType := model.ChildOf
		if ref.RefType == idlpb.SpanRefTypeFollowsFrom {
			refType = model.FollowsFrom
		}
		references = append(references, model.Reference{RefType: refType, TraceID: refTraceID, SpanID: refSpanID})
	}

	process := batchProcess
	if ps.Process != nil {
		process = jaegerProtoProcessToCanonical(ps.Process)
	}

	return &model.Span{
		TraceID:       traceID,
		SpanID:        spanID,
		OperationName: ps.OperationName,
		Flags:         ps.Flags,
		References:    references,
		Start:         time.Unix(0, ps.StartTimeUnixNano).UTC(),
		Duration:      time.Duration(ps.DurationNanos),
		Tags:          jaegerProtoTagsToCanonical(ps.Tags),
		Logs:          jaegerProtoLogsToCanonical(ps.Logs),
		Process:       process,
	}, nil
}

func jaegerProtoProcessToCanonical(p *idlpb.Process) model.Process {
	if p == nil {
		return model.Process{Service: resourceNoServiceName}
	}
	return model.Process{
		Service: p.ServiceName,
		Tags:    jaegerProtoTagsToCanonical(p.Tags),
	}
}

func jaegerProtoTagsToCanonical(tags []*idlpb.KeyValue) []model.Tag {
	out := make([]model.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, jaegerProtoTagToCanonical(t))
	}
	return out
}

func jaegerProtoTagToCanonical(t *idlpb.KeyValue) model.Tag {
	switch t.VType {
	case idlpb.ValueTypeBool:
		return model.NewBoolTag(t.Key, t.VBool)
	case idlpb.ValueTypeInt64:
		return model.NewInt64Tag(t.Key, t.VInt64)
	case idlpb.ValueTypeFloat64:
		return model.NewFloat64Tag(t.Key, t.VFloat64)
	case idlpb.ValueTypeBinary:
		return model.NewBinaryTag(t.Key, t.VBinary)
	default:
		return model.NewStringTag(t.Key, t.VStr)
	}
}

func jaegerProtoLogsToCanonical(logs []*idlpb.Log) []model.Log {
	out := make([]model.Log, 0, len(logs))
	for _, l := range logs {
		out = append(out, model.Log{
			Timestamp: time.Unix(0, l.TimestampUnixNano).UTC(),
			Fields:    jaegerProtoTagsToCanonical(l.Fields),
		})
	}
	return out
}
