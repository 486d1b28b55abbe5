// Package convert holds the wire-format adapters: four input converters
// (Jaeger Thrift, Jaeger proto, OTLP proto, Quiver) into the canonical
// model, and the one output converter from canonical spans into the
// bundled UI's JSON shape.
package convert

import (
	"fmt"

	"github.com/archer-go/archer/internal/model"
	"github.com/archer-go/archer/internal/uimodel"
)

// processKey identifies a process for coalescing purposes: two spans in the
// same trace with the same service and the same tag set share one entry.
type processKey struct {
	service string
	tagsKey string
}

// SpansToUITrace groups a trace's spans into the UI JSON shape, coalescing
// duplicate (service, tags) processes into "p1", "p2", ... entries in
// first-seen order.
func SpansToUITrace(traceID model.TraceID, spans []*model.Span) uimodel.Trace {
	processIDs := make(map[processKey]string)
	processes := make(map[string]uimodel.Process)
	var order []processKey

	processIDFor := func(proc model.Process) string {
		key := processKey{service: proc.Service, tagsKey: tagsCacheKey(proc.Tags)}
		if id, ok := processIDs[key]; ok {
			return id
		}
		id := fmt.Sprintf("p%d", len(order)+1)
		processIDs[key] = id
		processes[id] = uimodel.Process{ServiceName: proc.Service, Tags: tagsToUI(proc.Tags)}
		order = append(order, key)
		return id
	}

	uiSpans := make([]uimodel.Span, 0, len(spans))
	for _, span := range spans {
		pid := processIDFor(span.Process)

		uiSpan := uimodel.Span{
			TraceID:       span.TraceID.String(),
			SpanID:        span.SpanID.String(),
			OperationName: span.OperationName,
			References:    referencesToUI(span.References),
			StartTime:     span.Start.UnixMicro(),
			Duration:      span.Duration.Microseconds(),
			Tags:          tagsToUI(span.Tags),
			Logs:          logsToUI(span.Logs),
			ProcessID:     pid,
			Warnings:      nil,
			Flags:         span.Flags,
		}
		if parent, ok := span.ParentSpanID(); ok {
			uiSpan.ParentSpanID = parent.String()
		}
		uiSpans = append(uiSpans, uiSpan)
	}

	return uimodel.Trace{
		TraceID:   traceID.String(),
		Spans:     uiSpans,
		Processes: processes,
	}
}

func referencesToUI(refs []model.Reference) []uimodel.Reference {
	out := make([]uimodel.Reference, 0, len(refs))
	for _, ref := range refs {
		out = append(out, uimodel.Reference{
			RefType: ref.RefType.String(),
			TraceID: ref.TraceID.String(),
			SpanID:  ref.SpanID.String(),
		})
	}
	return out
}

func tagsToUI(tags []model.Tag) []uimodel.KeyValue {
	out := make([]uimodel.KeyValue, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tagToUI(tag))
	}
	return out
}

func tagToUI(tag model.Tag) uimodel.KeyValue {
	switch tag.Type {
	case model.TagString:
		return uimodel.KeyValue{Key: tag.Key, Type: "string", Value: tag.VStr}
	case model.TagBool:
		return uimodel.KeyValue{Key: tag.Key, Type: "bool", Value: tag.VBool}
	case model.TagInt64:
		return uimodel.KeyValue{Key: tag.Key, Type: "int64", Value: tag.VI64}
	case model.TagFloat64:
		return uimodel.KeyValue{Key: tag.Key, Type: "float64", Value: tag.VF64}
	case model.TagBinary:
		return uimodel.KeyValue{Key: tag.Key, Type: "binary", Value: model.RenderTagValue(tag)}
	default:
		return uimodel.KeyValue{Key: tag.Key, Type: "string", Value: model.RenderTagValue(tag)}
	}
}

func logsToUI(logs []model.Log) []uimodel.Log {
	out := make([]uimodel.Log, 0, len(logs))
	for _, log := range logs {
		out = append(out, uimodel.Log{
			Timestamp: log.Timestamp.UnixMicro(),
			Fields:    tagsToUI(log.Fields),
		})
	}
	return out
}

// tagsCacheKey builds a string key for process-coalescing lookups. Tags
// are keyed in their original order: two processes with the same tag set
// in a different order stay distinct.
func tagsCacheKey(tags []model.Tag) string {
	key := ""
	for _, tag := range tags {
		key += tag.Key + "=" + model.RenderTagValue(tag) + "\x00"
	}
	return key
}
