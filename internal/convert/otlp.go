package convert

import (
	"encoding/json"
	"time"

	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	resourcepb "go.opentelemetry.io/proto/otlp/resource/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"

	"github.com/archer-go/archer/internal/model"
)

const resourceNoServiceName = "OTLPResourceNoServiceName"

// OTLPResourceSpansToSpans converts one ExportTraceServiceRequest's
// ResourceSpans slice into canonical spans.
func OTLPResourceSpansToSpans(resourceSpans []*tracepb.ResourceSpans) ([]*model.Span, error) {
	var out []*model.Span
	for _, rs := range resourceSpans {
		process := otlpResourceToProcess(rs.GetResource())
		for _, ss := range rs.GetScopeSpans() {
			scope := ss.GetScope()
			for _, span := range ss.GetSpans() {
				converted, err := otlpSpanToCanonical(span, process, scope)
				if err != nil {
					return nil, err
				}
				out = append(out, converted)
			}
		}
	}
	return out, nil
}

func otlpResourceToProcess(res *resourcepb.Resource) model.Process {
	if res == nil {
		return model.Process{Service: resourceNoServiceName}
	}
	service := ""
	var tags []model.Tag
	for _, kv := range res.GetAttributes() {
		if kv.GetKey() == "service.name" {
			service = otlpAnyValueToTag("service.name", kv.GetValue()).VStr
			continue
		}
		tags = append(tags, otlpAnyValueToTag(kv.GetKey(), kv.GetValue()))
	}
	if service == "" {
		service = resourceNoServiceName
	}
	return model.Process{Service: service, Tags: tags}
}

func otlpSpanToCanonical(span *tracepb.Span, process model.Process, scope *commonpb.InstrumentationScope) (*model.Span, error) {
	traceID, err := model.TraceIDFromBytes(span.GetTraceId())
	if err != nil {
		return nil, err
	}
	spanID, err := model.SpanIDFromBytes(span.GetSpanId())
	if err != nil {
		return nil, err
	}

	var references []model.Reference
	if parent := span.GetParentSpanId(); len(parent) == 8 && !isAllZero(parent) {
		parentID, err := model.SpanIDFromBytes(parent)
		if err != nil {
			return nil, err
		}
		references = append(references, model.Reference{RefType: model.ChildOf, TraceID: traceID, SpanID: parentID})
	}
	for _, link := range span.GetLinks() {
		linkTraceID, err := model.TraceIDFromBytes(link.GetTraceId())
		if err != nil {
			return nil, err
		}
		linkSpanID, err := model.SpanIDFromBytes(link.GetSpanId())
		if err != nil {
			return nil, err
		}
		references = append(references, model.Reference{RefType: model.FollowsFrom, TraceID: linkTraceID, SpanID: linkSpanID})
	}

	tags := make([]model.Tag, 0, len(span.GetAttributes()))
	for _, kv := range span.GetAttributes() {
		tags = append(tags, otlpAnyValueToTag(kv.GetKey(), kv.GetValue()))
	}
	tags = append(tags, otlpEnrichmentTags(span, scope)...)

	return &model.Span{
		TraceID:       traceID,
		SpanID:        spanID,
		OperationName: span.GetName(),
		Flags:         1,
		References:    references,
		Start:         time.Unix(0, int64(span.GetStartTimeUnixNano())).UTC(),
		Duration:      time.Duration(int64(span.GetEndTimeUnixNano()) - int64(span.GetStartTimeUnixNano())),
		Tags:          tags,
		Logs:          otlpEventsToLogs(span.GetEvents()),
		Process:       process,
	}, nil
}

// otlpEnrichmentTags synthesizes the fixed-key tags the UI expects when a
// span carries kind/status/tracestate/scope information beyond the
// protocol's zero values.
func otlpEnrichmentTags(span *tracepb.Span, scope *commonpb.InstrumentationScope) []model.Tag {
	var tags []model.Tag

	if kind := span.GetKind(); kind != tracepb.Span_SPAN_KIND_UNSPECIFIED {
		tags = append(tags, model.NewStringTag("span.kind", otlpSpanKindString(kind)))
	}
	if status := span.GetStatus(); status != nil {
		if code := status.GetCode(); code != tracepb.Status_STATUS_CODE_UNSET {
			tags = append(tags, model.NewStringTag("otel.status_code", otlpStatusCodeString(code)))
			if code == tracepb.Status_STATUS_CODE_ERROR {
				tags = append(tags, model.NewBoolTag("error", true))
			}
		}
		if msg := status.GetMessage(); msg != "" {
			tags = append(tags, model.NewStringTag("otel.status_description", msg))
		}
	}
	if ts := span.GetTraceState(); ts != "" {
		tags = append(tags, model.NewStringTag("w3c.tracestate", ts))
	}
	if scope != nil {
		if scope.GetName() != "" {
			tags = append(tags, model.NewStringTag("otel.library.name", scope.GetName()))
		}
		if scope.GetVersion() != "" {
			tags = append(tags, model.NewStringTag("otel.library.version", scope.GetVersion()))
		}
	}
	return tags
}

func otlpSpanKindString(kind tracepb.Span_SpanKind) string {
	switch kind {
	case tracepb.Span_SPAN_KIND_INTERNAL:
		return "internal"
	case tracepb.Span_SPAN_KIND_SERVER:
		return "server"
	case tracepb.Span_SPAN_KIND_CLIENT:
		return "client"
	case tracepb.Span_SPAN_KIND_PRODUCER:
		return "producer"
	case tracepb.Span_SPAN_KIND_CONSUMER:
		return "consumer"
	default:
		return "unspecified"
	}
}

func otlpStatusCodeString(code tracepb.Status_StatusCode) string {
	switch code {
	case tracepb.Status_STATUS_CODE_OK:
		return "OK"
	case tracepb.Status_STATUS_CODE_ERROR:
		return "ERROR"
	default:
		return "UNSET"
	}
}

func otlpEventsToLogs(events []*tracepb.Span_Event) []model.Log {
	out := make([]model.Log, 0, len(events))
	for _, ev := range events {
		fields := make([]model.Tag, 0, len(ev.GetAttributes())+1)
		if ev.GetName() != "" {
			fields = append(fields, model.NewStringTag("event", ev.GetName()))
		}
		for _, kv := range ev.GetAttributes() {
			fields = append(fields, otlpAnyValueToTag(kv.GetKey(), kv.GetValue()))
		}
		out = append(out, model.Log{
			Timestamp: time.Unix(0, int64(ev.GetTimeUnixNano())).UTC(),
			Fields:    fields,
		})
	}
	return out
}

// otlpAnyValueToTag maps an OTLP AnyValue onto the canonical model's closed
// tag-value set. Arrays and key-value lists are not representable in the
// canonical set and are serialized to a compact JSON string instead.
func otlpAnyValueToTag(key string, v *commonpb.AnyValue) model.Tag {
	switch x := v.GetValue().(type) {
	case *commonpb.AnyValue_StringValue:
		return model.NewStringTag(key, x.StringValue)
	case *commonpb.AnyValue_BoolValue:
		return model.NewBoolTag(key, x.BoolValue)
	case *commonpb.AnyValue_IntValue:
		return model.NewInt64Tag(key, x.IntValue)
	case *commonpb.AnyValue_DoubleValue:
		return model.NewFloat64Tag(key, x.DoubleValue)
	case *commonpb.AnyValue_BytesValue:
		return model.NewBinaryTag(key, x.BytesValue)
	case *commonpb.AnyValue_ArrayValue:
		return model.NewStringTag(key, anyValueArrayToJSON(x.ArrayValue))
	case *commonpb.AnyValue_KvlistValue:
		return model.NewStringTag(key, kvlistToJSON(x.KvlistValue))
	default:
		return model.NewStringTag(key, "")
	}
}

func anyValueArrayToJSON(arr *commonpb.ArrayValue) string {
	values := make([]any, 0, len(arr.GetValues()))
	for _, v := range arr.GetValues() {
		values = append(values, anyValueToPlain(v))
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func kvlistToJSON(kvlist *commonpb.KeyValueList) string {
	m := make(map[string]any, len(kvlist.GetValues()))
	for _, kv := range kvlist.GetValues() {
		m[kv.GetKey()] = anyValueToPlain(kv.GetValue())
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func anyValueToPlain(v *commonpb.AnyValue) any {
	switch x := v.GetValue().(type) {
	case *commonpb.AnyValue_StringValue:
		return x.StringValue
	case *commonpb.AnyValue_BoolValue:
		return x.BoolValue
	case *commonpb.AnyValue_IntValue:
		return x.IntValue
	case *commonpb.AnyValue_DoubleValue:
		return x.DoubleValue
	case *commonpb.AnyValue_BytesValue:
		return x.BytesValue
	case *commonpb.AnyValue_ArrayValue:
		values := make([]any, 0, len(x.ArrayValue.GetValues()))
		for _, e := range x.ArrayValue.GetValues() {
			values = append(values, anyValueToPlain(e))
		}
		return values
	case *commonpb.AnyValue_KvlistValue:
		m := make(map[string]any, len(x.KvlistValue.GetValues()))
		for _, kv := range x.KvlistValue.GetValues() {
			m[kv.GetKey()] = anyValueToPlain(kv.GetValue())
		}
		return m
	default:
		return nil
	}
}

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
