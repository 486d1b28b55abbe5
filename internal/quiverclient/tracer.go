package quiverclient

import (
	"context"
	"strings"

	"github.com/archer-go/archer/internal/model"
)

// Tracer is the embedding application's single entry point: one per
// process, bound to one Connection.
type Tracer struct {
	conn            spanTransport
	process         model.Process
	excludePrefixes []string
}

// Option configures a Tracer at construction.
type Option func(*Tracer)

// WithExcludePrefixes extends the target-prefix list the tracer skips when
// deciding whether a log event should be captured, preventing a feedback
// loop from the tracer's own internals (and the QUIC stack beneath it)
// generating spans about themselves. The tracer's own package path and
// the quic-go package path are always excluded; this adds more.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(t *Tracer) { t.excludePrefixes = append(t.excludePrefixes, prefixes...) }
}

// defaultExcludePrefixes is always applied; without it the tracer's own
// activity (and the QUIC stack's) would generate spans about itself.
var defaultExcludePrefixes = []string{
	"github.com/archer-go/archer/internal/quiverclient",
	"github.com/quic-go/quic-go",
}

// NewTracer builds a Tracer reporting through conn as the named service,
// carrying processTags on every span's Process.
func NewTracer(conn spanTransport, service string, processTags []model.Tag, opts ...Option) *Tracer {
	t := &Tracer{
		conn:            conn,
		process:         model.Process{Service: service, Tags: processTags},
		excludePrefixes: append([]string{}, defaultExcludePrefixes...),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Excluded reports whether target falls under one of the tracer's excluded
// prefixes, and so must not be captured as a span or log event.
func (t *Tracer) Excluded(target string) bool {
	for _, prefix := range t.excludePrefixes {
		if strings.HasPrefix(target, prefix) {
			return true
		}
	}
	return false
}

type spanContextKey struct{}

// Start opens a new span. If ctx already carries an enclosing span, the
// new span inherits its trace id and records a ChildOf reference to it;
// otherwise a fresh top-level trace id is assigned. The returned context
// carries the new span so further nested Start calls (or Logger(ctx, ...))
// discover it.
func (t *Tracer) Start(ctx context.Context, operation string, opts ...SpanOption) (context.Context, *Span) {
	var options spanOptions
	for _, opt := range opts {
		opt(&options)
	}

	spanID := model.RandomSpanID()
	var traceID model.TraceID
	references := append([]model.Reference{}, options.followsFrom...)

	if parent, ok := SpanFromContext(ctx); ok {
		traceID = parent.TraceID()
		references = append(references, model.Reference{
			RefType: model.ChildOf,
			TraceID: traceID,
			SpanID:  parent.SpanID(),
		})
	} else {
		traceID = model.RandomTraceID()
	}

	span := newSpan(t.conn, traceID, spanID, operation, references, t.process, options.tags)
	return context.WithValue(ctx, spanContextKey{}, span), span
}

// SpanFromContext returns the span started by the nearest enclosing
// Tracer.Start call on ctx, if any.
func SpanFromContext(ctx context.Context) (*Span, bool) {
	span, ok := ctx.Value(spanContextKey{}).(*Span)
	return span, ok
}

// SpanOption configures one Start call.
type SpanOption func(*spanOptions)

type spanOptions struct {
	followsFrom []model.Reference
	tags        []model.Tag
}

// FollowsFrom records an additional FollowsFrom reference to another span,
// independent of (and in addition to) the ChildOf link synthesized from
// ctx's enclosing span.
func FollowsFrom(other *Span) SpanOption {
	return func(o *spanOptions) {
		o.followsFrom = append(o.followsFrom, model.Reference{
			RefType: model.FollowsFrom,
			TraceID: other.TraceID(),
			SpanID:  other.SpanID(),
		})
	}
}

// WithTags seeds the span's tag list at creation time.
func WithTags(tags ...model.Tag) SpanOption {
	return func(o *spanOptions) { o.tags = append(o.tags, tags...) }
}
