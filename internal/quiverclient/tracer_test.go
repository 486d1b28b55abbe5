package quiverclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archer-go/archer/internal/model"
)

func TestTracerStartTopLevelAssignsRandomNonZeroTraceID(t *testing.T) {
	tracer := NewTracer(&captureTransport{}, "svc", nil)

	_, span := tracer.Start(context.Background(), "root")
	assert.False(t, span.TraceID().IsZero())
}

func TestTracerStartNestedInheritsTraceIDAndLinksChildOf(t *testing.T) {
	tracer := NewTracer(&captureTransport{}, "svc", nil)

	ctx, root := tracer.Start(context.Background(), "root")
	_, child := tracer.Start(ctx, "child")

	assert.Equal(t, root.TraceID(), child.TraceID())

	child.mu.Lock()
	refs := append([]model.Reference{}, child.span.References...)
	child.mu.Unlock()

	require.Len(t, refs, 1)
	assert.Equal(t, model.ChildOf, refs[0].RefType)
	assert.Equal(t, root.SpanID(), refs[0].SpanID)
}

func TestTracerFollowsFromAddsExtraReference(t *testing.T) {
	tracer := NewTracer(&captureTransport{}, "svc", nil)

	_, other := tracer.Start(context.Background(), "other")
	_, span := tracer.Start(context.Background(), "op", FollowsFrom(other))

	span.mu.Lock()
	refs := append([]model.Reference{}, span.span.References...)
	span.mu.Unlock()

	require.Len(t, refs, 1)
	assert.Equal(t, model.FollowsFrom, refs[0].RefType)
	assert.Equal(t, other.SpanID(), refs[0].SpanID)
}

func TestTracerExcludedChecksPrefixes(t *testing.T) {
	tracer := NewTracer(&captureTransport{}, "svc", nil)

	assert.True(t, tracer.Excluded("github.com/archer-go/archer/internal/quiverclient/connection"))
	assert.True(t, tracer.Excluded("github.com/quic-go/quic-go/internal"))
	assert.False(t, tracer.Excluded("myapp/handler"))
}

func TestSpanFromContextMissing(t *testing.T) {
	_, ok := SpanFromContext(context.Background())
	assert.False(t, ok)
}
