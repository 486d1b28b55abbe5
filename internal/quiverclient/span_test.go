package quiverclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archer-go/archer/internal/model"
)

type captureTransport struct {
	spans []*model.Span
}

func (c *captureTransport) SendSpan(span *model.Span) {
	c.spans = append(c.spans, span)
}

func TestSpanEndSendsSpanOnce(t *testing.T) {
	transport := &captureTransport{}
	span := newSpan(transport, model.RandomTraceID(), model.RandomSpanID(), "op", nil, model.Process{Service: "svc"}, nil)

	span.End()
	span.End()

	require.Len(t, transport.spans, 1)
	assert.Equal(t, "op", transport.spans[0].OperationName)
}

func TestSpanEnterExitAccumulatesTiming(t *testing.T) {
	transport := &captureTransport{}
	span := newSpan(transport, model.RandomTraceID(), model.RandomSpanID(), "op", nil, model.Process{Service: "svc"}, nil)

	exit := span.Enter()
	time.Sleep(time.Millisecond)
	exit()

	span.End()
	require.Len(t, transport.spans, 1)

	var sawBusy bool
	for _, tag := range transport.spans[0].Tags {
		if tag.Key == "timing.busy_ns" {
			sawBusy = true
			assert.Greater(t, tag.VI64, int64(0))
		}
	}
	assert.True(t, sawBusy)
}

func TestSpanSetTagAndRecordAppendWithoutDedup(t *testing.T) {
	transport := &captureTransport{}
	span := newSpan(transport, model.RandomTraceID(), model.RandomSpanID(), "op", nil, model.Process{Service: "svc"}, nil)

	span.SetTag(model.NewStringTag("k", "v1"))
	span.Record(model.NewStringTag("k", "v2"))
	span.End()

	var matches int
	for _, tag := range transport.spans[0].Tags {
		if tag.Key == "k" {
			matches++
		}
	}
	assert.Equal(t, 2, matches)
}

func TestSpanEventFoldsLevelAndTargetIntoFields(t *testing.T) {
	transport := &captureTransport{}
	span := newSpan(transport, model.RandomTraceID(), model.RandomSpanID(), "op", nil, model.Process{Service: "svc"}, nil)

	span.Event(LevelWarn, "mypkg", "something happened", model.NewStringTag("extra", "1"))
	span.End()

	require.Len(t, transport.spans[0].Logs, 1)
	log := transport.spans[0].Logs[0]

	keys := make(map[string]string)
	for _, f := range log.Fields {
		keys[f.Key] = model.RenderTagValue(f)
	}
	assert.Equal(t, "Warn", keys["level"])
	assert.Equal(t, "mypkg", keys["target"])
	assert.Equal(t, "something happened", keys["message"])
	assert.Equal(t, "1", keys["extra"])
}
