package spancodec

import (
	"testing"
	"time"

	"github.com/golang/snappy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archer-go/archer/internal/model"
)

func sampleSpan() *model.Span {
	return &model.Span{
		TraceID:       model.NewTraceID(1, 2),
		SpanID:        model.NewSpanID(3),
		OperationName: "GET /widgets",
		Flags:         1,
		References: []model.Reference{
			{RefType: model.ChildOf, TraceID: model.NewTraceID(1, 2), SpanID: model.NewSpanID(9)},
			{RefType: model.FollowsFrom, TraceID: model.NewTraceID(1, 2), SpanID: model.NewSpanID(10)},
		},
		Start:    time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC),
		Duration: 42 * time.Millisecond,
		Timing:   &model.Timing{Busy: 10 * time.Millisecond, Idle: 32 * time.Millisecond},
		Location: &model.Location{Filepath: "main.rs", Namespace: "archer::quiver", Lineno: 88},
		Thread:   &model.Thread{ID: 7, Name: "tokio-runtime-worker"},
		Tags: []model.Tag{
			model.NewStringTag("http.method", "GET"),
			model.NewBoolTag("error", false),
			model.NewInt64Tag("http.status_code", 200),
			model.NewFloat64Tag("sample.rate", 0.5),
			model.NewBinaryTag("blob", []byte{1, 2, 3}),
		},
		Logs: []model.Log{
			{
				Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 7000, time.UTC),
				Location:  &model.Location{Filepath: "main.rs", Namespace: "archer", Lineno: 90},
				Fields:    []model.Tag{model.NewStringTag("message", "handled")},
			},
		},
		Process: model.Process{
			Service: "widget-service",
			Version: "1.2.3",
			Tags:    []model.Tag{model.NewStringTag("hostname", "box1")},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	span := sampleSpan()

	encoded, err := Encode(span)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, span.TraceID, decoded.TraceID)
	assert.Equal(t, span.SpanID, decoded.SpanID)
	assert.Equal(t, span.OperationName, decoded.OperationName)
	assert.Equal(t, span.Flags, decoded.Flags)
	assert.Equal(t, span.References, decoded.References)
	assert.True(t, span.Start.Equal(decoded.Start))
	assert.Equal(t, span.Duration, decoded.Duration)
	assert.Equal(t, span.Timing, decoded.Timing)
	assert.Equal(t, span.Location, decoded.Location)
	assert.Equal(t, span.Thread, decoded.Thread)
	assert.Equal(t, span.Tags, decoded.Tags)
	require.Len(t, decoded.Logs, 1)
	assert.True(t, span.Logs[0].Timestamp.Equal(decoded.Logs[0].Timestamp))
	assert.Equal(t, span.Logs[0].Fields, decoded.Logs[0].Fields)
	assert.Equal(t, span.Process, decoded.Process)
}

func TestEncodeDecodeRoundTripMinimalSpan(t *testing.T) {
	span := &model.Span{
		TraceID:       model.NewTraceID(0, 1),
		SpanID:        model.NewSpanID(1),
		OperationName: "noop",
		Start:         time.Unix(0, 0).UTC(),
		Process:       model.Process{Service: "svc"},
	}

	encoded, err := Encode(span)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)

	assert.Nil(t, decoded.Timing)
	assert.Nil(t, decoded.Location)
	assert.Nil(t, decoded.Thread)
	assert.Empty(t, decoded.Tags)
	assert.Empty(t, decoded.Logs)
	assert.Equal(t, "svc", decoded.Process.Service)
}

func TestEncodeFrameDecodeFrameRoundTrip(t *testing.T) {
	span := sampleSpan()

	frame, err := EncodeFrame(span)
	require.NoError(t, err)

	decoded, err := DecodeFrame(frame)
	require.NoError(t, err)
	assert.Equal(t, span.OperationName, decoded.OperationName)
	assert.Equal(t, span.Tags, decoded.Tags)
}

func TestDecodeFrameRejectsOversizedPayload(t *testing.T) {
	huge := snappy.Encode(nil, make([]byte, MaxUncompressedSize+1))
	_, err := DecodeFrame(huge)
	assert.Error(t, err)
}
