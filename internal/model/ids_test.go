package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceIDHexRoundTrip(t *testing.T) {
	id := NewTraceID(0x0102030405060708, 0x090a0b0c0d0e0f10)
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", id.String())

	parsed, err := TraceIDFromHex(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestTraceIDZeroIsReplaced(t *testing.T) {
	id := NewTraceID(0, 0)
	assert.False(t, id.IsZero())
}

func TestTraceIDFromBytesZeroIsReplaced(t *testing.T) {
	id, err := TraceIDFromBytes(make([]byte, 16))
	require.NoError(t, err)
	assert.False(t, id.IsZero())
}

func TestTraceIDFromBytesWrongLength(t *testing.T) {
	_, err := TraceIDFromBytes(make([]byte, 8))
	assert.Error(t, err)
}

func TestSpanIDHexRoundTrip(t *testing.T) {
	id := NewSpanID(0xdeadbeefcafebabe)
	assert.Equal(t, "deadbeefcafebabe", id.String())

	parsed, err := SpanIDFromHex(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
}

func TestSpanIDZeroIsReplaced(t *testing.T) {
	id := NewSpanID(0)
	assert.False(t, id.IsZero())
}

func TestSpanIDFromBytesWrongLength(t *testing.T) {
	_, err := SpanIDFromBytes(make([]byte, 4))
	assert.Error(t, err)
}
